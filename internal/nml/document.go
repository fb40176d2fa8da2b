// Package nml 把 Traktor 的 NML 会话文档解码为 domain.Archive。
//
// 约束：
// - 解码是纯函数：相同文档 + 相同参数 => 相同结果（文档不被并发修改即可并发调用）
// - 宽容降级：缺失属性解码为空串/零值，key 未命中得到未解析引用，绝不 panic
// - 不校验 NML 的 schema；结构不符合预期时产出空 collection/playlist 而不是报错
package nml

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document 抽象 NML 文档的最小查询能力：按标签名找后代节点 + 按名读属性。
// 解码流程只依赖这一个接口，XML 库的选择被隔离在实现里。
type Document interface {
	// FindAll 返回文档中所有标签为 tag 的节点（文档顺序，任意嵌套深度）。
	FindAll(tag string) []Node
}

// Node 是文档中的一个元素节点。
type Node interface {
	// FindAll 返回该节点子树内所有标签为 tag 的后代节点（文档顺序）。
	FindAll(tag string) []Node
	// Attr 按名读属性；属性缺失返回空串（绝不报错）。
	Attr(name string) string
}

// FromReader 用 goquery 解析 NML 文本并包装为 Document。
//
// 注意：底层 html 解析器会把标签名/属性名统一成小写，因此查询在实现里
// 做小写归一；属性值保持原样（TYPE="PLAYLIST" 的值区分大小写）。
func FromReader(r io.Reader) (Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return gqDocument{doc: doc}, nil
}

type gqDocument struct {
	doc *goquery.Document
}

func (d gqDocument) FindAll(tag string) []Node {
	return collect(d.doc.Find(strings.ToLower(tag)))
}

type gqNode struct {
	sel *goquery.Selection
}

func (n gqNode) FindAll(tag string) []Node {
	return collect(n.sel.Find(strings.ToLower(tag)))
}

func (n gqNode) Attr(name string) string {
	return n.sel.AttrOr(strings.ToLower(name), "")
}

func collect(sel *goquery.Selection) []Node {
	out := make([]Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, gqNode{sel: s})
	})
	return out
}
