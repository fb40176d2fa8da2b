// Package export 把解码后的 playlist 编码为可发布的文本产物。
//
// 规则：
// - Encode 均为纯函数：相同输入 => 相同字节（稳定输出，便于比对与测试）
// - 字段缺失允许为空；未命中 collection 的 entry 用原始 key 兜底，绝不丢行
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/John-Robertt/setlist/internal/domain"
)

const (
	FormatTracklist = "tracklist"
	FormatM3U       = "m3u"
)

// ValidFormat 校验导出格式名。
func ValidFormat(format string) bool {
	switch format {
	case FormatTracklist, FormatM3U:
		return true
	default:
		return false
	}
}

// Ext 返回导出文件扩展名（含点号）。
func Ext(format string) string {
	switch format {
	case FormatM3U:
		return ".m3u"
	default:
		return ".txt"
	}
}

// Encode 按 format 分发；format 必须先经 ValidFormat 校验。
func Encode(format string, p domain.Playlist) []byte {
	switch format {
	case FormatM3U:
		return M3U(p)
	default:
		return Tracklist(p)
	}
}

// Tracklist 生成人类可读的 set 列表：每行 "<offset>\t<artist> - <title>"。
// playlist 无计时数据时，offset 列退化为 1 起始的序号。
func Tracklist(p domain.Playlist) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# %s\n", p.Name)
	for i, e := range p.Tracks {
		mark := fmt.Sprintf("%02d", i+1)
		if e.Offset != nil {
			mark = e.Offset.Display
		}
		fmt.Fprintf(&b, "%s\t%s\n", mark, displayTitle(e))
	}
	return b.Bytes()
}

// M3U 生成扩展 M3U。location 直接用 track key：key 按 VOLUME+DIR+FILE 构造，
// 本身就是路径形态。
func M3U(p domain.Playlist) []byte {
	var b bytes.Buffer
	b.WriteString("#EXTM3U\n")
	fmt.Fprintf(&b, "#PLAYLIST:%s\n", p.Name)
	for _, e := range p.Tracks {
		// 时长未知：EXTINF 固定 -1。
		fmt.Fprintf(&b, "#EXTINF:-1,%s\n", displayTitle(e))
		fmt.Fprintf(&b, "%s\n", string(e.Key))
	}
	return b.Bytes()
}

func displayTitle(e domain.PlaylistEntry) string {
	if e.Track == nil {
		return string(e.Key)
	}
	artist := strings.TrimSpace(e.Track.Artist)
	title := strings.TrimSpace(e.Track.Title)
	switch {
	case artist == "" && title == "":
		return string(e.Key)
	case artist == "":
		return title
	case title == "":
		return artist
	default:
		return artist + " - " + title
	}
}
