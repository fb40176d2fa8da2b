package nml

import (
	"strings"
	"testing"
)

func mustDoc(t *testing.T, src string) Document {
	t.Helper()
	doc, err := FromReader(strings.NewReader(src))
	if err != nil {
		t.Fatalf("解析 NML 失败：%v", err)
	}
	return doc
}

func TestExtractCollection_KeyConcat(t *testing.T) {
	doc := mustDoc(t, `<?xml version="1.0" encoding="UTF-8" standalone="no" ?>
<NML VERSION="19">
  <COLLECTION ENTRIES="1">
    <ENTRY TITLE="Song" ARTIST="Artist">
      <LOCATION VOLUME="C:" DIR="/Music/" FILE="song.mp3" VOLUMEID="abc"/>
    </ENTRY>
  </COLLECTION>
</NML>`)

	col := ExtractCollection(doc)
	if len(col) != 1 {
		t.Fatalf("期望 1 条曲目，实际 %d", len(col))
	}
	// key = VOLUME+DIR+FILE 原样拼接，无分隔符。
	tr, ok := col["C:/Music/song.mp3"]
	if !ok {
		t.Fatalf("期望 key=C:/Music/song.mp3，实际 %+v", col)
	}
	if tr.Title != "Song" || tr.Artist != "Artist" {
		t.Fatalf("曲目字段不符合预期：%+v", tr)
	}
	if string(tr.Key) != "C:/Music/song.mp3" {
		t.Fatalf("期望 Track.Key 与映射 key 逐字符一致，实际 %q", tr.Key)
	}
}

func TestExtractCollection_DuplicateKeyLastWins(t *testing.T) {
	doc := mustDoc(t, `<NML VERSION="19">
  <COLLECTION ENTRIES="2">
    <ENTRY TITLE="Old" ARTIST="A">
      <LOCATION VOLUME="C:" DIR="/Music/" FILE="song.mp3"/>
    </ENTRY>
    <ENTRY TITLE="New" ARTIST="B">
      <LOCATION VOLUME="C:" DIR="/Music/" FILE="song.mp3"/>
    </ENTRY>
  </COLLECTION>
</NML>`)

	col := ExtractCollection(doc)
	if len(col) != 1 {
		t.Fatalf("期望相同 (V,D,F) 合并为 1 条，实际 %d", len(col))
	}
	if got := col["C:/Music/song.mp3"].Title; got != "New" {
		t.Fatalf("期望 last-wins（Title=New），实际 %q", got)
	}
}

func TestExtractCollection_MissingAttrsDecodeEmpty(t *testing.T) {
	doc := mustDoc(t, `<NML VERSION="19">
  <COLLECTION ENTRIES="1">
    <ENTRY>
      <LOCATION DIR="/x/" FILE="a.mp3"/>
    </ENTRY>
  </COLLECTION>
</NML>`)

	col := ExtractCollection(doc)
	tr, ok := col["/x/a.mp3"] // VOLUME 缺失 => 空串参与拼接
	if !ok {
		t.Fatalf("期望 key=/x/a.mp3，实际 %+v", col)
	}
	if tr.Title != "" || tr.Artist != "" {
		t.Fatalf("缺失属性应解码为空串，实际 %+v", tr)
	}
}

func TestExtractCollection_EntryWithoutLocationSkipped(t *testing.T) {
	doc := mustDoc(t, `<NML VERSION="19">
  <COLLECTION ENTRIES="2">
    <ENTRY TITLE="NoLoc" ARTIST="A"></ENTRY>
    <ENTRY TITLE="Ok" ARTIST="B">
      <LOCATION VOLUME="D:" DIR="/y/" FILE="b.mp3"/>
    </ENTRY>
  </COLLECTION>
</NML>`)

	col := ExtractCollection(doc)
	if len(col) != 1 {
		t.Fatalf("无 LOCATION 的条目应被跳过，期望 1 条，实际 %d", len(col))
	}
}

func TestExtractCollection_EmptyDocument(t *testing.T) {
	doc := mustDoc(t, `<NML VERSION="19"><COLLECTION ENTRIES="0"></COLLECTION></NML>`)
	if col := ExtractCollection(doc); len(col) != 0 {
		t.Fatalf("期望空映射，实际 %+v", col)
	}

	// 连 COLLECTION 节点都没有：同样是空映射，不是错误。
	doc2 := mustDoc(t, `<NML VERSION="19"></NML>`)
	if col := ExtractCollection(doc2); len(col) != 0 {
		t.Fatalf("期望空映射，实际 %+v", col)
	}
}
