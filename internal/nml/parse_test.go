package nml

import "testing"

func TestParse_EndToEnd(t *testing.T) {
	doc := mustDoc(t, `<?xml version="1.0" encoding="UTF-8" standalone="no" ?>
<NML VERSION="19">
  <HEAD COMPANY="www.native-instruments.com" PROGRAM="Traktor"></HEAD>
  <COLLECTION ENTRIES="1">
    <ENTRY TITLE="Song" ARTIST="Artist">
      <LOCATION VOLUME="C:" DIR="/Music/" FILE="song.mp3"/>
    </ENTRY>
  </COLLECTION>
  <PLAYLISTS>
    <NODE TYPE="PLAYLIST" NAME="Set1">
      <PLAYLIST ENTRIES="1" TYPE="LIST" UUID="u1">
        <ENTRY><PRIMARYKEY TYPE="TRACK" KEY="C:/Music/song.mp3"/></ENTRY>
      </PLAYLIST>
    </NODE>
  </PLAYLISTS>
</NML>`)

	a := Parse(doc, 1, false)

	if a.Format != "Traktor NML" {
		t.Fatalf("期望 format=Traktor NML，实际 %q", a.Format)
	}
	tr, ok := a.Collection["C:/Music/song.mp3"]
	if !ok || tr.Title != "Song" {
		t.Fatalf("collection 不符合预期：%+v", a.Collection)
	}
	if len(a.Playlists) != 1 || a.Playlists[0].Name != "Set1" {
		t.Fatalf("playlists 不符合预期：%+v", a.Playlists)
	}
	e := a.Playlists[0].Tracks[0]
	if !e.PlayedPublic {
		t.Fatalf("无 EXTENDEDDATA 时 PlayedPublic 应默认 true")
	}
	if e.Start != nil || e.Offset != nil {
		t.Fatalf("无 EXTENDEDDATA 时不应有计时字段：start=%+v offset=%+v", e.Start, e.Offset)
	}
	if e.Track != tr {
		t.Fatalf("entry 应引用 collection 中的同一 Track 实例")
	}
}

func TestParse_EmptyCollectionStillResolvesPlaylists(t *testing.T) {
	doc := mustDoc(t, `<NML VERSION="19">
  <COLLECTION ENTRIES="0"></COLLECTION>
  <PLAYLISTS>
    <NODE TYPE="PLAYLIST" NAME="Ghost">
      <PLAYLIST ENTRIES="1" TYPE="LIST" UUID="u1">
        <ENTRY><PRIMARYKEY TYPE="TRACK" KEY="anything"/></ENTRY>
      </PLAYLIST>
    </NODE>
  </PLAYLISTS>
</NML>`)

	a := Parse(doc, 1, false)
	if len(a.Collection) != 0 {
		t.Fatalf("期望空 collection，实际 %+v", a.Collection)
	}
	if len(a.Playlists) != 1 || len(a.Playlists[0].Tracks) != 1 {
		t.Fatalf("playlist 仍应被解析：%+v", a.Playlists)
	}
	if a.Playlists[0].Tracks[0].Track != nil {
		t.Fatalf("空 collection 下所有引用都应为 nil")
	}
}

func TestParse_MalformedDocumentYieldsEmptyResult(t *testing.T) {
	// 结构不符合预期的文档只会得到空结果，不定义专门的错误类型。
	doc := mustDoc(t, `<whatever><unrelated/></whatever>`)

	a := Parse(doc, 1, false)
	if len(a.Collection) != 0 || len(a.Playlists) != 0 {
		t.Fatalf("期望空结果：%+v", a)
	}
}
