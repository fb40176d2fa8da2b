package nml

import (
	"strconv"
	"time"

	"github.com/John-Robertt/setlist/internal/domain"
	"github.com/John-Robertt/setlist/internal/timecode"
)

// ResolvePlaylists 扫描全部 playlist 节点，把每个 entry 解析到 collection 曲目，
// 解码可选的播放元数据，并按 startTrackIndex / onlyPlayedTracks 过滤。
//
// 规则：
// - 只选 TYPE=="PLAYLIST" 的 NODE（folder 等其他类型跳过），嵌套深度不限
// - entry 顺序 = 文档顺序；过滤后保持相对顺序
// - startTrackIndex 是 1 起始且含该位置；过滤作用在“原始序列”的 0 起始位置上
//   （position >= startTrackIndex-1，因此 <=1 等价于全保留）
// - key 未命中 collection => Track 为 nil（不是错误；允许引用已删除的曲目）
// - 无 EXTENDEDDATA => PlayedPublic 默认 true、无计时字段
//
// 每个 playlist 的过滤结果在返回前由 annotateOffsets 原地标注偏移。
func ResolvePlaylists(doc Document, col domain.Collection, startTrackIndex int, onlyPlayedTracks bool) []domain.Playlist {
	playlists := make([]domain.Playlist, 0, 4)
	for _, n := range doc.FindAll("NODE") {
		if n.Attr("TYPE") != "PLAYLIST" {
			continue
		}

		pl := domain.Playlist{Name: n.Attr("NAME")}
		for pos, e := range playlistEntries(n) {
			// 先按原始位置过滤，再按 played 过滤（顺序固定）。
			if pos < startTrackIndex-1 {
				continue
			}
			ent := resolveEntry(e, col)
			if onlyPlayedTracks && !ent.PlayedPublic {
				continue
			}
			pl.Tracks = append(pl.Tracks, ent)
		}

		annotateOffsets(&pl)
		playlists = append(playlists, pl)
	}
	return playlists
}

// playlistEntries 收集一个 playlist NODE 下属 PLAYLIST 的全部 ENTRY（文档顺序）。
func playlistEntries(n Node) []Node {
	var entries []Node
	for _, p := range n.FindAll("PLAYLIST") {
		entries = append(entries, p.FindAll("ENTRY")...)
	}
	return entries
}

func resolveEntry(e Node, col domain.Collection) domain.PlaylistEntry {
	ent := domain.PlaylistEntry{
		// 无 EXTENDEDDATA 时默认已播放（仅预听的曲目才会带 PLAYEDPUBLIC=0）。
		PlayedPublic: true,
	}

	if pks := e.FindAll("PRIMARYKEY"); len(pks) > 0 {
		ent.Key = domain.TrackKey(pks[0].Attr("KEY"))
	}
	ent.Track = col[ent.Key] // 未命中 => nil

	eds := e.FindAll("EXTENDEDDATA")
	if len(eds) == 0 {
		return ent
	}
	ed := eds[0]

	ent.PlayedPublic = atoi(ed.Attr("PLAYEDPUBLIC")) != 0

	d := timecode.DecodeDate(atoi(ed.Attr("STARTDATE")))
	c := timecode.DecodeTime(atoi(ed.Attr("STARTTIME")))
	ent.Start = &domain.StartMarker{
		Date: d,
		Time: c,
		At:   time.Date(d.Year, time.Month(d.Month), d.Day, c.Hours, c.Minutes, c.Seconds, 0, time.UTC),
	}
	return ent
}

// atoi 宽容解析整数属性：缺失/非法 => 0。
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
