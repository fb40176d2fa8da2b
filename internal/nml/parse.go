package nml

import "github.com/John-Robertt/setlist/internal/domain"

// Parse 是唯一的公共入口：把一个 NML 文档解码为 Archive。
//
// 流程（单趟、同步）：
// 1) ExtractCollection 构建 key -> Track 映射
// 2) ResolvePlaylists 解析/过滤 playlist 并标注偏移
// 3) 组装 {collection, playlists, format}
//
// Parse 不做 I/O；文档只读的前提下可被多处并发调用（每次调用构建全新结果，
// 调用之间不共享可变状态）。
func Parse(doc Document, startTrackIndex int, onlyPlayedTracks bool) domain.Archive {
	col := ExtractCollection(doc)
	return domain.Archive{
		Collection: col,
		Playlists:  ResolvePlaylists(doc, col, startTrackIndex, onlyPlayedTracks),
		Format:     domain.FormatTraktorNML,
	}
}
