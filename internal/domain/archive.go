package domain

import "time"

// FormatTraktorNML 是 Archive.Format 的固定值（来源格式标记）。
const FormatTraktorNML = "Traktor NML"

// TrackKey 是曲目的唯一主键：LOCATION 的 VOLUME+DIR+FILE 原样拼接（无分隔符）。
//
// 约束：
// - 拼接规则必须与 playlist 的 PRIMARYKEY KEY 逐字符一致（NML 直接存该拼接串，
//   而不是结构化引用 collection 节点）
// - key 是不透明字符串，不做任何校验/规范化（宁可查不到，也不允许改写）
type TrackKey string

// Track 是 collection 中的一条曲目（提取后不可变）。
// 字段允许为空串（NML 由用户编辑，缺失属性解码为空而不是报错）。
type Track struct {
	Key    TrackKey `json:"key"`
	Title  string   `json:"title"`
	Artist string   `json:"artist"`
}

// Collection 是 key -> Track 的映射。
//
// 规则：重复 key 后写覆盖先写（last-wins）。真实 NML 在元数据被编辑后
// 常出现重复条目，覆盖是幂等写入而不是错误。
type Collection map[TrackKey]*Track

// CalendarDate 是 STARTDATE 解码后的日历日期。
// 超范围输入不校验（与打包格式的位运算语义保持一致）。
type CalendarDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// ClockTime 是 STARTTIME（当日秒数）解码后的时钟时间。
type ClockTime struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// StartMarker 记录一条 playlist entry 被实际播放的起始时刻。
// 仅当该 entry 带 EXTENDEDDATA 时存在。
type StartMarker struct {
	Date CalendarDate `json:"date"`
	Time ClockTime    `json:"time"`
	// At 是 Date+Time 合成的绝对时刻（UTC），供 offset 计算使用。
	At time.Time `json:"at"`
}

// Offset 是该曲目相对首曲起始时刻的已播放偏移。
//
// 注意：Seconds 可能为负（源顺序不保证单调，这是已定义但少见的行为，不做防御）。
type Offset struct {
	Seconds int    `json:"seconds"`
	Display string `json:"display"`
}

// PlaylistEntry 是 playlist 中的一个位置。
//
// 不变量：Track 非 nil 时，Track.Key 与 Key 逐字符相等。
// Track 是对 Collection 的引用而非所有权；引用缺失（key 未命中）不是错误，
// 允许 playlist 引用已从 collection 删除的曲目。
type PlaylistEntry struct {
	Key   TrackKey `json:"key"`
	Track *Track   `json:"track,omitempty"`

	// PlayedPublic：无 EXTENDEDDATA 时默认 true（仅排队/预听的曲目才会被标记为 0）。
	PlayedPublic bool `json:"played_public"`

	Start  *StartMarker `json:"start,omitempty"`
	Offset *Offset      `json:"offset,omitempty"`
}

// Playlist 是一个命名的曲目序列（过滤后仍保持文档顺序，即 UI 排序）。
type Playlist struct {
	Name   string          `json:"name"`
	Tracks []PlaylistEntry `json:"tracks"`
}

// Archive 是一次解码的最终结果：collection 映射 + 文档顺序的 playlist 列表。
type Archive struct {
	Collection Collection `json:"collection"`
	Playlists  []Playlist `json:"playlists"`
	Format     string     `json:"format"`
}
