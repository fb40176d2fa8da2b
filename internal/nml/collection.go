package nml

import "github.com/John-Robertt/setlist/internal/domain"

// ExtractCollection 扫描 COLLECTION 下全部 ENTRY，构建 key -> Track 的映射。
//
// 规则：
// - key = LOCATION 的 VOLUME+DIR+FILE 原样拼接（无分隔符）；必须与 playlist 的
//   PRIMARYKEY KEY 构造逐字符一致，否则 playlist 解析无法命中
// - 缺失属性解码为空串（不是错误）
// - 重复 key 后写覆盖先写（last-wins，幂等覆盖而不是错误）
// - 无 ENTRY 时返回空映射（不是错误）
//
// 注意：不带 LOCATION 的 ENTRY 没有可用的 key，直接跳过。
func ExtractCollection(doc Document) domain.Collection {
	col := make(domain.Collection)
	for _, c := range doc.FindAll("COLLECTION") {
		for _, e := range c.FindAll("ENTRY") {
			locs := e.FindAll("LOCATION")
			if len(locs) == 0 {
				continue
			}
			loc := locs[0]
			key := domain.TrackKey(loc.Attr("VOLUME") + loc.Attr("DIR") + loc.Attr("FILE"))
			col[key] = &domain.Track{
				Key:    key,
				Title:  e.Attr("TITLE"),
				Artist: e.Attr("ARTIST"),
			}
		}
	}
	return col
}
