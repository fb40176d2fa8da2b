package nml

import (
	"fmt"
	"os"
	"time"

	"github.com/John-Robertt/setlist/internal/domain"
	"github.com/John-Robertt/setlist/internal/timecode"
)

// warnHoursMismatch 在两种 hasHours 推导不一致时被调用（测试可替换）。
// 不一致说明编解码/算术有 bug，必须暴露出来，但绝不允许污染输出：
// 输出始终采用规范方法（整数 Duration 比较）的结果。
var warnHoursMismatch = func(playlist string, canonical, alt bool) {
	fmt.Fprintf(os.Stderr, "警告：playlist %q 的 hasHours 交叉校验不一致（canonical=%v float=%v），已采用 canonical\n",
		playlist, canonical, alt)
}

// annotateOffsets 原地标注每条曲目相对首曲的偏移秒数与显示串。
//
// 规则：
// - 首曲无起始时刻 => 整个 playlist 不做任何标注（“该 playlist 无计时”，不是错误）
// - hasHours 由“最后一个带起始时刻的曲目 − 首曲”的整小时差是否大于零决定，
//   且统一作用于该 playlist 的全部偏移格式（不逐曲目判断）
// - 偏移可能为负（源顺序不保证单调，已定义行为，不做防御）
// - 无起始时刻的曲目不标注偏移（偏移对它没有定义）
func annotateOffsets(p *domain.Playlist) {
	if len(p.Tracks) == 0 || p.Tracks[0].Start == nil {
		return
	}
	first := p.Tracks[0].Start.At

	last := first
	for i := len(p.Tracks) - 1; i >= 0; i-- {
		if p.Tracks[i].Start != nil {
			last = p.Tracks[i].Start.At
			break
		}
	}

	span := last.Sub(first)
	hasHours := span >= time.Hour
	// 交叉校验：用浮点小时数独立推导一次。两者理论上恒等，
	// 不一致只可能来自舍入/算术 bug；此时采用 canonical 并告警。
	if alt := int(span.Hours()) > 0; alt != hasHours {
		warnHoursMismatch(p.Name, hasHours, alt)
	}

	for i := range p.Tracks {
		e := &p.Tracks[i]
		if e.Start == nil {
			continue
		}
		secs := int(e.Start.At.Sub(first) / time.Second)
		e.Offset = &domain.Offset{
			Seconds: secs,
			Display: timecode.FormatTime(secs, !hasHours),
		}
	}
}
