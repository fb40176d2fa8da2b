// Package timecode 实现 NML 打包整数的日期/时间编解码与偏移格式化。
//
// 约束：
// - 全部是纯函数：无 I/O、无状态、相同输入 => 相同输出
// - 不校验超范围输入（超范围只会得到无意义的输出，这是已记录的限制而不是缺陷）
// - 负数/非整秒遵循 Go 的截断除法与取余语义（已定义行为，不做特判）
package timecode

import (
	"fmt"

	"github.com/John-Robertt/setlist/internal/domain"
)

// DecodeDate 解码 STARTDATE 打包整数：year<<16 | month<<8 | day。
func DecodeDate(packed int) domain.CalendarDate {
	return domain.CalendarDate{
		Year:  packed >> 16,
		Month: (packed >> 8) % 256,
		Day:   packed % 256,
	}
}

// EncodeDate 是 DecodeDate 的精确逆：year*65536 + month*256 + day。
// month/day 超出 [0,255] 时往返不成立（不校验）。
func EncodeDate(d domain.CalendarDate) int {
	return d.Year*65536 + d.Month*256 + d.Day
}

// DecodeTime 把 STARTTIME（当日秒数）拆为时/分/秒。
// 对任意非负 t 满足：Hours*3600 + Minutes*60 + Seconds == t。
func DecodeTime(total int) domain.ClockTime {
	h := total / 3600
	return domain.ClockTime{
		Hours:   h,
		Minutes: (total - 3600*h) / 60,
		Seconds: total % 60,
	}
}

// FormatTime 把秒数格式化为 "HH:MM:SS"；stripHours 为 true 时省略小时段（"MM:SS"）。
// 每段补零到 2 位。stripHours 由调用方按整个 playlist 统一决定，而不是逐曲目判断。
func FormatTime(totalSeconds int, stripHours bool) string {
	t := DecodeTime(totalSeconds)
	if stripHours {
		return fmt.Sprintf("%02d:%02d", t.Minutes, t.Seconds)
	}
	return fmt.Sprintf("%02d:%02d:%02d", t.Hours, t.Minutes, t.Seconds)
}
