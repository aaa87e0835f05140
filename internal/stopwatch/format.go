package stopwatch

import (
	"Stopwatch/internal/models"
	"fmt"
	"time"
)

// ZeroDisplay 重置后显示的文本
const ZeroDisplay = "00:00:00"

// Format 将时长格式化为 HH:MM:SS，按秒截断。
// 超过 99 小时时小时字段自动变宽，例如 100:00:00
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// ToggleLabel 合并按钮在各状态下的文字
func ToggleLabel(state models.StopwatchState) string {
	switch state {
	case models.StateRunning:
		return "Pause"
	case models.StatePaused:
		return "Continue"
	default:
		return "Start"
	}
}
