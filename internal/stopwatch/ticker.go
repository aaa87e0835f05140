package stopwatch

import (
	"context"
	"time"
)

// DefaultRefreshInterval 显示刷新周期
const DefaultRefreshInterval = 100 * time.Millisecond

// Every 每隔 interval 通过 post 调用一次 fn。
// post 必须同步执行传入的函数（界面中使用 fyne.DoAndWait），
// fn 返回 false 或 ctx 结束时循环退出
func Every(ctx context.Context, interval time.Duration, post func(func()), fn func() bool) {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			keep := true
			post(func() {
				keep = fn()
			})
			if !keep {
				return
			}
		}
	}
}
