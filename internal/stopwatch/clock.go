package stopwatch

import "time"

// Clock 抽象时间来源，测试时可替换
type Clock interface {
	Now() time.Time
}

// RealClock 使用系统时间
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }
