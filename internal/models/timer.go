package models

import (
	"time"
)

// StopwatchState 秒表的三种状态
type StopwatchState int

const (
	StateReset StopwatchState = iota
	StateRunning
	StatePaused
)

func (s StopwatchState) String() string {
	switch s {
	case StateReset:
		return "reset"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	}
	return "unknown"
}

// Snapshot 某一时刻秒表的只读视图
type Snapshot struct {
	State       StopwatchState
	Accumulated time.Duration // 已结束的运行段累计时长
	Elapsed     time.Duration // 包含当前运行段的总时长
}
