package stopwatch

import (
	"Stopwatch/internal/models"
	"time"
)

// Transition 描述一次操作前后的状态
type Transition struct {
	From    models.StopwatchState
	To      models.StopwatchState
	Elapsed time.Duration // 操作发生时的总时长
	At      time.Time
	Started time.Time // 本轮计时首次开始的时间，Reset 状态下为零值
	Pauses  int
}

// Changed 返回状态是否发生了变化
func (t Transition) Changed() bool {
	return t.From != t.To
}

// Stopwatch 秒表状态机。不加锁，所有调用必须在同一个 goroutine 上
type Stopwatch struct {
	clock       Clock
	state       models.StopwatchState
	reference   time.Time     // 当前运行段的起点，仅在 Running 时有效
	accumulated time.Duration // 之前所有运行段的累计
	started     time.Time
	pauses      int
}

// New 创建一个处于 Reset 状态的秒表，clock 为 nil 时使用系统时间
func New(clock Clock) *Stopwatch {
	if clock == nil {
		clock = RealClock{}
	}
	return &Stopwatch{
		clock: clock,
		state: models.StateReset,
	}
}

// Toggle 开始 / 暂停 / 继续
func (s *Stopwatch) Toggle() Transition {
	if s.state == models.StateRunning {
		return s.Pause()
	}
	return s.Start()
}

// Start 从 Reset 或 Paused 进入 Running，其他状态下不做任何事
func (s *Stopwatch) Start() Transition {
	now := s.clock.Now()
	from := s.state

	switch s.state {
	case models.StateReset:
		s.accumulated = 0
		s.started = now
		s.reference = now
		s.state = models.StateRunning
	case models.StatePaused:
		s.reference = now
		s.state = models.StateRunning
	}

	return s.transition(from, now)
}

// Pause 仅在 Running 时有效
func (s *Stopwatch) Pause() Transition {
	now := s.clock.Now()
	from := s.state

	if s.state == models.StateRunning {
		s.accumulated += segment(s.reference, now)
		s.reference = time.Time{}
		s.pauses++
		s.state = models.StatePaused
	}

	return s.transition(from, now)
}

// Reset 任何状态下都可以调用，返回值中的 Elapsed 是重置前的总时长
func (s *Stopwatch) Reset() Transition {
	now := s.clock.Now()
	tr := s.transition(s.state, now)
	tr.To = models.StateReset

	s.state = models.StateReset
	s.accumulated = 0
	s.reference = time.Time{}
	s.started = time.Time{}
	s.pauses = 0

	return tr
}

// State 当前状态
func (s *Stopwatch) State() models.StopwatchState {
	return s.state
}

// Accumulated 不含当前运行段的累计时长
func (s *Stopwatch) Accumulated() time.Duration {
	return s.accumulated
}

// Elapsed 总时长
func (s *Stopwatch) Elapsed() time.Duration {
	return s.elapsedAt(s.clock.Now())
}

func (s *Stopwatch) Snapshot() models.Snapshot {
	return models.Snapshot{
		State:       s.state,
		Accumulated: s.accumulated,
		Elapsed:     s.Elapsed(),
	}
}

// Display 刷新回调使用：只有 Running 时才需要重绘
func (s *Stopwatch) Display() (string, bool) {
	if s.state != models.StateRunning {
		return "", false
	}
	return Format(s.Elapsed()), true
}

func (s *Stopwatch) elapsedAt(now time.Time) time.Duration {
	if s.state == models.StateRunning {
		return s.accumulated + segment(s.reference, now)
	}
	return s.accumulated
}

func (s *Stopwatch) transition(from models.StopwatchState, now time.Time) Transition {
	return Transition{
		From:    from,
		To:      s.state,
		Elapsed: s.elapsedAt(now),
		At:      now,
		Started: s.started,
		Pauses:  s.pauses,
	}
}

// 时钟回拨时不让累计时间减少
func segment(from, to time.Time) time.Duration {
	if d := to.Sub(from); d > 0 {
		return d
	}
	return 0
}
