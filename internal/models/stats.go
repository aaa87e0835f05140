package models

import "time"

// SessionRecord 一次从开始到重置的完整计时
type SessionRecord struct {
	ID        string
	StartedAt time.Time
	EndedAt   time.Time
	Elapsed   time.Duration
	Pauses    int
}

type SessionStats struct {
	TotalSessions int
	TotalElapsed  time.Duration
	Longest       time.Duration
	Average       time.Duration
}
