package storage

import (
	"Stopwatch/internal/models"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Database 保存已结束的计时记录。只记录重置前的总时长，
// 秒表启动时不会从这里恢复任何状态
type Database struct {
	db *sql.DB
}

func NewDatabase(path string) (*Database, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", path, err)
	}

	database := &Database{db: db}
	if err := database.initTables(); err != nil {
		db.Close()
		return nil, err
	}
	return database, nil
}

func (d *Database) initTables() error {
	// 时间以毫秒时间戳保存，范围查询直接比较整数
	_, err := d.db.Exec(`
        CREATE TABLE IF NOT EXISTS sessions (
            id TEXT PRIMARY KEY,
            started_at INTEGER NOT NULL,
            ended_at INTEGER NOT NULL,
            elapsed_ms INTEGER NOT NULL,
            pauses INTEGER NOT NULL DEFAULT 0
        )
    `)
	if err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}

	_, err = d.db.Exec(`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at)`)
	if err != nil {
		return fmt.Errorf("create sessions index: %w", err)
	}
	return nil
}

// SaveSession 写入一条记录，ID 为空时自动生成
func (d *Database) SaveSession(record *models.SessionRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	_, err := d.db.Exec(`
        INSERT INTO sessions (id, started_at, ended_at, elapsed_ms, pauses)
        VALUES (?, ?, ?, ?, ?)
    `, record.ID, record.StartedAt.UnixMilli(), record.EndedAt.UnixMilli(), record.Elapsed.Milliseconds(), record.Pauses)
	if err != nil {
		return fmt.Errorf("insert session %s: %w", record.ID, err)
	}
	return nil
}

// RecentSessions 按开始时间倒序返回最近的记录
func (d *Database) RecentSessions(limit int) ([]*models.SessionRecord, error) {
	rows, err := d.db.Query(`
        SELECT id, started_at, ended_at, elapsed_ms, pauses
        FROM sessions
        ORDER BY started_at DESC
        LIMIT ?
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var records []*models.SessionRecord
	for rows.Next() {
		var (
			record             models.SessionRecord
			started, ended, ms int64
		)
		if err := rows.Scan(&record.ID, &started, &ended, &ms, &record.Pauses); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		record.StartedAt = time.UnixMilli(started)
		record.EndedAt = time.UnixMilli(ended)
		record.Elapsed = time.Duration(ms) * time.Millisecond
		records = append(records, &record)
	}
	return records, rows.Err()
}

// GetSessionStats 统计 [startDate, endDate] 内开始的记录
func (d *Database) GetSessionStats(startDate, endDate time.Time) (*models.SessionStats, error) {
	var (
		count          int
		total, longest int64
	)

	err := d.db.QueryRow(`
        SELECT
            COUNT(*) as sessions,
            COALESCE(SUM(elapsed_ms), 0) as total_elapsed,
            COALESCE(MAX(elapsed_ms), 0) as longest
        FROM sessions
        WHERE started_at BETWEEN ? AND ?
    `, startDate.UnixMilli(), endDate.UnixMilli()).Scan(&count, &total, &longest)
	if err != nil {
		return nil, fmt.Errorf("query session stats: %w", err)
	}

	stats := &models.SessionStats{
		TotalSessions: count,
		TotalElapsed:  time.Duration(total) * time.Millisecond,
		Longest:       time.Duration(longest) * time.Millisecond,
	}
	if count > 0 {
		stats.Average = stats.TotalElapsed / time.Duration(count)
	}
	return stats, nil
}

func (d *Database) DeleteSession(id string) error {
	_, err := d.db.Exec("DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

// ClearSessions 清空全部历史
func (d *Database) ClearSessions() error {
	if _, err := d.db.Exec("DELETE FROM sessions"); err != nil {
		return fmt.Errorf("clear sessions: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	return d.db.Close()
}
