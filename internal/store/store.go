// Package store persists privacy-conscious site analytics in SQLite:
// visits keyed by a salted IP hash, assistant conversations and voice
// commands.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// Retention is how long visitor rows are kept.
const Retention = 365 * 24 * time.Hour

// Visit is one tracked page view.
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// Chat is one assistant exchange.
type Chat struct {
	Message   string    `json:"message"`
	Topic     string    `json:"topic"`
	Reply     string    `json:"reply"`
	Timestamp time.Time `json:"timestamp"`
}

// Command is one recognised voice command.
type Command struct {
	Transcript string    `json:"transcript"`
	Phrase     string    `json:"phrase"`
	Action     string    `json:"action"`
	Timestamp  time.Time `json:"timestamp"`
}

// Count pairs a label with its frequency.
type Count struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// Stats summarises activity for the admin dashboard.
type Stats struct {
	TotalVisitors    int64   `json:"total_visitors"`
	UniqueVisitors   int64   `json:"unique_visitors"`
	VisitorsToday    int64   `json:"visitors_today"`
	VisitorsThisWeek int64   `json:"visitors_this_week"`
	TotalChats       int64   `json:"total_chats"`
	TopTopics        []Count `json:"top_topics"`
	TotalCommands    int64   `json:"total_commands"`
	TopCommands      []Count `json:"top_commands"`
	RecentVisitors   []Visit `json:"recent_visitors"`
}

// Store wraps the SQLite handle.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open database %s", path)
	}
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS visitors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hashed_ip TEXT NOT NULL,
		user_agent TEXT,
		path TEXT,
		ts INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS visitors_ts ON visitors (ts)`,
	`CREATE TABLE IF NOT EXISTS chat_messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		message TEXT NOT NULL,
		topic TEXT NOT NULL,
		reply TEXT NOT NULL,
		ts INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS voice_commands (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		transcript TEXT NOT NULL,
		phrase TEXT NOT NULL,
		action TEXT NOT NULL,
		ts INTEGER NOT NULL
	)`,
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "apply schema")
		}
	}
	return nil
}

// RecordVisit stores a page view. The caller hashes the IP.
func (s *Store) RecordVisit(ctx context.Context, v Visit) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO visitors (hashed_ip, user_agent, path, ts) VALUES (?, ?, ?, ?)`,
		v.HashedIP, v.UserAgent, v.Path, v.Timestamp.UnixMilli())
	return errors.Wrap(err, "record visit")
}

// RecordChat stores an assistant exchange.
func (s *Store) RecordChat(ctx context.Context, c Chat) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_messages (message, topic, reply, ts) VALUES (?, ?, ?, ?)`,
		c.Message, c.Topic, c.Reply, c.Timestamp.UnixMilli())
	return errors.Wrap(err, "record chat")
}

// RecordCommand stores a recognised voice command.
func (s *Store) RecordCommand(ctx context.Context, c Command) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO voice_commands (transcript, phrase, action, ts) VALUES (?, ?, ?, ?)`,
		c.Transcript, c.Phrase, c.Action, c.Timestamp.UnixMilli())
	return errors.Wrap(err, "record command")
}

// CleanupVisitors deletes visits older than cutoff and returns how many.
func (s *Store) CleanupVisitors(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM visitors WHERE ts < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, errors.Wrap(err, "cleanup visitors")
	}
	n, err := res.RowsAffected()
	return n, errors.Wrap(err, "cleanup visitors")
}

// RecentVisitors returns the newest visits first.
func (s *Store) RecentVisitors(ctx context.Context, limit int) ([]Visit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), ts
		FROM visitors
		ORDER BY ts DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query visitors")
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		var v Visit
		var ts int64
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			return nil, errors.Wrap(err, "scan visitor")
		}
		v.Timestamp = time.UnixMilli(ts).UTC()
		visits = append(visits, v)
	}
	return visits, errors.Wrap(rows.Err(), "iterate visitors")
}

// Stats aggregates activity relative to now.
func (s *Store) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	stats := &Stats{}
	now = now.UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE ts >= ?`, []any{startOfDay.UnixMilli()}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE ts >= ?`, []any{now.Add(-7 * 24 * time.Hour).UnixMilli()}},
		{&stats.TotalChats, `SELECT COUNT(*) FROM chat_messages`, nil},
		{&stats.TotalCommands, `SELECT COUNT(*) FROM voice_commands`, nil},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, errors.Wrap(err, "count")
		}
	}

	var err error
	if stats.TopTopics, err = s.top(ctx, `SELECT topic, COUNT(*) AS n FROM chat_messages GROUP BY topic ORDER BY n DESC, topic LIMIT 5`); err != nil {
		return nil, err
	}
	if stats.TopCommands, err = s.top(ctx, `SELECT phrase, COUNT(*) AS n FROM voice_commands GROUP BY phrase ORDER BY n DESC, phrase LIMIT 5`); err != nil {
		return nil, err
	}
	if stats.RecentVisitors, err = s.RecentVisitors(ctx, 50); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Store) top(ctx context.Context, query string) ([]Count, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "query top")
	}
	defer rows.Close()

	var out []Count
	for rows.Next() {
		var c Count
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, errors.Wrap(err, "scan top")
		}
		out = append(out, c)
	}
	return out, errors.Wrap(rows.Err(), "iterate top")
}
