package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "portfolio.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_Stats(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)
	now := time.Date(2025, time.March, 10, 15, 0, 0, 0, time.UTC)

	visits := []Visit{
		{HashedIP: "aaaa", Path: "/", Timestamp: now.Add(-time.Hour)},
		{HashedIP: "aaaa", Path: "/work-content", Timestamp: now.Add(-30 * time.Minute)},
		{HashedIP: "bbbb", Path: "/", UserAgent: "curl", Timestamp: now.Add(-3 * 24 * time.Hour)},
		{HashedIP: "cccc", Path: "/", Timestamp: now.Add(-30 * 24 * time.Hour)},
	}
	for _, v := range visits {
		require.NoError(t, s.RecordVisit(ctx, v))
	}
	for _, topic := range []string{"skills", "projects", "skills", "default"} {
		require.NoError(t, s.RecordChat(ctx, Chat{Message: "q", Topic: topic, Reply: "r", Timestamp: now}))
	}
	require.NoError(t, s.RecordCommand(ctx, Command{Transcript: "please show skills", Phrase: "show skills", Action: "scroll", Timestamp: now}))

	stats, err := s.Stats(ctx, now)
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.TotalVisitors)
	assert.Equal(t, int64(3), stats.UniqueVisitors)
	assert.Equal(t, int64(2), stats.VisitorsToday)
	assert.Equal(t, int64(3), stats.VisitorsThisWeek)
	assert.Equal(t, int64(4), stats.TotalChats)
	assert.Equal(t, []Count{{"skills", 2}, {"default", 1}, {"projects", 1}}, stats.TopTopics)
	assert.Equal(t, int64(1), stats.TotalCommands)
	assert.Equal(t, []Count{{"show skills", 1}}, stats.TopCommands)

	require.Len(t, stats.RecentVisitors, 4)
	assert.Equal(t, "/work-content", stats.RecentVisitors[0].Path)
	assert.Equal(t, now.Add(-30*time.Minute), stats.RecentVisitors[0].Timestamp)
	assert.Equal(t, "curl", stats.RecentVisitors[2].UserAgent)
}

func TestStore_CleanupVisitors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)
	now := time.Now()

	require.NoError(t, s.RecordVisit(ctx, Visit{HashedIP: "old", Timestamp: now.Add(-2 * Retention)}))
	require.NoError(t, s.RecordVisit(ctx, Visit{HashedIP: "new", Timestamp: now}))

	n, err := s.CleanupVisitors(ctx, now.Add(-Retention))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	visits, err := s.RecentVisitors(ctx, 10)
	require.NoError(t, err)
	require.Len(t, visits, 1)
	assert.Equal(t, "new", visits[0].HashedIP)
}

func TestStore_ReopenKeepsData(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "portfolio.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.RecordVisit(ctx, Visit{HashedIP: "x", Timestamp: time.Now()}))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	visits, err := s.RecentVisitors(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, visits, 1)
}
