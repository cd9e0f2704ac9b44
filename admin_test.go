package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio-fx/internal/store"
)

func login(t *testing.T, ts *testServer, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return ts.do(req)
}

func TestAdmin_RequiresLogin(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/admin/api/stats", nil)
	req.AddCookie(&http.Cookie{Name: adminCookie, Value: "forged"})
	assert.Equal(t, http.StatusFound, ts.do(req).Code)

	rec = login(t, ts, "admin", "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
	assert.Nil(t, findCookie(rec, adminCookie))
}

func TestAdmin_DashboardAndStats(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	for _, dnt := range []string{"", "", "1"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("User-Agent", "test-agent")
		if dnt != "" {
			req.Header.Set("DNT", dnt)
		}
		ts.do(req)
	}
	ts.do(httptest.NewRequest(http.MethodGet, "/privacy", nil))
	ts.bg.Wait()

	rec := login(t, ts, "admin", "admin123")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/dashboard", rec.Header().Get("Location"))
	session := findCookie(rec, adminCookie)
	require.NotNil(t, session)

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(session)
		return ts.do(req)
	}

	rec = get("/admin/api/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats store.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(2), stats.TotalVisitors)
	assert.Equal(t, int64(1), stats.UniqueVisitors)
	require.Len(t, stats.RecentVisitors, 2)
	assert.Equal(t, "/", stats.RecentVisitors[0].Path)
	assert.Equal(t, ts.hashIP("192.0.2.1"), stats.RecentVisitors[0].HashedIP)

	rec = get("/admin/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Total visitors: 2")

	rec = get("/admin/visitors")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test-agent")

	rec = get("/admin/export/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename=admin-stats.json", rec.Header().Get("Content-Disposition"))

	rec = get("/admin/logout")
	assert.Equal(t, http.StatusFound, rec.Code)
	cleared := findCookie(rec, adminCookie)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
}

func TestAdmin_PrivacyCleanup(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	ctx := context.Background()
	old := time.Now().Add(-store.Retention - 24*time.Hour)
	require.NoError(t, ts.store.RecordVisit(ctx, store.Visit{HashedIP: "aaaa", Path: "/", Timestamp: old}))
	require.NoError(t, ts.store.RecordVisit(ctx, store.Visit{HashedIP: "bbbb", Path: "/", Timestamp: time.Now()}))

	session := findCookie(login(t, ts, "admin", "admin123"), adminCookie)
	require.NotNil(t, session)
	req := httptest.NewRequest(http.MethodPost, "/admin/privacy/delete-visitor-data", nil)
	req.AddCookie(session)
	rec := ts.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Privacy cleanup initiated"}`, rec.Body.String())

	assert.Equal(t, int64(1), ts.stats(t).TotalVisitors)
}

func TestHashIP(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	h := ts.hashIP("203.0.113.9")
	assert.Len(t, h, 16)
	assert.Equal(t, h, ts.hashIP("203.0.113.9"))
	assert.NotEqual(t, h, ts.hashIP("203.0.113.10"))
}
