package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

type fakeScheduler struct {
	running bool
	next    time.Time
	last    *RunStatus
}

func (f fakeScheduler) IsRunning() bool       { return f.running }
func (f fakeScheduler) GetNextRun() time.Time { return f.next }

func (f fakeScheduler) LastRun() (RunStatus, bool) {
	if f.last == nil {
		return RunStatus{}, false
	}
	return *f.last, true
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthAndLive(t *testing.T) {
	s := NewServer(Config{ServiceName: "ski-ratings", Version: "1.0.0", Port: "0"})

	rec := get(t, s.Handler(), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "1.0.0", resp.Version)

	assert.Equal(t, http.StatusOK, get(t, s.Handler(), "/live").Code)
}

func TestReady(t *testing.T) {
	next := time.Date(2026, 1, 1, 4, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		ready     bool
		db        DatabasePinger
		scheduler SchedulerStatus
		want      int
		checks    map[string]string
	}{
		{name: "not marked ready", want: http.StatusServiceUnavailable, checks: map[string]string{"service": "not_ready"}},
		{name: "ready", ready: true, want: http.StatusOK, checks: map[string]string{"service": "ok"}},
		{
			name: "database down", ready: true, db: fakePinger{err: errors.New("refused")},
			want: http.StatusServiceUnavailable, checks: map[string]string{"database": "error: refused"},
		},
		{
			name: "scheduler stopped", ready: true, scheduler: fakeScheduler{},
			want: http.StatusServiceUnavailable, checks: map[string]string{"scheduler": "stopped"},
		},
		{
			name: "scheduler running", ready: true, db: fakePinger{}, scheduler: fakeScheduler{running: true, next: next},
			want: http.StatusOK, checks: map[string]string{"scheduler": "ok", "database": "ok", "next_run": "2026-01-01T04:00:00Z", "last_run": "pending"},
		},
		{
			name: "last run failed", ready: true, scheduler: fakeScheduler{running: true, last: &RunStatus{Error: "load: boom"}},
			want: http.StatusOK, checks: map[string]string{"last_run": "failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(Config{ServiceName: "ski-ratings", Port: "0", DB: tt.db, Scheduler: tt.scheduler})
			s.SetReady(tt.ready)

			rec := get(t, s.Handler(), "/ready")
			assert.Equal(t, tt.want, rec.Code)

			var resp ReadyResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			for k, v := range tt.checks {
				assert.Equal(t, v, resp.Checks[k], k)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	finished := time.Date(2026, 1, 1, 4, 2, 0, 0, time.UTC)
	sched := fakeScheduler{
		running: true,
		next:    time.Date(2026, 1, 2, 4, 0, 0, 0, time.UTC),
		last: &RunStatus{
			StartedAt:  finished.Add(-2 * time.Minute),
			FinishedAt: finished,
			Disciplines: []DisciplineStatus{
				{Discipline: "alpine", Events: 40, Competitors: 120, Snapshots: 900, Output: "csv:out/alpine.csv"},
			},
		},
	}
	s := NewServer(Config{ServiceName: "ski-ratings", Port: "0", Scheduler: sched})

	rec := get(t, s.Handler(), "/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp StatusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "2026-01-02T04:00:00Z", resp.NextRun)
	require.NotNil(t, resp.LastRun)
	require.Len(t, resp.LastRun.Disciplines, 1)
	assert.Equal(t, "alpine", resp.LastRun.Disciplines[0].Discipline)
	assert.Equal(t, 900, resp.LastRun.Disciplines[0].Snapshots)
	assert.True(t, resp.LastRun.FinishedAt.Equal(finished))
}

func TestStatusWithoutScheduler(t *testing.T) {
	rec := get(t, NewServer(Config{ServiceName: "ski-ratings"}).Handler(), "/status")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "last_run")
}

func TestMetricsRoute(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ski_ratings_up 1\n"))
	})

	s := NewServer(Config{Port: "0", Metrics: metrics, MetricsPath: "/prom"})
	rec := get(t, s.Handler(), "/prom")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ski_ratings_up 1\n", rec.Body.String())

	s = NewServer(Config{Port: "0"})
	assert.Equal(t, http.StatusNotFound, get(t, s.Handler(), "/metrics").Code)
}

func TestShutdownWithoutStart(t *testing.T) {
	assert.NoError(t, NewServer(Config{}).Shutdown())
}
