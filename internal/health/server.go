// Package health serves liveness, readiness and run status for the scheduled
// rating recomputation, plus the Prometheus endpoint.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DatabasePinger defines the interface for checking database connectivity.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// SchedulerStatus reports the state of the recomputation scheduler.
type SchedulerStatus interface {
	IsRunning() bool
	GetNextRun() time.Time
	LastRun() (RunStatus, bool)
}

// DisciplineStatus summarises one discipline of a finished recomputation.
type DisciplineStatus struct {
	Discipline    string `json:"discipline"`
	RunID         string `json:"run_id"`
	Seasons       int    `json:"seasons"`
	Events        int    `json:"events"`
	Competitors   int    `json:"competitors"`
	PredictedOnly int    `json:"predicted_only"`
	Unmatched     int    `json:"unmatched_ground_truth"`
	Snapshots     int    `json:"snapshots"`
	Output        string `json:"output"`
}

// RunStatus is the outcome of the most recent recomputation.
type RunStatus struct {
	StartedAt   time.Time          `json:"started_at"`
	FinishedAt  time.Time          `json:"finished_at"`
	Error       string             `json:"error,omitempty"`
	Disciplines []DisciplineStatus `json:"disciplines,omitempty"`
}

// HealthResponse is returned by /health and /live.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp,omitempty"`
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
}

// ReadyResponse is returned by /ready.
type ReadyResponse struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Checks   map[string]string `json:"checks,omitempty"`
	Duration string            `json:"duration,omitempty"`
}

// StatusResponse is returned by /status.
type StatusResponse struct {
	Service string     `json:"service"`
	NextRun string     `json:"next_run,omitempty"`
	LastRun *RunStatus `json:"last_run,omitempty"`
}

// Config holds the configuration for the health server.
type Config struct {
	ServiceName string
	Version     string
	Commit      string
	Port        string
	Logger      *logrus.Logger
	DB          DatabasePinger
	Scheduler   SchedulerStatus
	Metrics     http.Handler
	MetricsPath string
}

// Server exposes the probe endpoints of the schedule command.
type Server struct {
	cfg    Config
	server *http.Server

	mu    sync.RWMutex
	ready bool
}

// NewServer creates a new health server. The port falls back to HEALTH_PORT
// and then 8080.
func NewServer(cfg Config) *Server {
	if cfg.Port == "" {
		cfg.Port = os.Getenv("HEALTH_PORT")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &Server{cfg: cfg}
}

// SetReady marks the server as ready to accept traffic.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// IsReady returns whether the server is ready.
func (s *Server) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/live", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.HandleFunc("/status", s.handleStatus)
	if s.cfg.Metrics != nil {
		mux.Handle(s.cfg.MetricsPath, s.cfg.Metrics)
	}
	return mux
}

// Start serves in the background until ctx is cancelled or Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.cfg.Logger.WithFields(logrus.Fields{
			"port":    s.cfg.Port,
			"service": s.cfg.ServiceName,
		}).Info("Health server starting")

		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.cfg.Logger.WithError(err).Error("Health server error")
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}
	s.cfg.Logger.Info("Health server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Service:   s.cfg.ServiceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   s.cfg.Version,
		Commit:    s.cfg.Commit,
	})
}

// handleReady fails when the server is not marked ready, the scheduler is
// stopped or the database does not answer. A failed last run is reported but
// does not fail readiness; the next scheduled run may recover.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	checks := map[string]string{"service": "ok"}
	healthy := true

	if !s.IsReady() {
		healthy = false
		checks["service"] = "not_ready"
	}

	if sched := s.cfg.Scheduler; sched != nil {
		if sched.IsRunning() {
			checks["scheduler"] = "ok"
			if next := sched.GetNextRun(); !next.IsZero() {
				checks["next_run"] = next.UTC().Format(time.RFC3339)
			}
		} else {
			healthy = false
			checks["scheduler"] = "stopped"
		}

		switch last, ok := sched.LastRun(); {
		case !ok:
			checks["last_run"] = "pending"
		case last.Error != "":
			checks["last_run"] = "failed"
		default:
			checks["last_run"] = "ok"
		}
	}

	if s.cfg.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := s.cfg.DB.Ping(ctx); err != nil {
			healthy = false
			checks["database"] = fmt.Sprintf("error: %v", err)
		} else {
			checks["database"] = "ok"
		}
	}

	resp := ReadyResponse{
		Status:   "ok",
		Service:  s.cfg.ServiceName,
		Checks:   checks,
		Duration: time.Since(start).String(),
	}
	code := http.StatusOK
	if !healthy {
		resp.Status = "not_ready"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{Service: s.cfg.ServiceName}
	if sched := s.cfg.Scheduler; sched != nil {
		if next := sched.GetNextRun(); !next.IsZero() {
			resp.NextRun = next.UTC().Format(time.RFC3339)
		}
		if last, ok := sched.LastRun(); ok {
			resp.LastRun = &last
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
