package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/ski-ratings/internal/health"
	"github.com/yourusername/ski-ratings/internal/metrics"
	"github.com/yourusername/ski-ratings/internal/scheduler"
)

var runOnStart bool

func init() {
	scheduleCmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "Run once immediately before waiting for the schedule")
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Recompute rating histories on the configured cron schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		a, err := newApp(ctx, cfg, appLog)
		if err != nil {
			return err
		}
		defer a.close()

		svc, err := a.ratingService(nil)
		if err != nil {
			return err
		}

		timeout := time.Duration(cfg.Schedule.RunTimeoutMinutes) * time.Minute
		sched := scheduler.NewScheduler(svc, appLog, timeout)
		if cfg.Metrics.TextfilePath != "" {
			sched.OnComplete(func(scheduler.Result) {
				if err := metrics.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
					appLog.WithError(err).Warn("Failed to write metrics textfile")
				}
			})
		}
		if err := sched.ScheduleRecompute(cfg.Schedule.Cron); err != nil {
			return err
		}

		healthCfg := health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Commit:      GitCommit,
			Logger:      appLog,
			Scheduler:   schedulerStatus{sched},
		}
		if a.db != nil {
			healthCfg.DB = a.db
		}
		if cfg.Metrics.Enabled {
			healthCfg.Port = strconv.Itoa(cfg.Metrics.Port)
			healthCfg.Metrics = metrics.Handler()
			healthCfg.MetricsPath = cfg.Metrics.Path
		}
		healthServer := health.NewServer(healthCfg)
		if err := healthServer.Start(ctx); err != nil {
			return err
		}

		if runOnStart {
			runCtx, runCancel := context.WithTimeout(ctx, timeout)
			sched.RunNow(runCtx)
			runCancel()
		}

		if err := sched.Start(); err != nil {
			return err
		}
		healthServer.SetReady(true)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		sig := <-sigChan
		appLog.WithField("signal", sig).Info("Shutdown signal received")

		healthServer.SetReady(false)
		if err := sched.Stop(); err != nil {
			appLog.WithError(err).Warn("Scheduler did not stop cleanly")
		}
		return healthServer.Shutdown()
	},
}

// schedulerStatus exposes the last scheduler result to the health server
type schedulerStatus struct {
	*scheduler.Scheduler
}

func (s schedulerStatus) LastRun() (health.RunStatus, bool) {
	res, ok := s.LastResult()
	if !ok {
		return health.RunStatus{}, false
	}
	status := health.RunStatus{StartedAt: res.StartedAt, FinishedAt: res.FinishedAt}
	if res.Err != nil {
		status.Error = res.Err.Error()
	}
	for _, r := range res.Reports {
		status.Disciplines = append(status.Disciplines, health.DisciplineStatus{
			Discipline:    r.Run.Discipline,
			RunID:         r.Run.ID.String(),
			Seasons:       r.Run.Seasons,
			Events:        r.Run.Events,
			Competitors:   r.Run.Competitors,
			PredictedOnly: r.Run.PredictedOnly,
			Unmatched:     r.Run.Unmatched,
			Snapshots:     r.Run.Snapshots,
			Output:        r.Sink + ":" + r.Target,
		})
	}
	return status, true
}
