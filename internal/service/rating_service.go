// Package service orchestrates rating runs: load, validate, resolve, rate and
// export, one discipline at a time or all of them concurrently.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/ski-ratings/internal/config"
	"github.com/yourusername/ski-ratings/internal/datasource"
	"github.com/yourusername/ski-ratings/internal/export"
	"github.com/yourusername/ski-ratings/internal/logger"
	"github.com/yourusername/ski-ratings/internal/metrics"
	"github.com/yourusername/ski-ratings/internal/models"
	"github.com/yourusername/ski-ratings/internal/rating"
)

// Run stages reported on failure
const (
	StageLoad     = "load"
	StageValidate = "validate"
	StageRate     = "rate"
	StageExport   = "export"
)

// Report describes one completed discipline run
type Report struct {
	Run       models.RatingRun
	Summary   rating.RunSummary
	Unmatched []rating.UnmatchedRecord
	Sink      string
	Target    string
}

// RatingService runs the rating engine over configured disciplines
type RatingService struct {
	config      rating.Config
	disciplines []config.DisciplineConfig
	sources     map[string]datasource.DataSource
	sinks       map[string]export.Sink
	logger      *logrus.Logger
	ratingLog   *logger.RatingLogger
	audit       *logger.AuditLogger
	now         func() time.Time
}

// NewRatingService creates a new rating service. Every discipline needs a
// source and a sink.
func NewRatingService(
	cfg rating.Config,
	disciplines []config.DisciplineConfig,
	sources map[string]datasource.DataSource,
	sinks map[string]export.Sink,
	log *logrus.Logger,
) (*RatingService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rating config: %w", err)
	}
	for _, d := range disciplines {
		if sources[d.Name] == nil {
			return nil, fmt.Errorf("no data source for discipline %s", d.Name)
		}
		if sinks[d.Name] == nil {
			return nil, fmt.Errorf("no sink for discipline %s", d.Name)
		}
	}
	if log == nil {
		log = logrus.New()
	}

	return &RatingService{
		config:      cfg,
		disciplines: disciplines,
		sources:     sources,
		sinks:       sinks,
		logger:      log,
		ratingLog:   logger.NewRatingLogger(log),
		audit:       logger.NewAuditLogger(log),
		now:         time.Now,
	}, nil
}

// Disciplines returns the names of the configured disciplines
func (s *RatingService) Disciplines() []string {
	names := make([]string, len(s.disciplines))
	for i, d := range s.disciplines {
		names[i] = d.Name
	}
	return names
}

// RunAll runs every discipline concurrently. The first failure cancels the
// remaining runs.
func (s *RatingService) RunAll(ctx context.Context) ([]*Report, error) {
	reports := make([]*Report, len(s.disciplines))
	g, gctx := errgroup.WithContext(ctx)

	for i, d := range s.disciplines {
		i, d := i, d
		g.Go(func() error {
			report, err := s.RunDiscipline(gctx, d.Name)
			if err != nil {
				return fmt.Errorf("discipline %s: %w", d.Name, err)
			}
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// RunDiscipline computes and exports the rating history of one discipline
func (s *RatingService) RunDiscipline(ctx context.Context, discipline string) (*Report, error) {
	src, ok := s.sources[discipline]
	if !ok {
		return nil, fmt.Errorf("unknown discipline: %s", discipline)
	}
	sink := s.sinks[discipline]

	runID := uuid.New()
	started := s.now()
	log := s.ratingLog.ForDiscipline(discipline)

	fail := func(stage string, err error) (*Report, error) {
		log.LogRunFailed(runID.String(), stage, err)
		metrics.RecordRun(discipline, metrics.StatusFailure, s.now().Sub(started))
		return nil, fmt.Errorf("%s: %w", stage, err)
	}

	results, err := src.LoadResults(ctx, discipline)
	if err != nil {
		return fail(StageLoad, err)
	}
	records, err := src.LoadGroundTruth(ctx, discipline)
	if err != nil {
		return fail(StageLoad, err)
	}
	log.LogRunStarted(runID.String(), len(results), len(records))

	if err := models.ValidateTable(results); err != nil {
		return fail(StageValidate, err)
	}
	if err := models.ValidateGroundTruth(records); err != nil {
		return fail(StageValidate, err)
	}

	resolved, unmatched := rating.ResolveGroundTruth(results, records)
	for _, u := range unmatched {
		log.LogUnmatchedGroundTruth(u.Row, u.Record.CompetitorID, u.Record.Season, u.Record.Date, u.Record.Venue)
	}
	metrics.RecordUnmatchedGroundTruth(discipline, len(unmatched))

	engine, err := rating.NewEngine(s.config, s.logger)
	if err != nil {
		return fail(StageRate, err)
	}
	engine.OnEvent(func(st rating.EventStats) {
		metrics.RecordEvent(discipline, st.FieldSize, st.GroundTruthed)
	})

	history, err := engine.Run(ctx, results, rating.NewIndex(resolved))
	if err != nil {
		return fail(StageRate, err)
	}
	for season, k := range history.Summary.SeasonK {
		metrics.UpdateSeasonK(discipline, season, k)
	}

	run := models.RatingRun{
		ID:            runID,
		Discipline:    discipline,
		StartedAt:     started,
		FinishedAt:    s.now(),
		Seasons:       history.Summary.Seasons,
		Events:        history.Summary.Events,
		Snapshots:     history.Summary.Snapshots,
		Competitors:   history.Summary.Competitors,
		PredictedOnly: history.Summary.PredictedOnly,
		Unmatched:     len(unmatched),
	}

	if err := sink.Write(ctx, &run, history.Snapshots); err != nil {
		return fail(StageExport, err)
	}
	metrics.RecordSnapshotsExported(discipline, sink.Name(), len(history.Snapshots))
	s.audit.LogExport(runID.String(), discipline, sink.Name(), sink.Target(), len(history.Snapshots), s.now())

	duration := s.now().Sub(started)
	metrics.RecordRun(discipline, metrics.StatusSuccess, duration)
	metrics.UpdateCompetitors(discipline, run.Competitors, run.PredictedOnly)
	log.LogRunFinished(runID.String(), run.Seasons, run.Events, run.Snapshots, run.Competitors, run.PredictedOnly, run.Unmatched, duration)

	return &Report{
		Run:       run,
		Summary:   history.Summary,
		Unmatched: unmatched,
		Sink:      sink.Name(),
		Target:    sink.Target(),
	}, nil
}
