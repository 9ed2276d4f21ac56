package rating

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/ski-ratings/internal/logger"
	"github.com/yourusername/ski-ratings/internal/models"
)

// Engine replays a competitive history in chronological order and produces
// a rating before and after every event for every competitor.
type Engine struct {
	config  Config
	log     *logger.RatingLogger
	onEvent func(EventStats)
}

// NewEngine creates a new rating engine
func NewEngine(cfg Config, log *logrus.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rating config: %w", err)
	}
	if log == nil {
		log = logrus.New()
	}
	return &Engine{config: cfg, log: logger.NewRatingLogger(log)}, nil
}

// OnEvent registers a callback invoked after each event is processed.
func (e *Engine) OnEvent(fn func(EventStats)) {
	e.onEvent = fn
}

type event struct {
	season   int
	ordinal  int
	date     time.Time
	venue    string
	category models.EventCategory
	rows     []models.Result
}

type season struct {
	number int
	events []event
}

// run is the mutable state of a single Run call.
type run struct {
	ratings   *RatingMap
	index     *Index
	snapshots []models.RatingSnapshot
	everGT    map[string]bool
	summary   RunSummary
}

// Run processes results season by season and event by event. The index may
// be empty, which yields a predicted-only run. results are not modified.
func (e *Engine) Run(ctx context.Context, results []models.Result, index *Index) (*History, error) {
	if index == nil {
		index = EmptyIndex()
	}
	seasons := groupSeasons(results)

	r := &run{
		ratings:   NewRatingMap(e.config.Baseline),
		index:     index,
		snapshots: make([]models.RatingSnapshot, 0, len(results)+len(results)/4),
		everGT:    make(map[string]bool),
		summary:   RunSummary{SeasonK: make(map[int]float64, len(seasons))},
	}

	fieldSizes := index.SeasonFieldSizes()
	for _, s := range seasons {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("rating run interrupted before season %d: %w", s.number, err)
		}
		k := e.config.SeasonK(fieldSizes, s.number)
		r.summary.SeasonK[s.number] = k

		seen := newSeasonRoster()
		for i := range s.events {
			e.processEvent(r, &s.events[i], k, seen)
		}
		e.closeSeason(r, s, seen)

		r.summary.Seasons++
		r.summary.Events += len(s.events)
		e.log.LogSeasonSummary(s.number, len(s.events), len(seen.order), k)
	}

	r.summary.Snapshots = len(r.snapshots)
	r.summary.Competitors = r.ratings.Len()
	r.summary.PredictedOnly = r.ratings.Len() - len(r.everGT)

	return &History{Snapshots: r.snapshots, Summary: r.summary}, nil
}

func (e *Engine) processEvent(r *run, ev *event, k float64, seen *seasonRoster) {
	n := len(ev.rows)
	places := make([]int, n)
	predPre := make([]float64, n)
	compare := make([]float64, n)
	gtPre := make([]float64, n)
	gtPost := make([]float64, n)
	mask := make([]bool, n)

	groundTruthed := 0
	for i := range ev.rows {
		row := &ev.rows[i]
		id := row.Competitor.ID
		seen.add(row.Competitor, ev.date)

		places[i] = row.Place
		predPre[i] = r.ratings.Get(id)
		gtPre[i], gtPost[i], mask[i] = r.index.Lookup(id, ev.season, ev.ordinal)
		if mask[i] {
			compare[i] = gtPre[i]
			groundTruthed++
			r.everGT[id] = true
		} else {
			compare[i] = predPre[i]
		}
	}

	kMod := k / float64(ev.category.TeamSize())

	var actual, expected []float64
	if groundTruthed > 0 {
		// Lengths are equal by construction.
		actual, _ = PartialActualScores(places, mask)
		expected, _ = PartialExpectedScores(compare, mask, e.config.Logistic)
	}

	for i := range ev.rows {
		row := &ev.rows[i]
		predPost := predPre[i]
		switch {
		case mask[i]:
			predPost = gtPost[i]
		case groundTruthed > 0:
			predPost = predPre[i] + kMod*(actual[i]-expected[i])
		}
		r.ratings.Set(row.Competitor.ID, predPost)

		snap := models.RatingSnapshot{
			Competitor:          row.Competitor,
			Season:              ev.season,
			Ordinal:             ev.ordinal,
			Date:                ev.date,
			Venue:               ev.venue,
			Category:            ev.category,
			Place:               row.Place,
			PredictedPreRating:  predPre[i],
			PredictedPostRating: predPost,
			HasGroundTruth:      mask[i],
		}
		if mask[i] {
			snap.PreRating = floatPtr(gtPre[i])
			snap.PostRating = floatPtr(gtPost[i])
		}
		r.snapshots = append(r.snapshots, snap)
	}

	if e.onEvent != nil {
		e.onEvent(EventStats{
			Season:        ev.season,
			Ordinal:       ev.ordinal,
			Category:      ev.category,
			FieldSize:     n,
			GroundTruthed: groundTruthed,
			K:             kMod,
		})
	}
}

// closeSeason regresses every competitor seen in the season toward the
// baseline and emits one boundary snapshot each.
func (e *Engine) closeSeason(r *run, s season, seen *seasonRoster) {
	for _, id := range seen.order {
		entry := seen.byID[id]
		old := r.ratings.Get(id)
		decayed := Decay(old, e.config.Baseline, e.config.SeasonDiscount)
		r.ratings.Set(id, decayed)

		snap := models.RatingSnapshot{
			Competitor:          entry.competitor,
			Season:              s.number,
			Ordinal:             models.BoundaryOrdinal,
			Date:                entry.lastDate,
			PredictedPreRating:  old,
			PredictedPostRating: decayed,
		}
		if pre, post, ok := r.index.Lookup(id, s.number, models.BoundaryOrdinal); ok {
			snap.PreRating = floatPtr(pre)
			snap.PostRating = floatPtr(post)
			snap.HasGroundTruth = true
			r.everGT[id] = true
		}
		r.snapshots = append(r.snapshots, snap)
	}
}

type rosterEntry struct {
	competitor models.Competitor
	lastDate   time.Time
}

// seasonRoster tracks the competitors of one season in first-appearance
// order.
type seasonRoster struct {
	order []string
	byID  map[string]*rosterEntry
}

func newSeasonRoster() *seasonRoster {
	return &seasonRoster{byID: make(map[string]*rosterEntry)}
}

func (s *seasonRoster) add(c models.Competitor, date time.Time) {
	if entry, ok := s.byID[c.ID]; ok {
		entry.competitor = c
		if date.After(entry.lastDate) {
			entry.lastDate = date
		}
		return
	}
	s.order = append(s.order, c.ID)
	s.byID[c.ID] = &rosterEntry{competitor: c, lastDate: date}
}

// groupSeasons sorts a copy of results by (season, ordinal, place) and
// splits it into seasons and events. Equal keys keep their input order.
func groupSeasons(results []models.Result) []season {
	sorted := make([]models.Result, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := &sorted[i], &sorted[j]
		if a.Season != b.Season {
			return a.Season < b.Season
		}
		if a.Ordinal != b.Ordinal {
			return a.Ordinal < b.Ordinal
		}
		return a.Place < b.Place
	})

	var seasons []season
	for start := 0; start < len(sorted); {
		end := start
		for end < len(sorted) && sorted[end].Season == sorted[start].Season && sorted[end].Ordinal == sorted[start].Ordinal {
			end++
		}
		first := &sorted[start]
		ev := event{
			season:   first.Season,
			ordinal:  first.Ordinal,
			date:     first.Date,
			venue:    first.Venue,
			category: first.Category,
			rows:     sorted[start:end],
		}
		if len(seasons) == 0 || seasons[len(seasons)-1].number != first.Season {
			seasons = append(seasons, season{number: first.Season})
		}
		last := &seasons[len(seasons)-1]
		last.events = append(last.events, ev)
		start = end
	}
	return seasons
}

func floatPtr(v float64) *float64 {
	return &v
}
