package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
	assert.Same(t, registry, InitRegistry())
}

func TestRecordRun(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(RatingRunsTotal.WithLabelValues("test_run", StatusSuccess))

	RecordRun("test_run", StatusSuccess, 2*time.Second)
	RecordRun("test_run", StatusFailure, time.Second)

	assert.Equal(t, before+1, testutil.ToFloat64(RatingRunsTotal.WithLabelValues("test_run", StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(RatingRunsTotal.WithLabelValues("test_run", StatusFailure)))
	assert.Greater(t, testutil.ToFloat64(LastRunTimestamp.WithLabelValues("test_run")), 0.0)
}

func TestRecordEventCoverage(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name          string
		fieldSize     int
		groundTruthed int
		coverage      string
	}{
		{name: "no ground truth", fieldSize: 5, groundTruthed: 0, coverage: "none"},
		{name: "partial", fieldSize: 5, groundTruthed: 2, coverage: "partial"},
		{name: "full", fieldSize: 5, groundTruthed: 5, coverage: "full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := EventsProcessedTotal.WithLabelValues("test_event", tt.coverage)
			before := testutil.ToFloat64(counter)
			RecordEvent("test_event", tt.fieldSize, tt.groundTruthed)
			assert.Equal(t, before+1, testutil.ToFloat64(counter))
		})
	}
}

func TestGaugesAndCounters(t *testing.T) {
	InitRegistry()

	RecordUnmatchedGroundTruth("test_gauge", 3)
	RecordSnapshotsExported("test_gauge", "csv", 10)
	UpdateSeasonK("test_gauge", 2024, 2.5)
	UpdateCompetitors("test_gauge", 40, 7)

	assert.Equal(t, 3.0, testutil.ToFloat64(UnmatchedGroundTruthTotal.WithLabelValues("test_gauge")))
	assert.Equal(t, 10.0, testutil.ToFloat64(SnapshotsExportedTotal.WithLabelValues("test_gauge", "csv")))
	assert.Equal(t, 2.5, testutil.ToFloat64(SeasonKFactor.WithLabelValues("test_gauge", "2024")))
	assert.Equal(t, 40.0, testutil.ToFloat64(CompetitorsRated.WithLabelValues("test_gauge")))
	assert.Equal(t, 7.0, testutil.ToFloat64(PredictedOnlyCompetitors.WithLabelValues("test_gauge")))
}

func TestHandler(t *testing.T) {
	InitRegistry()
	UpdateSeasonK("test_handler", 2023, 4)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ski_ratings_season_k_factor")
}

func TestWriteTextfile(t *testing.T) {
	InitRegistry()
	UpdateCompetitors("test_textfile", 12, 1)
	path := filepath.Join(t.TempDir(), "ski_ratings.prom")

	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `ski_ratings_competitors_rated{discipline="test_textfile"} 12`))
}
