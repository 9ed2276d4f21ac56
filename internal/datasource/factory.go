package datasource

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/ski-ratings/internal/config"
	"github.com/yourusername/ski-ratings/internal/repository"
)

// SourceType represents the type of data source
type SourceType string

const (
	// CSVSourceType reads CSV files
	CSVSourceType SourceType = "csv"
	// PostgresSourceType reads the results and ground_truth tables
	PostgresSourceType SourceType = "postgres"
)

// Factory creates DataSource implementations based on configuration
type Factory struct {
	logger *logrus.Logger
	config *config.Config
	repos  *repository.Repositories
	cached map[SourceType]*CachedSource
}

// NewFactory creates a new data source factory. repos may be nil when no
// discipline reads from PostgreSQL.
func NewFactory(cfg *config.Config, repos *repository.Repositories, logger *logrus.Logger) *Factory {
	return &Factory{
		logger: logger,
		config: cfg,
		repos:  repos,
		cached: make(map[SourceType]*CachedSource),
	}
}

// Create creates the data source of one discipline, wrapped in the
// ground-truth cache when a TTL is configured
func (f *Factory) Create(d config.DisciplineConfig) (DataSource, error) {
	var src DataSource
	switch SourceType(d.Source) {
	case CSVSourceType:
		if d.ResultsPath == "" {
			return nil, fmt.Errorf("discipline %s: results_path is required for csv source", d.Name)
		}
		src = NewCSVSource(d.ResultsPath, d.GroundTruthPath)
	case PostgresSourceType:
		if f.repos == nil {
			return nil, fmt.Errorf("discipline %s: postgres source requires a database connection", d.Name)
		}
		src = NewPostgresSource(f.repos.Results, f.repos.GroundTruth)
	default:
		return nil, fmt.Errorf("unknown data source type: %s", d.Source)
	}

	ttl := time.Duration(f.config.Cache.GroundTruthTTLSeconds) * time.Second
	if ttl <= 0 {
		return src, nil
	}

	// CSV paths differ per discipline, so CSV caches are never shared.
	if SourceType(d.Source) == CSVSourceType {
		return NewCachedSource(src, ttl), nil
	}
	if c, ok := f.cached[PostgresSourceType]; ok {
		return c, nil
	}
	c := NewCachedSource(src, ttl)
	f.cached[PostgresSourceType] = c
	if f.logger != nil {
		f.logger.WithField("ttl", ttl).Debug("Ground truth cache enabled for postgres source")
	}
	return c, nil
}

// CreateAll creates a data source for every configured discipline
func (f *Factory) CreateAll() (map[string]DataSource, error) {
	sources := make(map[string]DataSource, len(f.config.Disciplines))
	for _, d := range f.config.Disciplines {
		src, err := f.Create(d)
		if err != nil {
			return nil, fmt.Errorf("failed to create data source for %s: %w", d.Name, err)
		}
		sources[d.Name] = src
		if f.logger != nil {
			f.logger.WithFields(logrus.Fields{
				"discipline": d.Name,
				"source":     src.Name(),
			}).Debug("Created data source")
		}
	}
	return sources, nil
}
