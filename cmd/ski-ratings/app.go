package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/ski-ratings/internal/config"
	"github.com/yourusername/ski-ratings/internal/database"
	"github.com/yourusername/ski-ratings/internal/datasource"
	"github.com/yourusername/ski-ratings/internal/export"
	"github.com/yourusername/ski-ratings/internal/rating"
	"github.com/yourusername/ski-ratings/internal/repository"
	"github.com/yourusername/ski-ratings/internal/service"
)

// app holds the connections shared by the commands
type app struct {
	cfg    *config.Config
	log    *logrus.Logger
	db     *database.DB
	sqlite *sql.DB
	repos  *repository.Repositories
}

// newApp opens only the databases the configured disciplines use
func newApp(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}

	if cfg.UsesPostgres() {
		db, err := database.Initialize(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.db = db
		if a.repos, err = repository.NewRepositories(db); err != nil {
			a.close()
			return nil, fmt.Errorf("failed to initialize repositories: %w", err)
		}
	}

	if cfg.UsesSQLite() {
		sqlite, err := database.OpenSQLite(ctx, cfg.SQLite.Path)
		if err != nil {
			a.close()
			return nil, err
		}
		a.sqlite = sqlite
	}

	return a, nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.sqlite != nil {
		if err := a.sqlite.Close(); err != nil {
			a.log.WithError(err).Warn("Failed to close sqlite database")
		}
	}
}

// ratingService wires sources and sinks for the named disciplines, or for
// all of them when names is empty
func (a *app) ratingService(names []string) (*service.RatingService, error) {
	disciplines := a.cfg.Disciplines
	if len(names) > 0 {
		disciplines = make([]config.DisciplineConfig, 0, len(names))
		for _, name := range names {
			d, ok := a.cfg.Discipline(name)
			if !ok {
				return nil, fmt.Errorf("unknown discipline: %s", name)
			}
			disciplines = append(disciplines, d)
		}
	}

	ratingCfg, err := rating.FromConfig(&a.cfg.Rating)
	if err != nil {
		return nil, err
	}

	sourceFactory := datasource.NewFactory(a.cfg, a.repos, a.log)
	sinkFactory := export.NewFactory(a.repos, a.sqlite, a.cfg.SQLite.Path)

	sources := make(map[string]datasource.DataSource, len(disciplines))
	sinks := make(map[string]export.Sink, len(disciplines))
	for _, d := range disciplines {
		if sources[d.Name], err = sourceFactory.Create(d); err != nil {
			return nil, err
		}
		if sinks[d.Name], err = sinkFactory.Create(d); err != nil {
			return nil, err
		}
	}

	return service.NewRatingService(ratingCfg, disciplines, sources, sinks, a.log)
}
