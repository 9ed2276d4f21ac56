package export

import (
	"database/sql"
	"fmt"

	"github.com/yourusername/ski-ratings/internal/config"
	"github.com/yourusername/ski-ratings/internal/repository"
)

// Factory creates sinks from discipline configuration
type Factory struct {
	postgres  repository.SnapshotRepository
	sqlite    repository.SnapshotRepository
	sqlPath   string
	precision int32
}

// NewFactory creates a sink factory. repos and sqliteDB may be nil when no
// discipline writes to them.
func NewFactory(repos *repository.Repositories, sqliteDB *sql.DB, sqlitePath string) *Factory {
	f := &Factory{sqlPath: sqlitePath, precision: DefaultPrecision}
	if repos != nil {
		f.postgres = repos.Snapshots
	}
	if sqliteDB != nil {
		f.sqlite = repository.NewSQLiteSnapshotRepository(sqliteDB)
	}
	return f
}

// Create returns the sink configured for a discipline
func (f *Factory) Create(d config.DisciplineConfig) (Sink, error) {
	switch d.Output {
	case SinkCSV:
		if d.OutputPath == "" {
			return nil, fmt.Errorf("discipline %s: output_path is required for csv output", d.Name)
		}
		return NewCSVSink(d.OutputPath, f.precision), nil
	case SinkPostgres:
		if f.postgres == nil {
			return nil, fmt.Errorf("discipline %s: postgres output requires a database connection", d.Name)
		}
		return NewRepositorySink(f.postgres, SinkPostgres, "rating_snapshots", f.precision), nil
	case SinkSQLite:
		if f.sqlite == nil {
			return nil, fmt.Errorf("discipline %s: sqlite output requires a database", d.Name)
		}
		return NewRepositorySink(f.sqlite, SinkSQLite, f.sqlPath, f.precision), nil
	default:
		return nil, fmt.Errorf("unknown output type: %s", d.Output)
	}
}
