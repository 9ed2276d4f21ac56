// Package config provides configuration management for the ski ratings application.
package config

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validConfigPath       = "testdata/valid_config.yaml"
	expansionConfigPath   = "testdata/expansion_config.yaml"
	nonexistentConfigPath = "testdata/nonexistent_config.yaml"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{Name: "ski-ratings", Environment: "development", LogLevel: "info"},
		Rating: RatingConfig{
			Baseline:       1300,
			LogisticBase:   10,
			Spread:         400,
			SeasonDiscount: 0.85,
			KMin:           1,
			KMax:           5,
			KFallback:      5,
		},
		Disciplines: []DisciplineConfig{{
			Name:        "alpine",
			Source:      "csv",
			ResultsPath: "results.csv",
			Output:      "csv",
			OutputPath:  "out.csv",
		}},
	}
}

func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "ski-ratings", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 1300.0, cfg.Rating.Baseline)
	assert.Equal(t, 0.85, cfg.Rating.SeasonDiscount)
	require.Len(t, cfg.Disciplines, 2)
	assert.Equal(t, "alpine", cfg.Disciplines[0].Name)
	assert.Equal(t, "data/alpine/ground_truth.csv", cfg.Disciplines[0].GroundTruthPath)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.NoError(t, Validate(cfg))
}

func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentConfigPath)
	assert.Error(t, err)
}

func TestLoadConfigEnvironmentVariables(t *testing.T) {
	t.Setenv("SKI_RATINGS_APP_NAME", "test-app")

	cfg, err := Load(validConfigPath)
	require.NoError(t, err)
	assert.Equal(t, "test-app", cfg.App.Name)
}

func TestLoadConfigEnvironmentVariableExpansion(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "expanded_secret_value")
	t.Setenv("TEST_SQLITE_PATH", "/tmp/ratings.db")

	cfg, err := LoadWithDefaults(expansionConfigPath)
	require.NoError(t, err)
	assert.Equal(t, "expanded_secret_value", cfg.Database.Password)
	assert.Equal(t, "/tmp/ratings.db", cfg.SQLite.Path)
}

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := LoadWithDefaults(expansionConfigPath)
	require.NoError(t, err)

	assert.Equal(t, 1300.0, cfg.Rating.Baseline)
	assert.Equal(t, 10.0, cfg.Rating.LogisticBase)
	assert.Equal(t, 400.0, cfg.Rating.Spread)
	assert.Equal(t, 0.85, cfg.Rating.SeasonDiscount)
	assert.Equal(t, 1.0, cfg.Rating.KMin)
	assert.Equal(t, 5.0, cfg.Rating.KMax)
	assert.Equal(t, 5.0, cfg.Rating.KFallback)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "debug", cfg.App.LogLevel)
}

func TestLoadWithDefaultsMissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "ski-ratings", cfg.App.Name)
	assert.Empty(t, cfg.Disciplines)
	assert.Error(t, Validate(cfg))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "invalid environment", mutate: func(c *Config) { c.App.Environment = "invalid" }, wantErr: "Environment"},
		{name: "invalid log level", mutate: func(c *Config) { c.App.LogLevel = "trace" }, wantErr: "LogLevel"},
		{name: "no disciplines", mutate: func(c *Config) { c.Disciplines = nil }, wantErr: "Disciplines"},
		{name: "unknown source", mutate: func(c *Config) { c.Disciplines[0].Source = "xlsx" }, wantErr: "Source"},
		{name: "csv without results path", mutate: func(c *Config) { c.Disciplines[0].ResultsPath = "" }, wantErr: "ResultsPath"},
		{name: "zero spread", mutate: func(c *Config) { c.Rating.Spread = 0 }, wantErr: "Spread"},
		{name: "discount above one", mutate: func(c *Config) { c.Rating.SeasonDiscount = 1.5 }, wantErr: "SeasonDiscount"},
		{name: "inverted k bounds", mutate: func(c *Config) { c.Rating.KMin = 6 }, wantErr: "k_min"},
		{name: "duplicate discipline", mutate: func(c *Config) { c.Disciplines = append(c.Disciplines, c.Disciplines[0]) }, wantErr: "more than once"},
		{name: "postgres without database", mutate: func(c *Config) { c.Disciplines[0].Output = "postgres" }, wantErr: "database"},
		{name: "bad cron", mutate: func(c *Config) { c.Schedule.Cron = "every day" }, wantErr: "cron"},
		{name: "good cron descriptor", mutate: func(c *Config) { c.Schedule.Cron = "@daily" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateProductionRequiresSSL(t *testing.T) {
	cfg := validConfig()
	cfg.App.Environment = "production"
	cfg.Disciplines[0].Source = "postgres"
	cfg.Database = DatabaseConfig{Host: "db", Name: "ratings", User: "u", SSLMode: "disable"}

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SSL")

	cfg.Database.SSLMode = "require"
	assert.NoError(t, Validate(cfg))
}

func TestEnvironmentHelpers(t *testing.T) {
	cfg := validConfig()
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsStaging())
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.UsesPostgres())
	assert.False(t, cfg.UsesSQLite())

	d, ok := cfg.Discipline("alpine")
	assert.True(t, ok)
	assert.Equal(t, "csv", d.Source)
	_, ok = cfg.Discipline("biathlon")
	assert.False(t, ok)
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := validConfig()
	cfg.Database = DatabaseConfig{Host: "localhost", Port: 5432, Name: "ratings", User: "u", Password: "p", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@localhost:5432/ratings?sslmode=disable", cfg.GetDatabaseDSN())
}

func TestSecretsFromEnvDisabled(t *testing.T) {
	t.Setenv("AWS_SECRETS_ENABLED", "")
	assert.NoError(t, SecretsFromEnv(context.Background(), validConfig()))
}

func TestSecretsFromEnvMissingRegion(t *testing.T) {
	t.Setenv("AWS_SECRETS_ENABLED", "true")
	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_SECRET_NAME", "")
	assert.Error(t, SecretsFromEnv(context.Background(), validConfig()))
}

func TestOverlaySecretsOnConfig(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, overlaySecretsOnConfig(cfg, &SecretsOverlay{DatabasePassword: "from-aws"}))
	assert.Equal(t, "from-aws", cfg.Database.Password)
	assert.Empty(t, cfg.Database.User)
}

func TestOverlaySecretsDatabaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.Database.MaxConnections = 12

	err := overlaySecretsOnConfig(cfg, &SecretsOverlay{
		DatabaseURL:      "postgres://ratings@rds.internal:5433/ski?sslmode=require",
		DatabasePassword: "rotated",
	})
	require.NoError(t, err)
	assert.Equal(t, "rds.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "ski", cfg.Database.Name)
	assert.Equal(t, "ratings", cfg.Database.User)
	assert.Equal(t, "rotated", cfg.Database.Password)
	assert.Equal(t, "require", cfg.Database.SSLMode)
	assert.Equal(t, 12, cfg.Database.MaxConnections)

	err = overlaySecretsOnConfig(cfg, &SecretsOverlay{DatabaseURL: "mysql://x"})
	assert.Error(t, err)
}

func TestParseDSN(t *testing.T) {
	cfg, err := ParseDSN("postgres://u:p@db.local:6543/ratings?sslmode=require")
	require.NoError(t, err)
	assert.Equal(t, "db.local", cfg.Host)
	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, "ratings", cfg.Name)
	assert.Equal(t, "u", cfg.User)
	assert.Equal(t, "p", cfg.Password)
	assert.Equal(t, "require", cfg.SSLMode)

	cfg, err = ParseDSN("postgres://localhost/ratings")
	require.NoError(t, err)
	assert.Equal(t, 5432, cfg.Port)
	assert.Equal(t, "disable", cfg.SSLMode)

	_, err = ParseDSN("mysql://localhost/ratings")
	assert.Error(t, err)
}
