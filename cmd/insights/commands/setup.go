package commands

import (
	"context"
	"fmt"

	"github.com/duckretail/insights/internal/dataset"
	"github.com/duckretail/insights/internal/engineconfig"
	"github.com/duckretail/insights/internal/ingest"
	"github.com/duckretail/insights/internal/normalize"
	"github.com/duckretail/insights/pkg/config"
	"github.com/duckretail/insights/pkg/database"
	"github.com/duckretail/insights/pkg/logger"
)

// app bundles the wiring shared by every command: configuration,
// analyzer thresholds, the dataset store, and the optional database.
type app struct {
	cfg        *config.Config
	log        *logger.Logger
	engine     *engineconfig.Config
	engineHash string
	store      *dataset.Store
	db         *database.DB // nil for the CSV source
}

// buildApp loads configuration and constructs the dataset store. The
// first snapshot is not loaded here; callers decide when to Refresh.
func buildApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.New(cfg)

	engine, err := loadEngineConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("load engine config: %w", err)
	}

	engineHash, err := engineconfig.Hash(engine)
	if err != nil {
		return nil, fmt.Errorf("hash engine config: %w", err)
	}

	a := &app{
		cfg:        cfg,
		log:        log,
		engine:     engine,
		engineHash: engineHash,
	}

	var loader dataset.Loader
	switch cfg.Data.Source {
	case config.SourcePostgres:
		db, err := database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.db = db
		loader = ingest.NewPostgresLoader(db, cfg.Data.Table, log)
	default:
		loader = ingest.NewCSVLoader(cfg.Data.CSVPath, log)
	}

	a.store = dataset.NewStore(loader, normalize.New(engine.Quality), log)

	return a, nil
}

// loadSnapshot performs the initial dataset load.
func (a *app) loadSnapshot(ctx context.Context) error {
	if err := a.store.Refresh(ctx); err != nil {
		return fmt.Errorf("initial dataset load: %w", err)
	}
	return nil
}

// Close releases held resources.
func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
}

func loadEngineConfig(cfg *config.Config) (*engineconfig.Config, error) {
	if cfg.EngineConfigPath == "" {
		return engineconfig.Default(), nil
	}
	return engineconfig.Load(cfg.EngineConfigPath)
}
