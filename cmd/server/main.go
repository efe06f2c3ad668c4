package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pickwise/internal/config"
	"pickwise/internal/db"
	"pickwise/internal/jobs"
	"pickwise/internal/logging"
	"pickwise/internal/metrics"
	"pickwise/internal/models"
	"pickwise/internal/prefs"
	"pickwise/internal/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	// Load presets
	yamlCfg, err := config.LoadYAMLConfig(cfg.ConfigFile)
	if err != nil {
		logging.Fatal().Err(err).Str("file", cfg.ConfigFile).Msg("failed to load config file")
	}
	presets := yamlCfg.PresetModels(cfg.DefaultAdventure)
	logging.Info().Int("presets", len(presets)).Msg("presets loaded")

	// Initialize preference store
	backend, err := openBackend(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open preference store")
	}
	defer backend.Close()

	if err := seedPresets(ctx, backend, presets); err != nil {
		logging.Fatal().Err(err).Msg("failed to seed preset options")
	}

	metrics.Init(backend)

	// Background jobs
	if collector, ok := backend.(jobs.Collector); ok {
		go jobs.NewValueLogGC(collector, cfg.BadgerGCInterval).Start(ctx)
	}

	srv := server.New(cfg)
	srv.RegisterRoutes(backend, presets)

	go func() {
		if err := srv.Start(); err != nil {
			logging.Error().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info().Msg("shutting down server")
	cancel()
	if err := srv.Shutdown(); err != nil {
		logging.Error().Err(err).Msg("server forced to shutdown")
	}
	logging.Info().Msg("server exited")
}

// openBackend opens the preference store selected by cfg.StoreDriver.
func openBackend(ctx context.Context, cfg *config.Config) (prefs.Backend, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		logging.Warn().Msg("using in-memory preference store; preferences are lost on restart")
		return prefs.NewMemoryStore(), nil

	case config.StoreBadger:
		store, err := prefs.OpenBadger(cfg.BadgerPath)
		if err != nil {
			return nil, err
		}
		logging.Info().Str("path", cfg.BadgerPath).Msg("badger store opened")
		return store, nil

	case config.StorePostgres:
		database, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			database.Close()
			return nil, err
		}
		logging.Info().Msg("migrations completed successfully")
		return database, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// seedPresets creates empty records for preset options so they show up in
// stats and metrics before their first pick.
func seedPresets(ctx context.Context, store prefs.Store, presets []models.Preset) error {
	for _, p := range presets {
		for _, title := range p.Options {
			if _, err := prefs.GetOrCreate(ctx, store, title); err != nil {
				return fmt.Errorf("preset %q: %w", p.Name, err)
			}
		}
	}
	return nil
}
