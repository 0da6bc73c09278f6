package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sarawak-explorer/itinerary/internal/catalog"
	"github.com/sarawak-explorer/itinerary/internal/clock"
	"github.com/sarawak-explorer/itinerary/internal/config"
	"github.com/sarawak-explorer/itinerary/internal/export"
	"github.com/sarawak-explorer/itinerary/internal/fsops"
	"github.com/sarawak-explorer/itinerary/internal/itinerary"
	"github.com/sarawak-explorer/itinerary/internal/kv"
	"github.com/sarawak-explorer/itinerary/internal/log"
	"github.com/sarawak-explorer/itinerary/internal/service"
	"github.com/sarawak-explorer/itinerary/internal/store"
)

// app holds everything a command needs, wired from the config file.
type app struct {
	paths *config.Paths
	cfg   *config.Config
	fs    fsops.FS
	clock *clock.RealClock
	kv    kv.Store
	slot  *kv.Slot
	svc   *service.Service
}

// loadConfig resolves paths, loads .env and config.yaml and applies
// environment overrides.
func loadConfig() (*config.Paths, *config.Config, error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get config paths: %w", err)
	}
	if configPath != "" {
		paths.Config = configPath
	}

	if err := paths.EnsureDirectories(); err != nil {
		return nil, nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	config.LoadDotEnv(paths)

	cfg, err := config.Load(fsops.NewRealFS(), paths.Config)
	if err != nil {
		return nil, nil, err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config %s: %w", paths.Config, err)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	log.SetLevel(level)

	return paths, cfg, nil
}

// newApp creates the service with real implementations of all dependencies.
// The caller must Close it.
func newApp(ctx context.Context) (*app, error) {
	paths, cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	loc, err := clock.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	clk := clock.NewRealClock(loc)
	fs := fsops.NewRealFS()

	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	ids, err := itinerary.NewIDGenerator(cfg.IDScheme, clk)
	if err != nil {
		return nil, err
	}

	backend, err := kv.Open(ctx, fs, cfg.StorageOptions(paths))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}
	slot := kv.NewSlot(backend, cfg.Storage.Slot)

	return &app{
		paths: paths,
		cfg:   cfg,
		fs:    fs,
		clock: clk,
		kv:    backend,
		slot:  slot,
		svc:   service.New(store.New(slot, clk), ids, cat, clk),
	}, nil
}

// loadCatalog returns the configured catalog, or the built-in one.
func loadCatalog(cfg *config.Config) (catalog.Provider, error) {
	if cfg.CatalogPath == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	return cat, nil
}

// Close releases the storage backend.
func (a *app) Close() {
	if err := a.kv.Close(); err != nil {
		log.Error("failed to close storage", err, "backend", a.cfg.Storage.Backend)
	}
}

func (a *app) exportOptions() export.Options {
	return export.Options{
		Location: a.clock.Location(),
		Duration: time.Duration(a.cfg.Export.EventMinutes) * time.Minute,
		Title:    a.cfg.Export.Title,
		Now:      a.clock.Now(),
	}
}

// formatJSON formats a value as JSON.
func formatJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// formatError formats an error for display. Errors from the itinerary core
// are shown as their user message.
func formatError(err error) string {
	return errorColor.Sprintf("Error: %s", itinerary.UserMessage(err))
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
