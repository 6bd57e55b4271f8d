package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mmmm-dev/mmmm/internal/configfile"
	"github.com/mmmm-dev/mmmm/internal/kinds"
	"github.com/mmmm-dev/mmmm/internal/loader"
	"github.com/mmmm-dev/mmmm/internal/modsource"
	"github.com/mmmm-dev/mmmm/internal/modsource/httpmodsource"
	"github.com/mmmm-dev/mmmm/internal/registry"
	"github.com/mmmm-dev/mmmm/internal/resolvecache"
	"github.com/mmmm-dev/mmmm/internal/scheduler"
	"github.com/mmmm-dev/mmmm/internal/wferrors"
)

// cacheCapacity bounds the resolution cache's in-memory LRU (SPEC_FULL.md
// §4.7). A modpack rarely names more than a few thousand distinct mods.
const cacheCapacity = 4096

// App encapsulates one run's dependencies: its logger, node-kind registry,
// mod resolution capability, and resolution cache.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	registry  *registry.Registry
	modSource modsource.ModSource
	cache     *resolvecache.Cache
	cfg       *Config
}

// NewApp constructs an App: it resolves the config directory, loads
// mmmm.toml, builds the mod-resolution capability it describes, and
// registers every node kind. A failure here is a fatal startup error.
func NewApp(outW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	configDir := cfg.ConfigDir
	if configDir == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			configDir = dir + string(os.PathSeparator) + "mmmm"
		}
	}

	var modSrc modsource.ModSource = modsource.NewFake()
	if configDir != "" {
		file, err := configfile.Load(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		if file.CurseAPIKey != "" || file.CurseProxyURL != "" {
			modSrc = httpmodsource.New(httpmodsource.Config{
				CurseAPIKey:    file.CurseAPIKey,
				CurseProxyURL:  file.CurseProxyURL,
				ModrinthAPIURL: file.ModrinthAPIURL,
			})
			logger.Debug("Configured HTTP mod source from mmmm.toml.")
		} else {
			logger.Debug("No CurseForge credentials configured; CurseForge resolution will fail if requested.")
		}
	}

	cache, err := resolvecache.New(cacheCapacity)
	if err != nil {
		return nil, fmt.Errorf("failed to construct resolution cache: %w", err)
	}
	if cfg.ClearCache {
		cache.Clear()
		logger.Info("Resolution cache cleared.")
	}

	reg := registry.New()
	kinds.RegisterAll(reg)
	logger.Debug("Node kinds registered.", "count", len(reg.Names()))

	return &App{
		outW:      outW,
		logger:    logger,
		registry:  reg,
		modSource: modSrc,
		cache:     cache,
		cfg:       cfg,
	}, nil
}

// Registry returns the application's node-kind registry, primarily for
// testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Run loads the workflow at cfg.WorkflowPath, validates it, and executes it
// to completion.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	a.logger.Debug("App.Run started.", "workflow_path", cfg.WorkflowPath)

	doc, err := os.ReadFile(cfg.WorkflowPath)
	if err != nil {
		return wferrors.Wrap(wferrors.KindIO, err, fmt.Sprintf("reading workflow %s", cfg.WorkflowPath))
	}

	graph, err := loader.Load(doc, a.registry)
	if err != nil {
		return fmt.Errorf("failed to load workflow: %w", err)
	}
	if cfg.OutputDir != "" {
		graph.Config = graph.Config.WithOverrides(map[string]string{"output_dir": cfg.OutputDir})
	}
	a.logger.Debug("Workflow loaded and validated.", "node_count", len(graph.Nodes))

	sched := scheduler.New(graph, a.logger, a.modSource, a.cache)
	if err := sched.Run(ctx); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}

	a.logger.Info("Workflow finished successfully.")
	return nil
}
