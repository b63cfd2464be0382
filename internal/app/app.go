package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/gridflow/internal/builder"
	"github.com/vk/gridflow/internal/config"
	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/graph"
	"github.com/vk/gridflow/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	loader   config.Loader
	graph    *graph.Graph
	config   *Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry,
// with the initial graph already built.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All node-kind modules registered.", "count", len(modules))

	if err := reg.Validate(ctx); err != nil {
		// A registered kind with a broken port shape is a programmer error.
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	g, err := loadAndBuild(ctx, loader, reg, appConfig.GraphPath)
	if err != nil {
		// A failure to load the initial graph is a fatal startup error.
		panic(fmt.Errorf("failed to load graph: %w", err))
	}
	logger.Debug("Initial graph built.")

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		loader:   loader,
		graph:    g,
		config:   appConfig,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Graph returns the current graph. This is primarily for testing.
func (a *App) Graph() *graph.Graph {
	return a.graph
}

// loadAndBuild runs the full definition pipeline: load the config model and
// materialize it into a connected, evaluable graph.
func loadAndBuild(ctx context.Context, loader config.Loader, reg *registry.Registry, path string) (*graph.Graph, error) {
	model, err := loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	logger := ctxlog.FromContext(ctx)
	g, err := builder.Build(ctx, model, reg, graph.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return g, nil
}
