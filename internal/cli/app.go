package cli

import (
	"fmt"
	"os"

	"github.com/halim/orin/internal/config"
	"github.com/halim/orin/internal/logger"
	"github.com/halim/orin/internal/metrics"
	"github.com/halim/orin/pkg/agent"
	"github.com/halim/orin/pkg/coretools"
	"github.com/halim/orin/pkg/executor"
	"github.com/halim/orin/pkg/manifest"
	"github.com/halim/orin/pkg/tool"
)

// app bundles the assembled components one command needs.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	registry *tool.Registry
	executor *executor.Executor
	metrics  *metrics.Metrics
	agent    *agent.Agent
}

// loadConfig loads the config file and applies global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.NewLoader(cfgFile).Load()
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, nil
}

// newRegistry builds the tool registry with the core tools and any
// manifest tools found in the configured directory.
func newRegistry(cfg *config.Config, log *logger.Logger) (*tool.Registry, error) {
	registry := tool.NewRegistry()
	if err := coretools.RegisterCoreTools(registry, coretools.Options{
		WorkspaceRoot: cfg.Tools.Workspace,
		MaxReadBytes:  cfg.Tools.MaxReadBytes,
	}); err != nil {
		return nil, err
	}

	if _, err := os.Stat(cfg.Tools.ManifestDir); err == nil {
		loader := manifest.NewLoader(cfg.Tools.ManifestDir, log.Zerolog())
		count, err := loader.RegisterAll(registry)
		if err != nil {
			return nil, err
		}
		zl := log.Zerolog()
		zl.Info().Int("count", count).Str("dir", cfg.Tools.ManifestDir).Msg("Manifest tools registered")
	}
	return registry, nil
}

// newApp builds the component graph: registry with core and manifest
// tools, executor, metrics, provider, and agent. The extra callbacks are
// attached alongside the metrics observer so every run feeds them.
func newApp(cfg *config.Config, log *logger.Logger, extraEvents ...executor.EventCallback) (*app, error) {
	registry, err := newRegistry(cfg, log)
	if err != nil {
		return nil, err
	}

	apiKey, err := cfg.ResolveAPIKey()
	if err != nil {
		return nil, err
	}
	provider, err := agent.NewProvider(cfg.Provider.Name, apiKey)
	if err != nil {
		return nil, err
	}

	exec := executor.New(registry, log.Zerolog())
	m := metrics.New()

	callbacks := append([]executor.EventCallback{m.Callback()}, extraEvents...)

	ag, err := agent.New(agent.Config{
		Registry:    registry,
		Executor:    exec,
		Provider:    provider,
		Model:       cfg.Provider.Model,
		Temperature: cfg.Agent.Temperature,
		MaxTokens:   cfg.Agent.MaxTokens,
		Logger:      log.Zerolog(),
		Events:      executor.MultiCallback(callbacks...),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build agent: %w", err)
	}

	return &app{
		cfg:      cfg,
		log:      log,
		registry: registry,
		executor: exec,
		metrics:  m,
		agent:    ag,
	}, nil
}

// newConsoleApp is the assembly used by the interactive commands.
func newConsoleApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Logging)
	if err != nil {
		return nil, err
	}
	return newApp(cfg, log, consoleEventCallback)
}

func (a *app) close() {
	_ = a.log.Close()
}
