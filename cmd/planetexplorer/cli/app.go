package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/planetexplorer/planetexplorer/internal/config"
	"github.com/planetexplorer/planetexplorer/internal/dispatch"
	"github.com/planetexplorer/planetexplorer/internal/repository"
	"github.com/planetexplorer/planetexplorer/internal/state"
	"github.com/planetexplorer/planetexplorer/internal/swapi"
	"github.com/planetexplorer/planetexplorer/internal/telemetry"
	"github.com/planetexplorer/planetexplorer/internal/usecase"
)

// app is the composition root shared by every command that talks to the
// planets API.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	metrics    *telemetry.Metrics
	client     *swapi.Client
	getPlanets *usecase.GetPlanets
	getPlanet  *usecase.GetPlanet
}

// newApp loads the configuration for cmd and wires the client, repository
// and use cases.
func newApp(cmd *cobra.Command, bindings map[string]string) (*app, error) {
	cfg, err := loadConfig(cmd, bindings)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg.Logging, devMode)
	if err != nil {
		return nil, err
	}
	metrics := telemetry.New()

	opts := []swapi.Option{
		swapi.WithTimeout(cfg.API.TimeoutDuration()),
		swapi.WithRateLimit(cfg.API.RequestsPerSecond),
		swapi.WithObserver(metrics),
	}
	if cfg.API.UserAgent != "" {
		opts = append(opts, swapi.WithUserAgent(cfg.API.UserAgent))
	}
	client, err := swapi.NewClient(cfg.API.BaseURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("init planets API client: %w", err)
	}

	repo := repository.NewPlanets(client, logger)
	io := dispatch.New("io", cfg.State.IOParallelism)

	return &app{
		cfg:        cfg,
		logger:     logger,
		metrics:    metrics,
		client:     client,
		getPlanets: usecase.NewGetPlanets(repo, io),
		getPlanet:  usecase.NewGetPlanet(repo),
	}, nil
}

// holderOptions are the options shared by every screen state holder.
func (a *app) holderOptions() []state.Option {
	return []state.Option{
		state.WithLogger(a.logger),
		state.WithObserver(a.metrics),
		state.WithHolderStopTimeout(a.cfg.State.StopDuration()),
	}
}

// newLogger builds the process logger. Logs always go to stderr so stdout
// stays clean for command output and the MCP stdio transport.
func newLogger(cfg config.LoggingConfig, dev bool) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("invalid logging.level %q", cfg.Level)
	}
	if dev {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(cfg.Format) {
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, handlerOpts)), nil
	case "", "text":
		return slog.New(slog.NewTextHandler(os.Stderr, handlerOpts)), nil
	default:
		return nil, fmt.Errorf("invalid logging.format %q: use text or json", cfg.Format)
	}
}

// versionString returns a display version string.
func versionString() string {
	if appVersion == "" || appVersion == "dev" {
		return "dev"
	}
	if strings.HasPrefix(appVersion, "v") {
		return appVersion
	}
	return "v" + appVersion
}
