// Package bootstrap assembles a fully wired pipeline from configuration
// for binaries. Library users who want finer control construct the
// stages directly.
package bootstrap

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/coperniq/leadrank/internal/config"
	"github.com/coperniq/leadrank/internal/logging"
	"github.com/coperniq/leadrank/internal/pipeline"
	"github.com/coperniq/leadrank/internal/telemetry"
)

// Components holds everything a binary needs to run the pipeline.
type Components struct {
	Config   *config.Config
	Logger   *logging.ZapAdapter
	Metrics  *telemetry.Provider
	Pipeline *pipeline.Pipeline
}

// NewComponents loads configuration and wires the pipeline. configPath
// may be empty for pure defaults. A .env file in the working directory
// is loaded first so env overrides work in local runs.
func NewComponents(configPath string, now time.Time) (*Components, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	metrics := telemetry.NewProvider()

	p, err := pipeline.New(cfg, now, metrics, logger)
	if err != nil {
		return nil, fmt.Errorf("create pipeline: %w", err)
	}

	logger.Info("pipeline components initialized",
		"service", cfg.Service.Name,
		"version", cfg.Service.Version,
	)

	return &Components{
		Config:   cfg,
		Logger:   logger,
		Metrics:  metrics,
		Pipeline: p,
	}, nil
}

// newLogger builds a zap logger matching the configured level and format.
func newLogger(cfg config.LoggingConfig) (*logging.ZapAdapter, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	log, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return logging.NewZapAdapter(log), nil
}
