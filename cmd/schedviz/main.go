/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/friendsincode/schedviz/internal/chart"
	"github.com/friendsincode/schedviz/internal/config"
	"github.com/friendsincode/schedviz/internal/display"
	"github.com/friendsincode/schedviz/internal/logging"
	"github.com/friendsincode/schedviz/internal/model"
	"github.com/friendsincode/schedviz/internal/storage"
	"github.com/friendsincode/schedviz/internal/telemetry"
	"github.com/friendsincode/schedviz/internal/version"
	"github.com/friendsincode/schedviz/internal/viewer"
	"github.com/friendsincode/schedviz/internal/workbook"
)

var (
	logger zerolog.Logger
	cfg    *config.Config
)

// Root flags overriding the environment.
var (
	flagFormat    string
	flagDisplay   string
	flagOutputDir string
	flagSolutions string
)

var rootCmd = &cobra.Command{
	Use:   "schedviz",
	Short: "schedviz - single processor schedule timeline charts",
	Long: "schedviz draws the timeline of a single processor schedule (task executions, " +
		"arrivals, deadlines, scheduler activity and idle time) and stores schedules as xlsx workbooks.",
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagFormat, "format", "", "Chart image format: png, svg or pdf (default from SCHEDVIZ_CHART_FORMAT)")
	pf.StringVar(&flagDisplay, "display", "", "Where to show charts: file, terminal or none (default from SCHEDVIZ_DISPLAY)")
	pf.StringVar(&flagOutputDir, "out", "", "Directory rendered charts are written to (default from SCHEDVIZ_OUTPUT_DIR)")
	pf.StringVar(&flagSolutions, "solutions", "", "Directory workbooks are saved to (default from SCHEDVIZ_SOLUTIONS_DIR)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads configuration (called by commands that need it)
func loadConfig() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if flagFormat != "" {
		cfg.ChartFormat = strings.ToLower(flagFormat)
	}
	if flagDisplay != "" {
		cfg.Display = config.DisplayMode(strings.ToLower(flagDisplay))
	}
	if flagOutputDir != "" {
		cfg.OutputDir = flagOutputDir
	}
	if flagSolutions != "" {
		cfg.SolutionsDir = flagSolutions
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	logger = logging.Setup(cfg.Environment)
	return nil
}

// startTracing installs the tracer provider; the returned func flushes it.
func startTracing(ctx context.Context) (func(), error) {
	tp, err := telemetry.InitTracer(ctx, telemetry.TracerConfig{
		ServiceName:    "schedviz",
		ServiceVersion: version.Version,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.TracingEnabled,
		SampleRate:     cfg.TracingSampleRate,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize tracer: %w", err)
	}
	return func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown tracer provider")
		}
	}, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// newStore builds the workbook store, publishing to S3 or a local mirror when configured.
func newStore(ctx context.Context) (*workbook.Store, error) {
	var opts []workbook.StoreOption
	if cfg.PublishEnabled() {
		s3, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			UsePathStyle:    cfg.S3UsePathStyle,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("initialize object storage: %w", err)
		}
		opts = append(opts, workbook.WithPublisher(s3))
		logger.Info().Str("bucket", cfg.S3Bucket).Msg("publishing saved schedules to object storage")
	} else if cfg.MirrorEnabled() {
		opts = append(opts, workbook.WithPublisher(storage.NewFilesystemStore(cfg.PublishDir, logger)))
		logger.Info().Str("dir", cfg.PublishDir).Msg("mirroring saved schedules")
	}
	return workbook.NewStore(cfg.SolutionsDir, logger, opts...), nil
}

// newDisplay picks the display configured for the process.
func newDisplay(mode config.DisplayMode) display.Display {
	switch mode {
	case config.DisplayTerminal:
		return display.NewTerminalDisplay(logger)
	case config.DisplayNone:
		return display.Nop{}
	default:
		return display.NewFileDisplay(cfg.OutputDir, cfg.ChartFormat, logger)
	}
}

// newService wires renderer, store and d together.
func newService(ctx context.Context, d display.Display) (*viewer.Service, error) {
	store, err := newStore(ctx)
	if err != nil {
		return nil, err
	}
	return viewer.NewService(
		chart.NewRenderer(logger),
		store,
		logger,
		viewer.WithDisplay(d),
		viewer.WithFigureOptions(chart.WithSize(cfg.ChartWidth, cfg.ChartHeight)),
	), nil
}

// readDocument reads a YAML schedule document; "-" reads standard input.
func readDocument(path string) (*model.Schedule, error) {
	if path == "-" {
		return model.DecodeYAML(os.Stdin)
	}
	return model.ReadYAMLFile(path)
}

// applyHorizon sets the horizon from --max-time, or derives one from the
// schedule when neither the flag nor the document provides it.
func applyHorizon(s *model.Schedule, maxTime float64) {
	switch {
	case maxTime > 0:
		s.Horizon = maxTime
	case s.Horizon <= 0:
		s.Horizon = s.DeriveHorizon()
		logger.Warn().
			Str("schedule", s.Name).
			Float64("horizon", s.Horizon).
			Msg("no --max-time given, horizon derived from schedule contents")
	}
}
