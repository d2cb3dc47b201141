/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package viewer ties the chart renderer, the workbook store and a display
// together into the render, save and load operations.
package viewer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/friendsincode/schedviz/internal/chart"
	"github.com/friendsincode/schedviz/internal/display"
	"github.com/friendsincode/schedviz/internal/model"
	"github.com/friendsincode/schedviz/internal/telemetry"
	"github.com/friendsincode/schedviz/internal/workbook"
)

// RenderOptions controls a single render.
type RenderOptions struct {
	// Persist saves the schedule to the store after drawing.
	Persist bool
}

// Service renders schedules and moves them in and out of the store.
type Service struct {
	renderer *chart.Renderer
	store    *workbook.Store
	display  display.Display
	figOpts  []chart.FigureOption
	logger   zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithDisplay sets where rendered figures are shown. The default discards them.
func WithDisplay(d display.Display) Option {
	return func(s *Service) { s.display = d }
}

// WithFigureOptions sets the options used for every new figure.
func WithFigureOptions(opts ...chart.FigureOption) Option {
	return func(s *Service) { s.figOpts = opts }
}

// NewService creates a viewer service.
func NewService(renderer *chart.Renderer, store *workbook.Store, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		renderer: renderer,
		store:    store,
		display:  display.Nop{},
		logger:   logger.With().Str("component", "viewer").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Render draws sched on a new figure, saves it when opts.Persist is set and
// then shows it. Invalid schedules fail before anything is drawn or saved.
func (s *Service) Render(ctx context.Context, sched *model.Schedule, opts RenderOptions) (fig *chart.Figure, err error) {
	ctx, span := telemetry.StartSpan(ctx, "viewer.render",
		attribute.String("schedule", sched.Name),
		attribute.Bool("persist", opts.Persist),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	fig, err = s.renderer.Render(chart.NewFigure(s.figOpts...), sched)
	telemetry.RendersTotal.WithLabelValues(telemetry.Result(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("render %q: %w", sched.Name, err)
	}
	telemetry.RenderDuration.Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.String("figure_id", fig.ID))

	if opts.Persist {
		path, err := s.save(ctx, sched)
		if err != nil {
			return fig, fmt.Errorf("persist %q: %w", sched.Name, err)
		}
		s.logger.Debug().Str("path", path).Msg("rendered schedule persisted")
	}

	if err := s.display.Show(ctx, fig); err != nil {
		return fig, fmt.Errorf("show %q: %w", sched.Name, err)
	}
	return fig, nil
}

// Save validates sched and writes it to the store.
func (s *Service) Save(ctx context.Context, sched *model.Schedule) (path string, err error) {
	ctx, span := telemetry.StartSpan(ctx, "viewer.save", attribute.String("schedule", sched.Name))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := sched.Validate(); err != nil {
		telemetry.WorkbookOpsTotal.WithLabelValues("save", telemetry.Result(err)).Inc()
		return "", err
	}
	return s.save(ctx, sched)
}

func (s *Service) save(ctx context.Context, sched *model.Schedule) (string, error) {
	path, err := s.store.Save(ctx, sched)
	telemetry.WorkbookOpsTotal.WithLabelValues("save", telemetry.Result(err)).Inc()
	return path, err
}

// Load opens the workbook at path and renders it up to horizon without
// saving it again.
func (s *Service) Load(ctx context.Context, path string, horizon float64) (fig *chart.Figure, err error) {
	ctx, span := telemetry.StartSpan(ctx, "viewer.load",
		attribute.String("path", path),
		attribute.Float64("horizon", horizon),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	if horizon <= 0 {
		return nil, chart.ErrHorizonRequired
	}

	sched, err := s.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	sched.Horizon = horizon

	s.logger.Info().
		Str("schedule", sched.Name).
		Float64("horizon", horizon).
		Msg("rendering stored schedule")
	return s.Render(ctx, sched, RenderOptions{})
}

// Open reads the workbook at path without rendering it.
func (s *Service) Open(ctx context.Context, path string) (*model.Schedule, error) {
	sched, err := s.store.Open(ctx, path)
	telemetry.WorkbookOpsTotal.WithLabelValues("load", telemetry.Result(err)).Inc()
	return sched, err
}
