/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package display shows rendered schedule charts: as image files, on the
// terminal, or over HTTP.
package display

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/friendsincode/schedviz/internal/chart"
)

// Display shows a rendered figure.
type Display interface {
	Show(ctx context.Context, fig *chart.Figure) error
}

// Nop discards figures.
type Nop struct{}

// Show implements Display.
func (Nop) Show(context.Context, *chart.Figure) error { return nil }

// FileDisplay writes each figure to <dir>/<slug>.<format>.
type FileDisplay struct {
	dir    string
	format string
	logger zerolog.Logger

	last string
}

// NewFileDisplay creates a file display.
func NewFileDisplay(dir, format string, logger zerolog.Logger) *FileDisplay {
	return &FileDisplay{
		dir:    dir,
		format: strings.ToLower(format),
		logger: logger.With().Str("component", "file_display").Logger(),
	}
}

// Path returns the file fig is written to.
func (d *FileDisplay) Path(fig *chart.Figure) string {
	return filepath.Join(d.dir, slugify(fig.Title())+"."+d.format)
}

// LastPath returns the path of the most recently written chart.
func (d *FileDisplay) LastPath() string { return d.last }

// Show implements Display.
func (d *FileDisplay) Show(ctx context.Context, fig *chart.Figure) error {
	path := d.Path(fig)
	if err := fig.Save(path); err != nil {
		return err
	}
	d.last = path

	d.logger.Info().
		Str("figure_id", fig.ID).
		Str("path", path).
		Msg("chart written")
	return nil
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	var result strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			result.WriteRune(r)
		}
	}
	if result.Len() == 0 {
		return "schedule"
	}
	return result.String()
}
