/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package chart

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/friendsincode/schedviz/internal/model"
)

var (
	// ErrNotRendered is returned when encoding a figure nothing was drawn on.
	ErrNotRendered = errors.New("figure has not been rendered")

	// ErrUnsupportedFormat is returned for image formats the encoder does not know.
	ErrUnsupportedFormat = errors.New("unsupported chart format")
)

// Formats lists the image formats a figure can be encoded to.
var Formats = []string{"png", "svg", "pdf"}

// Default figure size, in inches.
const (
	DefaultWidthInches  = 10
	DefaultHeightInches = 3
)

// Figure is the chart context. The caller creates it, passes it to Render
// and owns the result; there is no process wide current figure.
type Figure struct {
	ID     string
	Width  vg.Length
	Height vg.Length

	plot     *plot.Plot
	layout   *Layout
	schedule *model.Schedule
}

// FigureOption configures a Figure.
type FigureOption func(*Figure)

// WithSize sets the figure size in inches. Non-positive values keep the default.
func WithSize(widthInches, heightInches float64) FigureOption {
	return func(f *Figure) {
		if widthInches > 0 {
			f.Width = vg.Length(widthInches) * vg.Inch
		}
		if heightInches > 0 {
			f.Height = vg.Length(heightInches) * vg.Inch
		}
	}
}

// NewFigure creates an empty figure.
func NewFigure(opts ...FigureOption) *Figure {
	f := &Figure{
		ID:     uuid.NewString(),
		Width:  DefaultWidthInches * vg.Inch,
		Height: DefaultHeightInches * vg.Inch,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Plot returns the underlying plot, or nil before the figure is rendered.
func (f *Figure) Plot() *plot.Plot { return f.plot }

// Layout returns the geometry last drawn on the figure.
func (f *Figure) Layout() *Layout { return f.layout }

// Schedule returns the schedule last drawn on the figure.
func (f *Figure) Schedule() *model.Schedule { return f.schedule }

// Rendered reports whether the figure holds a chart.
func (f *Figure) Rendered() bool { return f.plot != nil && f.layout != nil }

// Title returns the chart title, which is the schedule name.
func (f *Figure) Title() string {
	if f.layout == nil {
		return ""
	}
	return f.layout.Title
}

// Encode writes the figure to w in the given format.
func (f *Figure) Encode(w io.Writer, format string) error {
	if !f.Rendered() {
		return ErrNotRendered
	}
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if !SupportedFormat(format) {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	wt, err := f.plot.WriterTo(f.Width, f.Height, format)
	if err != nil {
		return fmt.Errorf("prepare %s canvas: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("%w: write %s chart: %v", model.ErrIO, format, err)
	}
	return nil
}

// Save writes the figure to path, choosing the format from its extension.
// Parent directories are created as needed.
func (f *Figure) Save(path string) (err error) {
	if !f.Rendered() {
		return ErrNotRendered
	}
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if !SupportedFormat(format) {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: create directories: %v", model.ErrIO, err)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create chart file: %v", model.ErrIO, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close chart file: %v", model.ErrIO, cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	return f.Encode(out, format)
}

// SupportedFormat reports whether format is one of Formats.
func SupportedFormat(format string) bool {
	format = strings.ToLower(format)
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// ContentType returns the MIME type for a supported format.
func ContentType(format string) string {
	switch strings.ToLower(format) {
	case "svg":
		return "image/svg+xml"
	case "pdf":
		return "application/pdf"
	default:
		return "image/png"
	}
}
