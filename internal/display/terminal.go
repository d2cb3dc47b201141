/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package display

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/friendsincode/schedviz/internal/chart"
)

const schedulerLine = "scheduler"

// TerminalDisplay draws the chart as text on a full-screen terminal and
// blocks until the user presses q, Esc or Ctrl-C, or ctx is cancelled.
type TerminalDisplay struct {
	logger    zerolog.Logger
	newScreen func() (tcell.Screen, error)
}

// NewTerminalDisplay creates a terminal display.
func NewTerminalDisplay(logger zerolog.Logger) *TerminalDisplay {
	return &TerminalDisplay{
		logger:    logger.With().Str("component", "terminal_display").Logger(),
		newScreen: tcell.NewScreen,
	}
}

// Show implements Display.
func (d *TerminalDisplay) Show(ctx context.Context, fig *chart.Figure) error {
	if !fig.Rendered() {
		return chart.ErrNotRendered
	}
	screen, err := d.newScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	d.logger.Debug().Str("figure_id", fig.ID).Msg("showing chart on terminal")
	return d.run(ctx, screen, fig)
}

func (d *TerminalDisplay) run(ctx context.Context, screen tcell.Screen, fig *chart.Figure) error {
	stop := context.AfterFunc(ctx, func() {
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	Paint(screen, fig.Layout())
	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			screen.Sync()
			Paint(screen, fig.Layout())
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				return nil
			}
		case *tcell.EventInterrupt:
			return ctx.Err()
		}
	}
}

// Paint draws l onto screen: the title, one line per row with its label,
// and the time axis underneath.
func Paint(screen tcell.Screen, l *chart.Layout) {
	screen.Clear()
	width, height := screen.Size()

	labelWidth := len(schedulerLine)
	for _, label := range l.Labels {
		labelWidth = max(labelWidth, len([]rune(label)))
	}
	labelWidth++

	plain := tcell.StyleDefault
	drawText(screen, 0, 0, width, l.Title, plain.Bold(true))

	g := Rasterize(l, width-labelWidth)
	for i := range g.Cells {
		y := i + 1
		if y >= height {
			break
		}
		label := g.Lines[i]
		if i == 0 {
			label = schedulerLine
		}
		drawText(screen, 0, y, labelWidth, label, plain)
		for x, kind := range g.Cells[i] {
			screen.SetContent(labelWidth+x, y, kind.Rune(), nil, styleForCell(kind))
		}
	}

	y := len(g.Cells) + 1
	if y < height {
		drawText(screen, labelWidth, y, g.Width, strings.Repeat("─", g.Width), plain)
	}
	if y+1 < height {
		for _, t := range g.Ticks {
			drawText(screen, labelWidth+t.Column, y+1, g.Width-t.Column, t.Label, plain)
		}
	}
	if y+2 < height {
		drawText(screen, labelWidth, y+2, g.Width, chart.XAxisLabel, plain.Dim(true))
	}
	screen.Show()
}

func styleForCell(kind CellKind) tcell.Style {
	style := tcell.StyleDefault
	switch kind {
	case CellTask:
		return style.Foreground(tcell.ColorBlue)
	case CellBand:
		return style.Foreground(tcell.ColorGreen)
	case CellArrival:
		return style.Foreground(tcell.ColorRed).Bold(true)
	case CellDeadline:
		return style.Foreground(tcell.ColorViolet).Bold(true)
	case CellIdle:
		return style.Foreground(tcell.ColorGray)
	default:
		return style
	}
}

func drawText(screen tcell.Screen, x, y, width int, text string, style tcell.Style) {
	if width <= 0 {
		return
	}
	runes := []rune(text)
	for i := 0; i < width && i < len(runes); i++ {
		screen.SetContent(x+i, y, runes[i], nil, style)
	}
}
