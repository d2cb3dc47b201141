package chart

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"gonum.org/v1/plot/vg"

	"github.com/friendsincode/schedviz/internal/model"
)

func TestRenderBuildsPlot(t *testing.T) {
	r := NewRenderer(zerolog.Nop())

	fig, err := r.Render(nil, taskABSchedule())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !fig.Rendered() {
		t.Fatal("figure not rendered")
	}

	p := fig.Plot()
	if p.Title.Text != "TaskA/TaskB" {
		t.Errorf("title = %q", p.Title.Text)
	}
	if p.X.Label.Text != XAxisLabel {
		t.Errorf("x label = %q", p.X.Label.Text)
	}
	if p.X.Min != 0 || p.X.Max != 10 || p.Y.Min != 0 || p.Y.Max != 2.5 {
		t.Errorf("axis ranges x[%v,%v] y[%v,%v]", p.X.Min, p.X.Max, p.Y.Min, p.Y.Max)
	}

	yTicks := p.Y.Tick.Marker.Ticks(p.Y.Min, p.Y.Max)
	if len(yTicks) != 2 || yTicks[0].Label != "TaskA" || yTicks[1].Value != 1.5 {
		t.Errorf("y ticks = %+v", yTicks)
	}
}

func TestRenderReusesCallerFigure(t *testing.T) {
	r := NewRenderer(zerolog.Nop())
	fig := NewFigure(WithSize(6, 2))

	got, err := r.Render(fig, taskABSchedule())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != fig {
		t.Fatal("Render returned a different figure than it was given")
	}
	if fig.Width != 6*vg.Inch || fig.Height != 2*vg.Inch {
		t.Fatalf("size = %v x %v", fig.Width, fig.Height)
	}
}

func TestRenderFailsBeforeDrawing(t *testing.T) {
	r := NewRenderer(zerolog.Nop())
	fig := NewFigure()

	s := taskABSchedule()
	s.Executions = nil
	if _, err := r.Render(fig, s); !errors.Is(err, model.ErrDataConsistency) {
		t.Fatalf("Render() error = %v, want ErrDataConsistency", err)
	}
	if fig.Rendered() {
		t.Fatal("figure was drawn despite inconsistent data")
	}
	if err := fig.Encode(&bytes.Buffer{}, "png"); !errors.Is(err, ErrNotRendered) {
		t.Fatalf("Encode() error = %v, want ErrNotRendered", err)
	}
}

func TestFigureEncodeSVG(t *testing.T) {
	s := taskABSchedule()
	s.Idle = []model.IdleInterval{{Start: 6, Duration: 2}}

	fig, err := NewRenderer(zerolog.Nop()).Render(nil, s)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	var buf bytes.Buffer
	if err := fig.Encode(&buf, "svg"); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<svg") {
		t.Fatal("output is not svg")
	}
	for _, want := range []string{"TaskA", "TaskB", XAxisLabel} {
		if !strings.Contains(out, want) {
			t.Errorf("svg output missing %q", want)
		}
	}
}

func TestFigureSave(t *testing.T) {
	fig, err := NewRenderer(zerolog.Nop()).Render(nil, taskABSchedule())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	path := filepath.Join(t.TempDir(), "charts", "example.png")
	if err := fig.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read chart: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatal("saved file is not a png")
	}

	if err := fig.Save(filepath.Join(t.TempDir(), "example.bmp")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Save(.bmp) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestHatchLinesStayInsideRectangle(t *testing.T) {
	lo := vg.Point{X: 10, Y: 20}
	hi := vg.Point{X: 40, Y: 30}

	lines := hatchLines(lo, hi, 4)
	if len(lines) == 0 {
		t.Fatal("expected hatch lines")
	}
	for i, ln := range lines {
		for _, p := range ln {
			if p.X < lo.X || p.X > hi.X || p.Y < lo.Y || p.Y > hi.Y {
				t.Fatalf("line %d point %+v outside rectangle", i, p)
			}
		}
		if dx, dy := ln[1].X-ln[0].X, ln[1].Y-ln[0].Y; dx != dy {
			t.Fatalf("line %d is not at 45 degrees: dx=%v dy=%v", i, dx, dy)
		}
	}
}

func TestArrowHeadPointsAlongShaft(t *testing.T) {
	down := vg.Point{X: 5, Y: 0}
	left, right := arrowHead(vg.Point{X: 5, Y: 10}, down, 2)
	if left.Y <= down.Y || right.Y <= down.Y {
		t.Fatalf("downward head wings should sit above the tip: %v %v", left, right)
	}

	up := vg.Point{X: 5, Y: 10}
	left, right = arrowHead(vg.Point{X: 5, Y: 0}, up, 2)
	if left.Y >= up.Y || right.Y >= up.Y {
		t.Fatalf("upward head wings should sit below the tip: %v %v", left, right)
	}
}
