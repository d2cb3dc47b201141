package viewer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/friendsincode/schedviz/internal/chart"
	"github.com/friendsincode/schedviz/internal/model"
	"github.com/friendsincode/schedviz/internal/workbook"
)

type recordingDisplay struct {
	shown []*chart.Figure
	err   error
}

func (d *recordingDisplay) Show(_ context.Context, fig *chart.Figure) error {
	d.shown = append(d.shown, fig)
	return d.err
}

func newTestService(t *testing.T) (*Service, *recordingDisplay, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "solutions")
	d := &recordingDisplay{}
	svc := NewService(
		chart.NewRenderer(zerolog.Nop()),
		workbook.NewStore(dir, zerolog.Nop()),
		zerolog.Nop(),
		WithDisplay(d),
		WithFigureOptions(chart.WithSize(4, 2)),
	)
	return svc, d, dir
}

func rmSchedule() *model.Schedule {
	return &model.Schedule{
		Name: "rm",
		Executions: []model.ExecutionInterval{
			{Task: "TaskA", Start: 0, Duration: 4},
			{Task: "TaskB", Start: 4, Duration: 2},
		},
		Arrivals:  []model.Event{{Task: "TaskA", Time: 0}},
		Deadlines: []model.Event{{Task: "TaskA", Time: 6}},
		Scheduler: model.SchedulerActivity{Period: 5, Execution: 1},
		Idle:      []model.IdleInterval{{Start: 8, Duration: 2}},
		Horizon:   10,
	}
}

func TestRenderShowsWithoutPersisting(t *testing.T) {
	svc, d, dir := newTestService(t)

	fig, err := svc.Render(context.Background(), rmSchedule(), RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(d.shown) != 1 || d.shown[0] != fig {
		t.Fatalf("display got %d figures", len(d.shown))
	}
	if fig.Title() != "rm" {
		t.Fatalf("title = %q", fig.Title())
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("solutions dir created without persist: %v", err)
	}
}

func TestRenderPersists(t *testing.T) {
	svc, _, dir := newTestService(t)

	if _, err := svc.Render(context.Background(), rmSchedule(), RenderOptions{Persist: true}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "rm.xlsx")); err != nil {
		t.Fatalf("persisted workbook missing: %v", err)
	}
}

func TestRenderInvalidScheduleHasNoSideEffects(t *testing.T) {
	svc, d, dir := newTestService(t)

	s := rmSchedule()
	s.Executions = nil
	_, err := svc.Render(context.Background(), s, RenderOptions{Persist: true})
	if !errors.Is(err, model.ErrDataConsistency) {
		t.Fatalf("Render = %v, want ErrDataConsistency", err)
	}
	if len(d.shown) != 0 {
		t.Fatal("invalid schedule was shown")
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatal("invalid schedule was persisted")
	}
}

func TestRenderReportsDisplayError(t *testing.T) {
	svc, d, _ := newTestService(t)
	d.err = errors.New("no terminal")

	fig, err := svc.Render(context.Background(), rmSchedule(), RenderOptions{})
	if !errors.Is(err, d.err) {
		t.Fatalf("Render = %v, want display error", err)
	}
	if fig == nil || !fig.Rendered() {
		t.Fatal("figure should still be returned")
	}
}

func TestSaveThenLoad(t *testing.T) {
	svc, d, dir := newTestService(t)
	ctx := context.Background()

	path, err := svc.Save(ctx, rmSchedule())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if path != filepath.Join(dir, "rm.xlsx") {
		t.Fatalf("path = %q", path)
	}

	fig, err := svc.Load(ctx, path, 20)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if fig.Layout().Horizon != 20 || fig.Layout().XMax != 20 {
		t.Fatalf("horizon not applied: %+v", fig.Layout())
	}
	if got := fig.Schedule(); len(got.Idle) != 1 || got.Scheduler.Period != 5 {
		t.Fatalf("loaded schedule = %+v", got)
	}
	if len(d.shown) != 1 {
		t.Fatalf("display got %d figures", len(d.shown))
	}
}

func TestLoadErrors(t *testing.T) {
	svc, _, dir := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Load(ctx, filepath.Join(dir, "rm.xlsx"), 0); !errors.Is(err, chart.ErrHorizonRequired) {
		t.Fatalf("Load without horizon = %v", err)
	}
	if _, err := svc.Load(ctx, filepath.Join(dir, "missing.xlsx"), 10); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Load missing = %v", err)
	}
}

func TestSaveRejectsInvalidSchedule(t *testing.T) {
	svc, _, _ := newTestService(t)

	s := rmSchedule()
	s.Scheduler.Execution = 7
	if _, err := svc.Save(context.Background(), s); !errors.Is(err, model.ErrInvalidSchedule) {
		t.Fatalf("Save = %v, want ErrInvalidSchedule", err)
	}
}
