package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/friendsincode/schedviz/internal/model"
)

const rmDocument = `name: rm
executions:
  - {task: TaskA, start: 0, duration: 4}
  - {task: TaskB, start: 4, duration: 2}
arrivals:
  - {task: TaskA, time: 0}
deadlines:
  - {task: TaskA, time: 6}
scheduler: {period: 5, execution: 1}
idle:
  - {start: 8, duration: 2}
`

func setupCLI(t *testing.T) (solutions, charts string) {
	t.Helper()
	root := t.TempDir()
	solutions = filepath.Join(root, "solutions")
	charts = filepath.Join(root, "charts")
	t.Setenv("SCHEDVIZ_ENV", "test")
	t.Setenv("SCHEDVIZ_SOLUTIONS_DIR", solutions)
	t.Setenv("SCHEDVIZ_OUTPUT_DIR", charts)
	t.Setenv("SCHEDVIZ_S3_BUCKET", "")
	t.Setenv("S3_BUCKET", "")
	t.Setenv("SCHEDVIZ_S3_ENDPOINT", "")
	t.Setenv("S3_ENDPOINT", "")
	t.Setenv("SCHEDVIZ_PUBLISH_DIR", "")
	t.Setenv("SCHEDVIZ_TRACING_ENABLED", "")
	t.Setenv("TRACING_ENABLED", "")
	return solutions, charts
}

// execute runs the root command with fresh flag values.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	flagFormat, flagDisplay, flagOutputDir, flagSolutions = "", "", "", ""
	renderPersist, renderMaxTime = false, 0
	loadMaxTime, loadExport = 0, ""
	serveMaxTime, serveAddr = 0, ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeDocument(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schedule.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}
	return path
}

func TestRenderCommandWritesChartAndWorkbook(t *testing.T) {
	solutions, charts := setupCLI(t)
	doc := writeDocument(t, rmDocument)

	out, err := execute(t, "--format", "svg", "render", doc, "--persist", "--max-time", "10")
	if err != nil {
		t.Fatalf("render: %v\n%s", err, out)
	}

	chartPath := filepath.Join(charts, "rm.svg")
	if strings.TrimSpace(out) != chartPath {
		t.Fatalf("output = %q, want %q", out, chartPath)
	}
	if _, err := os.Stat(chartPath); err != nil {
		t.Fatalf("chart missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(solutions, "rm.xlsx")); err != nil {
		t.Fatalf("workbook missing: %v", err)
	}
}

func TestSaveThenLoadByName(t *testing.T) {
	solutions, _ := setupCLI(t)
	doc := writeDocument(t, rmDocument)

	out, err := execute(t, "save", doc)
	if err != nil {
		t.Fatalf("save: %v\n%s", err, out)
	}
	if strings.TrimSpace(out) != filepath.Join(solutions, "rm.xlsx") {
		t.Fatalf("save output = %q", out)
	}

	exported := filepath.Join(t.TempDir(), "rm.yaml")
	if out, err := execute(t, "--display", "none", "load", "rm", "--export-yaml", exported); err != nil {
		t.Fatalf("load: %v\n%s", err, out)
	}

	got, err := model.ReadYAMLFile(exported)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if got.Name != "rm" || len(got.Executions) != 2 || len(got.Idle) != 1 {
		t.Fatalf("exported schedule = %+v", got)
	}
	if got.Horizon != 10 {
		t.Fatalf("derived horizon = %v, want 10", got.Horizon)
	}
}

func TestSaveMirrorsToPublishDir(t *testing.T) {
	setupCLI(t)
	mirror := filepath.Join(t.TempDir(), "mirror")
	t.Setenv("SCHEDVIZ_PUBLISH_DIR", mirror)
	doc := writeDocument(t, rmDocument)

	if out, err := execute(t, "save", doc); err != nil {
		t.Fatalf("save: %v\n%s", err, out)
	}
	if _, err := os.Stat(filepath.Join(mirror, "rm.xlsx")); err != nil {
		t.Fatalf("mirrored workbook missing: %v", err)
	}
}

func TestRenderCommandRejectsInconsistentDocument(t *testing.T) {
	solutions, _ := setupCLI(t)
	doc := writeDocument(t, strings.Replace(rmDocument, "{task: TaskA, time: 6}", "{task: TaskC, time: 6}", 1))

	if _, err := execute(t, "--display", "none", "render", doc, "--persist", "--max-time", "10"); err == nil {
		t.Fatal("expected render of an inconsistent schedule to fail")
	}
	if _, err := os.Stat(solutions); !os.IsNotExist(err) {
		t.Fatal("inconsistent schedule was persisted")
	}
}

func TestLoadCommandMissingWorkbook(t *testing.T) {
	setupCLI(t)
	if _, err := execute(t, "--display", "none", "load", "missing", "--max-time", "10"); err == nil {
		t.Fatal("expected missing workbook to fail")
	}
}

func TestRootRejectsUnknownDisplay(t *testing.T) {
	setupCLI(t)
	doc := writeDocument(t, rmDocument)
	if _, err := execute(t, "--display", "window", "render", doc); err == nil {
		t.Fatal("expected unknown display to be rejected")
	}
}

func TestApplyHorizon(t *testing.T) {
	logger = zerolog.Nop()

	tests := []struct {
		name    string
		horizon float64
		maxTime float64
		want    float64
	}{
		{"flag wins", 30, 12, 12},
		{"document kept", 30, 0, 30},
		{"derived", 0, 0, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := model.DecodeYAML(strings.NewReader(rmDocument))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			s.Horizon = tt.horizon
			applyHorizon(s, tt.maxTime)
			if s.Horizon != tt.want {
				t.Fatalf("horizon = %v, want %v", s.Horizon, tt.want)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "schedviz ") {
		t.Fatalf("version output = %q", out)
	}
}
