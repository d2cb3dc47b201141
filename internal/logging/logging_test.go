package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"development": zerolog.DebugLevel,
		"test":        zerolog.WarnLevel,
		"production":  zerolog.InfoLevel,
		"":            zerolog.InfoLevel,
	}
	for env, want := range tests {
		if got := Level(env); got != want {
			t.Errorf("Level(%q) = %v, want %v", env, got, want)
		}
	}
}

func TestSetupWithWriterCopiesRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupWithWriter("production", &buf)

	logger.Debug().Msg("hidden")
	logger.Info().Str("schedule", "edf").Msg("schedule saved")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatal("debug record written at info level")
	}
	if !strings.Contains(out, `"schedule":"edf"`) || !strings.Contains(out, "schedule saved") {
		t.Fatalf("missing info record in %q", out)
	}
	if !strings.Contains(out, `"app":"schedviz"`) {
		t.Fatalf("records are not tagged with the app name: %q", out)
	}
}
