package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/friendsincode/schedviz/internal/model"
)

func TestResult(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ResultOK},
		{&model.ConsistencyError{Kind: "arrival", Label: "X"}, ResultInvalid},
		{fmt.Errorf("decode: %w", model.ErrMalformedData), ResultInvalid},
		{model.ErrInvalidSchedule, ResultInvalid},
		{fmt.Errorf("save: %w", model.ErrIO), ResultError},
		{errors.New("boom"), ResultError},
	}
	for _, tt := range tests {
		if got := Result(tt.err); got != tt.want {
			t.Errorf("Result(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestMetricsMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(MetricsMiddleware)
	r.Get("/chart.{format}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	counter := HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/chart.{format}", "418")
	before := metricValue(t, counter)

	for _, path := range []string{"/chart.png", "/chart.svg"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusTeapot {
			t.Fatalf("GET %s = %d", path, rr.Code)
		}
	}

	if got := metricValue(t, counter) - before; got != 2 {
		t.Fatalf("counter grew by %v, want 2", got)
	}
	if got := metricValue(t, HTTPActiveConnections); got != 0 {
		t.Fatalf("active requests = %v after completion", got)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	RendersTotal.WithLabelValues(ResultOK).Inc()

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rr.Body.String(), "schedviz_renders_total") {
		t.Fatal("metrics output does not contain schedviz_renders_total")
	}
}

func TestInitTracerDisabled(t *testing.T) {
	tp, err := InitTracer(context.Background(), TracerConfig{Enabled: false}, zerolog.Nop())
	if err != nil {
		t.Fatalf("InitTracer: %v", err)
	}
	if err := tp.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestSpansRecordErrors(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, span := StartSpan(context.Background(), "viewer.render", attribute.String("schedule", "rm"))
	EndSpan(span, errors.New("boom"))
	_, span = StartSpan(context.Background(), "viewer.save")
	EndSpan(span, nil)

	ended := rec.Ended()
	if len(ended) != 2 {
		t.Fatalf("ended spans = %d", len(ended))
	}
	if ended[0].Name() != "viewer.render" || ended[0].Status().Code != codes.Error {
		t.Fatalf("first span = %s %v", ended[0].Name(), ended[0].Status())
	}
	if len(ended[0].Events()) == 0 {
		t.Fatal("error event not recorded")
	}
	if ended[1].Status().Code == codes.Error {
		t.Fatal("successful span marked as error")
	}
}

func TestSampler(t *testing.T) {
	if got := sampler(1).Description(); got != "AlwaysOnSampler" {
		t.Errorf("sampler(1) = %s", got)
	}
	if got := sampler(0).Description(); got != "AlwaysOffSampler" {
		t.Errorf("sampler(0) = %s", got)
	}
	if got := sampler(0.5).Description(); !strings.HasPrefix(got, "TraceIDRatioBased") {
		t.Errorf("sampler(0.5) = %s", got)
	}
}

func metricValue(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var out dto.Metric
	if err := m.Write(&out); err != nil {
		t.Fatalf("read metric: %v", err)
	}
	if c := out.GetCounter(); c != nil {
		return c.GetValue()
	}
	return out.GetGauge().GetValue()
}
