/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package display

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/friendsincode/schedviz/internal/chart"
	"github.com/friendsincode/schedviz/internal/telemetry"
	"github.com/friendsincode/schedviz/internal/workbook"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<img src="/chart.{{.Format}}" alt="{{.Title}}">
<p>Horizon {{.Horizon}} ms, scheduler period {{.Period}} ms. Rendered {{.Rendered}}.</p>
<p><a href="/schedule.xlsx">Download workbook</a></p>
</body>
</html>
`))

// Viewer serves the most recent figure over HTTP.
type Viewer struct {
	addr   string
	format string
	logger zerolog.Logger
	router chi.Router

	mu         sync.RWMutex
	fig        *chart.Figure
	renderedAt time.Time
}

// NewViewer creates a viewer listening on addr once Serve or Show is called.
func NewViewer(addr, format string, logger zerolog.Logger) *Viewer {
	if !chart.SupportedFormat(format) {
		format = "svg"
	}
	v := &Viewer{
		addr:   addr,
		format: format,
		logger: logger.With().Str("component", "http_viewer").Logger(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)
	r.Use(telemetry.MetricsMiddleware)
	r.Get("/", v.handleIndex)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/chart.{format}", v.handleChart)
	r.Get("/schedule.xlsx", v.handleWorkbook)
	r.Method(http.MethodGet, "/metrics", telemetry.Handler())
	v.router = r
	return v
}

// Handler returns the HTTP handler of the viewer, traced with OpenTelemetry.
func (v *Viewer) Handler() http.Handler {
	return otelhttp.NewHandler(v.router, "schedviz-viewer")
}

// Set replaces the figure being served.
func (v *Viewer) Set(fig *chart.Figure) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.fig = fig
	v.renderedAt = time.Now()
}

func (v *Viewer) current() (*chart.Figure, time.Time) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.fig, v.renderedAt
}

// Show implements Display: it serves fig until ctx is cancelled.
func (v *Viewer) Show(ctx context.Context, fig *chart.Figure) error {
	if !fig.Rendered() {
		return chart.ErrNotRendered
	}
	v.Set(fig)
	return v.Serve(ctx)
}

// Serve listens on the configured address until ctx is cancelled.
func (v *Viewer) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", v.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", v.addr, err)
	}
	return v.serve(ctx, ln)
}

func (v *Viewer) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           v.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	v.logger.Info().Str("addr", ln.Addr().String()).Msg("chart viewer listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	v.logger.Info().Msg("shutting down chart viewer")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown viewer: %w", err)
	}
	return nil
}

func (v *Viewer) handleIndex(w http.ResponseWriter, r *http.Request) {
	fig, at := v.current()
	if fig == nil || !fig.Rendered() {
		writeError(w, http.StatusNotFound, "no_chart")
		return
	}
	l := fig.Layout()
	data := struct {
		Title    string
		Format   string
		Horizon  float64
		Period   float64
		Rendered string
	}{l.Title, v.format, l.Horizon, l.Period, humanize.Time(at)}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		v.logger.Error().Err(err).Msg("render index")
	}
}

func (v *Viewer) handleChart(w http.ResponseWriter, r *http.Request) {
	fig, _ := v.current()
	if fig == nil || !fig.Rendered() {
		writeError(w, http.StatusNotFound, "no_chart")
		return
	}
	format := chi.URLParam(r, "format")
	if !chart.SupportedFormat(format) {
		writeError(w, http.StatusNotFound, "unsupported_format")
		return
	}

	var buf bytes.Buffer
	if err := fig.Encode(&buf, format); err != nil {
		v.logger.Error().Err(err).Str("format", format).Msg("encode chart")
		writeError(w, http.StatusInternalServerError, "encode_failed")
		return
	}
	w.Header().Set("Content-Type", chart.ContentType(format))
	_, _ = w.Write(buf.Bytes())
}

func (v *Viewer) handleWorkbook(w http.ResponseWriter, r *http.Request) {
	fig, _ := v.current()
	if fig == nil || fig.Schedule() == nil {
		writeError(w, http.StatusNotFound, "no_chart")
		return
	}

	var buf bytes.Buffer
	if err := workbook.Encode(&buf, fig.Schedule()); err != nil {
		v.logger.Error().Err(err).Msg("encode workbook")
		writeError(w, http.StatusInternalServerError, "encode_failed")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", slugify(fig.Title())+workbook.Extension))
	_, _ = w.Write(buf.Bytes())
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
