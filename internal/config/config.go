/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Display target selection.
type DisplayMode string

const (
	DisplayFile     DisplayMode = "file"
	DisplayTerminal DisplayMode = "terminal"
	DisplayNone     DisplayMode = "none"
)

// Config covers process level configuration read from environment variables.
type Config struct {
	Environment  string
	SolutionsDir string // Where saved workbooks go (default: solutions)
	OutputDir    string // Where rendered charts go (default: charts)
	ChartFormat  string // png, svg or pdf
	ChartWidth   float64
	ChartHeight  float64
	Display      DisplayMode

	// HTTP viewer (serve command)
	HTTPBind string
	HTTPPort int

	// Local mirror of saved workbooks, used when no S3 bucket is set.
	PublishDir string

	// S3 Object Storage configuration; publishing is enabled when S3Bucket is set.
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Region          string
	S3Bucket          string
	S3Prefix          string
	S3Endpoint        string // For S3-compatible services (MinIO, Spaces, etc.)
	S3UsePathStyle    bool   // Required for MinIO

	// Observability
	TracingEnabled    bool
	OTLPEndpoint      string
	TracingSampleRate float64
}

// Load reads environment variables, applies defaults, and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		Environment:  getEnvAny([]string{"SCHEDVIZ_ENV"}, "production"),
		SolutionsDir: getEnvAny([]string{"SCHEDVIZ_SOLUTIONS_DIR"}, "solutions"),
		OutputDir:    getEnvAny([]string{"SCHEDVIZ_OUTPUT_DIR"}, "charts"),
		ChartFormat:  strings.ToLower(getEnvAny([]string{"SCHEDVIZ_CHART_FORMAT"}, "png")),
		ChartWidth:   getEnvFloatAny([]string{"SCHEDVIZ_CHART_WIDTH_IN"}, 10),
		ChartHeight:  getEnvFloatAny([]string{"SCHEDVIZ_CHART_HEIGHT_IN"}, 3),
		Display:      DisplayMode(strings.ToLower(getEnvAny([]string{"SCHEDVIZ_DISPLAY"}, string(DisplayFile)))),

		HTTPBind: getEnvAny([]string{"SCHEDVIZ_HTTP_BIND"}, "127.0.0.1"),
		HTTPPort: getEnvIntAny([]string{"SCHEDVIZ_HTTP_PORT"}, 8090),

		PublishDir: getEnvAny([]string{"SCHEDVIZ_PUBLISH_DIR"}, ""),

		S3AccessKeyID:     getEnvAny([]string{"SCHEDVIZ_S3_ACCESS_KEY_ID", "AWS_ACCESS_KEY_ID"}, ""),
		S3SecretAccessKey: getEnvAny([]string{"SCHEDVIZ_S3_SECRET_ACCESS_KEY", "AWS_SECRET_ACCESS_KEY"}, ""),
		S3Region:          getEnvAny([]string{"SCHEDVIZ_S3_REGION", "AWS_REGION"}, "us-east-1"),
		S3Bucket:          getEnvAny([]string{"SCHEDVIZ_S3_BUCKET", "S3_BUCKET"}, ""),
		S3Prefix:          getEnvAny([]string{"SCHEDVIZ_S3_PREFIX"}, "solutions"),
		S3Endpoint:        getEnvAny([]string{"SCHEDVIZ_S3_ENDPOINT", "S3_ENDPOINT"}, ""),
		S3UsePathStyle:    getEnvBoolAny([]string{"SCHEDVIZ_S3_USE_PATH_STYLE", "S3_USE_PATH_STYLE"}, false),

		TracingEnabled:    getEnvBoolAny([]string{"SCHEDVIZ_TRACING_ENABLED", "TRACING_ENABLED"}, false),
		OTLPEndpoint:      getEnvAny([]string{"SCHEDVIZ_OTLP_ENDPOINT", "OTLP_ENDPOINT"}, "localhost:4317"),
		TracingSampleRate: getEnvFloatAny([]string{"SCHEDVIZ_TRACING_SAMPLE_RATE", "TRACING_SAMPLE_RATE"}, 1.0),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that flags may also override.
func (c *Config) Validate() error {
	switch c.ChartFormat {
	case "png", "svg", "pdf":
	default:
		return fmt.Errorf("unsupported chart format %q (want png, svg or pdf)", c.ChartFormat)
	}

	switch c.Display {
	case DisplayFile, DisplayTerminal, DisplayNone:
	default:
		return fmt.Errorf("unsupported display %q (want file, terminal or none)", c.Display)
	}

	if c.ChartWidth <= 0 || c.ChartHeight <= 0 {
		return fmt.Errorf("chart size must be positive, got %vx%v inches", c.ChartWidth, c.ChartHeight)
	}

	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("SCHEDVIZ_HTTP_PORT out of range: %d", c.HTTPPort)
	}

	if c.TracingSampleRate < 0 || c.TracingSampleRate > 1 {
		return fmt.Errorf("SCHEDVIZ_TRACING_SAMPLE_RATE must be within [0, 1], got %v", c.TracingSampleRate)
	}

	if c.S3Endpoint != "" && c.S3Bucket == "" {
		return fmt.Errorf("SCHEDVIZ_S3_BUCKET must be provided when SCHEDVIZ_S3_ENDPOINT is set")
	}
	return nil
}

// PublishEnabled reports whether saved workbooks are mirrored to S3.
func (c *Config) PublishEnabled() bool {
	return c != nil && c.S3Bucket != ""
}

// MirrorEnabled reports whether saved workbooks are mirrored to PublishDir.
func (c *Config) MirrorEnabled() bool {
	return c != nil && c.S3Bucket == "" && c.PublishDir != ""
}

// HTTPAddr returns the listen address of the HTTP viewer.
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.HTTPBind, c.HTTPPort)
}

// getEnvAny returns the first non-empty environment variable value from keys, or def if none set.
func getEnvAny(keys []string, def string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

// getEnvIntAny returns the first set integer environment variable value from keys, or def.
func getEnvIntAny(keys []string, def int) int {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil {
				return parsed
			}
		}
	}
	return def
}

// getEnvBoolAny returns the first set boolean environment variable value from keys, or def.
func getEnvBoolAny(keys []string, def bool) bool {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			v = strings.ToLower(strings.TrimSpace(v))
			if v == "true" || v == "1" || v == "yes" {
				return true
			}
			if v == "false" || v == "0" || v == "no" {
				return false
			}
		}
	}
	return def
}

// getEnvFloatAny returns the first set float environment variable value from keys, or def.
func getEnvFloatAny(keys []string, def float64) float64 {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				return parsed
			}
		}
	}
	return def
}
