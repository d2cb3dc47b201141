/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package logging sets up the process wide zerolog logger for schedviz.
//
// The level follows SCHEDVIZ_ENV: "development" logs debug records, "test"
// keeps only warnings and errors, anything else ("production" by default)
// logs at info.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/friendsincode/schedviz/internal/version"
)

// Setup configures zerolog for the process. Logs go to stderr.
func Setup(environment string) zerolog.Logger {
	return SetupWithWriter(environment, nil)
}

// SetupWithWriter also copies every record as JSON to extra, such as a log
// file or a test buffer.
func SetupWithWriter(environment string, extra io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	var writer io.Writer = zerolog.ConsoleWriter{Out: os.Stderr}
	if extra != nil {
		writer = zerolog.MultiLevelWriter(writer, extra)
	}

	logger := zerolog.New(writer).With().
		Timestamp().
		Str("app", "schedviz").
		Str("version", version.Version).
		Logger().
		Level(Level(environment))
	log.Logger = logger
	return logger
}

// Level returns the log level for a SCHEDVIZ_ENV value.
func Level(environment string) zerolog.Level {
	switch environment {
	case "development":
		return zerolog.DebugLevel
	case "test":
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}
