/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/friendsincode/schedviz/internal/display"
	"github.com/friendsincode/schedviz/internal/model"
	"github.com/friendsincode/schedviz/internal/viewer"
)

var serveCmd = &cobra.Command{
	Use:   "serve <schedule.yaml|workbook.xlsx>",
	Short: "Serve a schedule chart over HTTP",
	Long:  "Render a schedule document or workbook and serve the chart, plus the schedule as a workbook, until interrupted.",
	Args:  cobra.ExactArgs(1),
	RunE:  runServe,
}

var (
	serveMaxTime float64
	serveAddr    string
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Float64Var(&serveMaxTime, "max-time", 0, "Chart horizon in ms")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from SCHEDVIZ_HTTP_BIND and SCHEDVIZ_HTTP_PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()
	flush, err := startTracing(ctx)
	if err != nil {
		return err
	}
	defer flush()

	addr := serveAddr
	if addr == "" {
		addr = cfg.HTTPAddr()
	}
	format := cfg.ChartFormat
	if format == "pdf" {
		format = "svg"
	}
	v := display.NewViewer(addr, format, logger)

	svc, err := newService(ctx, v)
	if err != nil {
		return err
	}

	var sched *model.Schedule
	if strings.HasSuffix(strings.ToLower(args[0]), ".xlsx") {
		sched, err = svc.Open(ctx, args[0])
	} else {
		sched, err = readDocument(args[0])
	}
	if err != nil {
		return err
	}
	applyHorizon(sched, serveMaxTime)

	if _, err := svc.Render(ctx, sched, viewer.RenderOptions{}); err != nil {
		return err
	}
	logger.Info().Msg("chart viewer stopped")
	return nil
}
