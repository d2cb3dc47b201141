/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/friendsincode/schedviz/internal/display"
	"github.com/friendsincode/schedviz/internal/viewer"
)

var renderCmd = &cobra.Command{
	Use:   "render <schedule.yaml>",
	Short: "Draw the timeline chart of a schedule document",
	Long:  "Draw the timeline chart of a YAML schedule document and show it on the configured display. Use - to read the document from standard input.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

var (
	renderPersist bool
	renderMaxTime float64
)

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().BoolVar(&renderPersist, "persist", false, "Also save the schedule as a workbook")
	renderCmd.Flags().Float64Var(&renderMaxTime, "max-time", 0, "Chart horizon in ms (overrides the document)")
}

func runRender(cmd *cobra.Command, args []string) error {
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

	sched, err := readDocument(args[0])
	if err != nil {
		return err
	}
	applyHorizon(sched, renderMaxTime)

	d := newDisplay(cfg.Display)
	svc, err := newService(ctx, d)
	if err != nil {
		return err
	}
	fig, err := svc.Render(ctx, sched, viewer.RenderOptions{Persist: renderPersist})
	if err != nil {
		return err
	}

	logger.Info().
		Str("figure_id", fig.ID).
		Str("schedule", sched.Name).
		Bool("persisted", renderPersist).
		Msg("schedule rendered")
	if fd, ok := d.(*display.FileDisplay); ok {
		fmt.Fprintln(cmd.OutOrStdout(), fd.LastPath())
	}
	return nil
}
