/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/friendsincode/schedviz/internal/display"
)

var saveCmd = &cobra.Command{
	Use:   "save <schedule.yaml>",
	Short: "Save a schedule document as a workbook",
	Long:  "Validate a YAML schedule document and write it to <solutions>/<name>.xlsx, replacing any existing workbook of that name.",
	Args:  cobra.ExactArgs(1),
	RunE:  runSave,
}

func init() {
	rootCmd.AddCommand(saveCmd)
}

func runSave(cmd *cobra.Command, args []string) error {
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

	svc, err := newService(ctx, display.Nop{})
	if err != nil {
		return err
	}
	path, err := svc.Save(ctx, sched)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
