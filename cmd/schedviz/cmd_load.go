/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/friendsincode/schedviz/internal/display"
	"github.com/friendsincode/schedviz/internal/model"
	"github.com/friendsincode/schedviz/internal/viewer"
	"github.com/friendsincode/schedviz/internal/workbook"
)

var loadCmd = &cobra.Command{
	Use:   "load <name|path.xlsx>",
	Short: "Render a saved workbook",
	Long: "Read a schedule workbook and draw its chart. A bare name is looked up in the solutions directory. " +
		"Without --max-time the horizon is derived from the schedule contents.",
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

var (
	loadMaxTime float64
	loadExport  string
)

func init() {
	rootCmd.AddCommand(loadCmd)
	loadCmd.Flags().Float64Var(&loadMaxTime, "max-time", 0, "Chart horizon in ms")
	loadCmd.Flags().StringVar(&loadExport, "export-yaml", "", "Also write the loaded schedule as a YAML document to this path")
}

func runLoad(cmd *cobra.Command, args []string) error {
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

	d := newDisplay(cfg.Display)
	svc, err := newService(ctx, d)
	if err != nil {
		return err
	}

	path := resolveWorkbook(args[0])
	if loadMaxTime > 0 && loadExport == "" {
		if _, err := svc.Load(ctx, path, loadMaxTime); err != nil {
			return err
		}
	} else {
		sched, err := svc.Open(ctx, path)
		if err != nil {
			return err
		}
		applyHorizon(sched, loadMaxTime)
		if loadExport != "" {
			if err := exportYAML(loadExport, sched); err != nil {
				return err
			}
		}
		if _, err := svc.Render(ctx, sched, viewer.RenderOptions{}); err != nil {
			return err
		}
	}

	if fd, ok := d.(*display.FileDisplay); ok {
		fmt.Fprintln(cmd.OutOrStdout(), fd.LastPath())
	}
	return nil
}

// resolveWorkbook maps a bare schedule name onto the solutions directory.
func resolveWorkbook(arg string) string {
	if filepath.Base(arg) != arg {
		return arg
	}
	if _, err := os.Stat(workbook.ResolvePath(arg)); err == nil {
		return arg
	}
	return filepath.Join(cfg.SolutionsDir, arg)
}

func exportYAML(path string, sched *model.Schedule) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", model.ErrIO, path, err)
	}
	if err := model.EncodeYAML(f, sched); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", model.ErrIO, path, err)
	}
	logger.Info().Str("path", path).Msg("schedule exported")
	return nil
}
