// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/liftlog/internal/backup"
)

func (a *app) exportCommand() *cobra.Command {
	var (
		essential bool
		output    string
	)

	cmd := &cobra.Command{
		Use:   "export [key]",
		Short: "Write a backup document to a file",
		Long: `Write a stored backup, or with --essential a freshly built essential
snapshot, to a JSON file. The default file name carries the snapshot date.
Use -o - to write to stdout.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if essential {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withServices(func(svc *services) error {
				ctx := cmd.Context()
				if essential {
					if output == "" {
						output = backup.EssentialExportFilename(time.Now())
					}
					return writeExport(cmd, output, func(w io.Writer) (int64, error) {
						return svc.Manager.ExportEssential(ctx, w)
					})
				}

				key := args[0]
				at, ok := backup.ParseKey(a.cfg.Backup.KeyPrefix, key)
				if !ok {
					return fmt.Errorf("failed to export %s: %w", key, backup.ErrBackupNotFound)
				}
				if output == "" {
					output = backup.ExportFilename(at)
				}
				return writeExport(cmd, output, func(w io.Writer) (int64, error) {
					return svc.Manager.ExportBackup(ctx, key, w)
				})
			})
		},
	}

	cmd.Flags().BoolVar(&essential, "essential", false, "export a new essential (image-free) snapshot")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (- for stdout)")
	return cmd
}

// writeExport streams write into path. A failed export removes the partial
// file.
func writeExport(cmd *cobra.Command, path string, write func(io.Writer) (int64, error)) (err error) {
	if path == "-" {
		_, err = write(cmd.OutOrStdout())
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	n, err := write(f)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("export failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s)\n", path, backup.FormatSize(n))
	return nil
}
