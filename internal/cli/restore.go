// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/liftlog/internal/backup"
	"github.com/tomtom215/liftlog/internal/database"
)

func (a *app) restoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <key>",
		Short: "Replace the database with a stored backup",
		Long:  "Replace every table of the local database with the contents of the given backup. Tables missing from the snapshot end up empty.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withServices(func(svc *services) error {
				result, err := svc.Manager.RestoreBackup(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("failed to restore %s: %w", args[0], err)
				}
				printRestore(cmd.OutOrStdout(), result)
				return nil
			})
		},
	}
}

func (a *app) bootstrapCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Restore the newest backup if the database is empty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withServices(func(svc *services) error {
				restored, err := svc.Manager.CheckAndRestoreIfNeeded(cmd.Context())
				if err != nil {
					return fmt.Errorf("bootstrap failed: %w", err)
				}
				if restored {
					fmt.Fprintln(cmd.OutOrStdout(), "Database restored from the newest backup")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing to restore")
				}
				return nil
			})
		},
	}
}

func (a *app) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Delete a backup and its flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withServices(func(svc *services) error {
				if err := svc.Manager.DeleteBackup(cmd.Context(), args[0]); err != nil {
					return fmt.Errorf("failed to delete %s: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func printRestore(w io.Writer, r *backup.RestoreResult) {
	counts := make(map[string]int64, len(r.Rows))
	for k, n := range r.Rows {
		counts[k] = int64(n)
	}
	kind := "full"
	if r.Essential {
		kind = "essential"
	}
	fmt.Fprintf(w, "Restored %s snapshot from %s: %d rows in %s\n",
		kind,
		r.SnapshotDate.Local().Format("2006-01-02 15:04:05"),
		r.TotalRows,
		r.Duration.Round(time.Millisecond),
	)
	if len(counts) > 0 {
		fmt.Fprintf(w, "  %s\n", database.FormatCounts(counts))
	}
}
