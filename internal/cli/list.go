// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/liftlog/internal/backup"
	"github.com/tomtom215/liftlog/internal/database"
)

func (a *app) listCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored backups, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withServices(func(svc *services) error {
				entries, err := svc.Manager.ListBackups(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to list backups: %w", err)
				}

				out := cmd.OutOrStdout()
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(entries)
				}
				if len(entries) == 0 {
					fmt.Fprintln(out, "No backups")
					return nil
				}

				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "KEY\tDATE\tSIZE\tKIND\tAGE")
				for _, e := range entries {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
						e.Key,
						e.Date.Local().Format("2006-01-02 15:04:05"),
						e.Size,
						e.Kind(),
						backup.FormatAge(e.Date),
					)
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print entries as JSON")
	return cmd
}

func (a *app) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show backup store statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withServices(func(svc *services) error {
				stats, err := svc.Manager.Stats(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to read stats: %w", err)
				}
				usage, err := svc.Store.Usage(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Backups:     %d (%d partial, %d emergency)\n", stats.Count, stats.Partial, stats.Emergency)
				fmt.Fprintf(out, "Total size:  %s\n", stats.TotalSize)
				fmt.Fprintf(out, "Store usage: %s", backup.FormatSize(usage))
				if q := svc.Store.Quota(); q > 0 {
					fmt.Fprintf(out, " of %s", backup.FormatSize(q))
				}
				fmt.Fprintln(out)
				fmt.Fprintf(out, "Interval:    %d day(s)\n", stats.IntervalDays)
				if stats.LastBackup != nil {
					fmt.Fprintf(out, "Last backup: %s\n", backup.FormatAge(*stats.LastBackup))
				} else {
					fmt.Fprintln(out, "Last backup: never")
				}

				counts, err := svc.DB.RecordCounts(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Database:    %s\n", database.FormatCounts(counts))
				return nil
			})
		},
	}
}
