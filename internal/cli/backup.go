// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) backupCommand() *cobra.Command {
	var essential bool

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create a backup now",
		Long: `Create a full backup now, bypassing the interval gate.

With --essential the snapshot carries no photos and no report images and is
kept under its own retention ceiling.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withServices(func(svc *services) error {
				var (
					key string
					err error
				)
				if essential {
					key, err = svc.Manager.ManualEssentialBackup(cmd.Context())
				} else {
					key, err = svc.Manager.ManualBackup(cmd.Context())
				}
				if err != nil {
					return fmt.Errorf("failed to create backup: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), key)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&essential, "essential", false, "create an essential (image-free) backup")
	return cmd
}

func (a *app) autoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "auto",
		Short: "Run the automatic backup once if it is due",
		Long:  "Run the automatic backup path once. Nothing is written unless the configured day interval has elapsed (typically used by cron).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withServices(func(svc *services) error {
				key, ran, err := svc.Manager.PerformAutomaticBackup(cmd.Context())
				if err != nil {
					return fmt.Errorf("automatic backup failed: %w", err)
				}
				out := cmd.OutOrStdout()
				if !ran {
					next, err := svc.Manager.NextDue(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Backup not due until %s\n", formatDue(next))
					return nil
				}
				fmt.Fprintln(out, key)
				return nil
			})
		},
	}
}
