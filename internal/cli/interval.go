// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func (a *app) intervalCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "interval [days]",
		Short: "Show or set the automatic backup interval",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withServices(func(svc *services) error {
				ctx := cmd.Context()
				out := cmd.OutOrStdout()

				if len(args) == 1 {
					days, err := strconv.Atoi(args[0])
					if err != nil {
						return fmt.Errorf("invalid interval %q: expected a whole number of days", args[0])
					}
					if err := svc.Manager.SetIntervalDays(ctx, days); err != nil {
						return err
					}
				}

				days, err := svc.Manager.IntervalDays(ctx)
				if err != nil {
					return err
				}
				next, err := svc.Manager.NextDue(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Interval: %d day(s)\n", days)
				fmt.Fprintf(out, "Next due: %s\n", formatDue(next))
				return nil
			})
		},
	}
}

// formatDue renders a NextDue result; the zero time means due now.
func formatDue(t time.Time) string {
	if t.IsZero() {
		return "now"
	}
	return t.Local().Format("2006-01-02 15:04")
}
