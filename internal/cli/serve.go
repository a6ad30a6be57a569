// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tomtom215/liftlog/internal/logging"
	"github.com/tomtom215/liftlog/internal/metrics"
	"github.com/tomtom215/liftlog/internal/supervisor"
	supsvc "github.com/tomtom215/liftlog/internal/supervisor/services"
)

func (a *app) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the backup scheduler until interrupted",
		Long: `Restore an empty database from the newest backup (when
backup.restore_on_start is set), then run the automatic backup path once and
every backup.schedule_period under a supervisor until SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.withServices(func(svc *services) error {
				tree, err := a.buildTree(svc)
				if err != nil {
					return err
				}

				logging.Info().
					Str("db_driver", a.cfg.Database.Driver).
					Dur("schedule_period", a.cfg.Backup.SchedulePeriod).
					Msg("Liftlog scheduler starting")

				err = tree.Serve(ctx)
				if report, rerr := tree.UnstoppedServiceReport(); rerr == nil {
					for _, u := range report {
						logging.Warn().Str("service", u.Name).Msg("Service did not stop in time")
					}
				}
				if err != nil && !errors.Is(err, context.Canceled) {
					return fmt.Errorf("supervisor stopped: %w", err)
				}
				logging.Info().Msg("Liftlog scheduler stopped")
				return nil
			})
		},
	}
}

func (a *app) buildTree(svc *services) (*supervisor.SupervisorTree, error) {
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create supervisor tree: %w", err)
	}

	tree.AddStorageService(supsvc.NewStoreMaintenanceService(svc.Store, supsvc.StoreMaintenanceConfig{
		Interval:        a.cfg.Store.GCInterval,
		MetricsTextfile: a.cfg.Metrics.TextfilePath,
		WriteMetrics:    metrics.WriteTextfile,
	}, logging.WithComponent("supervisor")))

	tree.AddBackupService(supsvc.NewBackupSchedulerService(svc.Manager, supsvc.BackupSchedulerConfig{
		Period:         a.cfg.Backup.SchedulePeriod,
		RestoreOnStart: a.cfg.Backup.RestoreOnStart,
	}, logging.WithComponent("supervisor")))

	return tree, nil
}
