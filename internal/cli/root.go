// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

// Package cli implements the liftlog command line.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/liftlog/internal/backup"
	"github.com/tomtom215/liftlog/internal/config"
	"github.com/tomtom215/liftlog/internal/database"
	"github.com/tomtom215/liftlog/internal/imaging"
	"github.com/tomtom215/liftlog/internal/kvstore"
	"github.com/tomtom215/liftlog/internal/logging"
	"github.com/tomtom215/liftlog/internal/metrics"
)

// app carries state shared by all subcommands of one invocation.
type app struct {
	cfgFile string
	cfg     *config.Config
}

// services holds the opened stores and the manager on top of them.
type services struct {
	DB      *database.DB
	Store   *kvstore.Store
	Manager *backup.Manager
}

// Close releases the stores. Errors are logged.
func (s *services) Close() {
	if s.Store != nil {
		if err := s.Store.Close(); err != nil {
			logging.Warn().Err(err).Msg("failed to close backup store")
		}
	}
	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			logging.Warn().Err(err).Msg("failed to close database")
		}
	}
}

// NewRootCommand builds the liftlog command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	return a.rootCommand()
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "liftlog",
		Short: "Liftlog - local backups for a personal workout tracker",
		Long: `Liftlog snapshots the local workout database into a key/value backup store.

It provides:
- Full snapshots with image compression and size-aware degradation
- Essential (image-free) snapshots for export
- Automatic backups on a day interval with bounded retention
- Restore of any entry and restore-if-empty bootstrap`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			cfg, err := config.Load(a.cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			a.cfg = cfg
			logging.Init(logging.Config{
				Level:     cfg.Logging.Level,
				Format:    cfg.Logging.Format,
				Caller:    cfg.Logging.Caller,
				Timestamp: true,
				Output:    os.Stderr,
			})
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./config.yaml or /etc/liftlog/config.yaml)")

	root.AddCommand(
		a.backupCommand(),
		a.autoCommand(),
		a.listCommand(),
		a.statsCommand(),
		a.restoreCommand(),
		a.bootstrapCommand(),
		a.deleteCommand(),
		a.exportCommand(),
		a.intervalCommand(),
		a.serveCommand(),
	)
	return root
}

// Execute runs the command line and writes the metrics textfile afterwards,
// whether or not the command succeeded.
func Execute(ctx context.Context, args []string) error {
	a := &app{}
	root := a.rootCommand()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	a.writeMetrics()
	return err
}

func (a *app) writeMetrics() {
	if a.cfg == nil || a.cfg.Metrics.TextfilePath == "" {
		return
	}
	if err := metrics.WriteTextfile(a.cfg.Metrics.TextfilePath); err != nil {
		logging.Warn().Err(err).Str("path", a.cfg.Metrics.TextfilePath).Msg("failed to write metrics textfile")
	}
}

// initServices opens the database and the backup store and builds the manager.
func (a *app) initServices() (*services, error) {
	svc := &services{}

	db, err := database.New(&a.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	svc.DB = db

	store, err := kvstore.Open(&a.cfg.Store)
	if err != nil {
		svc.Close()
		return nil, fmt.Errorf("failed to open backup store: %w", err)
	}
	svc.Store = store

	manager, err := backup.NewManager(&a.cfg.Backup, db, store, store, imaging.New(a.cfg.Imaging))
	if err != nil {
		svc.Close()
		return nil, fmt.Errorf("failed to create backup manager: %w", err)
	}
	svc.Manager = manager
	return svc, nil
}

// withServices runs fn with freshly opened services and closes them after.
func (a *app) withServices(fn func(*services) error) error {
	svc, err := a.initServices()
	if err != nil {
		return err
	}
	defer svc.Close()
	return fn(svc)
}
