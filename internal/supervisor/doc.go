// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

/*
Package supervisor runs Liftlog's long-lived services under a suture v4 tree.

# Tree

	liftlog (root)
	├── storage-layer
	│   └── store-maintenance   (badger value log GC, metrics textfile)
	└── backup-layer
	    └── backup-scheduler    (automatic backup path)

Services are added per layer:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddStorageService(services.NewStoreMaintenanceService(store, cfg, logger))
	tree.AddBackupService(services.NewBackupSchedulerService(manager, cfg, logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = tree.Serve(ctx)

Supervisor events (restarts, backoff, timeouts) are logged through
sutureslog, so they land in the same zerolog output as everything else.

# Failure handling

A service that returns a non-nil error other than a context error is
restarted. Once the decayed failure count passes FailureThreshold the layer
waits FailureBackoff before the next restart. Returning after ctx is
canceled ends the service.

The local database and the backup store are not supervised. Both are
embedded libraries owned by the command that opened them.
*/
package supervisor
