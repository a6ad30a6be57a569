// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

// Package main is the entry point for the liftlog command.
//
// Liftlog keeps rotating snapshots of a personal workout database in a local
// key/value store. Photos are downscaled and re-encoded as JPEG before they
// are stored, and snapshots that would not fit are degraded instead of lost.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables (DB_PATH, STORE_PATH, BACKUP_INTERVAL_DAYS, LOG_LEVEL, ...)
//   - Config file (--config, CONFIG_PATH, ./config.yaml, /etc/liftlog/config.yaml)
//   - Built-in defaults
//
// # Commands
//
//	liftlog backup [--essential]          # manual backup, prints the key
//	liftlog auto                          # automatic path, gated by the interval
//	liftlog list [--json]                 # entries, newest first
//	liftlog stats                         # store usage and schedule
//	liftlog restore <key>                 # replace the database
//	liftlog bootstrap                     # restore newest if the database is empty
//	liftlog delete <key>                  # remove an entry and its flags
//	liftlog export <key> [-o file]        # write a stored snapshot
//	liftlog export --essential [-o file]  # write a new image-free snapshot
//	liftlog interval [days]               # show or set the interval
//	liftlog serve                         # scheduler under a supervisor
//
// # Database Drivers
//
// DuckDB (database.driver: duckdb) needs cgo. Builds with CGO_ENABLED=0
// drop it and must use database.driver: sqlite.
//
// # Signal Handling
//
// serve stops on SIGINT and SIGTERM. Services get ten seconds to return
// before they are reported as unstopped.
package main

import (
	"context"
	"os"

	"github.com/tomtom215/liftlog/internal/cli"
	"github.com/tomtom215/liftlog/internal/logging"
)

func main() {
	if err := cli.Execute(context.Background(), os.Args[1:]); err != nil {
		logging.Error().Err(err).Msg("liftlog failed")
		os.Exit(1)
	}
}
