// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

//go:build cgo

package main

// Registers the "duckdb" database/sql driver.
import _ "github.com/duckdb/duckdb-go/v2"
