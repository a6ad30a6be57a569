// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/liftlog/internal/logging"
	"github.com/tomtom215/liftlog/internal/metrics"
	"github.com/tomtom215/liftlog/internal/models"
)

// bootstrapTables decide whether the database counts as empty.
var bootstrapTables = []models.Table{models.TableWorkouts, models.TableExercises}

// Restorer replaces the database contents with a snapshot document.
type Restorer struct {
	db Database
}

// NewRestorer creates a Restorer.
func NewRestorer(db Database) *Restorer {
	return &Restorer{db: db}
}

// Restore clears every table and inserts the rows of doc in one transaction.
// Tables that are empty or absent in doc end up empty. On error the
// database is left as it was.
func (r *Restorer) Restore(ctx context.Context, doc *Document) (*RestoreResult, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", ErrInvalidSnapshot)
	}
	if err := r.db.EnsureOpen(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseUnavailable, err)
	}

	start := time.Now()
	ds := doc.Dataset
	ds.Normalize()

	counts, err := r.db.ReplaceAll(ctx, &ds)
	if err != nil {
		metrics.RecordRestore(nil, err)
		return nil, fmt.Errorf("restore rolled back: %w", err)
	}

	result := &RestoreResult{
		SnapshotDate: doc.Metadata.Time(),
		Essential:    doc.Metadata.IsEssential(),
		Rows:         make(map[string]int, len(counts)),
		Duration:     time.Since(start),
	}
	for t, n := range counts {
		result.Rows[t.Key()] = n
		result.TotalRows += n
	}
	metrics.RecordRestore(result.Rows, nil)

	logging.Debug().
		Int("tables", len(counts)).
		Int("rows", result.TotalRows).
		Bool("essential", result.Essential).
		Msg("Snapshot applied to database")
	return result, nil
}
