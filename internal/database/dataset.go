// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/tomtom215/liftlog/internal/logging"
	"github.com/tomtom215/liftlog/internal/models"
)

// ReadDataset reads the given tables in the fixed table order. With no
// tables listed every table is read. Tables not read are left empty.
func (db *DB) ReadDataset(ctx context.Context, tables ...models.Table) (*models.Dataset, error) {
	conn, err := db.handle()
	if err != nil {
		return nil, err
	}

	want := tableSet(tables)
	ds := &models.Dataset{}
	for _, t := range models.AllTables() {
		if !want[t] {
			continue
		}
		if err := readTable(ctx, conn, t, ds); err != nil {
			return nil, err
		}
	}
	ds.Normalize()
	return ds, nil
}

func tableSet(tables []models.Table) map[models.Table]bool {
	set := make(map[models.Table]bool, len(models.AllTables()))
	if len(tables) == 0 {
		tables = models.AllTables()
	}
	for _, t := range tables {
		set[t] = true
	}
	return set
}

func readTable(ctx context.Context, q sqlx.QueryerContext, t models.Table, ds *models.Dataset) error {
	var err error
	switch t {
	case models.TableWorkouts:
		ds.Workouts, err = selectAll[models.Workout](ctx, q, t)
	case models.TableExercises:
		ds.Exercises, err = selectAll[models.Exercise](ctx, q, t)
	case models.TableSets:
		ds.Sets, err = selectAll[models.Set](ctx, q, t)
	case models.TableSetHistory:
		ds.SetHistory, err = selectAll[models.SetHistory](ctx, q, t)
	case models.TableCardio:
		ds.Cardio, err = selectAll[models.CardioSession](ctx, q, t)
	case models.TableProgressPhotos:
		ds.ProgressPhotos, err = selectAll[models.ProgressPhoto](ctx, q, t)
	case models.TableWorkoutHistory:
		ds.WorkoutHistory, err = selectAll[models.WorkoutHistory](ctx, q, t)
	case models.TablePhotos:
		ds.Photos, err = selectAll[models.Photo](ctx, q, t)
	case models.TableReports:
		ds.Reports, err = selectAll[models.WeeklyReport](ctx, q, t)
	default:
		err = fmt.Errorf("unknown table %s", t)
	}
	return err
}

func insertTable(ctx context.Context, tx *sqlx.Tx, t models.Table, ds *models.Dataset) error {
	switch t {
	case models.TableWorkouts:
		return insertAll(ctx, tx, t, ds.Workouts)
	case models.TableExercises:
		return insertAll(ctx, tx, t, ds.Exercises)
	case models.TableSets:
		return insertAll(ctx, tx, t, ds.Sets)
	case models.TableSetHistory:
		return insertAll(ctx, tx, t, ds.SetHistory)
	case models.TableCardio:
		return insertAll(ctx, tx, t, ds.Cardio)
	case models.TableProgressPhotos:
		return insertAll(ctx, tx, t, ds.ProgressPhotos)
	case models.TableWorkoutHistory:
		return insertAll(ctx, tx, t, ds.WorkoutHistory)
	case models.TablePhotos:
		return insertAll(ctx, tx, t, ds.Photos)
	case models.TableReports:
		return insertAll(ctx, tx, t, ds.Reports)
	default:
		return fmt.Errorf("unknown table %s", t)
	}
}

// withTx runs fn in a transaction, committing on success and rolling back
// on error.
func (db *DB) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	conn, err := db.handle()
	if err != nil {
		return err
	}

	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Warn().Err(rbErr).Msg("Transaction rollback failed")
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ReplaceAll clears every table in the fixed order and inserts the rows of
// ds, all in one transaction. Tables with no rows are only cleared. On error
// nothing is changed. It returns the number of rows inserted per table.
func (db *DB) ReplaceAll(ctx context.Context, ds *models.Dataset) (map[models.Table]int, error) {
	assignIDs(ds)
	counts := make(map[models.Table]int)
	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, t := range models.AllTables() {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t.SQLName()); err != nil {
				return fmt.Errorf("failed to clear %s: %w", t.SQLName(), err)
			}
		}
		for _, t := range models.AllTables() {
			n := ds.Len(t)
			if n == 0 {
				continue
			}
			if err := insertTable(ctx, tx, t, ds); err != nil {
				return err
			}
			counts[t] = n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// Insert adds the rows of ds to the existing contents in one transaction.
func (db *DB) Insert(ctx context.Context, ds *models.Dataset) error {
	assignIDs(ds)
	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, t := range models.AllTables() {
			if err := insertTable(ctx, tx, t, ds); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	logging.Debug().Int("rows", ds.TotalRows()).Msg("Rows inserted")
	return nil
}

// assignIDs fills empty primary keys before an insert; they would otherwise
// collide on "".
func assignIDs(ds *models.Dataset) {
	if n := ds.AssignMissingIDs(); n > 0 {
		logging.Warn().Int("rows", n).Msg("Rows without id were given new ids")
	}
}

// DeleteRows removes rows of t by id and returns how many were deleted.
func (db *DB) DeleteRows(ctx context.Context, t models.Table, ids ...string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	conn, err := db.handle()
	if err != nil {
		return 0, err
	}
	if _, err := specFor(t); err != nil {
		return 0, err
	}

	query, args, err := sqlx.In("DELETE FROM "+t.SQLName()+" WHERE id IN (?)", ids)
	if err != nil {
		return 0, fmt.Errorf("failed to build delete: %w", err)
	}
	res, err := conn.ExecContext(ctx, conn.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete from %s: %w", t.SQLName(), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// CountRows returns the row count of t.
func (db *DB) CountRows(ctx context.Context, t models.Table) (int64, error) {
	conn, err := db.handle()
	if err != nil {
		return 0, err
	}
	if _, err := specFor(t); err != nil {
		return 0, err
	}

	var n int64
	if err := conn.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+t.SQLName()); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", t.SQLName(), err)
	}
	return n, nil
}

// RecordCounts returns the row count of every table keyed by snapshot key.
func (db *DB) RecordCounts(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, t := range models.AllTables() {
		n, err := db.CountRows(ctx, t)
		if err != nil {
			return nil, err
		}
		out[t.Key()] = n
	}
	return out, nil
}

// FormatCounts renders RecordCounts output in table order.
func FormatCounts(counts map[string]int64) string {
	parts := make([]string, 0, len(counts))
	for _, key := range models.TableKeys() {
		if n, ok := counts[key]; ok {
			parts = append(parts, fmt.Sprintf("%s=%d", key, n))
		}
	}
	return strings.Join(parts, " ")
}
