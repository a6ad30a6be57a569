// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

/*
schedule.go - Automatic Backup Gate

The automatic path runs only when enough whole days have passed since the
last stored backup:

	elapsedDays = floor((now - lastBackup) / 24h)
	due         = lastBackup unset || elapsedDays >= intervalDays

With the default interval of one day a run 23h after the last backup is a
no-op and a run 25h after stores one entry. A last-backup value that cannot
be parsed counts as unset.

The interval is stored as a decimal string of days under IntervalKey; a
missing or invalid value falls back to BackupConfig.DefaultIntervalDays.
*/

//nolint:staticcheck // File documentation, not package doc
package backup

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/tomtom215/liftlog/internal/logging"
)

const day = 24 * time.Hour

// elapsedDays returns the number of whole days between last and now. It
// rounds down so a backup 23 hours old is not yet a day old.
func elapsedDays(last, now time.Time) int {
	d := now.Sub(last)
	if d < 0 {
		return 0
	}
	return int(d / day)
}

// isDue applies the gate.
func isDue(last time.Time, found bool, now time.Time, intervalDays int) bool {
	if !found {
		return true
	}
	return elapsedDays(last, now) >= intervalDays
}

func (m *Manager) backupDue(ctx context.Context, now time.Time) (bool, error) {
	last, found, err := m.LastBackup(ctx)
	if err != nil {
		return false, err
	}
	interval, err := m.IntervalDays(ctx)
	if err != nil {
		return false, err
	}

	due := isDue(last, found, now, interval)
	logging.Debug().
		Bool("due", due).
		Bool("has_last_backup", found).
		Int("elapsed_days", elapsedDays(last, now)).
		Int("interval_days", interval).
		Msg("Evaluated backup schedule")
	return due, nil
}

// LastBackup returns the recorded time of the last stored backup. found is
// false when none was recorded or the value is unreadable.
func (m *Manager) LastBackup(ctx context.Context) (time.Time, bool, error) {
	raw, ok, err := m.state.Lookup(ctx, m.cfg.LastBackupKey)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read last backup time: %w", err)
	}
	if !ok {
		return time.Time{}, false, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		logging.Warn().Str("value", raw).Msg("Ignoring unreadable last backup time")
		return time.Time{}, false, nil
	}
	return t.UTC(), true, nil
}

func (m *Manager) setLastBackup(ctx context.Context, t time.Time) error {
	if err := m.state.Set(ctx, m.cfg.LastBackupKey, t.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("failed to write last backup time: %w", err)
	}
	return nil
}

// IntervalDays returns the configured automatic backup interval in days.
func (m *Manager) IntervalDays(ctx context.Context) (int, error) {
	raw, ok, err := m.state.Lookup(ctx, m.cfg.IntervalKey)
	if err != nil {
		return 0, fmt.Errorf("failed to read backup interval: %w", err)
	}
	if !ok {
		return m.defaultInterval(), nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		logging.Warn().Str("value", raw).Msg("Ignoring invalid backup interval")
		return m.defaultInterval(), nil
	}
	return n, nil
}

func (m *Manager) defaultInterval() int {
	if m.cfg.DefaultIntervalDays < 1 {
		return 1
	}
	return m.cfg.DefaultIntervalDays
}

// SetIntervalDays stores a new automatic backup interval.
func (m *Manager) SetIntervalDays(ctx context.Context, days int) error {
	if days < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidInterval, days)
	}
	if err := m.state.Set(ctx, m.cfg.IntervalKey, strconv.Itoa(days)); err != nil {
		return fmt.Errorf("failed to write backup interval: %w", err)
	}
	logging.Info().Int("interval_days", days).Msg("Backup interval updated")
	return nil
}

// NextDue returns when the automatic path will next store a backup. The
// zero time means a backup is due now.
func (m *Manager) NextDue(ctx context.Context) (time.Time, error) {
	last, found, err := m.LastBackup(ctx)
	if err != nil || !found {
		return time.Time{}, err
	}
	interval, err := m.IntervalDays(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return last.Add(time.Duration(interval) * day), nil
}
