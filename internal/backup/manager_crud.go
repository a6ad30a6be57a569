// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

/*
manager_crud.go - Backup Listing, Deletion and Export

This file contains the read-side operations on stored entries.

Operations:
  - ListBackups: entries newest first with size and sideband flags
  - DeleteBackup: remove one entry and its sideband keys
  - ExportBackup / ExportEssential: write a document to an io.Writer
  - Stats: aggregate counts and sizes
*/

//nolint:staticcheck // File documentation, not package doc
package backup

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/tomtom215/liftlog/internal/kvstore"
	"github.com/tomtom215/liftlog/internal/logging"
)

// ListBackups returns every stored entry, newest first.
func (m *Manager) ListBackups(ctx context.Context) ([]Entry, error) {
	keys, err := m.entryKeys(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		raw, err := m.store.Get(ctx, k.key)
		if errors.Is(err, kvstore.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read backup %s: %w", k.key, err)
		}

		partial, err := m.hasFlag(ctx, k.key+suffixPartial)
		if err != nil {
			return nil, err
		}
		emergency, err := m.hasFlag(ctx, k.key+suffixEmergency)
		if err != nil {
			return nil, err
		}

		size := int64(len(raw))
		entries = append(entries, Entry{
			Key:       k.key,
			Date:      k.at,
			SizeBytes: size,
			Size:      FormatSize(size),
			Partial:   partial,
			Emergency: emergency,
		})
	}
	return entries, nil
}

func (m *Manager) hasFlag(ctx context.Context, key string) (bool, error) {
	_, err := m.store.Get(ctx, key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, kvstore.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
}

// DeleteBackup removes the entry stored under key and its sideband keys.
func (m *Manager) DeleteBackup(ctx context.Context, key string) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if _, ok := ParseKey(m.cfg.KeyPrefix, key); !ok {
		return fmt.Errorf("%w: %s", ErrBackupNotFound, key)
	}
	if _, err := m.store.Get(ctx, key); err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrBackupNotFound, key)
		}
		return fmt.Errorf("failed to read backup %s: %w", key, err)
	}
	if err := m.deleteEntry(ctx, key); err != nil {
		return err
	}
	logging.Info().Str("backup_key", key).Msg("Backup deleted")
	return nil
}

// ExportBackup writes the stored document under key to w unchanged.
func (m *Manager) ExportBackup(ctx context.Context, key string, w io.Writer) (int64, error) {
	raw, err := m.store.Get(ctx, key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return 0, fmt.Errorf("%w: %s", ErrBackupNotFound, key)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read backup %s: %w", key, err)
	}
	n, err := io.WriteString(w, raw)
	if err != nil {
		return int64(n), fmt.Errorf("failed to write export: %w", err)
	}
	return int64(n), nil
}

// ExportEssential builds a fresh essential snapshot and writes it to w
// without storing it.
func (m *Manager) ExportEssential(ctx context.Context, w io.Writer) (int64, error) {
	snap, err := m.serializer.SerializeEssential(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize essential export: %w", err)
	}
	data, err := snap.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	if err != nil {
		return int64(n), fmt.Errorf("failed to write export: %w", err)
	}
	return int64(n), nil
}

// Stats summarises stored backups and the schedule.
func (m *Manager) Stats(ctx context.Context) (*Stats, error) {
	entries, err := m.ListBackups(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Count: len(entries)}
	for _, e := range entries {
		stats.TotalBytes += e.SizeBytes
		if e.Partial {
			stats.Partial++
		}
		if e.Emergency {
			stats.Emergency++
		}
	}
	stats.TotalSize = FormatSize(stats.TotalBytes)
	if len(entries) > 0 {
		newest, oldest := entries[0].Date, entries[len(entries)-1].Date
		stats.Newest = &newest
		stats.Oldest = &oldest
	}

	last, found, err := m.LastBackup(ctx)
	if err != nil {
		return nil, err
	}
	if found {
		stats.LastBackup = &last
	}
	if stats.IntervalDays, err = m.IntervalDays(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}
