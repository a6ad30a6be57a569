// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

/*
manager.go - Core Backup Manager

This file contains the Manager and the three backup paths.

Manager Responsibilities:
  - Automatic backups, gated by the stored interval
  - Manual full and essential backups
  - Quota degradation (emergency entries)
  - Retention sweeps after every stored backup
  - Restore-if-empty bootstrap

State Storage:
The last backup time and the interval live in the injected StateStore under
BackupConfig.LastBackupKey and BackupConfig.IntervalKey. Snapshot entries
live in the BackupStore. Both are usually the same kvstore.Store.

Thread Safety:
Backup, restore and delete operations are serialised by opMu. Read-only
operations (ListBackups, Stats, exports) do not take it.
*/

//nolint:staticcheck // File documentation, not package doc
package backup

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/liftlog/internal/config"
	"github.com/tomtom215/liftlog/internal/kvstore"
	"github.com/tomtom215/liftlog/internal/logging"
	"github.com/tomtom215/liftlog/internal/metrics"
)

// Manager handles backup and restore operations.
type Manager struct {
	cfg        *config.BackupConfig
	db         Database
	store      BackupStore
	state      StateStore
	serializer *Serializer
	restorer   *Restorer
	retention  RetentionPolicy
	now        func() time.Time

	opMu    sync.Mutex
	lastKey time.Time
}

// Option customises a Manager.
type Option func(*Manager)

// WithClock replaces time.Now for key generation, scheduling and metadata.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a backup manager.
func NewManager(cfg *config.BackupConfig, db Database, store BackupStore, state StateStore, images ImageCompressor, opts ...Option) (*Manager, error) {
	switch {
	case cfg == nil:
		return nil, fmt.Errorf("backup configuration is required")
	case db == nil:
		return nil, fmt.Errorf("database is required")
	case store == nil || state == nil:
		return nil, fmt.Errorf("backup and state stores are required")
	case images == nil:
		return nil, fmt.Errorf("image compressor is required")
	}

	m := &Manager{
		cfg:       cfg,
		db:        db,
		store:     store,
		state:     state,
		retention: RetentionPolicyFromConfig(cfg.Retention),
		now:       time.Now,
	}
	if err := m.retention.Validate(); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(m)
	}
	m.serializer = NewSerializer(db, images, cfg.Trim, m.now)
	m.restorer = NewRestorer(db)
	return m, nil
}

// Serializer returns the manager's serializer.
func (m *Manager) Serializer() *Serializer {
	return m.serializer
}

// nextKey returns a fresh entry key. Keys are strictly increasing even when
// the clock does not advance between two backups.
func (m *Manager) nextKey(now time.Time) string {
	at := now.UTC().Truncate(time.Millisecond)
	if !at.After(m.lastKey) {
		at = m.lastKey.Add(time.Millisecond)
	}
	m.lastKey = at
	return GenerateKey(m.cfg.KeyPrefix, at)
}

// PerformAutomaticBackup runs the full path when the configured interval has
// elapsed since the last backup. ran is false when no backup was due.
func (m *Manager) PerformAutomaticBackup(ctx context.Context) (key string, ran bool, err error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	due, err := m.backupDue(ctx, m.now())
	if err != nil {
		return "", false, err
	}
	if !due {
		metrics.RecordBackupSkipped()
		logging.Debug().Msg("Automatic backup not due")
		return "", false, nil
	}

	key, err = m.runFull(ctx)
	if err != nil {
		return "", true, err
	}
	return key, true, nil
}

// ManualBackup runs the full path regardless of the interval.
func (m *Manager) ManualBackup(ctx context.Context) (string, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()
	return m.runFull(ctx)
}

// runFull serializes, stores with size and quota degradation, records the
// backup time and sweeps. Callers hold opMu.
func (m *Manager) runFull(ctx context.Context) (string, error) {
	start := time.Now()

	snap, stats, err := m.serializer.Serialize(ctx)
	if err != nil {
		metrics.RecordBackup(string(KindFull), 0, time.Since(start), err)
		return "", fmt.Errorf("failed to serialize backup: %w", err)
	}

	now := m.now()
	key := m.nextKey(now)
	stored, err := m.saveWithSizeCheck(ctx, key, snap)
	if errors.Is(err, kvstore.ErrQuotaExceeded) {
		logging.Warn().Err(err).Str("backup_key", key).Msg("Backup rejected by storage quota")
		stored, err = m.saveEmergency(ctx, key, snap)
	}
	if err != nil {
		metrics.RecordBackup(string(KindFull), 0, time.Since(start), err)
		logging.Error().Err(err).Str("backup_key", key).Msg("Backup failed")
		return "", err
	}

	size := stored.Document().Metadata.Size
	metrics.RecordBackup(string(stored.Kind()), size, time.Since(start), nil)
	logging.Info().
		Str("backup_key", key).
		Str("kind", string(stored.Kind())).
		Int("size_bytes", size).
		Int("images_compressed", stats.ImagesCompressed).
		Int("compression_fallbacks", stats.CompressionFallbacks).
		Msg("Backup stored")

	m.finish(ctx, now, KindFull)
	return key, nil
}

// ManualEssentialBackup stores a snapshot without photos. It is always
// flagged partial and rotated with the essential ceiling.
func (m *Manager) ManualEssentialBackup(ctx context.Context) (string, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	start := time.Now()
	snap, err := m.serializer.SerializeEssential(ctx)
	if err != nil {
		metrics.RecordBackup(string(KindEssential), 0, time.Since(start), err)
		return "", fmt.Errorf("failed to serialize essential backup: %w", err)
	}

	now := m.now()
	key := m.nextKey(now)
	if err := m.saveDirect(ctx, key, snap); err != nil {
		metrics.RecordBackup(string(KindEssential), 0, time.Since(start), err)
		logging.Error().Err(err).Str("backup_key", key).Msg("Essential backup failed")
		return "", err
	}

	size := snap.Document().Metadata.Size
	metrics.RecordBackup(string(KindEssential), size, time.Since(start), nil)
	logging.Info().
		Str("backup_key", key).
		Str("kind", string(KindEssential)).
		Int("size_bytes", size).
		Msg("Backup stored")

	m.finish(ctx, now, KindEssential)
	return key, nil
}

// finish records the backup time and runs the retention sweep for kind.
// Neither failure undoes the stored backup.
func (m *Manager) finish(ctx context.Context, now time.Time, kind Kind) {
	if err := m.setLastBackup(ctx, now); err != nil {
		logging.Error().Err(err).Msg("Failed to record last backup time")
	}
	if _, err := m.applyRetention(ctx, kind); err != nil {
		logging.Warn().Err(err).Str("kind", string(kind)).Msg("Retention sweep failed")
	}
}

// CheckAndRestoreIfNeeded restores the newest backup when the database has
// no workouts and no exercises. It never overwrites existing data and
// reports whether a restore happened.
func (m *Manager) CheckAndRestoreIfNeeded(ctx context.Context) (bool, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if err := m.db.EnsureOpen(ctx); err != nil {
		return false, fmt.Errorf("%w: %w", ErrDatabaseUnavailable, err)
	}
	empty, err := m.databaseEmpty(ctx)
	if err != nil {
		return false, err
	}
	if !empty {
		logging.Debug().Msg("Database has data, skipping startup restore")
		return false, nil
	}

	keys, err := m.entryKeys(ctx)
	if err != nil {
		return false, err
	}
	if len(keys) == 0 {
		logging.Info().Msg("Database is empty and no backups exist")
		return false, nil
	}

	newest := keys[0].key
	logging.Info().Str("backup_key", newest).Msg("Database is empty, restoring newest backup")
	if _, err := m.restoreKey(ctx, newest); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Manager) databaseEmpty(ctx context.Context) (bool, error) {
	for _, t := range bootstrapTables {
		n, err := m.db.CountRows(ctx, t)
		if err != nil {
			return false, fmt.Errorf("failed to count %s: %w", t, err)
		}
		if n > 0 {
			return false, nil
		}
	}
	return true, nil
}

// RestoreBackup replaces the database with the entry stored under key.
func (m *Manager) RestoreBackup(ctx context.Context, key string) (*RestoreResult, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()
	return m.restoreKey(ctx, key)
}

func (m *Manager) restoreKey(ctx context.Context, key string) (*RestoreResult, error) {
	doc, err := m.loadDocument(ctx, key)
	if err != nil {
		return nil, err
	}
	result, err := m.restorer.Restore(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to restore %s: %w", key, err)
	}
	result.Key = key
	logging.Info().
		Str("backup_key", key).
		Int("rows", result.TotalRows).
		Dur("duration", result.Duration).
		Msg("Backup restored")
	return result, nil
}

// loadDocument reads and decodes the entry stored under key.
func (m *Manager) loadDocument(ctx context.Context, key string) (*Document, error) {
	raw, err := m.store.Get(ctx, key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrBackupNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup %s: %w", key, err)
	}
	return DecodeDocument([]byte(raw))
}
