// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

/*
save.go - Size-aware Snapshot Writes

A snapshot below the chunk threshold (4 MiB by default) is stored whole.
At or above it, images are stripped and the smaller document is stored
under the same key, flagged with <key>_isParcial and described by a best
effort <key>_info record. A stripped body and its flag are written in one
store transaction, so no stripped entry is ever left without its flag.

When the store itself refuses the write (quota), the full path falls back
to saveEmergency: a stripped copy flagged <key>_isEmergency. Only one of
the two flags is ever left on an entry.
*/

//nolint:staticcheck // File documentation, not package doc
package backup

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/liftlog/internal/logging"
)

const flagValue = "true"

// saveWithSizeCheck stores snap under key and returns the snapshot that was
// actually written. Store errors, including kvstore.ErrQuotaExceeded, are
// returned wrapped.
func (m *Manager) saveWithSizeCheck(ctx context.Context, key string, snap Snapshot) (Snapshot, error) {
	data, err := snap.Bytes()
	if err != nil {
		return nil, err
	}

	if len(data) < m.cfg.ChunkThresholdBytes {
		if err := m.store.Set(ctx, key, string(data)); err != nil {
			return nil, fmt.Errorf("failed to store backup %s: %w", key, err)
		}
		return snap, nil
	}

	logging.Warn().
		Str("backup_key", key).
		Int("size_bytes", len(data)).
		Int("threshold_bytes", m.cfg.ChunkThresholdBytes).
		Msg("Snapshot too large, storing without images")

	partial := stripSnapshot(snap, ReasonSize)
	pdata, err := partial.Bytes()
	if err != nil {
		return nil, err
	}
	if err := m.store.SetMany(ctx, map[string]string{
		key:                 string(pdata),
		key + suffixPartial: flagValue,
	}); err != nil {
		return nil, fmt.Errorf("failed to store partial backup %s: %w", key, err)
	}

	photos, progress := snap.Document().ImageCounts()
	m.writeSizeInfo(ctx, key, SizeInfo{
		TotalBytes:     len(data),
		SavedBytes:     len(pdata),
		Photos:         photos,
		ProgressImages: progress,
	})
	return partial, nil
}

// writeSizeInfo records diagnostics for a stripped entry. Failures are only
// logged.
func (m *Manager) writeSizeInfo(ctx context.Context, key string, info SizeInfo) {
	data, err := json.Marshal(info)
	if err == nil {
		err = m.store.Set(ctx, key+suffixInfo, string(data))
	}
	if err != nil {
		logging.Warn().Err(err).Str("backup_key", key).Msg("Failed to write backup size info")
	}
}

// saveEmergency stores an image-free copy of snap after the store refused
// the normal write.
func (m *Manager) saveEmergency(ctx context.Context, key string, snap Snapshot) (Snapshot, error) {
	emergency := stripSnapshot(snap, ReasonQuota)
	data, err := emergency.Bytes()
	if err != nil {
		return nil, err
	}
	if err := m.store.Delete(ctx, key+suffixPartial, key+suffixInfo); err != nil {
		return nil, fmt.Errorf("emergency backup %s failed: %w", key, err)
	}
	if err := m.store.SetMany(ctx, map[string]string{
		key:                   string(data),
		key + suffixEmergency: flagValue,
	}); err != nil {
		return nil, fmt.Errorf("emergency backup %s failed: %w", key, err)
	}

	logging.Warn().
		Str("backup_key", key).
		Int("size_bytes", len(data)).
		Msg("Storage quota exceeded, emergency backup stored without images")
	return emergency, nil
}

// saveDirect stores snap as is and sets its sideband flag, if any.
func (m *Manager) saveDirect(ctx context.Context, key string, snap Snapshot) error {
	data, err := snap.Bytes()
	if err != nil {
		return err
	}
	entries := map[string]string{key: string(data)}
	if flag := sidebandFlag(snap); flag != "" {
		entries[key+flag] = flagValue
	}
	if err := m.store.SetMany(ctx, entries); err != nil {
		return fmt.Errorf("failed to store backup %s: %w", key, err)
	}
	return nil
}
