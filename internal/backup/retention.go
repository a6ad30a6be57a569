// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

package backup

import (
	"context"
	"fmt"

	"github.com/tomtom215/liftlog/internal/config"
	"github.com/tomtom215/liftlog/internal/logging"
	"github.com/tomtom215/liftlog/internal/metrics"
)

// RetentionPolicy holds the entry ceiling applied after each kind of backup.
// Every sweep covers the whole key space, so the ceiling of the path that
// ran last wins.
type RetentionPolicy struct {
	FullMaxCount      int `json:"full_max_count"`
	EssentialMaxCount int `json:"essential_max_count"`
}

// DefaultRetentionPolicy returns the built-in ceilings (3 full, 10 essential).
func DefaultRetentionPolicy() RetentionPolicy {
	return RetentionPolicy{FullMaxCount: 3, EssentialMaxCount: 10}
}

// RetentionPolicyFromConfig converts the configured ceilings.
func RetentionPolicyFromConfig(cfg config.RetentionConfig) RetentionPolicy {
	return RetentionPolicy{
		FullMaxCount:      cfg.FullMaxCount,
		EssentialMaxCount: cfg.EssentialMaxCount,
	}
}

// Limit returns the ceiling for a backup of the given kind.
func (p RetentionPolicy) Limit(kind Kind) int {
	if kind == KindEssential {
		return p.EssentialMaxCount
	}
	return p.FullMaxCount
}

// Validate checks that both ceilings keep at least one entry.
func (p RetentionPolicy) Validate() error {
	if p.FullMaxCount < 1 || p.EssentialMaxCount < 1 {
		return fmt.Errorf("retention ceilings must be at least 1 (full=%d, essential=%d)",
			p.FullMaxCount, p.EssentialMaxCount)
	}
	return nil
}

// selectForDeletion returns the keys beyond limit. keys must be sorted
// newest first.
func selectForDeletion(keys []keyedTime, limit int) []string {
	if limit < 1 || len(keys) <= limit {
		return nil
	}
	out := make([]string, 0, len(keys)-limit)
	for _, k := range keys[limit:] {
		out = append(out, k.key)
	}
	return out
}

// applyRetention deletes the oldest entries beyond the ceiling for kind,
// together with their sideband keys, and returns how many were deleted.
func (m *Manager) applyRetention(ctx context.Context, kind Kind) (int, error) {
	keys, err := m.entryKeys(ctx)
	if err != nil {
		return 0, err
	}

	limit := m.retention.Limit(kind)
	doomed := selectForDeletion(keys, limit)
	for _, key := range doomed {
		if err := m.deleteEntry(ctx, key); err != nil {
			return 0, err
		}
		logging.Info().Str("backup_key", key).Str("kind", string(kind)).Msg("Old backup removed")
	}

	remaining := len(keys) - len(doomed)
	metrics.RecordRetention(string(kind), len(doomed), remaining)
	if len(doomed) > 0 {
		logging.Info().
			Int("removed", len(doomed)).
			Int("remaining", remaining).
			Int("limit", limit).
			Msg("Retention sweep complete")
	}
	return len(doomed), nil
}

// ApplyRetention runs a sweep with the ceiling for kind.
func (m *Manager) ApplyRetention(ctx context.Context, kind Kind) (int, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()
	return m.applyRetention(ctx, kind)
}

// entryKeys lists stored entry keys newest first, excluding sideband keys.
func (m *Manager) entryKeys(ctx context.Context) ([]keyedTime, error) {
	keys, err := m.store.Keys(ctx, m.cfg.KeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}
	return entryKeys(m.cfg.KeyPrefix, keys), nil
}

// deleteEntry removes key and every sideband key.
func (m *Manager) deleteEntry(ctx context.Context, key string) error {
	keys := append([]string{key}, SidebandKeys(key)...)
	if err := m.store.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("failed to delete backup %s: %w", key, err)
	}
	return nil
}
