// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/liftlog/internal/validation"
)

// Validate checks struct tags first, then rules spanning several fields.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	return c.validateBackup()
}

func (c *Config) validateStore() error {
	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("store.path is required unless store.in_memory is set")
	}
	if c.Store.GCInterval < time.Minute {
		return fmt.Errorf("store.gc_interval must be at least 1m, got %s", c.Store.GCInterval)
	}
	return nil
}

func (c *Config) validateBackup() error {
	if c.Backup.SchedulePeriod < time.Minute {
		return fmt.Errorf("backup.schedule_period must be at least 1m, got %s", c.Backup.SchedulePeriod)
	}
	if c.Backup.LastBackupKey == c.Backup.IntervalKey {
		return fmt.Errorf("backup.last_backup_key and backup.interval_key must differ")
	}
	if q := c.Store.QuotaBytes; q > 0 && q < int64(c.Backup.ChunkThresholdBytes) {
		return fmt.Errorf("store.quota_bytes (%d) is smaller than backup.chunk_threshold_bytes (%d)",
			q, c.Backup.ChunkThresholdBytes)
	}
	return nil
}
