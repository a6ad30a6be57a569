// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

// Package config loads Liftlog configuration.
//
// Values are layered with koanf, later layers overriding earlier ones:
//
//  1. Built-in defaults (defaultConfig)
//  2. YAML file (--config flag, CONFIG_PATH, ./config.yaml, /etc/liftlog/config.yaml)
//  3. Environment variables (see envMappings)
//
// The result is validated with struct tags (internal/validation) and a few
// cross-field checks before it is returned.
package config

import "time"

// Config is the full application configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Store    StoreConfig    `koanf:"store"`
	Backup   BackupConfig   `koanf:"backup"`
	Imaging  ImagingConfig  `koanf:"imaging"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// DatabaseConfig selects the local table store.
type DatabaseConfig struct {
	// Driver is "duckdb" (default, cgo) or "sqlite" (pure Go).
	Driver string `koanf:"driver" validate:"oneof=duckdb sqlite"`
	// Path is the database file. Empty or ":memory:" opens an in-memory database.
	Path string `koanf:"path"`
	// Threads limits DuckDB worker threads (0 = DuckDB default). Ignored by sqlite.
	Threads int `koanf:"threads" validate:"gte=0"`
}

// InMemory reports whether the database lives only in memory.
func (c *DatabaseConfig) InMemory() bool {
	return c.Path == "" || c.Path == ":memory:"
}

// StoreConfig configures the backup key/value store (BadgerDB).
type StoreConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
	// QuotaBytes caps the total size of stored values. 0 disables the cap.
	QuotaBytes int64 `koanf:"quota_bytes" validate:"gte=0"`
	// GCInterval is how often `serve` runs value log GC.
	GCInterval time.Duration `koanf:"gc_interval"`
}

// BackupConfig configures snapshot creation, retention and scheduling.
type BackupConfig struct {
	KeyPrefix     string `koanf:"key_prefix" validate:"keyprefix"`
	LastBackupKey string `koanf:"last_backup_key" validate:"required"`
	IntervalKey   string `koanf:"interval_key" validate:"required"`

	// DefaultIntervalDays applies when no interval has been stored yet.
	DefaultIntervalDays int `koanf:"default_interval_days" validate:"min=1"`

	// ChunkThresholdBytes is the largest snapshot stored with images intact.
	ChunkThresholdBytes int `koanf:"chunk_threshold_bytes" validate:"min=1024"`

	Retention RetentionConfig `koanf:"retention"`
	Trim      TrimConfig      `koanf:"trim"`

	// SchedulePeriod is how often the scheduler evaluates the automatic path.
	SchedulePeriod time.Duration `koanf:"schedule_period"`
	// RestoreOnStart runs the restore-if-empty bootstrap before scheduling.
	RestoreOnStart bool `koanf:"restore_on_start"`
}

// RetentionConfig holds the per-kind entry ceilings.
type RetentionConfig struct {
	FullMaxCount      int `koanf:"full_max_count" validate:"min=1"`
	EssentialMaxCount int `koanf:"essential_max_count" validate:"min=1"`
}

// TrimConfig bounds snapshot size before compression.
type TrimConfig struct {
	MaxPhotos            int `koanf:"max_photos" validate:"gte=0"`
	MaxProgressPhotos    int `koanf:"max_progress_photos" validate:"gte=0"`
	MaxReportsWithPhotos int `koanf:"max_reports_with_photos" validate:"gte=0"`
	HistoryMonths        int `koanf:"history_months" validate:"min=1"`
}

// ImagingConfig configures snapshot image compression.
type ImagingConfig struct {
	MaxWidth  int `koanf:"max_width" validate:"min=1"`
	MaxHeight int `koanf:"max_height" validate:"min=1"`
	// Quality is the JPEG quality, 1-100.
	Quality int `koanf:"quality" validate:"min=1,max=100"`
}

// MetricsConfig configures the Prometheus textfile export.
type MetricsConfig struct {
	// TextfilePath, when set, receives the metrics after every command.
	TextfilePath string `koanf:"textfile_path"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns the built-in defaults, the first koanf layer.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: "duckdb",
			Path:   "data/liftlog.duckdb",
		},
		Store: StoreConfig{
			Path:       "data/backups",
			QuotaBytes: 50 << 20,
			GCInterval: time.Hour,
		},
		Backup: BackupConfig{
			KeyPrefix:           "backup_",
			LastBackupKey:       "lastBackup",
			IntervalKey:         "backupInterval",
			DefaultIntervalDays: 1,
			ChunkThresholdBytes: 4 << 20,
			Retention: RetentionConfig{
				FullMaxCount:      3,
				EssentialMaxCount: 10,
			},
			Trim: TrimConfig{
				MaxPhotos:            15,
				MaxProgressPhotos:    10,
				MaxReportsWithPhotos: 5,
				HistoryMonths:        6,
			},
			SchedulePeriod: 24 * time.Hour,
			RestoreOnStart: true,
		},
		Imaging: ImagingConfig{
			MaxWidth:  500,
			MaxHeight: 500,
			Quality:   50,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Default returns a copy of the built-in defaults. Tests and embedders use it
// as a starting point.
func Default() *Config {
	return defaultConfig()
}
