// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// BackupRunner is the part of backup.Manager the scheduler drives.
type BackupRunner interface {
	// PerformAutomaticBackup writes a full snapshot when the interval has
	// elapsed. ran is false when nothing was due.
	PerformAutomaticBackup(ctx context.Context) (key string, ran bool, err error)

	// CheckAndRestoreIfNeeded restores the newest entry into an empty database.
	CheckAndRestoreIfNeeded(ctx context.Context) (bool, error)
}

// BackupSchedulerConfig holds configuration for the backup scheduler.
type BackupSchedulerConfig struct {
	// Period is how often the automatic path is evaluated. Default: 24h.
	Period time.Duration

	// RestoreOnStart runs the restore-if-empty bootstrap before the first run.
	RestoreOnStart bool

	// RunTimeout bounds a single backup attempt. Default: 10m.
	RunTimeout time.Duration
}

// BackupSchedulerService triggers the automatic backup path once at start and
// then on every tick. The interval gate lives in the manager, so a tick
// before the interval has elapsed is a no-op.
type BackupSchedulerService struct {
	runner BackupRunner
	config BackupSchedulerConfig
	logger zerolog.Logger
	name   string

	restored bool
}

// NewBackupSchedulerService creates a new backup scheduler service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBackupSchedulerService(runner BackupRunner, cfg BackupSchedulerConfig, logger zerolog.Logger) *BackupSchedulerService {
	if cfg.Period <= 0 {
		cfg.Period = 24 * time.Hour
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 10 * time.Minute
	}
	return &BackupSchedulerService{
		runner: runner,
		config: cfg,
		logger: logger.With().Str("service", "backup-scheduler").Logger(),
		name:   "backup-scheduler",
	}
}

// Serve implements suture.Service.
func (s *BackupSchedulerService) Serve(ctx context.Context) error {
	s.logger.Info().
		Dur("period", s.config.Period).
		Bool("restore_on_start", s.config.RestoreOnStart).
		Msg("backup scheduler starting")

	// A restart after a crash must not restore again over fresh user data.
	if s.config.RestoreOnStart && !s.restored {
		restored, err := s.runner.CheckAndRestoreIfNeeded(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Warn().Err(err).Msg("startup restore failed")
		} else {
			s.restored = true
			if restored {
				s.logger.Info().Msg("empty database restored from newest backup")
			}
		}
	}

	s.run(ctx)

	ticker := time.NewTicker(s.config.Period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("backup scheduler shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.run(ctx)
		}
	}
}

// run performs one automatic attempt. Failures are logged and retried on the
// next tick.
func (s *BackupSchedulerService) run(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.config.RunTimeout)
	defer cancel()

	start := time.Now()
	key, ran, err := s.runner.PerformAutomaticBackup(runCtx)
	switch {
	case err != nil:
		s.logger.Warn().Err(err).Msg("automatic backup failed")
	case !ran:
		s.logger.Debug().Msg("automatic backup not due")
	default:
		s.logger.Info().
			Str("key", key).
			Dur("duration", time.Since(start)).
			Msg("automatic backup complete")
	}
}

// String returns the service name for logging.
func (s *BackupSchedulerService) String() string {
	return s.name
}
