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

// GarbageCollector reclaims space in the backup store.
type GarbageCollector interface {
	RunGC() error
}

// StoreMaintenanceConfig holds configuration for store maintenance.
type StoreMaintenanceConfig struct {
	// Interval between maintenance passes. Default: 1h.
	Interval time.Duration

	// MetricsTextfile, when set, is rewritten on every pass.
	MetricsTextfile string

	// WriteMetrics writes the textfile, usually metrics.WriteTextfile. Nil
	// disables the export.
	WriteMetrics func(path string) error
}

// StoreMaintenanceService periodically runs value log GC on the backup store
// and refreshes the metrics textfile.
type StoreMaintenanceService struct {
	gc     GarbageCollector
	config StoreMaintenanceConfig
	logger zerolog.Logger
	name   string
}

// NewStoreMaintenanceService creates a new store maintenance service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewStoreMaintenanceService(gc GarbageCollector, cfg StoreMaintenanceConfig, logger zerolog.Logger) *StoreMaintenanceService {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	return &StoreMaintenanceService{
		gc:     gc,
		config: cfg,
		logger: logger.With().Str("service", "store-maintenance").Logger(),
		name:   "store-maintenance",
	}
}

// Serve implements suture.Service. A GC error is returned so the supervisor
// restarts the service with backoff.
func (s *StoreMaintenanceService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.writeMetrics()
			return ctx.Err()

		case <-ticker.C:
			if err := s.gc.RunGC(); err != nil {
				s.logger.Error().Err(err).Msg("backup store GC failed")
				return err
			}
			s.logger.Debug().Msg("backup store GC complete")
			s.writeMetrics()
		}
	}
}

func (s *StoreMaintenanceService) writeMetrics() {
	if s.config.MetricsTextfile == "" || s.config.WriteMetrics == nil {
		return
	}
	if err := s.config.WriteMetrics(s.config.MetricsTextfile); err != nil {
		s.logger.Warn().Err(err).Str("path", s.config.MetricsTextfile).Msg("metrics textfile write failed")
	}
}

// String returns the service name for logging.
func (s *StoreMaintenanceService) String() string {
	return s.name
}
