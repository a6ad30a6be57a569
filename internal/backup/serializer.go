// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/liftlog/internal/config"
	"github.com/tomtom215/liftlog/internal/logging"
	"github.com/tomtom215/liftlog/internal/models"
)

// essentialTables are the tables read by the essential path.
var essentialTables = []models.Table{
	models.TableWorkouts,
	models.TableExercises,
	models.TableSets,
	models.TableSetHistory,
	models.TableCardio,
	models.TableWorkoutHistory,
	models.TableReports,
}

// Serializer builds snapshot documents from the local database.
type Serializer struct {
	db     Database
	images ImageCompressor
	trim   config.TrimConfig
	now    func() time.Time
}

// NewSerializer creates a Serializer. A nil now uses time.Now.
func NewSerializer(db Database, images ImageCompressor, trim config.TrimConfig, now func() time.Time) *Serializer {
	if now == nil {
		now = time.Now
	}
	return &Serializer{db: db, images: images, trim: trim, now: now}
}

func (s *Serializer) open(ctx context.Context) error {
	if err := s.db.EnsureOpen(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseUnavailable, err)
	}
	return nil
}

// Serialize reads every table, trims and compresses the result and encodes
// it. The returned snapshot already carries its final size.
func (s *Serializer) Serialize(ctx context.Context) (*FullSnapshot, SerializeStats, error) {
	var stats SerializeStats
	if err := s.open(ctx); err != nil {
		return nil, stats, err
	}

	ds, err := s.db.ReadDataset(ctx)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to read tables: %w", err)
	}

	now := s.now()
	trimDataset(ds, s.trim, now, &stats)
	if stats.HistoryRemoved > 0 {
		logging.Info().
			Int("removed", stats.HistoryRemoved).
			Int("months", s.trim.HistoryMonths).
			Msg("Old set history left out of snapshot")
	}

	compressDataset(ds, s.images, &stats)
	if stats.CompressionFallbacks > 0 {
		logging.Warn().
			Int("fallbacks", stats.CompressionFallbacks).
			Msg("Some images were stored uncompressed")
	}

	snap := &FullSnapshot{snapshotBase{doc: newDocument(ds, now, false)}}
	if _, err := snap.Bytes(); err != nil {
		return nil, stats, err
	}
	return snap, stats, nil
}

// SerializeEssential builds a snapshot without photo tables or report
// photos. Nothing is trimmed or compressed.
func (s *Serializer) SerializeEssential(ctx context.Context) (*EssentialSnapshot, error) {
	if err := s.open(ctx); err != nil {
		return nil, err
	}

	ds, err := s.db.ReadDataset(ctx, essentialTables...)
	if err != nil {
		return nil, fmt.Errorf("failed to read tables: %w", err)
	}
	for i := range ds.Reports {
		ds.Reports[i].Photos = models.StringList{}
	}
	ds.Photos = []models.Photo{}
	ds.ProgressPhotos = []models.ProgressPhoto{}

	snap := &EssentialSnapshot{snapshotBase{doc: newDocument(ds, s.now(), true)}}
	if _, err := snap.Bytes(); err != nil {
		return nil, err
	}
	return snap, nil
}
