// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

/*
trimming.go - Snapshot Size Bounding

Full snapshots are trimmed in memory before images are compressed. The
database itself is never modified.

Rules:
  - Photos: newest MaxPhotos kept (default 15)
  - Progress photos: newest MaxProgressPhotos kept (default 10)
  - Reports: all kept; only the newest MaxReportsWithPhotos reports that
    have photos keep them (default 5), later ones get an empty list
  - Set history: rows dated before now minus HistoryMonths are dropped
    (default 6)

Sorting is by date descending and stable, so equal dates keep table order.
*/

//nolint:staticcheck // File documentation, not package doc
package backup

import (
	"sort"
	"time"

	"github.com/tomtom215/liftlog/internal/config"
	"github.com/tomtom215/liftlog/internal/imaging"
	"github.com/tomtom215/liftlog/internal/metrics"
	"github.com/tomtom215/liftlog/internal/models"
)

// SerializeStats reports what trimming and compression did to a snapshot.
type SerializeStats struct {
	PhotosDropped         int
	ProgressPhotosDropped int
	ReportsStripped       int
	HistoryRemoved        int

	ImagesCompressed     int
	ImagesSkipped        int
	CompressionFallbacks int
}

func trimDataset(ds *models.Dataset, cfg config.TrimConfig, now time.Time, stats *SerializeStats) {
	if len(ds.Photos) > cfg.MaxPhotos {
		sort.SliceStable(ds.Photos, func(i, j int) bool {
			return ds.Photos[i].Date.After(ds.Photos[j].Date.Time)
		})
		stats.PhotosDropped = len(ds.Photos) - cfg.MaxPhotos
		ds.Photos = ds.Photos[:cfg.MaxPhotos]
	}

	if len(ds.ProgressPhotos) > cfg.MaxProgressPhotos {
		sort.SliceStable(ds.ProgressPhotos, func(i, j int) bool {
			return ds.ProgressPhotos[i].Date.After(ds.ProgressPhotos[j].Date.Time)
		})
		stats.ProgressPhotosDropped = len(ds.ProgressPhotos) - cfg.MaxProgressPhotos
		ds.ProgressPhotos = ds.ProgressPhotos[:cfg.MaxProgressPhotos]
	}

	sort.SliceStable(ds.Reports, func(i, j int) bool {
		return ds.Reports[i].Date.After(ds.Reports[j].Date.Time)
	})
	withPhotos := 0
	for i := range ds.Reports {
		if len(ds.Reports[i].Photos) == 0 {
			continue
		}
		withPhotos++
		if withPhotos > cfg.MaxReportsWithPhotos {
			ds.Reports[i].Photos = models.StringList{}
			stats.ReportsStripped++
		}
	}

	cutoff := now.AddDate(0, -cfg.HistoryMonths, 0)
	kept := ds.SetHistory[:0]
	for _, h := range ds.SetHistory {
		if h.Date.Before(cutoff) {
			stats.HistoryRemoved++
			continue
		}
		kept = append(kept, h)
	}
	ds.SetHistory = kept
}

// compressDataset runs every image of ds through c.
func compressDataset(ds *models.Dataset, c ImageCompressor, stats *SerializeStats) {
	compress := func(src *string) *string {
		out, outcome := c.Compress(src)
		stats.record(outcome)
		return out
	}

	for i := range ds.ProgressPhotos {
		p := &ds.ProgressPhotos[i]
		p.Front = compress(p.Front)
		p.Side = compress(p.Side)
		p.Back = compress(p.Back)
	}
	for i := range ds.Photos {
		ds.Photos[i].Image = compress(ds.Photos[i].Image)
	}
	for i := range ds.Reports {
		photos := ds.Reports[i].Photos
		for j := range photos {
			if out := compress(&photos[j]); out != nil {
				photos[j] = *out
			}
		}
	}
}

func (s *SerializeStats) record(outcome imaging.Outcome) {
	switch outcome {
	case imaging.OutcomeCompressed:
		s.ImagesCompressed++
	case imaging.OutcomeFallback:
		s.CompressionFallbacks++
	default:
		s.ImagesSkipped++
	}
	metrics.RecordImage(outcome.String())
}
