// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

package backup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/liftlog/internal/imaging"
	"github.com/tomtom215/liftlog/internal/models"
)

var (
	// ErrBackupNotFound is returned when a backup key does not exist.
	ErrBackupNotFound = errors.New("backup not found")

	// ErrDatabaseUnavailable is returned when the local database cannot be
	// opened for a snapshot or restore.
	ErrDatabaseUnavailable = errors.New("database unavailable")

	// ErrInvalidSnapshot is returned when a stored entry cannot be decoded.
	ErrInvalidSnapshot = errors.New("invalid snapshot")

	// ErrInvalidInterval is returned for a backup interval below one day.
	ErrInvalidInterval = errors.New("backup interval must be at least 1 day")
)

// Database is the subset of the local database the backup package uses.
type Database interface {
	EnsureOpen(ctx context.Context) error
	ReadDataset(ctx context.Context, tables ...models.Table) (*models.Dataset, error)
	ReplaceAll(ctx context.Context, ds *models.Dataset) (map[models.Table]int, error)
	CountRows(ctx context.Context, t models.Table) (int64, error)
}

// BackupStore holds snapshot entries and their sideband keys.
type BackupStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// SetMany writes all entries atomically.
	SetMany(ctx context.Context, entries map[string]string) error
	Delete(ctx context.Context, keys ...string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// StateStore holds the scheduling scalars (last backup time, interval).
type StateStore interface {
	Lookup(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// ImageCompressor shrinks one base64 image.
type ImageCompressor interface {
	Compress(src *string) (*string, imaging.Outcome)
}

// Kind classifies a stored snapshot.
type Kind string

const (
	KindFull      Kind = "full"
	KindPartial   Kind = "partial"
	KindEmergency Kind = "emergency"
	KindEssential Kind = "essential"
)

// PartialReason says why images were stripped from a snapshot.
type PartialReason string

const (
	// ReasonSize means the encoded snapshot reached the chunk threshold.
	ReasonSize PartialReason = "size"
	// ReasonQuota means the store rejected the write for lack of space.
	ReasonQuota PartialReason = "quota"
)

// metadataDateLayout matches the ISO form used in stored documents.
const metadataDateLayout = "2006-01-02T15:04:05.000Z"

// Metadata is the header of a snapshot document.
type Metadata struct {
	Date      string   `json:"date"`
	Size      int      `json:"size"`
	Tables    []string `json:"tables"`
	Essential *bool    `json:"essential,omitempty"`
}

// Time parses Date. A document with an unreadable date yields the zero time.
func (m Metadata) Time() time.Time {
	t, err := time.Parse(metadataDateLayout, m.Date)
	if err != nil {
		t, err = time.Parse(time.RFC3339Nano, m.Date)
		if err != nil {
			return time.Time{}
		}
	}
	return t.UTC()
}

// IsEssential reports whether the document was produced by the essential path.
func (m Metadata) IsEssential() bool {
	return m.Essential != nil && *m.Essential
}

// Document is the wire form of a snapshot.
type Document struct {
	Metadata Metadata `json:"metadata"`
	models.Dataset
}

func newDocument(ds *models.Dataset, now time.Time, essential bool) *Document {
	ds.Normalize()
	return &Document{
		Metadata: Metadata{
			Date:      now.UTC().Format(metadataDateLayout),
			Tables:    models.TableKeys(),
			Essential: &essential,
		},
		Dataset: *ds,
	}
}

// maxSizePasses bounds the fixed-point search for metadata.size.
const maxSizePasses = 8

// encodeDocument serializes doc with metadata.size equal to the length of
// the returned bytes.
func encodeDocument(doc *Document) ([]byte, error) {
	doc.Metadata.Size = 0
	for i := 0; i < maxSizePasses; i++ {
		data, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to encode snapshot: %w", err)
		}
		if len(data) == doc.Metadata.Size {
			return data, nil
		}
		doc.Metadata.Size = len(data)
	}
	return nil, fmt.Errorf("failed to encode snapshot: size did not converge")
}

// DecodeDocument parses a stored snapshot.
func DecodeDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	doc.Dataset.Normalize()
	return &doc, nil
}

// Snapshot is one of *FullSnapshot, *PartialSnapshot or *EssentialSnapshot.
type Snapshot interface {
	Kind() Kind
	Document() *Document
	// Bytes returns the encoded document, encoding it on first use.
	Bytes() ([]byte, error)
	sealed()
}

type snapshotBase struct {
	doc *Document
	raw []byte
}

func (b *snapshotBase) Document() *Document { return b.doc }

func (b *snapshotBase) Bytes() ([]byte, error) {
	if b.raw == nil {
		raw, err := encodeDocument(b.doc)
		if err != nil {
			return nil, err
		}
		b.raw = raw
	}
	return b.raw, nil
}

func (b *snapshotBase) sealed() {}

// FullSnapshot holds every table with trimmed, compressed images.
type FullSnapshot struct {
	snapshotBase
}

// Kind implements Snapshot.
func (*FullSnapshot) Kind() Kind { return KindFull }

// PartialSnapshot is a snapshot whose images were stripped.
type PartialSnapshot struct {
	snapshotBase
	Reason PartialReason
}

// Kind implements Snapshot.
func (p *PartialSnapshot) Kind() Kind {
	if p.Reason == ReasonQuota {
		return KindEmergency
	}
	return KindPartial
}

// EssentialSnapshot excludes photo tables and report photos.
type EssentialSnapshot struct {
	snapshotBase
}

// Kind implements Snapshot.
func (*EssentialSnapshot) Kind() Kind { return KindEssential }

// stripSnapshot copies s with every image removed.
func stripSnapshot(s Snapshot, reason PartialReason) *PartialSnapshot {
	src := s.Document()
	ds := src.Dataset.Clone()
	ds.StripImages()

	meta := src.Metadata
	meta.Tables = append([]string(nil), src.Metadata.Tables...)
	return &PartialSnapshot{
		snapshotBase: snapshotBase{doc: &Document{Metadata: meta, Dataset: *ds}},
		Reason:       reason,
	}
}

// sidebandFlag returns the flag suffix recorded for s, or "" for a full
// snapshot.
func sidebandFlag(s Snapshot) string {
	switch v := s.(type) {
	case *PartialSnapshot:
		if v.Reason == ReasonQuota {
			return suffixEmergency
		}
		return suffixPartial
	case *EssentialSnapshot:
		return suffixPartial
	default:
		return ""
	}
}

// SizeInfo is stored under <key>_info for size-stripped entries.
type SizeInfo struct {
	TotalBytes     int `json:"tamanhoTotal"`
	SavedBytes     int `json:"tamanhoSalvo"`
	Photos         int `json:"numFotos"`
	ProgressImages int `json:"numFotosProgresso"`
}

// Entry describes one stored backup.
type Entry struct {
	Key       string    `json:"key"`
	Date      time.Time `json:"date"`
	SizeBytes int64     `json:"size_bytes"`
	Size      string    `json:"size"`
	Partial   bool      `json:"partial"`
	Emergency bool      `json:"emergency"`
}

// Kind returns the entry kind as far as the sideband flags tell.
func (e Entry) Kind() Kind {
	switch {
	case e.Emergency:
		return KindEmergency
	case e.Partial:
		return KindPartial
	default:
		return KindFull
	}
}

// Stats summarises the stored backups.
type Stats struct {
	Count        int        `json:"count"`
	TotalBytes   int64      `json:"total_bytes"`
	TotalSize    string     `json:"total_size"`
	Partial      int        `json:"partial"`
	Emergency    int        `json:"emergency"`
	Newest       *time.Time `json:"newest,omitempty"`
	Oldest       *time.Time `json:"oldest,omitempty"`
	LastBackup   *time.Time `json:"last_backup,omitempty"`
	IntervalDays int        `json:"interval_days"`
}

// RestoreResult reports what a restore inserted.
type RestoreResult struct {
	Key          string         `json:"key,omitempty"`
	SnapshotDate time.Time      `json:"snapshot_date"`
	Essential    bool           `json:"essential"`
	Rows         map[string]int `json:"rows"`
	TotalRows    int            `json:"total_rows"`
	Duration     time.Duration  `json:"duration"`
}
