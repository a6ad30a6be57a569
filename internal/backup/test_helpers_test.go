// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

package backup

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/liftlog/internal/config"
	"github.com/tomtom215/liftlog/internal/database"
	"github.com/tomtom215/liftlog/internal/imaging"
	"github.com/tomtom215/liftlog/internal/kvstore"
	"github.com/tomtom215/liftlog/internal/models"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// memState is an in-memory StateStore.
type memState struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemState() *memState {
	return &memState{values: make(map[string]string)}
}

func (s *memState) Lookup(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *memState) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// quotaStore wraps a BackupStore and rejects values larger than maxValue
// with kvstore.ErrQuotaExceeded.
type quotaStore struct {
	BackupStore
	maxValue int
	rejected []int
}

func (q *quotaStore) Set(ctx context.Context, key, value string) error {
	if len(value) > q.maxValue {
		q.rejected = append(q.rejected, len(value))
		return fmt.Errorf("%w: %d bytes", kvstore.ErrQuotaExceeded, len(value))
	}
	return q.BackupStore.Set(ctx, key, value)
}

func (q *quotaStore) SetMany(ctx context.Context, entries map[string]string) error {
	largest := 0
	for _, value := range entries {
		largest = max(largest, len(value))
	}
	if largest > q.maxValue {
		q.rejected = append(q.rejected, largest)
		return fmt.Errorf("%w: %d bytes", kvstore.ErrQuotaExceeded, largest)
	}
	return q.BackupStore.SetMany(ctx, entries)
}

// flagFailStore wraps a BackupStore and fails any write that touches a key
// ending in suffix.
type flagFailStore struct {
	BackupStore
	suffix string
	err    error
}

func (f *flagFailStore) Set(ctx context.Context, key, value string) error {
	return f.SetMany(ctx, map[string]string{key: value})
}

func (f *flagFailStore) SetMany(ctx context.Context, entries map[string]string) error {
	for key := range entries {
		if strings.HasSuffix(key, f.suffix) {
			return f.err
		}
	}
	return f.BackupStore.SetMany(ctx, entries)
}

// testEnv holds the common test environment setup
type testEnv struct {
	cfg   *config.BackupConfig
	db    *database.DB
	store *kvstore.Store
	state *memState
	clock *fakeClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.Default().Backup
	return &testEnv{
		cfg:   &cfg,
		db:    newTestDB(t),
		store: newTestStore(t),
		state: newMemState(),
		clock: newFakeClock(),
	}
}

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(&config.DatabaseConfig{Driver: database.DriverSQLite, Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestStore(t *testing.T) *kvstore.Store {
	t.Helper()
	s, err := kvstore.Open(&config.StoreConfig{InMemory: true})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testCompressor() *imaging.Compressor {
	return imaging.New(config.ImagingConfig{MaxWidth: 500, MaxHeight: 500, Quality: 50})
}

// newManager creates a manager over the env, using store for entries.
func (e *testEnv) newManager(t *testing.T, store BackupStore) *Manager {
	t.Helper()
	if store == nil {
		store = e.store
	}
	m, err := NewManager(e.cfg, e.db, store, e.state, testCompressor(), WithClock(e.clock.Now))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	return m
}

// noisePNG renders a w×h PNG of random pixels as a data URL. Noise keeps the
// re-encoded JPEG large.
func noisePNG(t *testing.T, w, h int, seed int64) string {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(rng.Intn(256)), G: uint8(rng.Intn(256)), B: uint8(rng.Intn(256)), A: 255})
		}
	}
	return encodePNG(t, img)
}

// gradientPNG renders a w×h gradient PNG as a data URL.
func gradientPNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x % 256), G: uint8(y % 256), B: 90, A: 255})
		}
	}
	return encodePNG(t, img)
}

func encodePNG(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func ptr[T any](v T) *T { return &v }

// seedWorkouts inserts a small dataset without images.
func seedWorkouts(t *testing.T, db *database.DB, now time.Time) *models.Dataset {
	t.Helper()
	ds := &models.Dataset{
		Workouts: []models.Workout{
			{ID: "w1", Name: "Push", DayOfWeek: 1, CreatedAt: models.NewTime(now.AddDate(0, -1, 0))},
			{ID: "w2", Name: "Pull", DayOfWeek: 3, CreatedAt: models.NewTime(now.AddDate(0, -1, 0))},
		},
		Exercises: []models.Exercise{
			{ID: "e1", WorkoutID: "w1", Name: "Bench", TargetSets: 4, TargetReps: 8, Position: 1},
			{ID: "e2", WorkoutID: "w2", Name: "Row", TargetSets: 4, TargetReps: 10, Position: 1},
		},
		Sets: []models.Set{
			{ID: "s1", ExerciseID: "e1", Number: 1, Reps: 8, WeightKg: 80, Completed: true, Date: models.NewTime(now.Add(-time.Hour))},
		},
		SetHistory: []models.SetHistory{
			{ID: "h-new", ExerciseID: "e1", SetNumber: 1, Reps: 8, WeightKg: 77.5, Date: models.NewTime(now.AddDate(0, -1, 0))},
			{ID: "h-old", ExerciseID: "e1", SetNumber: 1, Reps: 8, WeightKg: 60, Date: models.NewTime(now.AddDate(0, -7, 0))},
		},
		Cardio: []models.CardioSession{
			{ID: "c1", Activity: "run", DurationMinutes: 30, DistanceKm: 5, Calories: 300, Date: models.NewTime(now.AddDate(0, 0, -2))},
		},
		WorkoutHistory: []models.WorkoutHistory{
			{ID: "wh1", WorkoutID: "w1", WorkoutName: "Push", DurationMinutes: 50, VolumeKg: 4000, Date: models.NewTime(now.AddDate(0, 0, -1))},
		},
		Reports: []models.WeeklyReport{
			{ID: "r1", Date: models.NewTime(now.AddDate(0, 0, -1)), WeekStart: models.NewTime(now.AddDate(0, 0, -7)), TotalWorkouts: 3},
		},
	}
	if err := db.Insert(context.Background(), ds); err != nil {
		t.Fatalf("failed to seed database: %v", err)
	}
	return ds
}

// seedPhotos inserts photos and progress photos carrying the given image.
func seedPhotos(t *testing.T, db *database.DB, now time.Time, img string, photos, progress int) {
	t.Helper()
	ds := &models.Dataset{}
	for i := 0; i < photos; i++ {
		ds.Photos = append(ds.Photos, models.Photo{
			ID:    fmt.Sprintf("f%02d", i),
			Date:  models.NewTime(now.AddDate(0, 0, -i)),
			Image: ptr(img),
		})
	}
	for i := 0; i < progress; i++ {
		ds.ProgressPhotos = append(ds.ProgressPhotos, models.ProgressPhoto{
			ID:    fmt.Sprintf("p%02d", i),
			Date:  models.NewTime(now.AddDate(0, 0, -7*i)),
			Front: ptr(img),
		})
	}
	if err := db.Insert(context.Background(), ds); err != nil {
		t.Fatalf("failed to seed photos: %v", err)
	}
}

func mustGet(t *testing.T, s BackupStore, key string) string {
	t.Helper()
	v, err := s.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("Get(%s) error: %v", key, err)
	}
	return v
}

func assertMissing(t *testing.T, s BackupStore, keys ...string) {
	t.Helper()
	for _, key := range keys {
		if _, err := s.Get(context.Background(), key); err == nil {
			t.Errorf("key %s should not exist", key)
		}
	}
}
