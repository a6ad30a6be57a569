// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/liftlog/internal/config"
	"github.com/tomtom215/liftlog/internal/kvstore"
)

type countingGC struct {
	calls atomic.Int32
	err   error
}

func (g *countingGC) RunGC() error {
	g.calls.Add(1)
	return g.err
}

func TestStoreMaintenanceService_String(t *testing.T) {
	service := NewStoreMaintenanceService(&countingGC{}, StoreMaintenanceConfig{}, zerolog.Nop())

	if got := service.String(); got != "store-maintenance" {
		t.Errorf("String() = %q, want %q", got, "store-maintenance")
	}
	if service.config.Interval != time.Hour {
		t.Errorf("default Interval = %v, want 1h", service.config.Interval)
	}
}

func TestStoreMaintenanceService_RunsGCAndWritesMetrics(t *testing.T) {
	gc := &countingGC{}
	var writes atomic.Int32
	path := filepath.Join(t.TempDir(), "liftlog.prom")

	service := NewStoreMaintenanceService(gc, StoreMaintenanceConfig{
		Interval:        20 * time.Millisecond,
		MetricsTextfile: path,
		WriteMetrics: func(p string) error {
			if p != path {
				t.Errorf("WriteMetrics path = %q, want %q", p, path)
			}
			writes.Add(1)
			return nil
		},
	}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 110*time.Millisecond)
	defer cancel()

	if err := service.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v, want context.DeadlineExceeded", err)
	}
	if gc.calls.Load() < 2 {
		t.Errorf("RunGC called %d times, want at least 2", gc.calls.Load())
	}
	// One write per pass plus one on shutdown.
	if got, want := writes.Load(), gc.calls.Load()+1; got != want {
		t.Errorf("metrics written %d times, want %d", got, want)
	}
}

func TestStoreMaintenanceService_GCErrorEndsServe(t *testing.T) {
	gcErr := errors.New("value log corrupt")
	service := NewStoreMaintenanceService(&countingGC{err: gcErr}, StoreMaintenanceConfig{Interval: 10 * time.Millisecond}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := service.Serve(ctx); !errors.Is(err, gcErr) {
		t.Errorf("Serve() = %v, want %v", err, gcErr)
	}
}

func TestStoreMaintenanceService_WithBadgerStore(t *testing.T) {
	store, err := kvstore.Open(&config.StoreConfig{InMemory: true})
	if err != nil {
		t.Fatalf("kvstore.Open error: %v", err)
	}
	defer store.Close()

	service := NewStoreMaintenanceService(store, StoreMaintenanceConfig{Interval: 10 * time.Millisecond}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// In-memory GC is a no-op, so the loop runs until the deadline.
	if err := service.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v, want context.DeadlineExceeded", err)
	}
}
