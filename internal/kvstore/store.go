// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

// Package kvstore is the flat key/value store that holds backup snapshots,
// their sideband flags and the scheduling scalars.
//
// It is backed by BadgerDB, either on disk or fully in memory. An optional
// byte quota bounds the sum of key and value sizes; a write that would cross
// it fails with ErrQuotaExceeded and leaves the store unchanged.
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/liftlog/internal/config"
	"github.com/tomtom215/liftlog/internal/logging"
)

var (
	// ErrNotFound is returned when a key does not exist.
	ErrNotFound = errors.New("kvstore: key not found")

	// ErrQuotaExceeded is returned when a write would exceed the byte quota
	// or is too large for a single transaction.
	ErrQuotaExceeded = errors.New("kvstore: storage quota exceeded")

	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("kvstore: store is closed")
)

// Store is a BadgerDB-backed string key/value store.
type Store struct {
	db    *badger.DB
	quota int64

	mu     sync.RWMutex
	closed bool
}

// Open opens (or creates) the store described by cfg.
func Open(cfg *config.StoreConfig) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
		opts.SyncWrites = true
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Debug().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Int64("quota_bytes", cfg.QuotaBytes).
		Msg("Backup store opened")

	return &Store{db: db, quota: cfg.QuotaBytes}, nil
}

// Quota returns the configured byte quota (0 = unlimited).
func (s *Store) Quota() int64 {
	return s.quota
}

func (s *Store) checkOpen() error {
	if s.closed {
		return ErrClosed
	}
	return nil
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var value string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get %s: %w", key, err)
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if err != nil {
		return "", err
	}
	return value, nil
}

// Lookup is Get with a found flag instead of ErrNotFound.
func (s *Store) Lookup(ctx context.Context, key string) (string, bool, error) {
	v, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.SetMany(ctx, map[string]string{key: value})
}

// SetMany stores every entry in one transaction. Either all entries are
// written or none are; the quota is checked against their combined size.
func (s *Store) SetMany(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		if s.quota > 0 {
			if err := s.checkQuota(txn, entries); err != nil {
				return err
			}
		}
		for key, value := range entries {
			if err := txn.Set([]byte(key), []byte(value)); err != nil {
				return err
			}
		}
		return nil
	})
	switch {
	case errors.Is(err, ErrQuotaExceeded):
		return err
	case errors.Is(err, badger.ErrTxnTooBig), errors.Is(err, badger.ErrValueLogSize):
		return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
	case err != nil:
		return fmt.Errorf("set %s: %w", describeKeys(entries), err)
	}
	return nil
}

func describeKeys(entries map[string]string) string {
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}

// checkQuota fails when writing entries would push usage past the quota.
// Current values under the written keys do not count.
func (s *Store) checkQuota(txn *badger.Txn, entries map[string]string) error {
	var incoming int64
	for key, value := range entries {
		incoming += int64(len(key) + len(value))
	}
	used, err := usage(txn, entries)
	if err != nil {
		return err
	}
	if used+incoming > s.quota {
		return fmt.Errorf("%w: need %d bytes, %d of %d in use",
			ErrQuotaExceeded, incoming, used, s.quota)
	}
	return nil
}

// usage sums key and value sizes of every live entry whose key is not in skip.
func usage(txn *badger.Txn, skip map[string]string) (int64, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var total int64
	for it.Rewind(); it.Valid(); it.Next() {
		item := it.Item()
		if _, ok := skip[string(item.Key())]; ok {
			continue
		}
		total += int64(len(item.Key())) + item.ValueSize()
	}
	return total, nil
}

// Usage returns the bytes currently counted against the quota.
func (s *Store) Usage(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var total int64
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		total, err = usage(txn, nil)
		return err
	})
	return total, err
}

// Delete removes keys. Missing keys are ignored.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for _, key := range keys {
			if err := txn.Delete([]byte(key)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("delete %s: %w", key, err)
			}
		}
		return nil
	})
}

// Keys returns every key starting with prefix, in byte order.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var keys []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list keys %q: %w", prefix, err)
	}
	return keys, nil
}

// RunGC reclaims value log space after deletions. It is a no-op for
// in-memory stores and when nothing can be rewritten.
func (s *Store) RunGC() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return err
	}

	for {
		err := s.db.RunValueLogGC(0.5)
		switch {
		case err == nil:
			continue
		case errors.Is(err, badger.ErrNoRewrite), errors.Is(err, badger.ErrGCInMemoryMode):
			return nil
		default:
			return fmt.Errorf("value log GC: %w", err)
		}
	}
}

// Close closes the underlying database. It is safe to call twice.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	return nil
}
