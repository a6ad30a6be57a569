// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
)

// stubService counts Serve calls and fails the first fails of them.
type stubService struct {
	name   string
	fails  int32
	starts atomic.Int32
	stops  atomic.Int32
}

func newStubService(name string, fails int32) *stubService {
	return &stubService{name: name, fails: fails}
}

func (s *stubService) Serve(ctx context.Context) error {
	n := s.starts.Add(1)
	defer s.stops.Add(1)

	if n <= s.fails {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *stubService) String() string {
	return s.name
}
