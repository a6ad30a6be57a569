// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

package validation

import (
	"errors"
	"strings"
	"testing"
)

type innerSettings struct {
	MaxCount int    `koanf:"max_count" validate:"min=1"`
	Mode     string `koanf:"mode" validate:"oneof=a b"`
}

type outerSettings struct {
	Prefix string        `koanf:"prefix" validate:"keyprefix"`
	Inner  innerSettings `koanf:"inner"`
}

func TestValidateStructPasses(t *testing.T) {
	t.Parallel()

	s := outerSettings{Prefix: "backup_", Inner: innerSettings{MaxCount: 3, Mode: "a"}}
	if err := ValidateStruct(&s); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateStructUsesKoanfNames(t *testing.T) {
	t.Parallel()

	s := outerSettings{Prefix: "backup_", Inner: innerSettings{MaxCount: 0, Mode: "c"}}
	err := ValidateStruct(&s)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var ve *Errors
	if !errors.As(err, &ve) {
		t.Fatalf("expected *Errors, got %T", err)
	}
	if len(ve.Fields()) != 2 {
		t.Fatalf("expected 2 field errors, got %d: %v", len(ve.Fields()), err)
	}

	msg := err.Error()
	if !strings.Contains(msg, "inner.max_count must be at least 1") {
		t.Errorf("unexpected message: %s", msg)
	}
	if !strings.Contains(msg, "inner.mode must be one of: a b") {
		t.Errorf("unexpected message: %s", msg)
	}
}

func TestKeyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prefix string
		valid  bool
	}{
		{"backup_", true},
		{"backup-", true},
		{"bk", true},
		{"", false},
		{"my_backup_", false},
		{"back up", false},
	}

	for _, tt := range tests {
		s := outerSettings{Prefix: tt.prefix, Inner: innerSettings{MaxCount: 1, Mode: "a"}}
		err := ValidateStruct(&s)
		if (err == nil) != tt.valid {
			t.Errorf("prefix %q: valid=%v, err=%v", tt.prefix, tt.valid, err)
		}
	}
}
