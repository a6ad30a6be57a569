// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

package backup

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateKey(t *testing.T) {
	at := time.Date(2026, 10, 18, 9, 30, 0, 123_456_789, time.UTC)
	got := GenerateKey("backup_", at)
	if got != "backup_2026-10-18T09-30-00-123Z" {
		t.Errorf("GenerateKey = %q", got)
	}

	// Non-UTC input is converted.
	loc := time.FixedZone("UTC+2", 2*3600)
	if got := GenerateKey("backup_", at.In(loc)); got != "backup_2026-10-18T09-30-00-123Z" {
		t.Errorf("GenerateKey(local) = %q", got)
	}
}

func TestParseKey(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 678_000_000, time.UTC)
	key := GenerateKey("backup_", at)

	tests := []struct {
		name string
		key  string
		ok   bool
	}{
		{name: "entry key", key: key, ok: true},
		{name: "partial flag", key: key + suffixPartial},
		{name: "emergency flag", key: key + suffixEmergency},
		{name: "info", key: key + suffixInfo},
		{name: "other prefix", key: "lastBackup"},
		{name: "prefix only", key: "backup_"},
		{name: "unsanitized", key: "backup_2026-01-02T03:04:05.678Z"},
		{name: "bad month", key: "backup_2026-13-02T03-04-05-678Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseKey("backup_", tt.key)
			if ok != tt.ok {
				t.Fatalf("ParseKey(%q) ok = %v, want %v", tt.key, ok, tt.ok)
			}
			if ok && !got.Equal(at) {
				t.Errorf("ParseKey(%q) = %v, want %v", tt.key, got, at)
			}
		})
	}
}

func TestEntryKeys_NewestFirst(t *testing.T) {
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	k1 := GenerateKey("backup_", base)
	k2 := GenerateKey("backup_", base.Add(time.Hour))
	k3 := GenerateKey("backup_", base.Add(48*time.Hour))

	got := entryKeys("backup_", []string{
		k2, k1 + suffixPartial, k3, k1, k3 + suffixInfo, "backup_notes",
	})
	if len(got) != 3 {
		t.Fatalf("entryKeys returned %d keys, want 3", len(got))
	}
	want := []string{k3, k2, k1}
	for i := range want {
		if got[i].key != want[i] {
			t.Errorf("entryKeys[%d] = %s, want %s", i, got[i].key, want[i])
		}
	}
}

func TestSidebandKeys(t *testing.T) {
	keys := SidebandKeys("backup_x")
	joined := strings.Join(keys, ",")
	if joined != "backup_x_isParcial,backup_x_isEmergency,backup_x_info" {
		t.Errorf("SidebandKeys = %s", joined)
	}
}

func TestFormatHelpers(t *testing.T) {
	if got := FormatSize(4 << 20); got != "4.0 MiB" {
		t.Errorf("FormatSize(4MiB) = %q", got)
	}
	if got := FormatSize(-1); got != "0 B" {
		t.Errorf("FormatSize(-1) = %q", got)
	}
	if got := FormatAge(time.Time{}); got != "never" {
		t.Errorf("FormatAge(zero) = %q", got)
	}
	at := time.Date(2026, 10, 18, 23, 0, 0, 0, time.UTC)
	if got := ExportFilename(at); got != "liftlog-backup-2026-10-18.json" {
		t.Errorf("ExportFilename = %q", got)
	}
	if got := EssentialExportFilename(at); got != "liftlog-essential-2026-10-18.json" {
		t.Errorf("EssentialExportFilename = %q", got)
	}
}

func TestRetentionPolicy(t *testing.T) {
	p := DefaultRetentionPolicy()
	if p.Limit(KindFull) != 3 || p.Limit(KindPartial) != 3 || p.Limit(KindEmergency) != 3 {
		t.Errorf("full-path limit = %d, want 3", p.Limit(KindFull))
	}
	if p.Limit(KindEssential) != 10 {
		t.Errorf("essential limit = %d, want 10", p.Limit(KindEssential))
	}
	if err := (RetentionPolicy{FullMaxCount: 0, EssentialMaxCount: 1}).Validate(); err == nil {
		t.Error("expected error for zero ceiling")
	}

	keys := make([]keyedTime, 5)
	for i := range keys {
		keys[i] = keyedTime{key: string(rune('a' + i))}
	}
	doomed := selectForDeletion(keys, 3)
	if len(doomed) != 2 || doomed[0] != "d" || doomed[1] != "e" {
		t.Errorf("selectForDeletion = %v, want [d e]", doomed)
	}
	if got := selectForDeletion(keys[:2], 3); got != nil {
		t.Errorf("selectForDeletion under limit = %v", got)
	}
}

func TestIsDue(t *testing.T) {
	last := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		found    bool
		elapsed  time.Duration
		interval int
		want     bool
	}{
		{name: "never backed up", found: false, want: true, interval: 1},
		{name: "23 hours", found: true, elapsed: 23 * time.Hour, interval: 1, want: false},
		{name: "exactly one day", found: true, elapsed: 24 * time.Hour, interval: 1, want: true},
		{name: "25 hours", found: true, elapsed: 25 * time.Hour, interval: 1, want: true},
		{name: "47 hours of a 2 day interval", found: true, elapsed: 47 * time.Hour, interval: 2, want: false},
		{name: "clock went backwards", found: true, elapsed: -5 * time.Hour, interval: 1, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDue(last, tt.found, last.Add(tt.elapsed), tt.interval); got != tt.want {
				t.Errorf("isDue = %v, want %v", got, tt.want)
			}
		})
	}
}
