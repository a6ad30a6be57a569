// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordBackup(t *testing.T) {
	tests := []struct {
		name   string
		kind   string
		size   int
		err    error
		result string
	}{
		{name: "full success", kind: "full", size: 1024, result: "success"},
		{name: "partial success", kind: "partial", size: 512, result: "success"},
		{name: "full failure", kind: "full", err: errors.New("quota"), result: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := BackupsTotal.WithLabelValues(tt.kind, tt.result)
			before := testutil.ToFloat64(counter)

			RecordBackup(tt.kind, tt.size, 20*time.Millisecond, tt.err)

			if got := testutil.ToFloat64(counter) - before; got != 1 {
				t.Errorf("counter delta = %v, want 1", got)
			}
			if tt.err == nil {
				if got := testutil.ToFloat64(BackupSizeBytes.WithLabelValues(tt.kind)); got != float64(tt.size) {
					t.Errorf("size gauge = %v, want %d", got, tt.size)
				}
			}
		})
	}
}

func TestRecordRetention(t *testing.T) {
	counter := RetentionDeleted.WithLabelValues("essential")
	before := testutil.ToFloat64(counter)

	RecordRetention("essential", 2, 10)
	RecordRetention("essential", 0, 10)

	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Errorf("deleted delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(BackupEntries); got != 10 {
		t.Errorf("entries gauge = %v, want 10", got)
	}
}

func TestRecordRestoreAndImage(t *testing.T) {
	rows := RestoredRows.WithLabelValues("treinos")
	beforeRows := testutil.ToFloat64(rows)
	fallback := ImagesProcessed.WithLabelValues("fallback")
	beforeFallback := testutil.ToFloat64(fallback)

	RecordRestore(map[string]int{"treinos": 3}, nil)
	RecordImage("fallback")

	if got := testutil.ToFloat64(rows) - beforeRows; got != 3 {
		t.Errorf("restored rows delta = %v, want 3", got)
	}
	if got := testutil.ToFloat64(fallback) - beforeFallback; got != 1 {
		t.Errorf("fallback delta = %v, want 1", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	RecordBackupSkipped()

	path := filepath.Join(t.TempDir(), "nested", "liftlog.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read textfile: %v", err)
	}
	if !strings.Contains(string(data), "liftlog_backups_skipped_total") {
		t.Error("textfile missing liftlog_backups_skipped_total")
	}
}

func TestWriteTextfile_EmptyPathIsNoop(t *testing.T) {
	if err := WriteTextfile(""); err != nil {
		t.Errorf("WriteTextfile(\"\") = %v, want nil", err)
	}
}
