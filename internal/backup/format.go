// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

package backup

import (
	"time"

	"github.com/dustin/go-humanize"
)

// FormatSize renders a byte count for display, e.g. "4.0 MiB".
func FormatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.IBytes(uint64(bytes))
}

// FormatAge renders how long ago t was, e.g. "3 hours ago".
func FormatAge(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

// ExportFilename is the download name for a full snapshot taken at t.
func ExportFilename(t time.Time) string {
	return "liftlog-backup-" + t.UTC().Format("2006-01-02") + ".json"
}

// EssentialExportFilename is the download name for an essential snapshot.
func EssentialExportFilename(t time.Time) string {
	return "liftlog-essential-" + t.UTC().Format("2006-01-02") + ".json"
}
