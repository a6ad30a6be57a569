// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

package backup

import (
	"sort"
	"strings"
	"time"
)

// Sideband key suffixes.
const (
	suffixPartial   = "_isParcial"
	suffixEmergency = "_isEmergency"
	suffixInfo      = "_info"
)

// keyTimeLayout is sanitized into the key form 2006-01-02T15-04-05-000Z.
const keyTimeLayout = "2006-01-02T15:04:05.000Z"

var keySanitizer = strings.NewReplacer(":", "-", ".", "-")

// GenerateKey returns prefix followed by t in UTC with ':' and '.' replaced
// by '-', e.g. backup_2026-10-18T09-30-00-123Z.
func GenerateKey(prefix string, t time.Time) string {
	return prefix + keySanitizer.Replace(t.UTC().Format(keyTimeLayout))
}

// ParseKey returns the timestamp encoded in an entry key. Sideband keys and
// foreign keys do not parse.
func ParseKey(prefix, key string) (time.Time, bool) {
	rest, ok := strings.CutPrefix(key, prefix)
	if !ok {
		return time.Time{}, false
	}
	// Undo the sanitizing; time.Parse has no layout for "-000" millis.
	if len(rest) != len(keyTimeLayout) || rest[13] != '-' || rest[16] != '-' ||
		rest[19] != '-' || rest[len(rest)-1] != 'Z' {
		return time.Time{}, false
	}
	iso := rest[:13] + ":" + rest[14:16] + ":" + rest[17:19] + "." + rest[20:]
	t, err := time.Parse(keyTimeLayout, iso)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// SidebandKeys returns every sideband key that may belong to key.
func SidebandKeys(key string) []string {
	return []string{key + suffixPartial, key + suffixEmergency, key + suffixInfo}
}

type keyedTime struct {
	key string
	at  time.Time
}

// entryKeys filters keys down to entry keys and sorts them newest first.
func entryKeys(prefix string, keys []string) []keyedTime {
	out := make([]keyedTime, 0, len(keys))
	for _, k := range keys {
		if at, ok := ParseKey(prefix, k); ok {
			out = append(out, keyedTime{key: k, at: at})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].at.After(out[j].at)
	})
	return out
}
