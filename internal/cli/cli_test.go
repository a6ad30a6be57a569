// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tomtom215/liftlog/internal/backup"
)

// writeConfig writes a sqlite + on-disk badger configuration into a temp dir.
func writeConfig(t *testing.T) (path, dir string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf(`database:
  driver: sqlite
  path: %s
store:
  path: %s
metrics:
  textfile_path: %s
logging:
  level: error
`,
		filepath.Join(dir, "liftlog.db"),
		filepath.Join(dir, "backups"),
		filepath.Join(dir, "metrics", "liftlog.prom"),
	)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path, dir
}

func run(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, cfgPath string, args ...string) string {
	t.Helper()
	out, err := run(t, cfgPath, args...)
	if err != nil {
		t.Fatalf("liftlog %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func TestBackupListExportDelete(t *testing.T) {
	cfgPath, dir := writeConfig(t)

	key := strings.TrimSpace(mustRun(t, cfgPath, "backup"))
	if _, ok := backup.ParseKey("backup_", key); !ok {
		t.Fatalf("backup printed %q, want an entry key", key)
	}

	list := mustRun(t, cfgPath, "list")
	if !strings.Contains(list, key) || !strings.Contains(list, "full") {
		t.Errorf("list output missing %s:\n%s", key, list)
	}

	exportPath := filepath.Join(dir, "exports", "snap.json")
	out := mustRun(t, cfgPath, "export", key, "-o", exportPath)
	if !strings.Contains(out, "Wrote "+exportPath) {
		t.Errorf("export output = %q", out)
	}
	data, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("export file: %v", err)
	}
	doc, err := backup.DecodeDocument(data)
	if err != nil {
		t.Fatalf("exported document does not decode: %v", err)
	}
	if doc.Metadata.Size != len(data) {
		t.Errorf("metadata.size = %d, file is %d bytes", doc.Metadata.Size, len(data))
	}

	mustRun(t, cfgPath, "delete", key)
	if list := mustRun(t, cfgPath, "list"); !strings.Contains(list, "No backups") {
		t.Errorf("list after delete:\n%s", list)
	}

	if _, err := run(t, cfgPath, "restore", key); !errors.Is(err, backup.ErrBackupNotFound) {
		t.Errorf("restore of deleted key = %v, want ErrBackupNotFound", err)
	}
	if _, err := run(t, cfgPath, "export", "not-a-key"); !errors.Is(err, backup.ErrBackupNotFound) {
		t.Errorf("export of bad key = %v, want ErrBackupNotFound", err)
	}
}

func TestAutoIsGated(t *testing.T) {
	cfgPath, _ := writeConfig(t)

	first := strings.TrimSpace(mustRun(t, cfgPath, "auto"))
	if !strings.HasPrefix(first, "backup_") {
		t.Fatalf("first auto run printed %q, want a key", first)
	}
	second := mustRun(t, cfgPath, "auto")
	if !strings.Contains(second, "not due") {
		t.Errorf("second auto run printed %q, want not due", second)
	}
	if list := mustRun(t, cfgPath, "list", "--json"); strings.Count(list, `"key"`) != 1 {
		t.Errorf("want exactly one entry after two auto runs:\n%s", list)
	}
}

func TestIntervalCommand(t *testing.T) {
	cfgPath, _ := writeConfig(t)

	if out := mustRun(t, cfgPath, "interval"); !strings.Contains(out, "Interval: 1 day(s)") || !strings.Contains(out, "Next due: now") {
		t.Errorf("interval output = %q", out)
	}
	if out := mustRun(t, cfgPath, "interval", "3"); !strings.Contains(out, "Interval: 3 day(s)") {
		t.Errorf("interval 3 output = %q", out)
	}
	if _, err := run(t, cfgPath, "interval", "0"); !errors.Is(err, backup.ErrInvalidInterval) {
		t.Errorf("interval 0 = %v, want ErrInvalidInterval", err)
	}
	if _, err := run(t, cfgPath, "interval", "weekly"); err == nil {
		t.Error("expected error for non-numeric interval")
	}
	if out := mustRun(t, cfgPath, "stats"); !strings.Contains(out, "Interval:    3 day(s)") {
		t.Errorf("stats output = %q", out)
	}
}

func TestExportEssentialToStdout(t *testing.T) {
	cfgPath, _ := writeConfig(t)

	out := mustRun(t, cfgPath, "export", "--essential", "-o", "-")
	if !strings.Contains(out, `"essential":true`) {
		t.Errorf("essential export missing flag:\n%s", out)
	}
	if _, err := run(t, cfgPath, "export", "--essential", "backup_x"); err == nil {
		t.Error("expected error when passing a key with --essential")
	}
}

func TestBootstrapOnEmptyStore(t *testing.T) {
	cfgPath, _ := writeConfig(t)

	if out := mustRun(t, cfgPath, "bootstrap"); !strings.Contains(out, "Nothing to restore") {
		t.Errorf("bootstrap output = %q", out)
	}
}

func TestExecuteWritesMetricsTextfile(t *testing.T) {
	cfgPath, dir := writeConfig(t)

	if err := Execute(context.Background(), []string{"--config", cfgPath, "backup", "--essential"}); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "metrics", "liftlog.prom"))
	if err != nil {
		t.Fatalf("metrics textfile: %v", err)
	}
	if !strings.Contains(string(data), "liftlog_backups_total") {
		t.Errorf("textfile missing backup counter:\n%s", data)
	}
}

func TestMissingConfigFile(t *testing.T) {
	if _, err := run(t, filepath.Join(t.TempDir(), "nope.yaml"), "list"); err == nil {
		t.Error("expected error for missing config file")
	}
}
