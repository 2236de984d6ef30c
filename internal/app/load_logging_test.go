package app

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Doemsdagding/xlsx--csv/pkg/config"
	"github.com/Doemsdagding/xlsx--csv/pkg/logs"
	"github.com/Doemsdagding/xlsx--csv/pkg/store"
)

// TestLoadGrids_EmitsLoggingEvents checks the JSON-lines event log written
// during grid hydration: a corrupt file logs load.format_error, a good file
// logs load.success, and a missing one logs load.empty.
func TestLoadGrids_EmitsLoggingEvents(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv(store.EnvDataDir, dataDir)

	logPath := filepath.Join(t.TempDir(), "xlsxcsv_test.jsonl")
	t.Setenv("XLSXCSV_LOG_FILE", logPath)
	t.Setenv("XLSXCSV_LOG", "1")

	rulesPath, err := store.ResolvePath("rules.json")
	if err != nil {
		t.Fatalf("resolve rules path: %v", err)
	}
	if err := os.WriteFile(rulesPath, []byte("not json"), 0o644); err != nil {
		t.Fatalf("write corrupt rules file: %v", err)
	}

	r := New(config.Default())
	r.Logger = logs.NewFromEnv()
	r.LoadGrids()
	r.Logger.Close()

	f, err := os.Open(logPath)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	events := map[string]int{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var rec map[string]any
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("invalid log line %q: %v", sc.Text(), err)
		}
		if _, ok := rec["time"]; !ok {
			t.Fatalf("log line missing time field: %q", sc.Text())
		}
		name, _ := rec["event"].(string)
		events[name]++
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan log: %v", err)
	}

	if events["load.format_error"] != 1 {
		t.Fatalf("expected one load.format_error event, got %d", events["load.format_error"])
	}
	// default.json was never written, so its slot hydrates empty
	if events["load.empty"] != 1 {
		t.Fatalf("expected one load.empty event, got %d", events["load.empty"])
	}
	if events["load.success"] != 0 {
		t.Fatalf("expected no load.success events, got %d", events["load.success"])
	}
}
