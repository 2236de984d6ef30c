package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestParseKeybinding(t *testing.T) {
	kb, err := ParseKeybinding("Ctrl+X")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	ev := tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModCtrl)
	if !kb.Matches(ev) {
		t.Fatalf("expected match for Ctrl+X")
	}
}

func TestParseKeybinding_Invalid(t *testing.T) {
	if _, err := ParseKeybinding("Ctrl+"); err == nil {
		t.Fatalf("expected error for invalid keybinding")
	}
	if _, err := ParseKeybinding("Alt+X"); err == nil {
		t.Fatalf("expected error for unsupported modifier")
	}
}

func TestKeybinding_MatchesControlKeyForm(t *testing.T) {
	kb := DefaultKeymap()["save"]
	// terminals deliver Ctrl+S as the dedicated control key
	ev := tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl)
	if !kb.Matches(ev) {
		t.Fatalf("expected save binding to match KeyCtrlS")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Headers) != 3 || cfg.Headers[0] != "Header1" {
		t.Fatalf("unexpected default headers: %v", cfg.Headers)
	}
	if cfg.RulesFile != "rules.json" || cfg.DefaultsFile != "default.json" {
		t.Fatalf("unexpected default file names: %q %q", cfg.RulesFile, cfg.DefaultsFile)
	}
	if cfg.DataDir != "" {
		t.Fatalf("default data dir should be empty, got %q", cfg.DataDir)
	}
}

func TestLoadConfigRemap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("keymap:\n  quit: Ctrl+X\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ev := tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModCtrl)
	if !cfg.Keymap["quit"].Matches(ev) {
		t.Fatalf("expected remapped quit to Ctrl+X")
	}
	// unmapped commands keep their defaults
	if !cfg.Keymap["save"].Matches(tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModCtrl)) {
		t.Fatalf("expected save to stay Ctrl+S")
	}
}

func TestLoadConfigHeadersAndFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`# grid setup
data_dir: /tmp/griddata
rules_file: myrules.json
defaults_file: mydefaults.json
headers:
  - Name
  - Pattern
keymap:
  save: Ctrl+O
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Headers) != 2 || cfg.Headers[0] != "Name" || cfg.Headers[1] != "Pattern" {
		t.Fatalf("headers not replaced: %v", cfg.Headers)
	}
	if cfg.DataDir != "/tmp/griddata" {
		t.Fatalf("data_dir = %q", cfg.DataDir)
	}
	if cfg.RulesFile != "myrules.json" || cfg.DefaultsFile != "mydefaults.json" {
		t.Fatalf("file names not loaded: %q %q", cfg.RulesFile, cfg.DefaultsFile)
	}
	if !cfg.Keymap["save"].Matches(tcell.NewEventKey(tcell.KeyRune, 'o', tcell.ModCtrl)) {
		t.Fatalf("save not remapped")
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	cases := []string{
		"keymap:\n  quit: NotAKey\n",
		"- stray item\n",
		"headers:\n  -\n",
		"just some words\n",
	}
	for _, content := range cases {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Fatalf("expected error for %q", content)
		}
	}
}
