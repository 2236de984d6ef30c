package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Doemsdagding/xlsx--csv/pkg/config"
	"github.com/Doemsdagding/xlsx--csv/pkg/store"
	"github.com/gdamore/tcell/v2"
)

// TestRun_EditSaveQuit_Simulation walks the whole flow: open the rules grid
// from the menu, add a row, type into a cell, save with Ctrl+S and quit with
// Ctrl+Q, then checks the persisted file.
func TestRun_EditSaveQuit_Simulation(t *testing.T) {
	t.Setenv(store.EnvDataDir, t.TempDir())

	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("initializing simulation screen failed: %v", err)
	}
	defer s.Fini()
	s.SetSize(80, 24)

	r := New(config.Default())
	r.Screen = s
	r.LoadGrids()

	done := make(chan error, 1)
	go func() { done <- r.Run() }()

	// Give the loop a moment to start
	time.Sleep(10 * time.Millisecond)

	// Enter opens the rules grid (first menu entry)
	s.PostEvent(tcell.NewEventKey(tcell.KeyEnter, 0, 0))
	// Add a row, edit the first cell, type "ok", commit
	s.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'a', 0))
	s.PostEvent(tcell.NewEventKey(tcell.KeyEnter, 0, 0))
	s.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'o', 0))
	s.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'k', 0))
	s.PostEvent(tcell.NewEventKey(tcell.KeyEnter, 0, 0))
	// Save via Ctrl+S, dismiss the confirmation dialog
	s.PostEvent(tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModCtrl))
	s.PostEvent(tcell.NewEventKey(tcell.KeyEnter, 0, 0))
	// Quit via Ctrl+Q; nothing is dirty so no prompt appears
	s.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModCtrl))

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runner returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for runner to quit")
	}

	slot := r.Slots[0]
	if slot.Dirty {
		t.Fatalf("expected rules slot clean after save")
	}
	data, err := os.ReadFile(slot.Path)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	want := `[["ok","",""]]`
	if string(data) != want {
		t.Fatalf("expected saved content %s, got %s", want, string(data))
	}
	if filepath.Base(filepath.Dir(slot.Path)) != store.RepoDirName {
		t.Fatalf("expected save under %s, got %s", store.RepoDirName, slot.Path)
	}
}

// TestRun_DirtyQuitPrompt_Simulation leaves an unsaved edit behind and checks
// that quitting prompts, that n cancels and that y confirms.
func TestRun_DirtyQuitPrompt_Simulation(t *testing.T) {
	t.Setenv(store.EnvDataDir, t.TempDir())

	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("initializing simulation screen failed: %v", err)
	}
	defer s.Fini()
	s.SetSize(80, 24)

	r := New(config.Default())
	r.Screen = s
	r.LoadGrids()

	done := make(chan error, 1)
	go func() { done <- r.Run() }()
	time.Sleep(10 * time.Millisecond)

	s.PostEvent(tcell.NewEventKey(tcell.KeyEnter, 0, 0))
	s.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'a', 0))
	s.PostEvent(tcell.NewEventKey(tcell.KeyEnter, 0, 0))
	s.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'x', 0))
	s.PostEvent(tcell.NewEventKey(tcell.KeyEnter, 0, 0))
	// first quit attempt is declined at the prompt, the second confirmed
	s.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModCtrl))
	s.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'n', 0))
	s.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModCtrl))
	s.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'y', 0))

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runner returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for runner to quit")
	}

	if !r.Slots[0].Dirty {
		t.Fatalf("expected rules slot still dirty after quitting without save")
	}
}
