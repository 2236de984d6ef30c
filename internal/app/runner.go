package app

import (
	"errors"
	"fmt"

	"github.com/Doemsdagding/xlsx--csv/pkg/clip"
	"github.com/Doemsdagding/xlsx--csv/pkg/config"
	"github.com/Doemsdagding/xlsx--csv/pkg/grid"
	"github.com/Doemsdagding/xlsx--csv/pkg/logs"
	"github.com/Doemsdagding/xlsx--csv/pkg/store"
	"github.com/gdamore/tcell/v2"
)

// Mode represents the current grid interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeEdit
)

// View selects which screen the runner presents.
type View int

const (
	ViewMenu View = iota
	ViewGrid
)

// Slot binds one grid to its persistence identity and per-grid view state.
// Cursor, scroll offset and row marks live here so switching between the
// menu and a grid, or between grids, never loses position.
type Slot struct {
	Title string
	Name  string // logical file name, e.g. "rules.json"
	Path  string // resolved file path; empty until resolution succeeds
	Grid  *grid.Grid

	CurRow int
	CurCol int
	TopRow int
	Marks  map[int]bool
	Dirty  bool
}

// Runner owns the terminal lifecycle, the grid slots and a minimal event loop.
type Runner struct {
	Screen    tcell.Screen
	View      View
	Mode      Mode
	Slots     []*Slot
	Current   int
	MenuSel   int
	ShowHelp  bool
	Clip      clip.Ring
	Logger    *logs.Logger
	MiniBuf   []string
	Flash     string
	Keymap    map[string]config.Keybinding
	LastQuery string
	PendingG  bool

	notices []string // load problems reported once at startup
}

func (r *Runner) setMiniBuffer(lines []string) {
	r.MiniBuf = lines
}

func (r *Runner) clearMiniBuffer() {
	r.MiniBuf = nil
}

// New builds a Runner with one mutable rules grid and one row-locked
// defaults grid, both sharing the configured headers. No file I/O happens
// here; call LoadGrids to hydrate the grids from disk.
func New(cfg *config.Config) *Runner {
	if cfg == nil {
		cfg = config.Default()
	}
	headers := cfg.Headers
	if len(headers) == 0 {
		headers = config.Default().Headers
	}
	rules, _ := grid.New(headers)
	defaults, _ := grid.NewWithOptions(headers, grid.Options{LockRows: true})
	return &Runner{
		Slots: []*Slot{
			{Title: "Rules", Name: cfg.RulesFile, Grid: rules, Marks: map[int]bool{}},
			{Title: "Defaults", Name: cfg.DefaultsFile, Grid: defaults, Marks: map[int]bool{}},
		},
		Keymap: cfg.Keymap,
	}
}

// slot returns the active slot, or nil when none exists.
func (r *Runner) slot() *Slot {
	if r.Current < 0 || r.Current >= len(r.Slots) {
		return nil
	}
	return r.Slots[r.Current]
}

func (r *Runner) anyDirty() bool {
	for _, s := range r.Slots {
		if s != nil && s.Dirty {
			return true
		}
	}
	return false
}

// LoadGrids resolves each slot's path and hydrates its grid from disk.
// A missing file simply leaves the grid empty. Corrupt or unreadable files
// also start empty, with a notice the UI reports once at startup, so
// corruption is never conflated with absence.
func (r *Runner) LoadGrids() {
	for _, s := range r.Slots {
		path, err := store.ResolvePath(s.Name)
		if err != nil {
			r.notices = append(r.notices, fmt.Sprintf("Cannot resolve %s: %v", s.Name, err))
			if r.Logger != nil {
				r.Logger.Event("load.resolve_error", map[string]any{"file": s.Name, "error": err.Error()})
			}
			continue
		}
		s.Path = path
		rows, err := store.Load(path)
		if err != nil {
			var fe *store.FormatError
			switch {
			case errors.Is(err, store.ErrNotFound):
				if r.Logger != nil {
					r.Logger.Event("load.empty", map[string]any{"file": path})
				}
			case errors.As(err, &fe):
				r.notices = append(r.notices, fmt.Sprintf("%s is not a valid grid file; starting empty", s.Name))
				if r.Logger != nil {
					r.Logger.Event("load.format_error", map[string]any{"file": path, "error": err.Error()})
				}
			default:
				r.notices = append(r.notices, fmt.Sprintf("Cannot read %s: %v", s.Name, err))
				if r.Logger != nil {
					r.Logger.Event("load.io_error", map[string]any{"file": path, "error": err.Error()})
				}
			}
			continue
		}
		s.Grid.SetRows(rows)
		if r.Logger != nil {
			r.Logger.Event("load.success", map[string]any{"file": path, "rows": len(rows)})
		}
	}
}

// saveCurrent commits any pending edit and writes the active slot's rows to
// its resolved path. The dirty flag clears only on a successful write.
func (r *Runner) saveCurrent() error {
	s := r.slot()
	if s == nil {
		return fmt.Errorf("no grid selected")
	}
	if s.Grid.CommitEdit() {
		s.Dirty = true
	}
	r.Mode = ModeNormal
	if s.Path == "" {
		p, err := store.ResolvePath(s.Name)
		if err != nil {
			return err
		}
		s.Path = p
	}
	if err := store.Save(s.Path, s.Grid.Rows()); err != nil {
		return err
	}
	s.Dirty = false
	if r.Logger != nil {
		r.Logger.Event("save.success", map[string]any{"file": s.Path, "rows": s.Grid.Len()})
	}
	return nil
}

// InitScreen initializes a tcell screen if one is not already set.
func (r *Runner) InitScreen() error {
	if r.Screen != nil {
		return nil
	}
	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	s.SetStyle(tcell.StyleDefault)
	s.Clear()
	r.Screen = s
	return nil
}

// Fini finalizes the screen if initialized.
func (r *Runner) Fini() {
	if r.Screen != nil {
		r.Screen.Fini()
		r.Screen = nil
	}
	if r.Logger != nil {
		r.Logger.Close()
	}
}

// Run starts the event loop. It will initialize the screen if needed and
// return when the user confirms quit.
func (r *Runner) Run() error {
	if r.Screen == nil {
		if err := r.InitScreen(); err != nil {
			return err
		}
		defer r.Fini()
	}

	// Initialize logger from env (no-op if disabled)
	if r.Logger == nil {
		r.Logger = logs.NewFromEnv()
	}
	if r.Logger != nil {
		r.Logger.Event("run.start", map[string]any{"slots": len(r.Slots)})
		defer r.Logger.Event("run.end", nil)
	}

	// initial draw
	r.draw()

	// report load problems once, before interaction starts
	for _, n := range r.notices {
		r.showDialog(n)
	}
	r.notices = nil

	for {
		ev := r.Screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if r.Logger != nil {
				r.Logger.Event("key", map[string]any{
					"type":      "EventKey",
					"key":       int(ev.Key()),
					"rune":      string(ev.Rune()),
					"modifiers": int(ev.Modifiers()),
				})
			}
			// If help is currently shown, consume this key to dismiss it
			if r.ShowHelp {
				r.ShowHelp = false
				r.draw()
				continue
			}
			if r.handleKeyEvent(ev) {
				if r.Logger != nil {
					r.Logger.Event("action", map[string]any{"name": "quit"})
				}
				return nil
			}
		case *tcell.EventResize:
			r.Screen.Sync()
			r.draw()
		}
	}
}

// waitEvent blocks for the next screen event inside modal prompts.
func (r *Runner) waitEvent() tcell.Event {
	if r.Screen == nil {
		return nil
	}
	return r.Screen.PollEvent()
}

// isCancelKey reports whether the event aborts a prompt.
func (r *Runner) isCancelKey(ev *tcell.EventKey) bool {
	return ev.Key() == tcell.KeyEsc || ev.Key() == tcell.KeyCtrlG
}
