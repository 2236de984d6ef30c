package app

import (
	"fmt"
	"strings"

	"github.com/Doemsdagding/xlsx--csv/pkg/config"
	"github.com/Doemsdagding/xlsx--csv/pkg/search"
	"github.com/gdamore/tcell/v2"
)

// matchCommand reports whether the event matches the named keymap entry.
func (r *Runner) matchCommand(ev *tcell.EventKey, name string) bool {
	km := r.Keymap
	if km == nil {
		km = config.DefaultKeymap()
	}
	kb, ok := km[name]
	if !ok {
		return false
	}
	return kb.Matches(ev)
}

// handleKeyEvent processes a key event. It returns true if the event signals
// the runner should quit.
func (r *Runner) handleKeyEvent(ev *tcell.EventKey) bool {
	r.Flash = ""

	// Help works everywhere except inside an active edit, where Ctrl+H
	// must keep meaning backspace.
	if ev.Key() == tcell.KeyF1 ||
		(ev.Key() == tcell.KeyRune && ev.Rune() == 'h' && ev.Modifiers()&tcell.ModCtrl != 0) ||
		(ev.Key() == tcell.KeyCtrlH && r.Mode != ModeEdit) {
		r.ShowHelp = true
		if r.Screen != nil {
			r.draw()
		}
		return false
	}

	switch r.View {
	case ViewGrid:
		return r.handleGridKey(ev)
	default:
		return r.handleMenuKey(ev)
	}
}

// menuItems returns the selectable landing entries, one per slot plus Quit.
func (r *Runner) menuItems() []string {
	items := make([]string, 0, len(r.Slots)+1)
	for _, s := range r.Slots {
		label := "Edit " + strings.ToLower(s.Title)
		if s.Dirty {
			label += " [+]"
		}
		items = append(items, label)
	}
	return append(items, "Quit")
}

func (r *Runner) handleMenuKey(ev *tcell.EventKey) bool {
	switch {
	case r.matchCommand(ev, "quit"),
		ev.Key() == tcell.KeyRune && ev.Rune() == 'q' && ev.Modifiers() == 0:
		return r.confirmQuit()
	case ev.Key() == tcell.KeyUp,
		ev.Key() == tcell.KeyRune && ev.Rune() == 'k':
		if r.MenuSel > 0 {
			r.MenuSel--
		}
	case ev.Key() == tcell.KeyDown,
		ev.Key() == tcell.KeyRune && ev.Rune() == 'j':
		if r.MenuSel < len(r.menuItems())-1 {
			r.MenuSel++
		}
	case ev.Key() == tcell.KeyEnter:
		if r.MenuSel >= 0 && r.MenuSel < len(r.Slots) {
			r.Current = r.MenuSel
			r.View = ViewGrid
			r.Mode = ModeNormal
			if r.Logger != nil {
				r.Logger.Event("view.grid", map[string]any{"grid": r.Slots[r.Current].Title})
			}
		} else {
			return r.confirmQuit()
		}
	}
	if r.Screen != nil {
		r.draw()
	}
	return false
}

// confirmQuit returns true when the application may exit, prompting first if
// any grid has unsaved changes.
func (r *Runner) confirmQuit() bool {
	if !r.anyDirty() {
		return true
	}
	return r.runQuitPrompt()
}

func (r *Runner) handleGridKey(ev *tcell.EventKey) bool {
	s := r.slot()
	if s == nil {
		r.View = ViewMenu
		return false
	}

	if r.matchCommand(ev, "quit") {
		// Quit never drops a pending edit silently.
		if s.Grid.CommitEdit() {
			s.Dirty = true
		}
		r.Mode = ModeNormal
		return r.confirmQuit()
	}
	if r.matchCommand(ev, "save") {
		r.doSave()
		return false
	}

	if r.Mode == ModeEdit {
		r.handleEditKey(ev, s)
	} else if r.handleNormalKey(ev, s) {
		return true
	}
	if r.Screen != nil {
		r.draw()
	}
	return false
}

// handleNormalKey routes keys while no edit is live. It returns true when a
// palette command confirms quit.
func (r *Runner) handleNormalKey(ev *tcell.EventKey, s *Slot) bool {
	if ev.Key() == tcell.KeyRune && ev.Rune() == 'g' && ev.Modifiers()&tcell.ModAlt != 0 {
		r.PendingG = false
		r.runGoToPrompt()
		return false
	}
	if r.PendingG {
		r.PendingG = false
		if ev.Key() == tcell.KeyRune && ev.Rune() == 'g' && ev.Modifiers() == 0 {
			s.CurRow = 0
		}
		return false
	}

	if r.matchCommand(ev, "find") {
		r.runFindPrompt()
		return false
	}
	if r.matchCommand(ev, "palette") {
		return r.runCommandPalette()
	}

	switch ev.Key() {
	case tcell.KeyEsc:
		r.View = ViewMenu
		r.MenuSel = r.Current
		if r.Logger != nil {
			r.Logger.Event("view.menu", nil)
		}
		return false
	case tcell.KeyUp:
		r.moveCursor(s, -1, 0)
		return false
	case tcell.KeyDown:
		r.moveCursor(s, 1, 0)
		return false
	case tcell.KeyLeft, tcell.KeyBacktab:
		r.moveCursor(s, 0, -1)
		return false
	case tcell.KeyRight, tcell.KeyTab:
		r.moveCursor(s, 0, 1)
		return false
	case tcell.KeyHome:
		s.CurCol = 0
		return false
	case tcell.KeyEnd:
		s.CurCol = max(0, s.Grid.Width()-1)
		return false
	case tcell.KeyPgUp:
		r.moveCursor(s, -pageRows(r.Screen), 0)
		return false
	case tcell.KeyPgDn:
		r.moveCursor(s, pageRows(r.Screen), 0)
		return false
	case tcell.KeyEnter:
		r.beginCellEdit(s)
		return false
	case tcell.KeyDelete:
		r.deleteRows(s)
		return false
	}

	if ev.Key() != tcell.KeyRune || ev.Modifiers()&tcell.ModCtrl != 0 {
		return false
	}
	switch ev.Rune() {
	case 'k':
		r.moveCursor(s, -1, 0)
	case 'j':
		r.moveCursor(s, 1, 0)
	case 'h':
		r.moveCursor(s, 0, -1)
	case 'l':
		r.moveCursor(s, 0, 1)
	case 'g':
		r.PendingG = true
	case 'G':
		s.CurRow = max(0, s.Grid.Len()-1)
	case 'i':
		r.beginCellEdit(s)
	case 'a':
		r.addRow(s)
	case ' ':
		r.toggleMark(s)
	case 'd':
		r.deleteRows(s)
	case 'y':
		r.yankCell(s)
	case 'p':
		r.pasteCell(s, false)
	case 'P':
		r.pasteCell(s, true)
	case 'n':
		r.findNext(s)
	case '/':
		r.runFindPrompt()
	}
	return false
}

// handleEditKey routes keys while an edit session is live. Tab moves entry
// to the next cell through BeginEdit, which commits the current session on
// the way, so continuous entry keeps exactly one session live.
func (r *Runner) handleEditKey(ev *tcell.EventKey, s *Slot) {
	sess, ok := s.Grid.Session()
	if !ok {
		r.Mode = ModeNormal
		return
	}
	switch ev.Key() {
	case tcell.KeyEsc:
		s.Grid.DiscardEdit()
		r.Mode = ModeNormal
		if r.Logger != nil {
			r.Logger.Event("edit.discard", map[string]any{"grid": s.Title, "row": sess.Row, "col": sess.Col})
		}
		return
	case tcell.KeyEnter:
		if s.Grid.CommitEdit() {
			s.Dirty = true
		}
		r.Mode = ModeNormal
		if r.Logger != nil {
			r.Logger.Event("edit.commit", map[string]any{"grid": s.Title, "row": sess.Row, "col": sess.Col})
		}
		return
	case tcell.KeyTab:
		if s.CurCol+1 < s.Grid.Width() && s.Grid.BeginEdit(s.CurRow, s.CurCol+1) {
			s.CurCol++
			s.Dirty = true
			return
		}
		if s.Grid.CommitEdit() {
			s.Dirty = true
		}
		r.Mode = ModeNormal
		return
	case tcell.KeyUp, tcell.KeyDown, tcell.KeyLeft, tcell.KeyRight:
		if s.Grid.CommitEdit() {
			s.Dirty = true
		}
		r.Mode = ModeNormal
		switch ev.Key() {
		case tcell.KeyUp:
			r.moveCursor(s, -1, 0)
		case tcell.KeyDown:
			r.moveCursor(s, 1, 0)
		case tcell.KeyLeft:
			r.moveCursor(s, 0, -1)
		case tcell.KeyRight:
			r.moveCursor(s, 0, 1)
		}
		return
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if sess.Text != "" {
			rs := []rune(sess.Text)
			s.Grid.UpdateEditText(string(rs[:len(rs)-1]))
		}
		return
	case tcell.KeyCtrlU:
		s.Grid.UpdateEditText("")
		return
	}
	if ev.Key() == tcell.KeyRune && ev.Modifiers()&tcell.ModCtrl == 0 {
		s.Grid.UpdateEditText(sess.Text + string(ev.Rune()))
	}
}

// moveCursor shifts the selection, clamping to the grid bounds.
func (r *Runner) moveCursor(s *Slot, dr, dc int) {
	rows := s.Grid.Len()
	if rows == 0 {
		s.CurRow, s.CurCol = 0, 0
		return
	}
	s.CurRow = clamp(s.CurRow+dr, 0, rows-1)
	s.CurCol = clamp(s.CurCol+dc, 0, s.Grid.Width()-1)
}

// beginCellEdit opens an edit session on the selected cell.
func (r *Runner) beginCellEdit(s *Slot) {
	if s.Grid.BeginEdit(s.CurRow, s.CurCol) {
		r.Mode = ModeEdit
		if r.Logger != nil {
			r.Logger.Event("edit.begin", map[string]any{"grid": s.Title, "row": s.CurRow, "col": s.CurCol})
		}
	}
}

func (r *Runner) addRow(s *Slot) {
	idx := s.Grid.AddRow()
	if idx < 0 {
		r.Flash = "Row changes are disabled for this grid"
		return
	}
	s.CurRow = idx
	s.Dirty = true
	if r.Logger != nil {
		r.Logger.Event("row.add", map[string]any{"grid": s.Title, "row": idx})
	}
}

func (r *Runner) toggleMark(s *Slot) {
	if s.Grid.Len() == 0 {
		return
	}
	if s.Marks == nil {
		s.Marks = map[int]bool{}
	}
	if s.Marks[s.CurRow] {
		delete(s.Marks, s.CurRow)
	} else {
		s.Marks[s.CurRow] = true
	}
}

// deleteRows removes the marked rows, or the selected row when none are
// marked. Marks are positional, so they reset once the grid reshuffles.
func (r *Runner) deleteRows(s *Slot) {
	if !s.Grid.RowMutationAllowed() {
		r.Flash = "Row changes are disabled for this grid"
		return
	}
	if s.Grid.Len() == 0 {
		return
	}
	targets := make([]int, 0, len(s.Marks))
	for i := range s.Marks {
		targets = append(targets, i)
	}
	if len(targets) == 0 {
		targets = append(targets, s.CurRow)
	}
	n := s.Grid.DeleteRows(targets)
	if n == 0 {
		return
	}
	s.Marks = map[int]bool{}
	s.Dirty = true
	if s.Grid.Len() == 0 {
		s.CurRow = 0
	} else if s.CurRow >= s.Grid.Len() {
		s.CurRow = s.Grid.Len() - 1
	}
	r.Flash = fmt.Sprintf("Deleted %d row(s)", n)
	if r.Logger != nil {
		r.Logger.Event("row.delete", map[string]any{"grid": s.Title, "rows": n})
	}
}

func (r *Runner) yankCell(s *Slot) {
	v, ok := s.Grid.Cell(s.CurRow, s.CurCol)
	if !ok || v == "" {
		r.Flash = "Nothing to yank"
		return
	}
	r.Clip.Push(v)
	r.Flash = "Yanked"
}

// pasteCell writes the clipboard entry through a regular edit session so the
// usual commit path applies. With rotate set the ring advances first.
func (r *Runner) pasteCell(s *Slot, rotate bool) {
	if !r.Clip.HasData() {
		r.Flash = "Clipboard is empty"
		return
	}
	if rotate {
		r.Clip.Rotate()
	}
	if !s.Grid.BeginEdit(s.CurRow, s.CurCol) {
		return
	}
	s.Grid.UpdateEditText(r.Clip.Current())
	if s.Grid.CommitEdit() {
		s.Dirty = true
	}
}

func (r *Runner) findNext(s *Slot) {
	if r.LastQuery == "" {
		r.Flash = "No previous search"
		return
	}
	matches := search.FindAll(s.Grid.Rows(), r.LastQuery)
	idx := search.Next(matches, s.CurRow, s.CurCol)
	if idx < 0 {
		r.Flash = "No matches"
		return
	}
	s.CurRow, s.CurCol = matches[idx].Row, matches[idx].Col
}

// doSave persists the active grid and confirms with a dialog.
func (r *Runner) doSave() {
	s := r.slot()
	if s == nil {
		return
	}
	if err := r.saveCurrent(); err != nil {
		if r.Logger != nil {
			r.Logger.Event("save.error", map[string]any{"file": s.Name, "error": err.Error()})
		}
		r.showDialog(fmt.Sprintf("Save failed: %v", err))
		return
	}
	r.showDialog(fmt.Sprintf("Saved %s", s.Path))
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	return min(max(v, lo), hi)
}

// pageRows returns the cursor stride for PgUp/PgDn given the screen height.
func pageRows(s tcell.Screen) int {
	if s == nil {
		return 10
	}
	_, h := s.Size()
	return max(1, h-3)
}
