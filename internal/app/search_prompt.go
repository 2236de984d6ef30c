package app

import (
	"fmt"

	"github.com/Doemsdagding/xlsx--csv/pkg/search"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// runFindPrompt runs a simple modal prompt at the status line allowing the
// user to type a cell query. Typing updates the match list; Enter jumps to
// the selected match; Esc or Ctrl+G cancels. The accepted query sticks
// around so the n key can continue from the new position.
func (r *Runner) runFindPrompt() {
	if r.Screen == nil {
		return
	}
	slot := r.slot()
	if slot == nil {
		return
	}
	query := ""
	sel := 0 // selected match index within current results
	for {
		rows := slot.Grid.Rows()
		var matches []search.Match
		if query != "" {
			matches = search.FindAll(rows, query)
		}
		if query == "" || len(matches) == 0 {
			sel = 0
		} else if sel < 0 || sel >= len(matches) {
			// clamp back to the first match after the selection
			idx := search.Next(matches, slot.CurRow, slot.CurCol)
			if idx >= 0 {
				sel = idx
			} else {
				sel = 0
			}
		}

		// build minibuffer lines with the match list (show up to 8)
		lines := []string{"Find: " + query}
		if query != "" {
			if len(matches) > 0 {
				lines = append(lines, fmt.Sprintf("%d matches; use Ctrl+N/P or arrows", len(matches)))
				show := len(matches)
				if show > 8 {
					show = 8
				}
				width, _ := r.Screen.Size()
				for i := 0; i < show; i++ {
					m := matches[i]
					val := ""
					if m.Row < len(rows) && m.Col < len(rows[m.Row]) {
						val = rows[m.Row][m.Col]
					}
					marker := "  "
					if i == sel {
						marker = "> "
					}
					entry := fmt.Sprintf("%s(%d,%d) %s", marker, m.Row+1, m.Col+1, val)
					if width > 0 && runewidth.StringWidth(entry) > width {
						entry = runewidth.Truncate(entry, width, "")
					}
					lines = append(lines, entry)
				}
				if len(matches) > show {
					lines = append(lines, fmt.Sprintf("  and %d more", len(matches)-show))
				}
			} else {
				lines = append(lines, "No matches")
			}
		}
		r.setMiniBuffer(lines)
		r.draw()

		ev := r.waitEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			// Cancel
			if r.isCancelKey(ev) {
				r.clearMiniBuffer()
				r.draw()
				return
			}

			// Accept -> jump to selected match
			if ev.Key() == tcell.KeyEnter {
				if query == "" {
					r.clearMiniBuffer()
					r.draw()
					return
				}
				if len(matches) == 0 {
					continue
				}
				if sel >= 0 && sel < len(matches) {
					slot.CurRow, slot.CurCol = matches[sel].Row, matches[sel].Col
					r.LastQuery = query
					if r.Logger != nil {
						r.Logger.Event("find.jump", map[string]any{"grid": slot.Title, "row": slot.CurRow, "col": slot.CurCol})
					}
					r.clearMiniBuffer()
					r.draw()
					return
				}
			}
			// Navigation: Ctrl+P/Up and Ctrl+N/Down
			if ev.Key() == tcell.KeyCtrlP || ev.Key() == tcell.KeyUp || (ev.Key() == tcell.KeyRune && ev.Rune() == 'p' && ev.Modifiers() == tcell.ModCtrl) {
				if len(matches) > 0 {
					sel = (sel - 1 + len(matches)) % len(matches)
				}
				continue
			}
			if ev.Key() == tcell.KeyCtrlN || ev.Key() == tcell.KeyDown || (ev.Key() == tcell.KeyRune && ev.Rune() == 'n' && ev.Modifiers() == tcell.ModCtrl) {
				if len(matches) > 0 {
					sel = (sel + 1) % len(matches)
				}
				continue
			}
			// Backspace
			if ev.Key() == tcell.KeyBackspace || ev.Key() == tcell.KeyBackspace2 {
				if len(query) > 0 {
					query = query[:len(query)-1]
					sel = 0
				}
				continue
			}
			// Type
			if ev.Key() == tcell.KeyRune && ev.Modifiers() == 0 {
				query += string(ev.Rune())
				sel = 0
				continue
			}
		}
	}
}
