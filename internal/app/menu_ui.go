package app

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

type command struct {
	name   string
	action func() bool
}

func (r *Runner) commandList() []command {
	s := r.slot()
	return []command{
		{name: "save", action: func() bool { r.doSave(); return false }},
		{name: "add row", action: func() bool {
			if s != nil {
				r.addRow(s)
			}
			return false
		}},
		{name: "delete rows", action: func() bool {
			if s != nil {
				r.deleteRows(s)
			}
			return false
		}},
		{name: "find", action: func() bool { r.runFindPrompt(); return false }},
		{name: "go to row", action: func() bool { r.runGoToPrompt(); return false }},
		{name: "yank cell", action: func() bool {
			if s != nil {
				r.yankCell(s)
			}
			return false
		}},
		{name: "paste cell", action: func() bool {
			if s != nil {
				r.pasteCell(s, false)
			}
			return false
		}},
		{name: "back to menu", action: func() bool {
			r.View = ViewMenu
			r.MenuSel = r.Current
			return false
		}},
		{name: "help", action: func() bool { r.ShowHelp = true; r.draw(); return false }},
		{name: "quit", action: func() bool { return r.confirmQuit() }},
	}
}

// runCommandPalette opens a mini-buffer menu listing commands. It supports
// filtering by typing and navigation with Ctrl+P/Ctrl+N or arrows. Enter
// executes the highlighted command. It returns true if the command requests
// to quit.
func (r *Runner) runCommandPalette() bool {
	if r.Screen == nil {
		return false
	}
	cmds := r.commandList()
	query := ""
	sel := 0
	filtered := cmds
	for {
		if query != "" {
			tmp := make([]command, 0, len(cmds))
			for _, c := range cmds {
				if strings.Contains(strings.ToLower(c.name), strings.ToLower(query)) {
					tmp = append(tmp, c)
				}
			}
			filtered = tmp
		} else {
			filtered = cmds
		}
		if sel >= len(filtered) {
			sel = len(filtered) - 1
		}
		if sel < 0 {
			sel = 0
		}
		lines := []string{"Command: " + query}
		show := len(filtered)
		if show > 10 {
			show = 10
		}
		for i := 0; i < show; i++ {
			prefix := "  "
			if i == sel {
				prefix = "> "
			}
			lines = append(lines, prefix+filtered[i].name)
		}
		r.setMiniBuffer(lines)
		r.draw()

		ev := r.waitEvent()
		if ev == nil {
			r.clearMiniBuffer()
			r.draw()
			return false
		}
		if kev, ok := ev.(*tcell.EventKey); ok {
			switch {
			case r.isCancelKey(kev):
				r.clearMiniBuffer()
				r.draw()
				return false
			case kev.Key() == tcell.KeyEnter:
				r.clearMiniBuffer()
				r.draw()
				if len(filtered) > 0 {
					return filtered[sel].action()
				}
				return false
			case kev.Key() == tcell.KeyBackspace || kev.Key() == tcell.KeyBackspace2:
				if len(query) > 0 {
					query = query[:len(query)-1]
					sel = 0
				}
			case kev.Key() == tcell.KeyCtrlP || kev.Key() == tcell.KeyUp ||
				(kev.Key() == tcell.KeyRune && kev.Rune() == 'p' && kev.Modifiers() == tcell.ModCtrl):
				if sel > 0 {
					sel--
				}
			case kev.Key() == tcell.KeyCtrlN || kev.Key() == tcell.KeyDown ||
				(kev.Key() == tcell.KeyRune && kev.Rune() == 'n' && kev.Modifiers() == tcell.ModCtrl):
				if sel < len(filtered)-1 {
					sel++
				}
			case kev.Key() == tcell.KeyRune && kev.Modifiers() == 0:
				query += string(kev.Rune())
				sel = 0
			}
		}
	}
}
