package app

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// runGoToPrompt prompts for a 1-based row number and moves the selection
// there. Triggered by Alt+G or the command palette.
func (r *Runner) runGoToPrompt() {
	if r.Screen == nil {
		return
	}
	s := r.Screen
	slot := r.slot()
	if slot == nil {
		return
	}
	input := ""
	for {
		// redraw the grid and draw the prompt over the status line
		r.draw()
		_, height := s.Size()
		prompt := "Go to row: " + input
		for i, ch := range prompt {
			s.SetContent(i, height-1, ch, nil, tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite))
		}
		s.Show()

		ev := s.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if r.isCancelKey(ev) {
				r.draw()
				return
			}
			if ev.Key() == tcell.KeyEnter {
				n := 0
				if input != "" {
					v, err := strconv.Atoi(strings.TrimSpace(input))
					if err == nil && v > 0 {
						n = v
					}
				}
				if n <= 0 {
					// invalid number; keep the prompt open
					continue
				}
				if rows := slot.Grid.Len(); rows > 0 {
					if n > rows {
						n = rows
					}
					slot.CurRow = n - 1
				}
				r.draw()
				return
			}
			if ev.Key() == tcell.KeyBackspace || ev.Key() == tcell.KeyBackspace2 {
				if len(input) > 0 {
					input = input[:len(input)-1]
				}
				continue
			}
			if ev.Key() == tcell.KeyRune && ev.Modifiers() == 0 {
				input += string(ev.Rune())
				continue
			}
		}
	}
}
