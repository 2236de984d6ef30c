package app

import (
	"fmt"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// renderState captures a snapshot of runner state for rendering.
type renderState struct {
	view     View
	mode     Mode
	showHelp bool
	miniBuf  []string
	flash    string

	menuItems []string
	menuSel   int

	title    string
	name     string
	dirty    bool
	lockRows bool
	headers  []string
	rows     [][]string
	curRow   int
	curCol   int
	topRow   int
	marks    map[int]bool
	editing  bool
	editText string
}

// renderSnapshot captures the current runner state into a renderState.
func (r *Runner) renderSnapshot() renderState {
	st := renderState{
		view:      r.View,
		mode:      r.Mode,
		showHelp:  r.ShowHelp,
		miniBuf:   append([]string(nil), r.MiniBuf...),
		flash:     r.Flash,
		menuItems: r.menuItems(),
		menuSel:   r.MenuSel,
	}
	s := r.slot()
	if st.view != ViewGrid || s == nil {
		return st
	}
	r.ensureRowVisible(s)
	st.title = s.Title
	st.name = s.Name
	st.dirty = s.Dirty
	st.lockRows = !s.Grid.RowMutationAllowed()
	st.headers = s.Grid.Headers()
	st.rows = s.Grid.Rows()
	st.curRow = s.CurRow
	st.curCol = s.CurCol
	st.topRow = s.TopRow
	marks := make(map[int]bool, len(s.Marks))
	for i, on := range s.Marks {
		if on {
			marks[i] = true
		}
	}
	st.marks = marks
	if sess, ok := s.Grid.Session(); ok {
		// the session cell is authoritative while an edit is live
		st.editing = true
		st.editText = sess.Text
		st.curRow, st.curCol = sess.Row, sess.Col
	}
	return st
}

// draw renders the current view synchronously.
func (r *Runner) draw() {
	if r.Screen == nil {
		return
	}
	renderToScreen(r.Screen, r.renderSnapshot())
}

// renderToScreen draws the provided snapshot to the tcell screen.
func renderToScreen(s tcell.Screen, st renderState) {
	if st.showHelp {
		drawHelp(s)
		return
	}
	switch st.view {
	case ViewGrid:
		drawGrid(s, st)
	default:
		drawMenu(s, st)
	}
}

// ensureRowVisible scrolls the slot so the cursor stays inside the grid area.
func (r *Runner) ensureRowVisible(s *Slot) {
	if r.Screen == nil {
		return
	}
	_, h := r.Screen.Size()
	area := gridAreaRows(h, len(r.MiniBuf), r.Flash != "")
	if area < 1 {
		area = 1
	}
	if s.CurRow < s.TopRow {
		s.TopRow = s.CurRow
	}
	if s.CurRow >= s.TopRow+area {
		s.TopRow = s.CurRow - area + 1
	}
	if s.TopRow < 0 {
		s.TopRow = 0
	}
}

// gridAreaRows returns how many data rows fit under the header row once the
// status bar and any minibuffer lines are taken out.
func gridAreaRows(screenH, mbLines int, hasFlash bool) int {
	if hasFlash && mbLines == 0 {
		mbLines = 1
	}
	return screenH - 2 - mbLines
}

// putStr writes text at x,y advancing by display width so wide runes stay
// aligned.
func putStr(s tcell.Screen, x, y int, style tcell.Style, text string) int {
	for _, ch := range text {
		s.SetContent(x, y, ch, nil, style)
		x += runewidth.RuneWidth(ch)
	}
	return x
}

// padCell truncates or pads text to an exact display width.
func padCell(text string, w int) string {
	if w < 1 {
		return ""
	}
	if runewidth.StringWidth(text) > w {
		text = runewidth.Truncate(text, w, "..")
	}
	return runewidth.FillRight(text, w)
}

// tailCell keeps the end of text visible inside w columns, for live entry.
func tailCell(text string, w int) string {
	if w < 1 {
		return ""
	}
	rs := []rune(text)
	for len(rs) > 0 && runewidth.StringWidth(string(rs)) > w {
		rs = rs[1:]
	}
	return runewidth.FillRight(string(rs), w)
}

// drawMenu renders the landing menu with one entry per grid plus Quit.
func drawMenu(s tcell.Screen, st renderState) {
	width, height := s.Size()
	s.Clear()
	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow).Attributes(tcell.AttrBold)
	itemStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	selStyle := tcell.StyleDefault.Reverse(true)

	title := "XLSX to CSV Converter"
	top := height/2 - (len(st.menuItems)+3)/2
	if top < 0 {
		top = 0
	}
	putStr(s, max(0, (width-runewidth.StringWidth(title))/2), top, titleStyle, title)
	for i, item := range st.menuItems {
		label := "  " + item + "  "
		style := itemStyle
		if i == st.menuSel {
			label = "> " + item + " <"
			style = selStyle
		}
		putStr(s, max(0, (width-runewidth.StringWidth(label))/2), top+2+i, style, label)
	}
	drawBottom(s, st, "Press Ctrl+Q to exit")
	s.Show()
}

// drawGrid renders the active slot: header row, numbered gutter with mark
// flags, fixed-width cells and the status bar.
func drawGrid(s tcell.Screen, st renderState) {
	width, height := s.Size()
	s.Clear()

	headerStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow).Attributes(tcell.AttrBold)
	cellStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	selStyle := tcell.StyleDefault.Reverse(true)
	editStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlue)
	gutterStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	markStyle := tcell.StyleDefault.Foreground(tcell.ColorRed)

	gutter := len(strconv.Itoa(max(1, len(st.rows)))) + 2
	ncols := max(1, len(st.headers))
	colW := clamp((width-gutter)/ncols, 6, 28)

	x := gutter
	for _, h := range st.headers {
		putStr(s, x, 0, headerStyle, padCell(h, colW-1))
		x += colW
	}

	area := max(0, gridAreaRows(height, len(st.miniBuf), st.flash != ""))
	if len(st.rows) == 0 {
		msg := "No rows. Press 'a' to add one."
		if st.lockRows {
			msg = "No rows."
		}
		putStr(s, max(0, (width-runewidth.StringWidth(msg))/2), height/2, cellStyle, msg)
	}
	for i := 0; i < area && st.topRow+i < len(st.rows); i++ {
		ri := st.topRow + i
		y := i + 1
		row := st.rows[ri]

		num := strconv.Itoa(ri + 1)
		gs := gutterStyle
		markCh := ' '
		if st.marks[ri] {
			markCh = '*'
			gs = markStyle
		}
		s.SetContent(0, y, markCh, nil, gs)
		putStr(s, max(1, gutter-len(num)-1), y, gs, num)

		x := gutter
		for c := range st.headers {
			val := ""
			if c < len(row) {
				val = row[c]
			}
			style := cellStyle
			text := padCell(val, colW-1)
			if ri == st.curRow && c == st.curCol {
				if st.editing {
					style = editStyle
					text = tailCell(st.editText+"_", colW-1)
				} else {
					style = selStyle
				}
			}
			putStr(s, x, y, style, text)
			x += colW
		}
	}

	display := st.title + " (" + st.name + ")"
	if st.dirty {
		display += " [+]"
	}
	modeTag := "NORMAL"
	if st.mode == ModeEdit {
		modeTag = "EDIT"
	}
	rowPos := 0
	if len(st.rows) > 0 {
		rowPos = st.curRow + 1
	}
	status := fmt.Sprintf("%s  %s  row %d/%d col %d - Press Ctrl+Q to exit",
		display, modeTag, rowPos, len(st.rows), st.curCol+1)
	drawBottom(s, st, status)
	s.Show()
}

// drawBottom paints the status line and any minibuffer lines above it. A
// flash message borrows the minibuffer row when nothing else claims it.
func drawBottom(s tcell.Screen, st renderState, status string) {
	width, height := s.Size()
	barStyle := tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)

	if runewidth.StringWidth(status) > width {
		status = runewidth.Truncate(status, width, "")
	}
	for x := 0; x < width; x++ {
		s.SetContent(x, height-1, ' ', nil, barStyle)
	}
	putStr(s, 0, height-1, barStyle, status)

	mini := st.miniBuf
	if len(mini) == 0 && st.flash != "" {
		mini = []string{st.flash}
	}
	for i, line := range mini {
		y := height - 1 - len(mini) + i
		for x := 0; x < width; x++ {
			s.SetContent(x, y, ' ', nil, barStyle)
		}
		putStr(s, 0, y, barStyle, line)
	}
}

func drawHelp(s tcell.Screen) {
	width, height := s.Size()
	s.Clear()
	s.SetStyle(tcell.StyleDefault)
	lines := []string{
		"Help:",
		"- F1 or Ctrl+H: Show this help",
		"- Ctrl+Q: Quit (prompts when unsaved)",
		"- Ctrl+S: Save the current grid",
		"- Ctrl+F or /: Find in cells; n: next match",
		"- Ctrl+T: Command palette",
		"- Enter or i: Edit the selected cell",
		"- Editing: Enter commits, Esc discards, Tab commits and moves right",
		"- Arrow keys or h/j/k/l: Move selection",
		"- gg / G: First / last row; Alt+G: Go to row",
		"- a: Add row; Space: Mark row; d or Delete: Delete marked rows",
		"- y: Yank cell; p: Paste; P: Cycle clipboard and paste",
		"- Esc: Back to menu",
	}
	y := (height - len(lines)) / 2
	for i, line := range lines {
		x := (width - len(line)) / 2
		for j, r := range line {
			s.SetContent(x+j, y+i, r, nil, tcell.StyleDefault.Foreground(tcell.ColorWhite))
		}
	}
	s.Show()
}

// showDialog displays a message in the mini-buffer and waits for a key press.
// After dismissal it redraws the current view.
func (r *Runner) showDialog(message string) {
	if r.Screen == nil {
		return
	}
	r.setMiniBuffer([]string{message, "Press any key to continue"})
	r.draw()
	for {
		ev := r.waitEvent()
		if ev == nil {
			break
		}
		if _, ok := ev.(*tcell.EventKey); ok {
			break
		}
	}
	r.clearMiniBuffer()
	r.draw()
}
