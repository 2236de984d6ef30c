package grid

import (
	"fmt"
	"sort"
)

// Row is one grid record. Cells align positionally to the grid's headers.
type Row []string

// EditSession describes the single in-progress cell edit of a Grid. It exists
// only between a cell activation and the commit or discard that ends it.
type EditSession struct {
	Row  int
	Col  int
	Text string
}

// Grid owns an ordered collection of rows under a fixed header list, plus at
// most one live EditSession. Each Grid instance carries its own session state,
// so independent grids can be edited side by side.
type Grid struct {
	headers  []string
	rows     []Row
	session  *EditSession
	lockRows bool
}

// Options configure optional Grid behavior.
type Options struct {
	// LockRows disables AddRow and DeleteRows, for grids whose row set is
	// managed elsewhere. Cell edits remain allowed.
	LockRows bool
}

// New creates an empty Grid with row mutation enabled.
func New(headers []string) (*Grid, error) {
	return NewWithOptions(headers, Options{})
}

// NewWithOptions creates an empty Grid. The header list is copied and fixed
// for the Grid's lifetime.
func NewWithOptions(headers []string, opts Options) (*Grid, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("grid requires at least one header")
	}
	h := make([]string, len(headers))
	copy(h, headers)
	return &Grid{headers: h, lockRows: opts.LockRows}, nil
}

// Headers returns a copy of the header list.
func (g *Grid) Headers() []string {
	h := make([]string, len(g.headers))
	copy(h, g.headers)
	return h
}

// Width returns the header count. Every row has exactly this many cells.
func (g *Grid) Width() int {
	return len(g.headers)
}

// Len returns the number of rows.
func (g *Grid) Len() int {
	return len(g.rows)
}

// RowMutationAllowed reports whether AddRow and DeleteRows are enabled.
func (g *Grid) RowMutationAllowed() bool {
	return !g.lockRows
}

// Row returns a copy of the row at index i.
func (g *Grid) Row(i int) (Row, bool) {
	if i < 0 || i >= len(g.rows) {
		return nil, false
	}
	out := make(Row, len(g.rows[i]))
	copy(out, g.rows[i])
	return out, true
}

// Cell returns the committed value at (row, col). The pending text of a live
// edit session is not visible here until committed.
func (g *Grid) Cell(row, col int) (string, bool) {
	if row < 0 || row >= len(g.rows) || col < 0 || col >= len(g.headers) {
		return "", false
	}
	return g.rows[row][col], true
}

// Rows returns a deep copy of all rows in display order, suitable for
// persistence. The result is non-nil even when the grid is empty.
func (g *Grid) Rows() [][]string {
	out := make([][]string, len(g.rows))
	for i, r := range g.rows {
		row := make([]string, len(r))
		copy(row, r)
		out[i] = row
	}
	return out
}

// AddRow appends a row of empty cells and returns its index. Returns -1
// without mutating when row mutation is disabled. A live edit session is
// unaffected; appending does not shift existing row positions.
func (g *Grid) AddRow() int {
	if g.lockRows {
		return -1
	}
	g.rows = append(g.rows, make(Row, len(g.headers)))
	return len(g.rows) - 1
}

// DeleteRows removes the referenced rows and returns how many were removed.
// Stale references (out of range) and duplicates are ignored, and an empty
// selection is a no-op. A live edit session is committed before any row is
// removed so pending text is never dropped and positions stay sound.
// Returns 0 without mutating when row mutation is disabled.
func (g *Grid) DeleteRows(selection []int) int {
	if g.lockRows || len(selection) == 0 {
		return 0
	}
	g.CommitEdit()
	seen := make(map[int]bool, len(selection))
	targets := make([]int, 0, len(selection))
	for _, i := range selection {
		if i < 0 || i >= len(g.rows) || seen[i] {
			continue
		}
		seen[i] = true
		targets = append(targets, i)
	}
	// delete from the bottom up so earlier indices stay valid
	sort.Sort(sort.Reverse(sort.IntSlice(targets)))
	for _, i := range targets {
		g.rows = append(g.rows[:i], g.rows[i+1:]...)
	}
	return len(targets)
}

// BeginEdit starts an edit session on (row, col). Any live session is
// committed first. An out-of-range row or column is ignored and no session
// starts; the caller is not interrupted for a stale reference. Pending text
// starts as the cell's current value.
func (g *Grid) BeginEdit(row, col int) bool {
	g.CommitEdit()
	if row < 0 || row >= len(g.rows) || col < 0 || col >= len(g.headers) {
		return false
	}
	g.session = &EditSession{Row: row, Col: col, Text: g.rows[row][col]}
	return true
}

// UpdateEditText replaces the live session's pending text. No-op when idle.
func (g *Grid) UpdateEditText(text string) {
	if g.session == nil {
		return
	}
	g.session.Text = text
}

// CommitEdit writes the pending text into the target cell and ends the
// session. Safe to call when idle. Returns true only if a value was written.
func (g *Grid) CommitEdit() bool {
	s := g.session
	if s == nil {
		return false
	}
	g.session = nil
	if s.Row < 0 || s.Row >= len(g.rows) || s.Col < 0 || s.Col >= len(g.headers) {
		// target vanished; nothing to write into
		return false
	}
	g.rows[s.Row][s.Col] = s.Text
	return true
}

// DiscardEdit ends the session without writing. Returns true if a session
// was live.
func (g *Grid) DiscardEdit() bool {
	if g.session == nil {
		return false
	}
	g.session = nil
	return true
}

// Editing reports whether an edit session is live.
func (g *Grid) Editing() bool {
	return g.session != nil
}

// Session returns a copy of the live edit session, if any.
func (g *Grid) Session() (EditSession, bool) {
	if g.session == nil {
		return EditSession{}, false
	}
	return *g.session, true
}

// SetRows replaces the grid contents with rows loaded from storage. Each row
// is re-homed to the current header width: short rows are padded with empty
// cells and cells beyond the last header are dropped. Any live edit session
// is discarded and the grid returns to idle.
func (g *Grid) SetRows(rows [][]string) {
	g.session = nil
	w := len(g.headers)
	out := make([]Row, 0, len(rows))
	for _, src := range rows {
		row := make(Row, w)
		copy(row, src)
		out = append(out, row)
	}
	g.rows = out
}
