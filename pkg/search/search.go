package search

import "strings"

// Match locates one matching cell by grid position.
type Match struct {
	Row int
	Col int
}

// FindAll returns the position of every cell containing query as a
// substring, in row-major order. An empty query matches nothing.
func FindAll(rows [][]string, query string) []Match {
	if query == "" {
		return nil
	}
	var res []Match
	for r, row := range rows {
		for c, cell := range row {
			if strings.Contains(cell, query) {
				res = append(res, Match{Row: r, Col: c})
			}
		}
	}
	return res
}

// Next returns the index in matches of the first match strictly after
// (row, col) in row-major order, so repeating a search steps off the
// current cell. When no match follows, it wraps to the first match.
// Returns -1 if matches is empty.
func Next(matches []Match, row, col int) int {
	if len(matches) == 0 {
		return -1
	}
	for i, m := range matches {
		if m.Row > row || (m.Row == row && m.Col > col) {
			return i
		}
	}
	// wrap
	return 0
}
