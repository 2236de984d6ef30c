package search

import "testing"

func TestFindAll(t *testing.T) {
	rows := [][]string{
		{"alpha", "beta"},
		{"gamma", "alphabet"},
	}
	m := FindAll(rows, "alpha")
	if len(m) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(m))
	}
	if m[0].Row != 0 || m[0].Col != 0 {
		t.Fatalf("first match incorrect: %#v", m[0])
	}
	if m[1].Row != 1 || m[1].Col != 1 {
		t.Fatalf("second match incorrect: %#v", m[1])
	}
	if FindAll(rows, "") != nil {
		t.Fatalf("empty query should match nothing")
	}
	if FindAll(rows, "zulu") != nil {
		t.Fatalf("absent query should match nothing")
	}
}

func TestNext(t *testing.T) {
	rows := [][]string{
		{"x", ""},
		{"", "x"},
		{"x", ""},
	}
	matches := FindAll(rows, "x")
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	// cursor before everything picks the first match
	if idx := Next(matches, -1, -1); idx != 0 {
		t.Fatalf("expected index 0 from start, got %d", idx)
	}
	// cursor sitting on a match steps to the following one
	if idx := Next(matches, 0, 0); idx != 1 {
		t.Fatalf("expected index 1 after (0,0), got %d", idx)
	}
	if idx := Next(matches, 1, 1); idx != 2 {
		t.Fatalf("expected index 2 after (1,1), got %d", idx)
	}
	// past the last match wraps to the first
	if idx := Next(matches, 2, 0); idx != 0 {
		t.Fatalf("expected wrap to 0, got %d", idx)
	}
	if idx := Next(nil, 0, 0); idx != -1 {
		t.Fatalf("expected -1 for no matches, got %d", idx)
	}
}

func TestNextSameRowOrdering(t *testing.T) {
	rows := [][]string{{"x", "x", "x"}}
	matches := FindAll(rows, "x")
	if idx := Next(matches, 0, 1); idx != 2 {
		t.Fatalf("expected the match right of the cursor, got %d", idx)
	}
	if idx := Next(matches, 0, 2); idx != 0 {
		t.Fatalf("expected wrap within the row, got %d", idx)
	}
}
