package clip

// Ring stores a small history of yanked cell values, newest first.
type Ring struct {
	entries []string
	pos     int
}

const ringMax = 10

// Push adds a yanked value to the front of the ring and resets the paste
// position to it. Empty values are ignored. The oldest entry falls off once
// the ring is full.
func (r *Ring) Push(s string) {
	if s == "" {
		return
	}
	if r.entries == nil {
		r.entries = make([]string, 0, ringMax)
	}
	if len(r.entries) < ringMax {
		r.entries = append(r.entries, "")
	}
	copy(r.entries[1:], r.entries[:len(r.entries)-1])
	r.entries[0] = s
	r.pos = 0
}

// Rotate moves the paste position to the next older entry, wrapping to the
// newest. Returns false when there is nothing to rotate to.
func (r *Ring) Rotate() bool {
	if len(r.entries) <= 1 {
		return false
	}
	r.pos = (r.pos + 1) % len(r.entries)
	return true
}

// Current returns the value a paste would insert.
func (r *Ring) Current() string {
	if len(r.entries) == 0 {
		return ""
	}
	return r.entries[r.pos]
}

// Len returns the number of held values.
func (r *Ring) Len() int { return len(r.entries) }

// HasData reports whether the ring holds anything to paste.
func (r *Ring) HasData() bool { return len(r.entries) > 0 }
