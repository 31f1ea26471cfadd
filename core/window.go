package core

import "time"

// Window is an inclusive date window applied to a loan's BorrowedAt.
// Either bound may be nil, meaning unbounded on that side.
type Window struct {
	Start *time.Time
	End   *time.Time
}

// BuildWindow creates a Window from optional bounds.
func BuildWindow(start *time.Time, end *time.Time) Window {
	return Window{Start: start, End: end}
}

// Contains reports whether t falls within the window, bounds inclusive.
func (w Window) Contains(t time.Time) bool {
	if w.Start != nil && t.Before(*w.Start) {
		return false
	}

	if w.End != nil && t.After(*w.End) {
		return false
	}

	return true
}

// IsBounded reports whether at least one bound is set.
func (w Window) IsBounded() bool {
	return w.Start != nil || w.End != nil
}
