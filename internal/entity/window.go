package entity

import (
	"fmt"
	"time"
)

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewWindow builds the window [start, start+d).
func NewWindow(start time.Time, d time.Duration) Window {
	return Window{Start: start, End: start.Add(d)}
}

// Overlaps reports whether two half-open intervals conflict:
// [s1,e1) and [s2,e2) overlap iff s1 < e2 && s2 < e1.
// Adjacent windows (e1 == s2) do not overlap.
func (w Window) Overlaps(other Window) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

// Contains reports whether t falls inside the half-open interval.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Duration returns End - Start.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

func (w Window) String() string {
	return fmt.Sprintf("[%s, %s)", w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
}
