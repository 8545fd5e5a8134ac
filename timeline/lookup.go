package timeline

import (
	"math"
	"sort"
)

// DefaultHold is how long a Cursor keeps showing the last chord once
// playback runs into silence.
const DefaultHold = 1.0

// Lookup returns the entry active at t+offset along with its index. ok is
// false when the adjusted time is before the song, at or past its end, or
// inside a gap between entries.
func Lookup(tl Timeline, t, offset float64) (Entry, int, bool) {
	q := t + offset
	n := len(tl.Entries)
	if n == 0 || math.IsNaN(q) || q < 0 || q >= tl.Duration {
		return Entry{}, -1, false
	}

	i := sort.Search(n, func(i int) bool {
		return tl.Entries[i].StartTime > q
	}) - 1
	if i < 0 {
		return Entry{}, -1, false
	}

	e := tl.Entries[i]
	end := e.End()
	// The last entry of a generated timeline ends at Duration up to rounding.
	if i == n-1 && math.Abs(end-tl.Duration) <= Epsilon {
		end = tl.Duration
	}
	if q >= end {
		return Entry{}, -1, false
	}
	return e, i, true
}

// State is what a player should display at a point in time.
type State struct {
	Time    float64 `json:"time"`
	Index   int     `json:"index"`
	Chord   *Entry  `json:"chord,omitempty"`
	Next    *Entry  `json:"next,omitempty"`
	Silence bool    `json:"silence"`
	Held    bool    `json:"held,omitempty"`
}

// Cursor tracks playback through a timeline. It is not safe for concurrent use.
type Cursor struct {
	tl     Timeline
	Offset float64
	Hold   float64
	last   int
}

func NewCursor(tl Timeline, offset float64) *Cursor {
	return &Cursor{tl: tl, Offset: offset, Hold: DefaultHold, last: -1}
}

// Seek moves the cursor to playback time t.
func (c *Cursor) Seek(t float64) State {
	q := t + c.Offset
	if _, i, ok := Lookup(c.tl, t, c.Offset); ok {
		c.last = i
		return c.state(q, i, false)
	}

	if c.last >= 0 && c.last < len(c.tl.Entries) {
		prev := c.tl.Entries[c.last]
		if q >= prev.StartTime && q <= prev.End()+c.Hold {
			return c.state(q, c.last, true)
		}
	}

	c.last = -1
	return State{Time: q, Index: -1, Silence: true}
}

func (c *Cursor) state(q float64, i int, held bool) State {
	e := c.tl.Entries[i]
	s := State{Time: q, Index: i, Chord: &e, Held: held}
	if next, ok := Next(c.tl, i); ok {
		s.Next = &next
	}
	return s
}
