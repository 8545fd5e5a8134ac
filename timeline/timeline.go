// Package timeline builds and queries chord timelines: ordered lists of
// (chord, start, duration) records spanning a song.
package timeline

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Epsilon is the tolerance used when comparing accumulated float timestamps.
const Epsilon = 1e-9

type Source string

const (
	SourceDetected  Source = "detected"
	SourcePredicted Source = "predicted"
	SourceManual    Source = "manual"
)

// Entry is a single chord occupying [StartTime, StartTime+Duration).
type Entry struct {
	Chord      string  `json:"chord"`
	StartTime  float64 `json:"start_time"`
	Duration   float64 `json:"duration"`
	Confidence float64 `json:"confidence"`
	Source     Source  `json:"source"`
}

// End returns the (exclusive) end of the entry.
func (e Entry) End() float64 {
	return e.StartTime + e.Duration
}

// Timeline is an ordered chord list plus the length of the song it covers.
type Timeline struct {
	Entries  []Entry `json:"chords"`
	Duration float64 `json:"duration"`
}

// Clone returns a deep copy.
func (tl Timeline) Clone() Timeline {
	entries := make([]Entry, len(tl.Entries))
	copy(entries, tl.Entries)
	return Timeline{Entries: entries, Duration: tl.Duration}
}

// Len is the number of entries.
func (tl Timeline) Len() int {
	return len(tl.Entries)
}

// Chords returns the chord names in order.
func (tl Timeline) Chords() []string {
	names := make([]string, len(tl.Entries))
	for i, e := range tl.Entries {
		names[i] = e.Chord
	}
	return names
}

// Next returns the entry following index, if there is one.
func Next(tl Timeline, index int) (Entry, bool) {
	if index < 0 || index+1 >= len(tl.Entries) {
		return Entry{}, false
	}
	return tl.Entries[index+1], true
}

var ErrInvalidTimeline = errors.New("timeline: invalid timeline")

// Validate checks that entries are named, positive, ordered, non-overlapping
// and inside [0, Duration].
func Validate(tl Timeline) error {
	if len(tl.Entries) == 0 {
		return nil
	}
	if !(tl.Duration > 0) || math.IsInf(tl.Duration, 0) {
		return fmt.Errorf("%w: duration %v", ErrInvalidTimeline, tl.Duration)
	}

	prevEnd := 0.0
	for i, e := range tl.Entries {
		switch {
		case strings.TrimSpace(e.Chord) == "":
			return fmt.Errorf("%w: entry %d has no chord", ErrInvalidTimeline, i)
		case !(e.Duration > 0):
			return fmt.Errorf("%w: entry %d has duration %v", ErrInvalidTimeline, i, e.Duration)
		case e.StartTime < 0 || math.IsNaN(e.StartTime):
			return fmt.Errorf("%w: entry %d starts at %v", ErrInvalidTimeline, i, e.StartTime)
		case e.StartTime < prevEnd-Epsilon:
			return fmt.Errorf("%w: entry %d overlaps the previous entry", ErrInvalidTimeline, i)
		case e.End() > tl.Duration+Epsilon:
			return fmt.Errorf("%w: entry %d ends after the song", ErrInvalidTimeline, i)
		}
		prevEnd = e.End()
	}
	return nil
}

func invalid(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0) || v <= 0
}
