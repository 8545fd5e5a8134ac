package timeline

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrInvalidAdjustment = errors.New("timeline: invalid adjustment")

// Adjust applies a manual correction to the entry at index. A new start
// resizes the previous entry and keeps this entry's end in place; a new
// duration moves the start of the following entry. Neighbours separated by
// a gap are left alone unless the change would overlap them. The input
// timeline is not modified.
func Adjust(tl Timeline, index int, chord string, start, duration *float64) (Timeline, error) {
	if index < 0 || index >= len(tl.Entries) {
		return Timeline{}, fmt.Errorf("%w: index %d out of range", ErrInvalidAdjustment, index)
	}

	out := tl.Clone()
	e := &out.Entries[index]
	if c := strings.TrimSpace(chord); c != "" {
		e.Chord = c
	}

	if start != nil {
		s := *start
		end := e.End()
		if math.IsNaN(s) || s < 0 || s >= end {
			return Timeline{}, fmt.Errorf("%w: start %v", ErrInvalidAdjustment, s)
		}
		if index > 0 {
			prev := &out.Entries[index-1]
			if s <= prev.StartTime {
				return Timeline{}, fmt.Errorf("%w: start %v swallows the previous chord", ErrInvalidAdjustment, s)
			}
			if touching(prev.End(), e.StartTime) || prev.End() > s {
				prev.Duration = s - prev.StartTime
			}
		}
		e.StartTime = s
		e.Duration = end - s
	}

	if duration != nil {
		d := *duration
		if invalid(d) {
			return Timeline{}, fmt.Errorf("%w: duration %v", ErrInvalidAdjustment, d)
		}
		newEnd := e.StartTime + d
		if index+1 < len(out.Entries) {
			next := &out.Entries[index+1]
			nextEnd := next.End()
			if newEnd >= nextEnd {
				return Timeline{}, fmt.Errorf("%w: duration %v swallows the next chord", ErrInvalidAdjustment, d)
			}
			if touching(e.End(), next.StartTime) || newEnd > next.StartTime {
				next.StartTime = newEnd
				next.Duration = nextEnd - newEnd
			}
		} else if newEnd > out.Duration+Epsilon {
			return Timeline{}, fmt.Errorf("%w: duration %v runs past the end of the song", ErrInvalidAdjustment, d)
		}
		e.Duration = d
	}

	e.Source = SourceManual
	e.Confidence = 1.0
	return out, nil
}

func touching(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}
