// Package midi renders chord timelines as standard MIDI files so a timeline
// can be auditioned or imported into a DAW.
package midi

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/mager/chordlegend/theory"
	"github.com/mager/chordlegend/timeline"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	TicksPerQuarter = 960

	defaultBPM      = 120.0
	defaultVelocity = 90
	defaultOctave   = 4
)

var ErrEmptyTimeline = errors.New("midi: timeline has no chords")

type Options struct {
	BPM             float64
	BeatsPerMeasure uint8
	Velocity        uint8
	Octave          int
	Channel         uint8
}

func (o Options) withDefaults() Options {
	if o.BPM <= 0 {
		o.BPM = defaultBPM
	}
	if o.BeatsPerMeasure == 0 {
		o.BeatsPerMeasure = 4
	}
	if o.Velocity == 0 || o.Velocity > 127 {
		o.Velocity = defaultVelocity
	}
	if o.Octave == 0 {
		o.Octave = defaultOctave
	}
	if o.Channel > 15 {
		o.Channel = 0
	}
	return o
}

// Ticks converts seconds to ticks at the given tempo.
func Ticks(seconds, bpm float64) uint32 {
	if seconds <= 0 {
		return 0
	}
	return uint32(math.Round(seconds * bpm / 60 * TicksPerQuarter))
}

// Encode builds a single track SMF holding each chord as a block chord.
// Chords that cannot be voiced are written as rests.
func Encode(tl timeline.Timeline, opts Options) (*smf.SMF, error) {
	if len(tl.Entries) == 0 {
		return nil, ErrEmptyTimeline
	}
	opts = opts.withDefaults()

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerQuarter)

	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName("chords"))
	track.Add(0, smf.MetaMeter(opts.BeatsPerMeasure, 4))
	track.Add(0, smf.MetaTempo(opts.BPM))

	var cursor uint32
	for _, e := range tl.Entries {
		notes, err := theory.ChordNotes(e.Chord, opts.Octave)
		if err != nil {
			continue
		}
		start := Ticks(e.StartTime, opts.BPM)
		end := Ticks(e.End(), opts.BPM)
		if end <= start || start < cursor {
			continue
		}

		delta := start - cursor
		for _, n := range notes {
			track.Add(delta, midi.NoteOn(opts.Channel, n, opts.Velocity))
			delta = 0
		}
		delta = end - start
		for _, n := range notes {
			track.Add(delta, midi.NoteOff(opts.Channel, n))
			delta = 0
		}
		cursor = end
	}

	var tail uint32
	if end := Ticks(tl.Duration, opts.BPM); end > cursor {
		tail = end - cursor
	}
	track.Close(tail)

	s.Add(track)
	return s, nil
}

// Write encodes tl and writes it to w.
func Write(w io.Writer, tl timeline.Timeline, opts Options) error {
	s, err := Encode(tl, opts)
	if err != nil {
		return err
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("write midi: %w", err)
	}
	return nil
}
