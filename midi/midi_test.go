package midi

import (
	"bytes"
	"testing"

	"github.com/mager/chordlegend/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type note struct {
	tick uint32
	key  uint8
	on   bool
}

func readNotes(t *testing.T, data []byte) ([]note, float64) {
	t.Helper()
	s, err := smf.ReadFrom(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, s.Tracks, 1)

	mt, ok := s.TimeFormat.(smf.MetricTicks)
	require.True(t, ok)
	assert.EqualValues(t, TicksPerQuarter, mt.Resolution())

	var (
		notes []note
		bpm   float64
		abs   uint32
	)
	for _, ev := range s.Tracks[0] {
		abs += ev.Delta
		var ch, key, vel uint8
		msg := midi.Message(ev.Message)
		switch {
		case ev.Message.GetMetaTempo(&bpm):
		case msg.GetNoteOn(&ch, &key, &vel) && vel > 0:
			notes = append(notes, note{abs, key, true})
		case msg.GetNoteOff(&ch, &key, &vel):
			notes = append(notes, note{abs, key, false})
		}
	}
	return notes, bpm
}

func TestWriteRoundTrip(t *testing.T) {
	tl := timeline.Timeline{
		Duration: 8,
		Entries: []timeline.Entry{
			{Chord: "C", StartTime: 0, Duration: 2},
			{Chord: "Am", StartTime: 2, Duration: 2},
			{Chord: "G", StartTime: 5, Duration: 2},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tl, Options{BPM: 60}))

	notes, bpm := readNotes(t, buf.Bytes())
	assert.InDelta(t, 60.0, bpm, 0.01)
	require.Len(t, notes, 18)

	// At 60 bpm one second is one quarter note.
	assert.Equal(t, note{0, 60, true}, notes[0])
	assert.Equal(t, note{0, 64, true}, notes[1])
	assert.Equal(t, note{0, 67, true}, notes[2])
	assert.Equal(t, note{2 * TicksPerQuarter, 60, false}, notes[3])

	assert.Equal(t, note{2 * TicksPerQuarter, 69, true}, notes[6])
	assert.Equal(t, note{2 * TicksPerQuarter, 72, true}, notes[7])
	assert.Equal(t, note{2 * TicksPerQuarter, 76, true}, notes[8])

	// the gap between Am and G is kept as a rest
	assert.Equal(t, note{5 * TicksPerQuarter, 67, true}, notes[12])
	assert.Equal(t, note{7 * TicksPerQuarter, 67, false}, notes[15])
}

func TestWriteSkipsUnplayableChords(t *testing.T) {
	tl := timeline.Timeline{
		Duration: 4,
		Entries: []timeline.Entry{
			{Chord: "N", StartTime: 0, Duration: 2},
			{Chord: "D", StartTime: 2, Duration: 2},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tl, Options{BPM: 120}))

	notes, _ := readNotes(t, buf.Bytes())
	require.Len(t, notes, 6)
	assert.Equal(t, note{Ticks(2, 120), 62, true}, notes[0])
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Write(&buf, timeline.Timeline{}, Options{}), ErrEmptyTimeline)
}

func TestTicks(t *testing.T) {
	assert.EqualValues(t, 0, Ticks(-1, 120))
	assert.EqualValues(t, 1920, Ticks(1, 120))
	assert.EqualValues(t, 480, Ticks(0.5, 60))
}
