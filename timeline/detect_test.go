package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDetections(t *testing.T) {
	tl := FromDetections([]Detection{
		{Time: 4.2, Chord: "G", Confidence: 0.95},
		{Time: 0, Chord: "C", Confidence: 0.97},
		{Time: 8.5, Chord: "Am", Confidence: 1.4},
	})

	require.Len(t, tl.Entries, 3)
	assert.Equal(t, []string{"C", "G", "Am"}, tl.Chords())
	assert.InDelta(t, 4.2, tl.Entries[0].Duration, 1e-9)
	assert.InDelta(t, 4.3, tl.Entries[1].Duration, 1e-9)
	assert.Equal(t, 2.0, tl.Entries[2].Duration)
	assert.Equal(t, 1.0, tl.Entries[2].Confidence)
	assert.Equal(t, SourceDetected, tl.Entries[0].Source)
	assert.InDelta(t, 10.5, tl.Duration, 1e-9)
	assert.NoError(t, Validate(tl))
}

func TestFromDetectionsMergesAndDrops(t *testing.T) {
	tl := FromDetections([]Detection{
		{Time: 1, Chord: "E", Confidence: 0.6},
		{Time: 1.2, Chord: "D", Confidence: 0.9},
		{Time: 3, Chord: "E", Confidence: 0.7},
		{Time: 5, Chord: "D"},
		{Time: 6, Chord: ""},
		{Time: -1, Chord: "B"},
		{Time: 9, Chord: "D", Duration: 3},
	})

	require.Len(t, tl.Entries, 2)
	assert.Equal(t, "E", tl.Entries[0].Chord)
	assert.Equal(t, 1.0, tl.Entries[0].StartTime)
	assert.Equal(t, 4.0, tl.Entries[0].Duration)
	assert.Equal(t, 0.9, tl.Entries[0].Confidence)

	// the trailing D absorbs the later D and its reported duration
	assert.Equal(t, "D", tl.Entries[1].Chord)
	assert.Equal(t, 7.0, tl.Entries[1].Duration)
	assert.Equal(t, defaultConfidence, tl.Entries[1].Confidence)
	assert.Equal(t, 12.0, tl.Duration)

	// silence before the first chord
	_, _, ok := Lookup(tl, 0.5, 0)
	assert.False(t, ok)
	assert.NoError(t, Validate(tl))
}

func TestFromDetectionsEmpty(t *testing.T) {
	tl := FromDetections(nil)
	assert.Empty(t, tl.Entries)
	assert.Zero(t, tl.Duration)
}

func TestFilterConfidence(t *testing.T) {
	ds := []Detection{{Chord: "C", Confidence: 0.5}, {Chord: "G", Confidence: 0.7}}
	assert.Len(t, FilterConfidence(ds, 0.6), 1)
	assert.Len(t, FilterConfidence(ds, 0), 2)
}

func TestDetectKey(t *testing.T) {
	tl := Timeline{Entries: []Entry{{Chord: "Em7"}, {Chord: "G"}, {Chord: "D"}, {Chord: "G7"}, {Chord: "C"}}}
	assert.Equal(t, "G", DetectKey(tl))

	tl = Timeline{Entries: []Entry{{Chord: "F#m"}, {Chord: "A"}}}
	assert.Equal(t, "F#", DetectKey(tl))

	assert.Equal(t, "C", DetectKey(Timeline{}))
}

func TestEstimateBPM(t *testing.T) {
	tl := Timeline{Entries: []Entry{{Duration: 2}, {Duration: 2}}}
	assert.Equal(t, 120, EstimateBPM(tl))

	tl = Timeline{Entries: []Entry{{Duration: 60}, {Duration: 60}}}
	assert.Equal(t, 60, EstimateBPM(tl))

	tl = Timeline{Entries: []Entry{{Duration: 0.5}, {Duration: 0.5}}}
	assert.Equal(t, 200, EstimateBPM(tl))

	assert.Equal(t, 120, EstimateBPM(Timeline{Entries: []Entry{{Duration: 9}}}))
}

func TestRoot(t *testing.T) {
	for chord, want := range map[string]string{
		"C":      "C",
		"F#m7":   "F#",
		"Bbmaj7": "Bb",
		"am":     "A",
		"H":      "",
		"":       "",
	} {
		assert.Equal(t, want, Root(chord), chord)
	}
}
