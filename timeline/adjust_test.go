package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fourChords(t *testing.T) Timeline {
	t.Helper()
	tl, err := Generate(Steps("C", "G", "Am", "F"), 120, 16, Options{Strategy: StrategyFixed, ChordDuration: 4})
	require.NoError(t, err)
	return tl
}

func ptr(v float64) *float64 { return &v }

func TestAdjustRenamesChord(t *testing.T) {
	tl := fourChords(t)
	out, err := Adjust(tl, 2, "A7", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "A7", out.Entries[2].Chord)
	assert.Equal(t, SourceManual, out.Entries[2].Source)
	assert.Equal(t, 1.0, out.Entries[2].Confidence)
	// input untouched
	assert.Equal(t, "Am", tl.Entries[2].Chord)
	assert.Equal(t, SourcePredicted, tl.Entries[2].Source)
}

func TestAdjustStartResizesPrevious(t *testing.T) {
	out, err := Adjust(fourChords(t), 1, "", ptr(5), nil)
	require.NoError(t, err)

	assert.Equal(t, 5.0, out.Entries[0].Duration)
	assert.Equal(t, 5.0, out.Entries[1].StartTime)
	assert.Equal(t, 3.0, out.Entries[1].Duration)
	assert.Equal(t, "G", out.Entries[1].Chord)
	assert.NoError(t, Validate(out))
}

func TestAdjustDurationShiftsNext(t *testing.T) {
	out, err := Adjust(fourChords(t), 1, "", nil, ptr(2.5))
	require.NoError(t, err)

	assert.Equal(t, 2.5, out.Entries[1].Duration)
	assert.Equal(t, 6.5, out.Entries[2].StartTime)
	assert.Equal(t, 5.5, out.Entries[2].Duration)
	assert.NoError(t, Validate(out))
}

func TestAdjustLastEntry(t *testing.T) {
	out, err := Adjust(fourChords(t), 3, "", nil, ptr(3))
	require.NoError(t, err)
	assert.Equal(t, 3.0, out.Entries[3].Duration)

	_, err = Adjust(fourChords(t), 3, "", nil, ptr(5))
	assert.ErrorIs(t, err, ErrInvalidAdjustment)
}

func TestAdjustRejectsInvalidChanges(t *testing.T) {
	tl := fourChords(t)
	cases := map[string]struct {
		index    int
		start    *float64
		duration *float64
	}{
		"index too large":    {index: 4},
		"negative index":     {index: -1},
		"start before prev":  {index: 1, start: ptr(0)},
		"start after end":    {index: 1, start: ptr(8)},
		"negative start":     {index: 0, start: ptr(-1)},
		"zero duration":      {index: 1, duration: ptr(0)},
		"duration eats next": {index: 1, duration: ptr(8)},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Adjust(tl, c.index, "", c.start, c.duration)
			assert.ErrorIs(t, err, ErrInvalidAdjustment)
		})
	}
}
