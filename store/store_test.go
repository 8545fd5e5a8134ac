package store

import (
	"context"
	"testing"
	"time"

	"github.com/mager/chordlegend/chordlegend"
	"github.com/mager/chordlegend/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAnalysisCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryAnalysisCache()

	_, err := c.Get(ctx, "dQw4w9WgXcQ")
	require.ErrorIs(t, err, ErrNotFound)

	a := &chordlegend.SongAnalysis{
		VideoID: "dQw4w9WgXcQ",
		Chords:  []timeline.Entry{{Chord: "C", Duration: 4}},
	}
	require.NoError(t, c.Put(ctx, a))

	// callers cannot reach into the cached copy
	a.Chords[0].Chord = "G"
	got, err := c.Get(ctx, "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "C", got.Chords[0].Chord)

	got.Chords[0].Chord = "F"
	again, err := c.Get(ctx, "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "C", again.Chords[0].Chord)
}

func TestMemoryFavorites(t *testing.T) {
	ctx := context.Background()
	f := NewMemoryFavorites()
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	list, err := f.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)

	first, err := f.Put(ctx, chordlegend.Favorite{UserID: "u1", VideoID: "aaaaaaaaaaa", Title: "A"})
	require.NoError(t, err)
	_, err = f.Put(ctx, chordlegend.Favorite{UserID: "u1", VideoID: "bbbbbbbbbbb", Title: "B"})
	require.NoError(t, err)
	_, err = f.Put(ctx, chordlegend.Favorite{UserID: "u2", VideoID: "aaaaaaaaaaa", Title: "A"})
	require.NoError(t, err)

	updated, err := f.Put(ctx, chordlegend.Favorite{UserID: "u1", VideoID: "aaaaaaaaaaa", Title: "A", Offset: -0.25})
	require.NoError(t, err)
	assert.Equal(t, first.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(first.UpdatedAt))

	list, err = f.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "aaaaaaaaaaa", list[0].VideoID)
	assert.Equal(t, -0.25, list[0].Offset)

	got, err := f.Get(ctx, "u2", "aaaaaaaaaaa")
	require.NoError(t, err)
	assert.Zero(t, got.Offset)

	require.NoError(t, f.Delete(ctx, "u1", "aaaaaaaaaaa"))
	assert.ErrorIs(t, f.Delete(ctx, "u1", "aaaaaaaaaaa"), ErrNotFound)
	_, err = f.Get(ctx, "u1", "aaaaaaaaaaa")
	assert.ErrorIs(t, err, ErrNotFound)
}
