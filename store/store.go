// Package store defines the persistence ports used by the service and
// in-memory implementations for development and tests.
package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/mager/chordlegend/chordlegend"
	"github.com/mager/chordlegend/timeline"
)

var ErrNotFound = errors.New("store: not found")

// AnalysisCache keeps finished analyses by video ID.
type AnalysisCache interface {
	Get(ctx context.Context, videoID string) (*chordlegend.SongAnalysis, error)
	Put(ctx context.Context, a *chordlegend.SongAnalysis) error
}

// Favorites is a per-user library of saved videos.
type Favorites interface {
	List(ctx context.Context, userID string) ([]chordlegend.Favorite, error)
	Get(ctx context.Context, userID, videoID string) (*chordlegend.Favorite, error)
	Put(ctx context.Context, f chordlegend.Favorite) (*chordlegend.Favorite, error)
	Delete(ctx context.Context, userID, videoID string) error
}

type MemoryAnalysisCache struct {
	mu    sync.RWMutex
	items map[string]chordlegend.SongAnalysis
}

func NewMemoryAnalysisCache() *MemoryAnalysisCache {
	return &MemoryAnalysisCache{items: make(map[string]chordlegend.SongAnalysis)}
}

func (c *MemoryAnalysisCache) Get(_ context.Context, videoID string) (*chordlegend.SongAnalysis, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.items[videoID]
	if !ok {
		return nil, ErrNotFound
	}
	a.Chords = append([]timeline.Entry(nil), a.Chords...)
	return &a, nil
}

func (c *MemoryAnalysisCache) Put(_ context.Context, a *chordlegend.SongAnalysis) error {
	cp := *a
	cp.Chords = append([]timeline.Entry(nil), a.Chords...)
	c.mu.Lock()
	c.items[a.VideoID] = cp
	c.mu.Unlock()
	return nil
}

type favoriteKey struct{ user, video string }

type MemoryFavorites struct {
	mu    sync.RWMutex
	items map[favoriteKey]chordlegend.Favorite
	now   func() time.Time
}

func NewMemoryFavorites() *MemoryFavorites {
	return &MemoryFavorites{
		items: make(map[favoriteKey]chordlegend.Favorite),
		now:   time.Now,
	}
}

// List returns the user's favorites, most recently updated first.
func (f *MemoryFavorites) List(_ context.Context, userID string) ([]chordlegend.Favorite, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := []chordlegend.Favorite{}
	for k, v := range f.items {
		if k.user == userID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].VideoID < out[j].VideoID
	})
	return out, nil
}

func (f *MemoryFavorites) Get(_ context.Context, userID, videoID string) (*chordlegend.Favorite, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.items[favoriteKey{userID, videoID}]
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

// Put inserts or updates a favorite, keeping the original creation time.
func (f *MemoryFavorites) Put(_ context.Context, fav chordlegend.Favorite) (*chordlegend.Favorite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := favoriteKey{fav.UserID, fav.VideoID}
	now := f.now().UTC()
	fav.CreatedAt = now
	if prev, ok := f.items[k]; ok {
		fav.CreatedAt = prev.CreatedAt
	}
	fav.UpdatedAt = now
	f.items[k] = fav
	return &fav, nil
}

func (f *MemoryFavorites) Delete(_ context.Context, userID, videoID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := favoriteKey{userID, videoID}
	if _, ok := f.items[k]; !ok {
		return ErrNotFound
	}
	delete(f.items, k)
	return nil
}
