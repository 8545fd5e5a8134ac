// Package chordlegend holds the types shared by the API, the analysis
// pipeline and storage.
package chordlegend

import (
	"time"

	"github.com/mager/chordlegend/timeline"
)

// Analysis methods reported to clients.
const (
	MethodRealAudio      = "Real Audio Analysis"
	MethodPattern        = "Pattern Recognition"
	MethodTheoryFallback = "Theory Fallback"
)

// SongAnalysis is the chord timeline of a video plus what we know about the
// song.
type SongAnalysis struct {
	ID        string `json:"id" firestore:"id"`
	VideoID   string `json:"video_id" firestore:"videoID"`
	SongTitle string `json:"song_title" firestore:"songTitle"`

	Chords []timeline.Entry `json:"chords" firestore:"chords"`
	// Duration is the song length in seconds.
	Duration float64 `json:"duration" firestore:"duration"`

	Key           string   `json:"key" firestore:"key"`
	TimeSignature string   `json:"time_signature" firestore:"timeSignature"`
	BPM           float64  `json:"bpm" firestore:"bpm"`
	Genres        []string `json:"genres,omitempty" firestore:"genres"`

	// Method is how the chords were obtained, e.g. "Real Audio Analysis".
	Method     string    `json:"method" firestore:"method"`
	Confidence float64   `json:"confidence" firestore:"confidence"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
}

// Timeline returns the analysis chords as a timeline.
func (a *SongAnalysis) Timeline() timeline.Timeline {
	return timeline.Timeline{Entries: a.Chords, Duration: a.Duration}
}

// TrackMeta is what the metadata providers know about a recording.
type TrackMeta struct {
	Name   string `json:"name"`
	Artist string `json:"artist"`
	// Duration of the track in seconds.
	// Example: 237.04
	Duration float64 `json:"duration"`
	// Key is the key the track is in, e.g. "A" or "F#m". Empty when unknown.
	Key string `json:"key"`
	// Tempo is the overall estimated tempo of a track in beats per minute (BPM).
	// Example: 118.211
	Tempo float64 `json:"tempo"`
	// TimeSignature is an estimated number of beats in each bar, 3 to 7.
	TimeSignature int      `json:"time_signature"`
	Genres        []string `json:"genres"`
}

// Favorite is a video saved to a user's library along with the timing
// offset they dialled in for it.
type Favorite struct {
	UserID  string `json:"user_id"`
	VideoID string `json:"video_id"`
	Title   string `json:"title"`
	// Offset in seconds added to the player time before chord lookup.
	Offset    float64   `json:"offset"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
