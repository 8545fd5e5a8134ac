package spotify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mager/chordlegend/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchResponse = `{"tracks":{"href":"","limit":1,"offset":0,"total":1,"items":[
	{"id":"2374M0fQpWi3dLnB54qaLX","name":"Beat It","duration_ms":258000,
	 "artists":[{"id":"3fMbdgg4jU18AjLCKBhRSm","name":"Michael Jackson"}]}
]}}`

func newTestServer(t *testing.T, features string, status int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "track:Beat It artist:Michael Jackson", r.URL.Query().Get("q"))
		assert.Equal(t, "track", r.URL.Query().Get("type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(searchResponse))
	})
	mux.HandleFunc("/audio-features", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(features))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLookupTrack(t *testing.T) {
	srv := newTestServer(t, `{"audio_features":[{"id":"2374M0fQpWi3dLnB54qaLX","tempo":138.9,"key":4,"mode":0,"time_signature":4}]}`, http.StatusOK)
	log, _ := logger.NewTestLogger()
	c := NewWithHTTPClient(log, srv.Client(), srv.URL+"/")

	meta, err := c.LookupTrack(context.Background(), "Michael Jackson - Beat It (Official Video)")
	require.NoError(t, err)
	assert.Equal(t, "Beat It", meta.Name)
	assert.Equal(t, "Michael Jackson", meta.Artist)
	assert.Equal(t, 258.0, meta.Duration)
	assert.InDelta(t, 138.9, meta.Tempo, 0.001)
	assert.Equal(t, "Em", meta.Key)
	assert.Equal(t, 4, meta.TimeSignature)
}

func TestLookupTrackWithoutAudioFeatures(t *testing.T) {
	srv := newTestServer(t, `{"error":{"status":403,"message":"Forbidden"}}`, http.StatusForbidden)
	log, logs := logger.NewTestLogger()
	c := NewWithHTTPClient(log, srv.Client(), srv.URL+"/")

	meta, err := c.LookupTrack(context.Background(), "Michael Jackson - Beat It")
	require.NoError(t, err)
	assert.Equal(t, 258.0, meta.Duration)
	assert.Zero(t, meta.Tempo)
	assert.Empty(t, meta.Key)
	assert.Equal(t, 1, logs.FilterMessage("Failed to fetch audio features").Len())
}

func TestLookupTrackDisabled(t *testing.T) {
	var c *SpotifyClient
	_, err := c.LookupTrack(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, (&SpotifyClient{}).Enabled())
}
