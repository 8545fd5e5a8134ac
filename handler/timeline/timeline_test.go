package timeline

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mager/chordlegend/analysis"
	"github.com/mager/chordlegend/catalog"
	"github.com/mager/chordlegend/logger"
	"github.com/mager/chordlegend/store"
	"github.com/mager/chordlegend/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"
)

const sample = `{"chords":[
	{"chord":"C","start_time":0,"duration":4,"confidence":0.8,"source":"predicted"},
	{"chord":"G","start_time":4,"duration":4,"confidence":0.8,"source":"predicted"},
	{"chord":"Am","start_time":8,"duration":4,"confidence":0.8,"source":"predicted"}
],"duration":12}`

func do(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestGenerateHandler(t *testing.T) {
	log, _ := logger.NewTestLogger()
	h := NewGenerateHandler(log)

	rr := do(t, h, `{"pattern":[{"chord":"C","measures":1},{"chord":"G","measures":1}],"bpm":120,"duration":10,"strategy":"measured"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	got := decode[timeline.Timeline](t, rr)
	want, err := timeline.Generate(timeline.Steps("C", "G"), 120, 10, timeline.Options{Strategy: timeline.StrategyMeasured})
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("timeline mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateHandlerRejects(t *testing.T) {
	log, _ := logger.NewTestLogger()
	h := NewGenerateHandler(log)

	assert.Equal(t, http.StatusBadRequest, do(t, h, `{"strategy":"random"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, `{"duration":999999}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, `[`).Code)
}

func TestLookupHandler(t *testing.T) {
	log, _ := logger.NewTestLogger()
	h := NewLookupHandler(log)

	state := decode[timeline.State](t, do(t, h, `{"timeline":`+sample+`,"time":3.5,"offset":1}`))
	require.NotNil(t, state.Chord)
	assert.Equal(t, "G", state.Chord.Chord)
	assert.Equal(t, 1, state.Index)
	require.NotNil(t, state.Next)
	assert.Equal(t, "Am", state.Next.Chord)

	state = decode[timeline.State](t, do(t, h, `{"timeline":`+sample+`,"time":30}`))
	assert.True(t, state.Silence)
	assert.Nil(t, state.Chord)

	bad := `{"timeline":{"chords":[{"chord":"C","start_time":0,"duration":-1}],"duration":4},"time":1}`
	assert.Equal(t, http.StatusBadRequest, do(t, h, bad).Code)
}

func TestAdjustHandler(t *testing.T) {
	log, _ := logger.NewTestLogger()
	h := NewAdjustHandler(log)

	rr := do(t, h, `{"timeline":`+sample+`,"index":1,"chord":"G7","start_time":5}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	tl := decode[timeline.Timeline](t, rr)
	assert.Equal(t, []string{"C", "G7", "Am"}, tl.Chords())
	assert.Equal(t, 5.0, tl.Entries[0].Duration)
	assert.Equal(t, 5.0, tl.Entries[1].StartTime)
	assert.Equal(t, 3.0, tl.Entries[1].Duration)

	rr = do(t, h, `{"timeline":`+sample+`,"index":7,"chord":"D"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMIDIHandler(t *testing.T) {
	log, _ := logger.NewTestLogger()
	h := NewMIDIHandler(log, analysis.New(log, store.NewMemoryAnalysisCache(), catalog.Default()))

	rr := do(t, h, `{"timeline":`+sample+`,"bpm":90}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "audio/midi", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "timeline.mid")

	s, err := smf.ReadFrom(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, err)
	assert.Len(t, s.Tracks, 1)

	assert.Equal(t, http.StatusBadRequest, do(t, h, `{}`).Code)
}

func TestMIDIHandlerFromAnalysis(t *testing.T) {
	log, _ := logger.NewTestLogger()
	a := analysis.New(log, store.NewMemoryAnalysisCache(), catalog.Default())
	h := NewMIDIHandler(log, a)

	assert.Equal(t, http.StatusNotFound, do(t, h, `{"video_id":"dQw4w9WgXcQ"}`).Code)

	_, err := a.Analyze(context.Background(), analysis.Request{VideoID: "dQw4w9WgXcQ", Title: "Stairway to Heaven"})
	require.NoError(t, err)

	rr := do(t, h, `{"video_id":"dQw4w9WgXcQ"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "dQw4w9WgXcQ.mid")
}
