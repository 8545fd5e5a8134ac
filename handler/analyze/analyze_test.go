package analyze

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/mager/chordlegend/analysis"
	"github.com/mager/chordlegend/catalog"
	"github.com/mager/chordlegend/logger"
	"github.com/mager/chordlegend/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const videoID = "dQw4w9WgXcQ"

func newAnalyzer(t *testing.T) *analysis.Analyzer {
	t.Helper()
	log, _ := logger.NewTestLogger()
	return analysis.New(log, store.NewMemoryAnalysisCache(), catalog.Default())
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body)))
	return rr
}

func TestAnalyzeHandler(t *testing.T) {
	log, _ := logger.NewTestLogger()
	h := NewAnalyzeHandler(log, newAnalyzer(t))

	rr := post(h, `{"video_id":"https://youtu.be/`+videoID+`","title":"Oasis - Wonderwall"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.Analysis)
	assert.Equal(t, videoID, resp.Analysis.VideoID)
	assert.Equal(t, "Pattern Recognition (wonderwall)", resp.Analysis.Method)
	assert.NotEmpty(t, resp.Analysis.Chords)
}

func TestAnalyzeHandlerBadRequests(t *testing.T) {
	log, _ := logger.NewTestLogger()
	h := NewAnalyzeHandler(log, newAnalyzer(t))

	for name, body := range map[string]string{
		"empty body":  ``,
		"bad json":    `{"video_id":`,
		"no video":    `{"title":"Wonderwall"}`,
		"not youtube": `{"video_id":"https://vimeo.com/1"}`,
	} {
		t.Run(name, func(t *testing.T) {
			rr := post(h, body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), `"error"`)
		})
	}
}

func TestGetAnalysisHandler(t *testing.T) {
	log, _ := logger.NewTestLogger()
	a := newAnalyzer(t)
	h := NewGetAnalysisHandler(log, a)

	get := func(id string) *httptest.ResponseRecorder {
		req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/analyze/"+id, nil), map[string]string{"videoId": id})
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusNotFound, get(videoID).Code)
	assert.Equal(t, http.StatusBadRequest, get("nope").Code)

	post(NewAnalyzeHandler(log, a), `{"video_id":"`+videoID+`","title":"Let It Be"}`)

	rr := get(videoID)
	require.Equal(t, http.StatusOK, rr.Code)
	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "C", resp.Analysis.Key)
}

func TestSongsHandler(t *testing.T) {
	log, _ := logger.NewTestLogger()
	h := NewSongsHandler(log, newAnalyzer(t))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/songs", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp SongsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Songs, len(catalog.Default().Songs()))
}
