package swagger

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mager/chordlegend/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocHandler(t *testing.T) {
	log, _ := logger.NewTestLogger()
	rr := httptest.NewRecorder()
	NewDocHandler(log).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var doc struct {
		Swagger string                     `json:"swagger"`
		Info    struct{ Title string }     `json:"info"`
		Paths   map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &doc), rr.Body.String())
	assert.Equal(t, "2.0", doc.Swagger)
	assert.Equal(t, "chordlegend", doc.Info.Title)
	for _, p := range []string{"/analyze", "/timeline", "/timeline/lookup", "/timeline/adjust", "/timeline/midi", "/favorites/{videoId}", "/sync/{videoId}"} {
		assert.Contains(t, doc.Paths, p)
	}
}
