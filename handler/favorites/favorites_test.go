package favorites

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/mager/chordlegend/auth"
	"github.com/mager/chordlegend/logger"
	"github.com/mager/chordlegend/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const videoID = "dQw4w9WgXcQ"

type fixture struct {
	router   *mux.Router
	verifier *auth.Verifier
}

func newFixture(t *testing.T, secret string) fixture {
	t.Helper()
	log, _ := logger.NewTestLogger()
	v := auth.New(secret)
	favs := store.NewMemoryFavorites()

	r := mux.NewRouter()
	list := NewListFavoritesHandler(log, v, favs)
	one := NewFavoriteHandler(log, v, favs)
	r.Handle(list.Pattern(), list).Methods(list.Methods()...)
	r.Handle(one.Pattern(), one).Methods(one.Methods()...)
	return fixture{router: r, verifier: v}
}

func (f fixture) do(t *testing.T, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if user != "" {
		token, err := f.verifier.Sign(user, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func TestFavoritesLifecycle(t *testing.T) {
	f := newFixture(t, "secret")

	rr := f.do(t, http.MethodGet, "/favorites", "alice", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"favorites":[]}`, rr.Body.String())

	rr = f.do(t, http.MethodPut, "/favorites/"+videoID, "alice", `{"title":"Let It Be","offset":-0.5}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = f.do(t, http.MethodGet, "/favorites/"+videoID, "alice", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var fav struct {
		VideoID string  `json:"video_id"`
		Title   string  `json:"title"`
		Offset  float64 `json:"offset"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &fav))
	assert.Equal(t, videoID, fav.VideoID)
	assert.Equal(t, "Let It Be", fav.Title)
	assert.Equal(t, -0.5, fav.Offset)

	// favorites are per user
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/favorites/"+videoID, "bob", "").Code)

	var list ListFavoritesResponse
	rr = f.do(t, http.MethodGet, "/favorites", "alice", "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Len(t, list.Favorites, 1)

	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodDelete, "/favorites/"+videoID, "alice", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodDelete, "/favorites/"+videoID, "alice", "").Code)
}

func TestFavoritesRequireAuth(t *testing.T) {
	f := newFixture(t, "secret")
	assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodGet, "/favorites", "", "").Code)

	req := httptest.NewRequest(http.MethodGet, "/favorites", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestFavoritesDisabled(t *testing.T) {
	f := newFixture(t, "")
	req := httptest.NewRequest(http.MethodGet, "/favorites", nil)
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestPutFavoriteValidation(t *testing.T) {
	f := newFixture(t, "secret")
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPut, "/favorites/short", "alice", `{"offset":0}`).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPut, "/favorites/"+videoID, "alice", `{"offset":120}`).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPut, "/favorites/"+videoID, "alice", `nope`).Code)
}
