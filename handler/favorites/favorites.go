package favorites

import (
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/mager/chordlegend/auth"
	"github.com/mager/chordlegend/chordlegend"
	"github.com/mager/chordlegend/store"
	"github.com/mager/chordlegend/util"
	"go.uber.org/zap"
)

// MaxOffset bounds the saved timing offset in seconds.
const MaxOffset = 60.0

// userID authenticates the request, writing the error response when it
// fails.
func userID(w http.ResponseWriter, r *http.Request, verifier *auth.Verifier) (string, bool) {
	id, err := verifier.UserID(r)
	switch {
	case err == nil:
		return id, true
	case errors.Is(err, auth.ErrDisabled):
		util.WriteError(w, http.StatusServiceUnavailable, "favorites are not enabled")
	case errors.Is(err, auth.ErrMissingToken):
		util.WriteError(w, http.StatusUnauthorized, "authorization required")
	default:
		util.WriteError(w, http.StatusUnauthorized, "invalid or expired token")
	}
	return "", false
}

// ListFavoritesHandler returns the caller's saved videos.
type ListFavoritesHandler struct {
	log       *zap.SugaredLogger
	verifier  *auth.Verifier
	favorites store.Favorites
}

func (*ListFavoritesHandler) Pattern() string {
	return "/favorites"
}

func (*ListFavoritesHandler) Methods() []string {
	return []string{http.MethodGet}
}

func NewListFavoritesHandler(log *zap.SugaredLogger, verifier *auth.Verifier, favorites store.Favorites) *ListFavoritesHandler {
	return &ListFavoritesHandler{log: log, verifier: verifier, favorites: favorites}
}

type ListFavoritesResponse struct {
	Favorites []chordlegend.Favorite `json:"favorites"`
}

// List favorites
// @Summary List favorites
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ListFavoritesResponse
// @Failure 401 {object} util.ErrorResponse
// @Router /favorites [get]
func (h *ListFavoritesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r, h.verifier)
	if !ok {
		return
	}

	favs, err := h.favorites.List(r.Context(), uid)
	if err != nil {
		h.log.Errorw("Failed to list favorites", "user_id", uid, "error", err)
		util.WriteError(w, http.StatusInternalServerError, "failed to list favorites")
		return
	}
	util.WriteJSON(w, http.StatusOK, ListFavoritesResponse{Favorites: favs})
}

// FavoriteHandler reads, saves and removes one favorite.
type FavoriteHandler struct {
	log       *zap.SugaredLogger
	verifier  *auth.Verifier
	favorites store.Favorites
}

func (*FavoriteHandler) Pattern() string {
	return "/favorites/{videoId}"
}

func (*FavoriteHandler) Methods() []string {
	return []string{http.MethodGet, http.MethodPut, http.MethodDelete}
}

func NewFavoriteHandler(log *zap.SugaredLogger, verifier *auth.Verifier, favorites store.Favorites) *FavoriteHandler {
	return &FavoriteHandler{log: log, verifier: verifier, favorites: favorites}
}

type PutFavoriteRequest struct {
	Title  string  `json:"title"`
	Offset float64 `json:"offset"`
}

// Favorite
// @Summary Get, save or remove a favorite
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param videoId path string true "YouTube video ID"
// @Param request body PutFavoriteRequest false "Title and timing offset (PUT)"
// @Success 200 {object} chordlegend.Favorite
// @Success 204
// @Failure 400 {object} util.ErrorResponse
// @Failure 401 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /favorites/{videoId} [get]
// @Router /favorites/{videoId} [put]
// @Router /favorites/{videoId} [delete]
func (h *FavoriteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r, h.verifier)
	if !ok {
		return
	}
	videoID, ok := util.ExtractVideoID(mux.Vars(r)["videoId"])
	if !ok {
		util.WriteError(w, http.StatusBadRequest, "not a YouTube video id")
		return
	}
	l := h.log.With("user_id", uid, "video_id", videoID)

	switch r.Method {
	case http.MethodGet:
		fav, err := h.favorites.Get(r.Context(), uid, videoID)
		if h.storeError(w, l, err) {
			return
		}
		util.WriteJSON(w, http.StatusOK, fav)

	case http.MethodPut:
		var req PutFavoriteRequest
		if err := util.DecodeJSON(w, r, &req); err != nil {
			util.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		if math.IsNaN(req.Offset) || math.Abs(req.Offset) > MaxOffset {
			util.WriteError(w, http.StatusBadRequest, "offset must be within 60 seconds")
			return
		}
		fav, err := h.favorites.Put(r.Context(), chordlegend.Favorite{
			UserID:  uid,
			VideoID: videoID,
			Title:   strings.TrimSpace(req.Title),
			Offset:  req.Offset,
		})
		if h.storeError(w, l, err) {
			return
		}
		l.Infow("Saved favorite", "offset", fav.Offset)
		util.WriteJSON(w, http.StatusOK, fav)

	case http.MethodDelete:
		err := h.favorites.Delete(r.Context(), uid, videoID)
		if h.storeError(w, l, err) {
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		util.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *FavoriteHandler) storeError(w http.ResponseWriter, l *zap.SugaredLogger, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, store.ErrNotFound):
		util.WriteError(w, http.StatusNotFound, "favorite not found")
	default:
		l.Errorw("Favorites store failed", "error", err)
		util.WriteError(w, http.StatusInternalServerError, "favorites store failed")
	}
	return true
}
