package health

import (
	"context"
	"net/http"
	"time"

	"github.com/mager/chordlegend/catalog"
	"github.com/mager/chordlegend/database"
	"github.com/mager/chordlegend/detector"
	"github.com/mager/chordlegend/firestore"
	"github.com/mager/chordlegend/spotify"
	"github.com/mager/chordlegend/store"
	"github.com/mager/chordlegend/util"
	"go.uber.org/zap"
)

const checkTimeout = 3 * time.Second

// HealthHandler reports which parts of the service are usable.
type HealthHandler struct {
	log           *zap.SugaredLogger
	detector      *detector.Client
	spotifyClient *spotify.SpotifyClient
	catalog       *catalog.Catalog
	cache         store.AnalysisCache
	favorites     store.Favorites
}

func (*HealthHandler) Pattern() string {
	return "/health"
}

func (*HealthHandler) Methods() []string {
	return []string{http.MethodGet}
}

// NewHealthHandler builds a new HealthHandler.
func NewHealthHandler(
	log *zap.SugaredLogger,
	det *detector.Client,
	spotifyClient *spotify.SpotifyClient,
	cat *catalog.Catalog,
	cache store.AnalysisCache,
	favorites store.Favorites,
) *HealthHandler {
	return &HealthHandler{
		log:           log,
		detector:      det,
		spotifyClient: spotifyClient,
		catalog:       cat,
		cache:         cache,
		favorites:     favorites,
	}
}

type Response struct {
	Server    bool   `json:"server"`
	ChordAPI  bool   `json:"chord_api"`
	Spotify   bool   `json:"spotify"`
	Songs     int    `json:"songs"`
	Cache     string `json:"cache"`
	Favorites string `json:"favorites"`
}

// Health check
// @Summary Health check
// @Description Reports the chord detection backend, Spotify and storage status
// @Produce json
// @Success 200 {object} Response
// @Router /health [get]
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := Response{
		Server:    true,
		Spotify:   h.spotifyClient.Enabled(),
		Cache:     cacheBackend(h.cache),
		Favorites: favoritesBackend(h.favorites),
	}
	if h.catalog != nil {
		resp.Songs = len(h.catalog.Songs())
	}
	if h.detector.Enabled() {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		defer cancel()
		resp.ChordAPI = h.detector.Healthy(ctx)
	}

	h.log.Debugw("Health check", "chord_api", resp.ChordAPI, "spotify", resp.Spotify)
	util.WriteJSON(w, http.StatusOK, resp)
}

func cacheBackend(c store.AnalysisCache) string {
	switch c.(type) {
	case *firestore.AnalysisCache:
		return "firestore"
	case *store.MemoryAnalysisCache:
		return "memory"
	case nil:
		return "none"
	}
	return "custom"
}

func favoritesBackend(f store.Favorites) string {
	switch f.(type) {
	case *database.Favorites:
		return "postgres"
	case *store.MemoryFavorites:
		return "memory"
	case nil:
		return "none"
	}
	return "custom"
}
