package analyze

import (
	"net/http"

	"github.com/mager/chordlegend/analysis"
	"github.com/mager/chordlegend/catalog"
	"github.com/mager/chordlegend/util"
	"go.uber.org/zap"
)

// SongsHandler lists the songs that are recognized by title.
type SongsHandler struct {
	log      *zap.SugaredLogger
	analyzer *analysis.Analyzer
}

func (*SongsHandler) Pattern() string {
	return "/songs"
}

func (*SongsHandler) Methods() []string {
	return []string{http.MethodGet}
}

func NewSongsHandler(log *zap.SugaredLogger, analyzer *analysis.Analyzer) *SongsHandler {
	return &SongsHandler{
		log:      log,
		analyzer: analyzer,
	}
}

type SongsResponse struct {
	Songs []catalog.Song `json:"songs"`
}

// List known songs
// @Summary List known songs
// @Produce json
// @Success 200 {object} SongsResponse
// @Router /songs [get]
func (h *SongsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := SongsResponse{Songs: []catalog.Song{}}
	if c := h.analyzer.Catalog(); c != nil {
		resp.Songs = c.Songs()
	}
	util.WriteJSON(w, http.StatusOK, resp)
}
