package analyze

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mager/chordlegend/analysis"
	"github.com/mager/chordlegend/chordlegend"
	"github.com/mager/chordlegend/store"
	"github.com/mager/chordlegend/util"
	"go.uber.org/zap"
)

// AnalyzeHandler runs the analysis pipeline for a video.
type AnalyzeHandler struct {
	log      *zap.SugaredLogger
	analyzer *analysis.Analyzer
}

func (*AnalyzeHandler) Pattern() string {
	return "/analyze"
}

func (*AnalyzeHandler) Methods() []string {
	return []string{http.MethodPost}
}

// NewAnalyzeHandler builds a new AnalyzeHandler.
func NewAnalyzeHandler(log *zap.SugaredLogger, analyzer *analysis.Analyzer) *AnalyzeHandler {
	return &AnalyzeHandler{
		log:      log,
		analyzer: analyzer,
	}
}

type AnalyzeResponse struct {
	Analysis *chordlegend.SongAnalysis `json:"analysis"`
}

// Analyze a video
// @Summary Analyze a video
// @Description Detects or predicts the chord timeline of a YouTube video
// @Accept json
// @Produce json
// @Param request body analysis.Request true "Video and options"
// @Success 200 {object} AnalyzeResponse
// @Failure 400 {object} util.ErrorResponse
// @Router /analyze [post]
func (h *AnalyzeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req analysis.Request
	if err := util.DecodeJSON(w, r, &req); err != nil {
		util.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.analyzer.Analyze(r.Context(), req)
	switch {
	case errors.Is(err, analysis.ErrMissingVideoID), errors.Is(err, analysis.ErrInvalidVideoID):
		util.WriteError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.log.Errorw("Failed to analyze video", "video_id", req.VideoID, "error", err)
		util.WriteError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	util.WriteJSON(w, http.StatusOK, AnalyzeResponse{Analysis: res})
}

// GetAnalysisHandler returns a stored analysis.
type GetAnalysisHandler struct {
	log      *zap.SugaredLogger
	analyzer *analysis.Analyzer
}

func (*GetAnalysisHandler) Pattern() string {
	return "/analyze/{videoId}"
}

func (*GetAnalysisHandler) Methods() []string {
	return []string{http.MethodGet}
}

func NewGetAnalysisHandler(log *zap.SugaredLogger, analyzer *analysis.Analyzer) *GetAnalysisHandler {
	return &GetAnalysisHandler{
		log:      log,
		analyzer: analyzer,
	}
}

// Get a stored analysis
// @Summary Get a stored analysis
// @Produce json
// @Param videoId path string true "YouTube video ID"
// @Success 200 {object} AnalyzeResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /analyze/{videoId} [get]
func (h *GetAnalysisHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	videoID := mux.Vars(r)["videoId"]

	res, err := h.analyzer.Cached(r.Context(), videoID)
	switch {
	case errors.Is(err, analysis.ErrInvalidVideoID):
		util.WriteError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, store.ErrNotFound):
		util.WriteError(w, http.StatusNotFound, "no analysis for this video")
		return
	case err != nil:
		h.log.Errorw("Failed to read analysis", "video_id", videoID, "error", err)
		util.WriteError(w, http.StatusInternalServerError, "failed to read analysis")
		return
	}

	util.WriteJSON(w, http.StatusOK, AnalyzeResponse{Analysis: res})
}
