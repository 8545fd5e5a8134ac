package timeline

import (
	"errors"
	"net/http"

	"github.com/mager/chordlegend/timeline"
	"github.com/mager/chordlegend/util"
	"go.uber.org/zap"
)

// GenerateHandler expands a chord pattern into a timeline.
type GenerateHandler struct {
	log *zap.SugaredLogger
}

func (*GenerateHandler) Pattern() string {
	return "/timeline"
}

func (*GenerateHandler) Methods() []string {
	return []string{http.MethodPost}
}

// NewGenerateHandler builds a new GenerateHandler.
func NewGenerateHandler(log *zap.SugaredLogger) *GenerateHandler {
	return &GenerateHandler{log: log}
}

type GenerateRequest struct {
	Pattern         []timeline.Step `json:"pattern"`
	BPM             float64         `json:"bpm"`
	Duration        float64         `json:"duration"`
	Strategy        string          `json:"strategy"`
	ChordDuration   float64         `json:"chord_duration"`
	BeatsPerMeasure int             `json:"beats_per_measure"`
	Seed            int64           `json:"seed"`
}

// Generate a timeline
// @Summary Generate a timeline
// @Description Repeats a chord pattern over a song. Strategies are varied, measured and fixed.
// @Accept json
// @Produce json
// @Param request body GenerateRequest true "Pattern and timing"
// @Success 200 {object} timeline.Timeline
// @Failure 400 {object} util.ErrorResponse
// @Router /timeline [post]
func (h *GenerateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := util.DecodeJSON(w, r, &req); err != nil {
		util.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	strategy, err := timeline.ParseStrategy(req.Strategy)
	if err != nil {
		util.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	tl, err := timeline.Generate(req.Pattern, req.BPM, req.Duration, timeline.Options{
		Strategy:        strategy,
		ChordDuration:   req.ChordDuration,
		BeatsPerMeasure: req.BeatsPerMeasure,
		Seed:            req.Seed,
	})
	if err != nil {
		util.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.log.Debugw("Generated timeline", "strategy", strategy, "chords", len(tl.Entries))
	util.WriteJSON(w, http.StatusOK, tl)
}

// LookupHandler finds the chord playing at a point in time.
type LookupHandler struct {
	log *zap.SugaredLogger
}

func (*LookupHandler) Pattern() string {
	return "/timeline/lookup"
}

func (*LookupHandler) Methods() []string {
	return []string{http.MethodPost}
}

func NewLookupHandler(log *zap.SugaredLogger) *LookupHandler {
	return &LookupHandler{log: log}
}

type LookupRequest struct {
	Timeline timeline.Timeline `json:"timeline"`
	Time     float64           `json:"time"`
	// Offset shifts playback time to line up with the video.
	Offset float64 `json:"offset"`
}

// Look up the current chord
// @Summary Look up the current chord
// @Accept json
// @Produce json
// @Param request body LookupRequest true "Timeline and playback time"
// @Success 200 {object} timeline.State
// @Failure 400 {object} util.ErrorResponse
// @Router /timeline/lookup [post]
func (h *LookupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req LookupRequest
	if err := util.DecodeJSON(w, r, &req); err != nil {
		util.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := timeline.Validate(req.Timeline); err != nil {
		util.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	state := timeline.NewCursor(req.Timeline, req.Offset).Seek(req.Time)
	util.WriteJSON(w, http.StatusOK, state)
}

// AdjustHandler applies a manual correction to one chord.
type AdjustHandler struct {
	log *zap.SugaredLogger
}

func (*AdjustHandler) Pattern() string {
	return "/timeline/adjust"
}

func (*AdjustHandler) Methods() []string {
	return []string{http.MethodPost}
}

func NewAdjustHandler(log *zap.SugaredLogger) *AdjustHandler {
	return &AdjustHandler{log: log}
}

type AdjustRequest struct {
	Timeline  timeline.Timeline `json:"timeline"`
	Index     int               `json:"index"`
	Chord     string            `json:"chord"`
	StartTime *float64          `json:"start_time"`
	Duration  *float64          `json:"duration"`
}

// Adjust a chord
// @Summary Adjust a chord
// @Description Renames or retimes one chord. Neighbouring chords are resized to keep the timeline contiguous.
// @Accept json
// @Produce json
// @Param request body AdjustRequest true "Timeline and change"
// @Success 200 {object} timeline.Timeline
// @Failure 400 {object} util.ErrorResponse
// @Router /timeline/adjust [post]
func (h *AdjustHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req AdjustRequest
	if err := util.DecodeJSON(w, r, &req); err != nil {
		util.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := timeline.Validate(req.Timeline); err != nil {
		util.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	tl, err := timeline.Adjust(req.Timeline, req.Index, req.Chord, req.StartTime, req.Duration)
	switch {
	case errors.Is(err, timeline.ErrInvalidAdjustment):
		util.WriteError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.log.Errorw("Failed to adjust timeline", "index", req.Index, "error", err)
		util.WriteError(w, http.StatusInternalServerError, "adjustment failed")
		return
	}
	util.WriteJSON(w, http.StatusOK, tl)
}
