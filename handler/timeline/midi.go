package timeline

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/mager/chordlegend/analysis"
	"github.com/mager/chordlegend/midi"
	"github.com/mager/chordlegend/store"
	"github.com/mager/chordlegend/timeline"
	"github.com/mager/chordlegend/util"
	"go.uber.org/zap"
)

// MIDIHandler renders a timeline, or the stored analysis of a video, as a
// standard MIDI file.
type MIDIHandler struct {
	log      *zap.SugaredLogger
	analyzer *analysis.Analyzer
}

func (*MIDIHandler) Pattern() string {
	return "/timeline/midi"
}

func (*MIDIHandler) Methods() []string {
	return []string{http.MethodPost}
}

func NewMIDIHandler(log *zap.SugaredLogger, analyzer *analysis.Analyzer) *MIDIHandler {
	return &MIDIHandler{log: log, analyzer: analyzer}
}

type MIDIRequest struct {
	// VideoID exports the stored analysis when no timeline is given.
	VideoID         string            `json:"video_id"`
	Timeline        timeline.Timeline `json:"timeline"`
	BPM             float64           `json:"bpm"`
	BeatsPerMeasure int               `json:"beats_per_measure"`
}

// Export MIDI
// @Summary Export MIDI
// @Description Writes block chords for every entry of the timeline
// @Accept json
// @Produce audio/midi
// @Param request body MIDIRequest true "Timeline or video"
// @Success 200 {file} file
// @Failure 400 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /timeline/midi [post]
func (h *MIDIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req MIDIRequest
	if err := util.DecodeJSON(w, r, &req); err != nil {
		util.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	tl, bpm, name := req.Timeline, req.BPM, "timeline"
	if len(tl.Entries) == 0 && req.VideoID != "" {
		a, err := h.analyzer.Cached(r.Context(), req.VideoID)
		switch {
		case errors.Is(err, analysis.ErrInvalidVideoID):
			util.WriteError(w, http.StatusBadRequest, err.Error())
			return
		case errors.Is(err, store.ErrNotFound):
			util.WriteError(w, http.StatusNotFound, "no analysis for this video")
			return
		case err != nil:
			h.log.Errorw("Failed to read analysis", "video_id", req.VideoID, "error", err)
			util.WriteError(w, http.StatusInternalServerError, "failed to read analysis")
			return
		}
		tl, name = a.Timeline(), a.VideoID
		if bpm <= 0 {
			bpm = a.BPM
		}
	}
	if err := timeline.Validate(tl); err != nil {
		util.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var buf bytes.Buffer
	err := midi.Write(&buf, tl, midi.Options{BPM: bpm, BeatsPerMeasure: beats(req.BeatsPerMeasure)})
	if errors.Is(err, midi.ErrEmptyTimeline) {
		util.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.log.Errorw("Failed to write MIDI", "error", err)
		util.WriteError(w, http.StatusInternalServerError, "failed to write midi")
		return
	}

	w.Header().Set("Content-Type", "audio/midi")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.mid"`, name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func beats(n int) uint8 {
	if n <= 0 || n > 16 {
		return 4
	}
	return uint8(n)
}
