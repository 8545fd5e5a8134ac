package playback

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/mager/chordlegend/analysis"
	"github.com/mager/chordlegend/config"
	"github.com/mager/chordlegend/store"
	"github.com/mager/chordlegend/timeline"
	"github.com/mager/chordlegend/util"
	"go.uber.org/zap"
)

const (
	// idleTimeout closes sockets whose player stopped reporting.
	idleTimeout  = 2 * time.Minute
	writeTimeout = 5 * time.Second
	maxMessage   = 4096
)

// Position is sent by the player as the video plays.
type Position struct {
	Time float64 `json:"time"`
	// Offset replaces the timing offset when present.
	Offset *float64 `json:"offset,omitempty"`
}

type syncError struct {
	Error string `json:"error"`
}

// SyncHandler streams the chord at the player's position over a websocket.
type SyncHandler struct {
	log      *zap.SugaredLogger
	analyzer *analysis.Analyzer
	upgrader websocket.Upgrader
}

func (*SyncHandler) Pattern() string {
	return "/sync/{videoId}"
}

func (*SyncHandler) Methods() []string {
	return []string{http.MethodGet}
}

// NewSyncHandler builds a new SyncHandler.
func NewSyncHandler(log *zap.SugaredLogger, cfg config.Config, analyzer *analysis.Analyzer) *SyncHandler {
	return &SyncHandler{
		log:      log,
		analyzer: analyzer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(cfg.AllowedOrigins),
		},
	}
}

func checkOrigin(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

// Sync playback
// @Summary Sync playback
// @Description Websocket. Send {"time": seconds, "offset": seconds} and receive the current and next chord.
// @Param videoId path string true "YouTube video ID"
// @Success 101
// @Failure 404 {object} util.ErrorResponse
// @Router /sync/{videoId} [get]
func (h *SyncHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	videoID := mux.Vars(r)["videoId"]
	a, err := h.analyzer.Cached(r.Context(), videoID)
	switch {
	case errors.Is(err, analysis.ErrInvalidVideoID):
		util.WriteError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, store.ErrNotFound):
		util.WriteError(w, http.StatusNotFound, "no analysis for this video, analyze it first")
		return
	case err != nil:
		h.log.Errorw("Failed to read analysis", "video_id", videoID, "error", err)
		util.WriteError(w, http.StatusInternalServerError, "failed to read analysis")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Errorw("Error upgrading connection to WebSocket", "error", err)
		return
	}
	defer conn.Close()

	l := h.log.With("video_id", a.VideoID)
	l.Info("WebSocket client connected")

	conn.SetReadLimit(maxMessage)
	cursor := timeline.NewCursor(a.Timeline(), 0)
	for {
		conn.SetReadDeadline(time.Now().Add(idleTimeout))
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				l.Warnw("WebSocket closed", "error", err)
			}
			return
		}

		var reply any
		var pos Position
		switch err := json.Unmarshal(data, &pos); {
		case err != nil:
			reply = syncError{Error: "invalid position: " + err.Error()}
		case math.IsNaN(pos.Time) || (pos.Offset != nil && math.IsNaN(*pos.Offset)):
			reply = syncError{Error: "invalid position"}
		default:
			if pos.Offset != nil {
				cursor.Offset = *pos.Offset
			}
			reply = cursor.Seek(pos.Time)
		}

		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(reply); err != nil {
			l.Errorw("Error sending WebSocket message", "error", err)
			return
		}
	}
}
