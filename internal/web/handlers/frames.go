package handlers

import (
	"errors"
	"net/http"

	"github.com/kozaktomas/face-attendance/internal/frames"
	"github.com/kozaktomas/face-attendance/internal/recognition"
)

// FramesHandler accepts analyzed frames from the presentation layer.
type FramesHandler struct {
	live *frames.Live
}

// NewFramesHandler creates a new frames handler.
func NewFramesHandler(live *frames.Live) *FramesHandler {
	return &FramesHandler{live: live}
}

// Push stores one frame and wakes the recognition loop.
func (h *FramesHandler) Push(w http.ResponseWriter, r *http.Request) {
	var f frames.Frame
	if !decodeJSON(w, r, &f) {
		return
	}

	if err := h.live.Push(f); err != nil {
		if errors.Is(err, recognition.ErrSourceClosed) {
			respondError(w, http.StatusGone, "frame source closed")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
