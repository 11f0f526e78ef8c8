package handlers

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kozaktomas/face-attendance/internal/frames"
	"github.com/kozaktomas/face-attendance/internal/logger"
	"github.com/kozaktomas/face-attendance/internal/recognition"
)

// RecognitionHandler controls the recognition loop over the live source.
type RecognitionHandler struct {
	ctrl *recognition.Controller
	live *frames.Live
}

// NewRecognitionHandler creates a new recognition handler.
func NewRecognitionHandler(ctrl *recognition.Controller, live *frames.Live) *RecognitionHandler {
	return &RecognitionHandler{ctrl: ctrl, live: live}
}

// StatusResponse describes the loop state.
type StatusResponse struct {
	State     recognition.State `json:"state"`
	FPS       int               `json:"fps"`
	StartedAt *time.Time        `json:"started_at,omitempty"`
}

func (h *RecognitionHandler) status() StatusResponse {
	handle := h.ctrl.Active()
	if handle == nil {
		if h.ctrl.Starting() {
			return StatusResponse{State: recognition.StateStarting}
		}
		return StatusResponse{State: recognition.StateIdle}
	}
	started := handle.StartedAt()
	return StatusResponse{State: handle.State(), FPS: handle.FPS(), StartedAt: &started}
}

// Start runs the pre-flight checks and starts the loop.
func (h *RecognitionHandler) Start(w http.ResponseWriter, r *http.Request) {
	_, err := h.ctrl.StartRecognition(r.Context(), h.live)
	switch {
	case err == nil:
		respondJSON(w, http.StatusCreated, h.status())
	case errors.Is(err, recognition.ErrAlreadyRunning), errors.Is(err, recognition.ErrStartCancelled):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, recognition.ErrEmptyEnrollment):
		respondError(w, http.StatusPreconditionFailed, "no registered faces, enroll someone first")
	case errors.Is(err, recognition.ErrCameraAccess):
		respondError(w, http.StatusServiceUnavailable, err.Error())
	default:
		logger.FromContext(r.Context()).Error("starting recognition failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to start recognition")
	}
}

// Stop stops the loop.
func (h *RecognitionHandler) Stop(w http.ResponseWriter, r *http.Request) {
	stopped := h.ctrl.Stop()
	respondJSON(w, http.StatusOK, map[string]bool{"stopped": stopped})
}

// Status returns the loop state.
func (h *RecognitionHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.status())
}

// Events streams notifications as server-sent events until the client
// disconnects.
func (h *RecognitionHandler) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := setupSSEConnection(w)
	if !ok {
		return
	}

	events := h.ctrl.Events()
	ch := events.AddListener()
	defer events.RemoveListener(ch)

	sendSSEEvent(w, flusher, "status", h.status())

	for {
		select {
		case <-r.Context().Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			sendSSEEvent(w, flusher, string(n.Kind), n)
		}
	}
}
