package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/frames"
	"github.com/kozaktomas/face-attendance/internal/logger"
	"github.com/kozaktomas/face-attendance/internal/recognition"
)

// FacesHandler handles enrollment endpoints.
type FacesHandler struct {
	profiles *database.ProfileRepository
	enroller *recognition.Enroller
	live     *frames.Live
}

// NewFacesHandler creates a new faces handler. Enrollment reads the latest
// frame pushed to live.
func NewFacesHandler(profiles *database.ProfileRepository, enroller *recognition.Enroller, live *frames.Live) *FacesHandler {
	return &FacesHandler{profiles: profiles, enroller: enroller, live: live}
}

// EnrollRequest is the body of POST /faces.
type EnrollRequest struct {
	Identity string `json:"identity"`
}

// FacesResponse lists the enrolled identities.
type FacesResponse struct {
	Count      int      `json:"count"`
	Identities []string `json:"identities"`
}

// Enroll registers the face in the latest frame under the given identity.
func (h *FacesHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	var req EnrollRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.enroller.Enroll(r.Context(), req.Identity, h.live)
	if err != nil {
		status := enrollErrorStatus(err)
		if status == http.StatusInternalServerError {
			logger.FromContext(r.Context()).Error("enrollment failed",
				zap.String("identity", sanitizeForLog(req.Identity)),
				zap.Error(err),
			)
		}
		respondError(w, status, err.Error())
		return
	}

	status := http.StatusCreated
	if result.Updated {
		status = http.StatusOK
	}
	respondJSON(w, status, result)
}

func enrollErrorStatus(err error) int {
	switch {
	case errors.Is(err, recognition.ErrInvalidName):
		return http.StatusBadRequest
	case errors.Is(err, recognition.ErrCameraAccess):
		return http.StatusConflict
	case errors.Is(err, recognition.ErrNoFaceDetected), errors.Is(err, recognition.ErrExtraction):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// List returns the enrolled identities in store order.
func (h *FacesHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.List(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Error("listing faces failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list faces")
		return
	}

	resp := FacesResponse{Count: len(profiles), Identities: make([]string, 0, len(profiles))}
	for _, p := range profiles {
		resp.Identities = append(resp.Identities, p.Identity)
	}
	respondJSON(w, http.StatusOK, resp)
}
