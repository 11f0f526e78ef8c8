package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/logger"
)

// RecordsHandler exposes the attendance log.
type RecordsHandler struct {
	records *database.RecordRepository
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(records *database.RecordRepository) *RecordsHandler {
	return &RecordsHandler{records: records}
}

// List returns all attendance records, newest first.
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.records.List(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Error("listing records failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list records")
		return
	}
	if records == nil {
		records = []database.AttendanceRecord{}
	}
	respondJSON(w, http.StatusOK, records)
}

// Clear deletes every attendance record.
func (h *RecordsHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.records.Clear(r.Context()); err != nil {
		logger.FromContext(r.Context()).Error("clearing records failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to clear records")
		return
	}
	logger.FromContext(r.Context()).Info("attendance records cleared")
	w.WriteHeader(http.StatusNoContent)
}
