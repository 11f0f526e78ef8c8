package web

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kozaktomas/face-attendance/internal/web/handlers"
	"github.com/kozaktomas/face-attendance/internal/web/static"
)

func (s *Server) setupRoutes() {
	facesHandler := handlers.NewFacesHandler(s.deps.Profiles, s.deps.Enroller, s.deps.Live)
	framesHandler := handlers.NewFramesHandler(s.deps.Live)
	recognitionHandler := handlers.NewRecognitionHandler(s.deps.Controller, s.deps.Live)
	recordsHandler := handlers.NewRecordsHandler(s.deps.Records)

	s.router.Get("/api/v1/health", handlers.HealthCheck)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api/v1", func(r chi.Router) {
		// Enrollment
		r.Get("/faces", facesHandler.List)
		r.Post("/faces", facesHandler.Enroll)

		// Frames pushed by the browser face mesh
		r.Post("/frames", framesHandler.Push)

		// Recognition loop
		r.Get("/recognition", recognitionHandler.Status)
		r.Post("/recognition", recognitionHandler.Start)
		r.Delete("/recognition", recognitionHandler.Stop)
		r.Get("/recognition/events", recognitionHandler.Events)

		// Attendance log
		r.Get("/records", recordsHandler.List)
		r.Delete("/records", recordsHandler.Clear)
	})

	// Kiosk page
	s.router.Get("/*", s.serveStatic)
}

// serveStatic serves the embedded kiosk page and its assets.
func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request) {
	f, contentType, err := static.Open(r.URL.Path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, f); err != nil {
		s.logger.Debug("serving static asset", zap.String("path", r.URL.Path), zap.Error(err))
	}
}
