package recognition

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/facematch"
	"github.com/kozaktomas/face-attendance/internal/metrics"
)

// EnrollResult reports the stored identity and whether it replaced an
// existing profile.
type EnrollResult struct {
	Identity string `json:"identity"`
	Updated  bool   `json:"updated"`
}

// Enroller captures a fingerprint from the current frame and stores it.
type Enroller struct {
	profiles  *database.ProfileRepository
	detector  Detector
	extractor LandmarkExtractor
	now       func() time.Time
	logger    *zap.Logger
}

// NewEnroller creates an enroller.
func NewEnroller(profiles *database.ProfileRepository, detector Detector, extractor LandmarkExtractor, logger *zap.Logger) *Enroller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enroller{
		profiles:  profiles,
		detector:  detector,
		extractor: extractor,
		now:       time.Now,
		logger:    logger,
	}
}

// Enroll stores the fingerprint of the first face in src under identity.
// Re-enrolling an identity that differs only in case replaces its profile.
// Nothing is stored when any step fails.
func (e *Enroller) Enroll(ctx context.Context, identity string, src FrameSource) (EnrollResult, error) {
	name := facematch.NormalizeIdentity(identity)
	if name == "" {
		metrics.EnrollmentsTotal.WithLabelValues("rejected").Inc()
		return EnrollResult{}, ErrInvalidName
	}

	probe, err := e.capture(ctx, src)
	if err != nil {
		metrics.EnrollmentsTotal.WithLabelValues("rejected").Inc()
		return EnrollResult{}, err
	}

	updated, err := e.profiles.Upsert(ctx, facematch.Profile{
		Identity:    name,
		Fingerprint: probe,
		EnrolledAt:  e.now(),
	})
	if err != nil {
		return EnrollResult{}, fmt.Errorf("storing profile %s: %w", name, err)
	}

	result := "created"
	if updated {
		result = "updated"
	}
	metrics.EnrollmentsTotal.WithLabelValues(result).Inc()
	e.logger.Info("face enrolled",
		zap.String("identity", name),
		zap.Bool("updated", updated),
		zap.Int("features", len(probe)),
	)

	return EnrollResult{Identity: name, Updated: updated}, nil
}

func (e *Enroller) capture(ctx context.Context, src FrameSource) (facematch.FeatureVector, error) {
	if src == nil {
		return nil, ErrCameraAccess
	}
	if !src.Ready() {
		return nil, ErrNotReady
	}
	snap := snapshot(src)

	detections, err := e.detector.Detect(ctx, snap)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDetection, err)
	}
	if len(detections) == 0 {
		return nil, ErrNoFaceDetected
	}

	points, err := e.extractor.Landmarks(ctx, snap)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	probe := facematch.ExtractFeatures(points)
	if probe == nil {
		return nil, fmt.Errorf("%w: %d landmark points", ErrExtraction, len(points))
	}
	return probe, nil
}
