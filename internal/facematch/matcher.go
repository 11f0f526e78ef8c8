package facematch

import (
	"math"

	"github.com/kozaktomas/face-attendance/internal/constants"
)

// Matcher finds the nearest enrolled profile for a probe.
type Matcher struct {
	MaxDistance float64
}

// NewMatcher creates a matcher with the given calibration. A non-positive
// maxDistance falls back to the default.
func NewMatcher(maxDistance float64) *Matcher {
	if maxDistance <= 0 {
		maxDistance = constants.MaxDistance
	}
	return &Matcher{MaxDistance: maxDistance}
}

// Match scans all profiles linearly and returns the closest one with its
// confidence. Ties go to the profile that appears first. The result carries a
// candidate even when its confidence is low; callers apply thresholds.
func (m *Matcher) Match(probe FeatureVector, profiles []Profile) MatchResult {
	result := MatchResult{Distance: math.Inf(1)}

	for i := range profiles {
		d := Distance(probe, profiles[i].Fingerprint)
		if d < result.Distance {
			result.Distance = d
			result.Identity = profiles[i].Identity
		}
	}

	result.Confidence = ScaledConfidence(result.Distance, m.MaxDistance)
	return result
}
