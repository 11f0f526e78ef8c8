package facematch

import (
	"math"

	"github.com/kozaktomas/face-attendance/internal/constants"
)

// Distance computes the Euclidean distance between two fingerprints.
// Returns +Inf when either vector is empty or the lengths differ.
func Distance(a, b FeatureVector) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return math.Inf(1)
	}

	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Confidence maps a distance to a 0-100 score using the default MaxDistance.
func Confidence(distance float64) int {
	return ScaledConfidence(distance, constants.MaxDistance)
}

// ScaledConfidence maps a distance to a 0-100 score with linear decay:
// 0 distance is 100, maxDistance and beyond is 0.
func ScaledConfidence(distance, maxDistance float64) int {
	if math.IsNaN(distance) || math.IsInf(distance, 1) || maxDistance <= 0 {
		return 0
	}

	confidence := 100 - distance/maxDistance*100
	confidence = max(0, min(100, confidence))
	return int(math.Round(confidence))
}
