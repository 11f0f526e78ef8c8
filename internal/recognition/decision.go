package recognition

import "github.com/kozaktomas/face-attendance/internal/facematch"

// Decision is the threshold policy applied to one match result.
type Decision struct {
	Tentative    bool // at or above the display threshold with a candidate
	MarkEligible bool // additionally at or above the mark threshold
}

// Decide applies the display and mark thresholds to result.
func Decide(result facematch.MatchResult, displayThreshold, markThreshold int) Decision {
	if !result.HasCandidate() || result.Confidence < displayThreshold {
		return Decision{}
	}
	return Decision{
		Tentative:    true,
		MarkEligible: result.Confidence >= markThreshold,
	}
}
