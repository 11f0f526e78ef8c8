package facematch

import "time"

// Point is one landmark coordinate tuple, [x, y] or [x, y, z].
type Point []float64

// FeatureVector is the flattened coordinate fingerprint of one face.
type FeatureVector []float64

// Profile is an enrolled identity with its fingerprint.
type Profile struct {
	Identity    string
	Fingerprint FeatureVector
	EnrolledAt  time.Time
}

// MatchResult is the best candidate for a probe. Identity is empty when
// there is no candidate at all.
type MatchResult struct {
	Identity   string
	Confidence int
	Distance   float64
}

// HasCandidate reports whether the matcher found any comparable profile.
func (r MatchResult) HasCandidate() bool {
	return r.Identity != ""
}
