package facematch

import "math"

// MeshPoints is the minimum landmark count of the face mesh topology.
const MeshPoints = 468

// Landmark is a named index into the face mesh.
type Landmark struct {
	Name  string
	Index int
}

// FeatureLandmarks lists the mesh points that make up a fingerprint, in
// flattening order. Changing this list changes the codec version.
var FeatureLandmarks = []Landmark{
	{"leftEye", 33},
	{"rightEye", 263},
	{"noseTip", 1},
	{"noseBase", 168},
	{"leftMouth", 61},
	{"rightMouth", 291},
	{"topLip", 13},
	{"bottomLip", 14},
	{"leftCheek", 234},
	{"rightCheek", 454},
	{"chin", 152},
	{"forehead", 10},
}

// ExtractFeatures builds a FeatureVector from one face's landmarks.
// Returns nil if the landmark set does not match the mesh topology, a selected
// point is not 2D or 3D, or a coordinate is not finite.
func ExtractFeatures(landmarks []Point) FeatureVector {
	if len(landmarks) < MeshPoints {
		return nil
	}

	dims := len(landmarks[FeatureLandmarks[0].Index])
	if dims != 2 && dims != 3 {
		return nil
	}

	features := make(FeatureVector, 0, len(FeatureLandmarks)*dims)
	for _, lm := range FeatureLandmarks {
		p := landmarks[lm.Index]
		// Mixed dimensionality would make vectors from the same codec differ in length.
		if len(p) != dims {
			return nil
		}
		for _, c := range p {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return nil
			}
			features = append(features, c)
		}
	}

	return features
}
