package facematch

// meshWith returns a full-size mesh where every point is [0,0,0] except the
// feature landmarks, which get consecutive values starting at base.
func meshWith(dims int, base float64) []Point {
	mesh := make([]Point, MeshPoints)
	for i := range mesh {
		mesh[i] = make(Point, dims)
	}
	v := base
	for _, lm := range FeatureLandmarks {
		p := make(Point, dims)
		for d := range p {
			p[d] = v
			v++
		}
		mesh[lm.Index] = p
	}
	return mesh
}
