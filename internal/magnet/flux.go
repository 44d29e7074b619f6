package magnet

import "math"

// Inputs arrive in millimeters; the pole formula works in meters.
const mmToM = 1.0 / 1000.0

// FluxDensity returns the on-axis flux density in Tesla for a pair of
// opposed magnets whose faces sit dist millimeters either side of the
// midpoint, sampled pos millimeters from that midpoint.
//
// Sample points past the magnet face (pos > dist) are inside or behind
// the magnet and report exactly 0. Shapes without an implemented
// formula report NaN for every input.
func (g Geometry) FluxDensity(dist, pos float64) float64 {
	if !g.Shape.Supported() {
		return math.NaN()
	}
	if pos > dist {
		return 0
	}
	return g.axial(dist*mmToM, pos*mmToM)
}

// FluxProfile evaluates a constant-distance slice over many positions.
// It shares the scalar arithmetic, so masking and shape handling are
// identical element by element.
func (g Geometry) FluxProfile(dist float64, pos []float64) []float64 {
	out := make([]float64, len(pos))
	for i, p := range pos {
		out[i] = g.FluxDensity(dist, p)
	}
	return out
}

// axial superposes the two magnets' face-pole contributions. The
// magnets are identical, one offset +p and one -p from the midpoint.
func (g Geometry) axial(d, p float64) float64 {
	r := g.Radius * mmToM
	t := g.Thickness * mmToM
	half := g.Remanence / 2
	return half*poleTerm(t, d+p, r) + half*poleTerm(t, d-p, r)
}

// poleTerm is the on-axis field of a single cylindrical magnet of
// thickness t and radius r whose near face is x away from the sample.
func poleTerm(t, x, r float64) float64 {
	return (t+x)/math.Sqrt(r*r+(t+x)*(t+x)) - x/math.Sqrt(r*r+x*x)
}
