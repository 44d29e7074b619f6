package field

import "math"

// Stats summarizes a computed flux surface.
type Stats struct {
	Min, Max     float64
	PeakDistance float64 // mm, location of the maximum
	PeakPosition float64 // mm
	Masked       float64 // fraction of samples forced to 0 by the envelope rule
	NaN          float64 // fraction of NaN samples (unsupported shapes)
}

// Summarize scans the flux array. NaN samples are excluded from the
// min/max but counted separately.
func (g *Grid) Summarize() Stats {
	s := Stats{Min: math.Inf(1), Max: math.Inf(-1)}

	total := 0
	masked := 0
	nans := 0

	for i := range g.Flux {
		for j, v := range g.Flux[i] {
			total++
			if math.IsNaN(v) {
				nans++
				continue
			}
			if v == 0 && g.Position[i][j] > g.Distance[i][j] {
				masked++
			}
			if v < s.Min {
				s.Min = v
			}
			if v > s.Max {
				s.Max = v
				s.PeakDistance = g.Distance[i][j]
				s.PeakPosition = g.Position[i][j]
			}
		}
	}

	if total > 0 {
		s.Masked = float64(masked) / float64(total)
		s.NaN = float64(nans) / float64(total)
	}
	if nans == total {
		s.Min, s.Max = math.NaN(), math.NaN()
	}
	return s
}
