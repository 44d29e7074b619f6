package analysis

import (
	"errors"
	"math"

	"github.com/lasmithusa/engineered-magnetics/internal/field"
	"github.com/lasmithusa/engineered-magnetics/internal/magnet"
)

// ErrTargetUnreachable indicates no gap in the range delivers the
// requested flux.
var ErrTargetUnreachable = errors.New("analysis: target flux unreachable in range")

// GapPoint pairs a midpoint distance with the flux at the midpoint.
type GapPoint struct {
	Distance float64 // mm
	Flux     float64 // Tesla
}

// Sweep samples midpoint flux (p = 0) across a gap distance range.
// This is the p=0 slice of the full surface, the curve an engineer
// actually sizes a gap against.
func Sweep(geom magnet.Geometry, minMM, maxMM float64, steps int) []GapPoint {
	dists := field.Linspace(minMM, maxMM, steps)
	points := make([]GapPoint, len(dists))
	for i, d := range dists {
		points[i] = GapPoint{Distance: d, Flux: geom.FluxDensity(d, 0)}
	}
	return points
}

// Fluxes extracts the flux values for plotting.
func Fluxes(points []GapPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Flux
	}
	return out
}

// FindGap returns the largest midpoint distance in [minMM, maxMM]
// whose midpoint flux still meets target Tesla. Midpoint flux decays
// monotonically with distance, so bisection suffices.
func FindGap(geom magnet.Geometry, target, minMM, maxMM float64) (float64, error) {
	if !geom.Shape.Supported() {
		return 0, ErrTargetUnreachable
	}
	if target <= 0 || minMM > maxMM {
		return 0, ErrTargetUnreachable
	}

	atMin := geom.FluxDensity(minMM, 0)
	if math.IsNaN(atMin) || atMin < target {
		return 0, ErrTargetUnreachable
	}
	if geom.FluxDensity(maxMM, 0) >= target {
		return maxMM, nil
	}

	lo, hi := minMM, maxMM
	for i := 0; i < 64; i++ {
		mid := (lo + hi) / 2
		if geom.FluxDensity(mid, 0) >= target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo, nil
}
