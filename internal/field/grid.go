package field

import (
	"errors"
	"math"

	"github.com/lasmithusa/engineered-magnetics/internal/magnet"
)

// ErrBadGridSpec indicates an unusable sampling range or resolution.
var ErrBadGridSpec = errors.New("field: bad grid spec")

// Linspace returns n evenly spaced samples across [min, max], both
// endpoints included.
func Linspace(min, max float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{min}
	}
	vals := make([]float64, n)
	step := (max - min) / float64(n-1)
	for i := range vals {
		vals[i] = min + float64(i)*step
	}
	vals[n-1] = max
	return vals
}

// Grid holds the sampled flux surface as three parallel N×N arrays.
// Row index varies position, column index varies distance; both axes
// share the same sampled values.
type Grid struct {
	Distance [][]float64
	Position [][]float64
	Flux     [][]float64

	axis []float64
}

// New builds the square sampling grid for a closed distance range in
// millimeters. Flux is left zeroed until Compute runs.
func New(minMM, maxMM float64, n int) (*Grid, error) {
	if n < 2 {
		return nil, ErrBadGridSpec
	}
	if minMM > maxMM || math.IsNaN(minMM) || math.IsNaN(maxMM) {
		return nil, ErrBadGridSpec
	}

	axis := Linspace(minMM, maxMM, n)

	g := &Grid{
		Distance: make([][]float64, n),
		Position: make([][]float64, n),
		Flux:     make([][]float64, n),
		axis:     axis,
	}
	for i := 0; i < n; i++ {
		g.Distance[i] = make([]float64, n)
		g.Position[i] = make([]float64, n)
		g.Flux[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			g.Distance[i][j] = axis[j]
			g.Position[i][j] = axis[i]
		}
	}
	return g, nil
}

// N returns the grid resolution per axis.
func (g *Grid) N() int {
	return len(g.axis)
}

// Axis returns the shared sample values for both axes.
func (g *Grid) Axis() []float64 {
	return g.axis
}

// Compute evaluates the flux surface elementwise. Rows are independent
// (the evaluator is pure), so they run on a small worker pool.
func (g *Grid) Compute(geom magnet.Geometry) {
	n := g.N()
	parallelRows(n, 16, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < n; j++ {
				g.Flux[i][j] = geom.FluxDensity(g.Distance[i][j], g.Position[i][j])
			}
		}
	})
}
