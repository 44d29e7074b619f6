package viz

import (
	"math"
	"sort"

	"github.com/lasmithusa/engineered-magnetics/internal/field"
)

// Axis label text shown under the rendered surface.
const (
	LabelX = "X: midpoint distance (mm)"
	LabelY = "P: position from midpoint (mm)"
	LabelZ = "B: flux density (T)"
)

// Segment is one colored wireframe edge in normalized surface space.
type Segment struct {
	A, B  Vec3
	Level uint8
}

// Mesh is the flux surface as a renderable wireframe: grid lines along
// both axes plus the three coordinate axes.
type Mesh struct {
	Segments []Segment
	MinFlux  float64
	MaxFlux  float64
}

// Normalized extent of the surface cube.
const meshExtent = 1.6

// BuildMesh converts a computed grid into a wireframe mesh. Distance
// and position map to the X/Y plane, flux to height. NaN samples
// (unsupported shapes) produce no segments. Grid lines are thinned to
// at most maxLines per axis.
func BuildMesh(g *field.Grid, cm *Colormap, maxLines int) *Mesh {
	n := g.N()
	if n < 2 {
		return &Mesh{}
	}
	if maxLines < 2 {
		maxLines = 2
	}

	stats := g.Summarize()
	m := &Mesh{MinFlux: stats.Min, MaxFlux: stats.Max}

	axis := g.Axis()
	axMin, axMax := axis[0], axis[n-1]

	step := (n + maxLines - 1) / maxLines
	if step < 1 {
		step = 1
	}
	idx := sampleIndices(n, step)

	node := func(i, j int) (Vec3, uint8, bool) {
		flux := g.Flux[i][j]
		if math.IsNaN(flux) {
			return Vec3{}, 0, false
		}
		return Vec3{
			X: normCoord(g.Distance[i][j], axMin, axMax),
			Y: normFlux(flux, stats.Min, stats.Max),
			Z: normCoord(g.Position[i][j], axMin, axMax),
		}, cm.Level(flux, stats.Min, stats.Max), true
	}

	addEdge := func(ai, aj, bi, bj int) {
		a, la, aok := node(ai, aj)
		b, lb, bok := node(bi, bj)
		if !aok || !bok {
			return
		}
		level := la
		if lb > level {
			level = lb
		}
		m.Segments = append(m.Segments, Segment{A: a, B: b, Level: level})
	}

	// Lines of constant position (vary distance) and constant
	// distance (vary position).
	for _, i := range idx {
		for k := 0; k+1 < len(idx); k++ {
			addEdge(i, idx[k], i, idx[k+1])
		}
	}
	for _, j := range idx {
		for k := 0; k+1 < len(idx); k++ {
			addEdge(idx[k], j, idx[k+1], j)
		}
	}

	m.addAxes()
	return m
}

// addAxes draws uncolored axis lines along the cube edges.
func (m *Mesh) addAxes() {
	o := Vec3{-meshExtent / 2, -meshExtent / 2, -meshExtent / 2}
	m.Segments = append(m.Segments,
		Segment{A: o, B: o.Add(Vec3{X: meshExtent})},
		Segment{A: o, B: o.Add(Vec3{Y: meshExtent})},
		Segment{A: o, B: o.Add(Vec3{Z: meshExtent})},
	)
}

// Render draws the mesh with a painter's algorithm, far segments first.
func (m *Mesh) Render(c *Canvas, cam *Camera) {
	sw, sh := c.Width*2, c.Height*4

	type projected struct {
		x1, y1, x2, y2 int
		depth          float64
		level          uint8
	}

	proj := make([]projected, 0, len(m.Segments))
	for _, s := range m.Segments {
		x1, y1, d1, v1 := cam.Project(s.A, sw, sh)
		x2, y2, d2, v2 := cam.Project(s.B, sw, sh)
		if v1 || v2 {
			proj = append(proj, projected{x1, y1, x2, y2, (d1 + d2) / 2, s.Level})
		}
	}

	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, p := range proj {
		if p.x1 == p.x2 && p.y1 == p.y2 {
			c.SetLevel(p.x1, p.y1, p.level)
		} else {
			c.DrawLine(p.x1, p.y1, p.x2, p.y2, p.level)
		}
	}
}

// sampleIndices picks every step-th index and always keeps the last.
func sampleIndices(n, step int) []int {
	idx := make([]int, 0, n/step+1)
	for i := 0; i < n; i += step {
		idx = append(idx, i)
	}
	if idx[len(idx)-1] != n-1 {
		idx = append(idx, n-1)
	}
	return idx
}

func normCoord(v, min, max float64) float64 {
	if max <= min {
		return 0
	}
	return ((v-min)/(max-min) - 0.5) * meshExtent
}

func normFlux(v, min, max float64) float64 {
	if max <= min {
		return 0
	}
	return ((v-min)/(max-min) - 0.5) * meshExtent * 0.6
}
