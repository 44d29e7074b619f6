package field

import (
	"math"
	"testing"

	"github.com/lasmithusa/engineered-magnetics/internal/magnet"
)

func testGeometry() magnet.Geometry {
	return magnet.Geometry{
		Remanence: 1.21,
		Radius:    7.62,
		Thickness: 2.794,
		Shape:     magnet.Cylinder,
	}
}

func TestLinspace(t *testing.T) {
	vals := Linspace(0, 25, 100)

	if len(vals) != 100 {
		t.Fatalf("expected 100 samples, got %d", len(vals))
	}
	if vals[0] != 0 {
		t.Errorf("first sample should be range min, got %f", vals[0])
	}
	if vals[99] != 25 {
		t.Errorf("last sample should be range max, got %f", vals[99])
	}

	step := vals[1] - vals[0]
	for i := 1; i < len(vals); i++ {
		if math.Abs((vals[i]-vals[i-1])-step) > 1e-12 {
			t.Fatalf("uneven spacing at index %d", i)
		}
	}
}

func TestLinspaceDegenerate(t *testing.T) {
	if vals := Linspace(1, 2, 0); vals != nil {
		t.Errorf("n=0 should return nil, got %v", vals)
	}
	if vals := Linspace(3, 9, 1); len(vals) != 1 || vals[0] != 3 {
		t.Errorf("n=1 should return [min], got %v", vals)
	}
	vals := Linspace(5, 5, 4)
	for _, v := range vals {
		if v != 5 {
			t.Errorf("collapsed range should repeat min, got %v", vals)
		}
	}
}

func TestNewGridShape(t *testing.T) {
	g, err := New(0, 25, 50)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if g.N() != 50 {
		t.Errorf("expected N=50, got %d", g.N())
	}
	if len(g.Distance) != 50 || len(g.Position) != 50 || len(g.Flux) != 50 {
		t.Fatal("grid arrays should have N rows")
	}
	for i := 0; i < 50; i++ {
		if len(g.Distance[i]) != 50 || len(g.Position[i]) != 50 || len(g.Flux[i]) != 50 {
			t.Fatal("grid arrays should have N columns")
		}
	}

	// Meshgrid orientation: distance varies along columns, position
	// along rows, both drawn from the same axis samples.
	axis := g.Axis()
	for i := 0; i < 50; i++ {
		for j := 0; j < 50; j++ {
			if g.Distance[i][j] != axis[j] {
				t.Fatalf("Distance[%d][%d] != axis[%d]", i, j, j)
			}
			if g.Position[i][j] != axis[i] {
				t.Fatalf("Position[%d][%d] != axis[%d]", i, j, i)
			}
		}
	}
}

func TestNewGridRejectsBadSpec(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
		n        int
	}{
		{"n too small", 0, 25, 1},
		{"inverted range", 25, 0, 100},
		{"nan min", math.NaN(), 25, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.min, tt.max, tt.n); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestComputeMatchesScalar(t *testing.T) {
	geom := testGeometry()

	g, err := New(0, 25, 40)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g.Compute(geom)

	for i := 0; i < g.N(); i++ {
		for j := 0; j < g.N(); j++ {
			want := geom.FluxDensity(g.Distance[i][j], g.Position[i][j])
			if g.Flux[i][j] != want {
				t.Fatalf("grid[%d][%d] = %v, scalar = %v", i, j, g.Flux[i][j], want)
			}
		}
	}
}

func TestComputeEnvelopeMasking(t *testing.T) {
	geom := testGeometry()

	g, err := New(0, 25, 64)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g.Compute(geom)

	for i := 0; i < g.N(); i++ {
		for j := 0; j < g.N(); j++ {
			if g.Position[i][j] > g.Distance[i][j] && g.Flux[i][j] != 0 {
				t.Fatalf("unmasked sample at d=%.3f p=%.3f: %v",
					g.Distance[i][j], g.Position[i][j], g.Flux[i][j])
			}
		}
	}
}

func TestComputeUnsupportedShape(t *testing.T) {
	geom := testGeometry()
	geom.Shape = magnet.Block

	g, err := New(0, 10, 16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g.Compute(geom)

	for i := range g.Flux {
		for j, v := range g.Flux[i] {
			if !math.IsNaN(v) {
				t.Fatalf("expected NaN at [%d][%d], got %v", i, j, v)
			}
		}
	}

	s := g.Summarize()
	if s.NaN != 1.0 {
		t.Errorf("expected NaN fraction 1.0, got %f", s.NaN)
	}
	if !math.IsNaN(s.Min) || !math.IsNaN(s.Max) {
		t.Errorf("all-NaN grid should report NaN min/max")
	}
}

func TestSummarize(t *testing.T) {
	geom := testGeometry()

	g, err := New(0, 25, 100)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g.Compute(geom)

	s := g.Summarize()

	if s.Max <= 0 {
		t.Errorf("peak flux should be positive, got %f", s.Max)
	}
	// The surface peaks where the gap is largest relative to position,
	// at the smallest distance with position at its most negative.
	if s.PeakDistance != 0 {
		t.Errorf("peak should sit at the closed gap, got d=%f", s.PeakDistance)
	}
	if s.Masked <= 0 || s.Masked >= 1 {
		t.Errorf("expected partial masking, got fraction %f", s.Masked)
	}
	if s.NaN != 0 {
		t.Errorf("cylinder grid should have no NaN, got fraction %f", s.NaN)
	}
	if s.Min > s.Max {
		t.Error("min exceeds max")
	}
}

func TestParallelRowsCoversRange(t *testing.T) {
	n := 103
	hit := make([]int32, n)

	parallelRows(n, 4, func(start, end int) {
		for i := start; i < end; i++ {
			hit[i]++
		}
	})

	for i, c := range hit {
		if c != 1 {
			t.Fatalf("row %d visited %d times", i, c)
		}
	}
}

func TestParallelRowsSmallRange(t *testing.T) {
	count := 0
	parallelRows(3, 16, func(start, end int) {
		count += end - start
	})
	if count != 3 {
		t.Errorf("expected 3 rows visited inline, got %d", count)
	}
}
