package analysis

import (
	"errors"
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

func TestSweepMonotoneDecay(t *testing.T) {
	points := Sweep(testGeometry(), 0, 25, 100)

	if len(points) != 100 {
		t.Fatalf("expected 100 points, got %d", len(points))
	}
	if points[0].Distance != 0 || points[99].Distance != 25 {
		t.Errorf("sweep should cover both endpoints, got [%f, %f]",
			points[0].Distance, points[99].Distance)
	}

	for i := 1; i < len(points); i++ {
		if points[i].Flux >= points[i-1].Flux {
			t.Fatalf("midpoint flux should strictly decay: B(%.2f)=%.6f >= B(%.2f)=%.6f",
				points[i].Distance, points[i].Flux, points[i-1].Distance, points[i-1].Flux)
		}
	}
}

func TestSweepMatchesScalar(t *testing.T) {
	geom := testGeometry()
	points := Sweep(geom, 0, 10, 11)
	for _, p := range points {
		if p.Flux != geom.FluxDensity(p.Distance, 0) {
			t.Errorf("sweep point at d=%.2f differs from scalar evaluator", p.Distance)
		}
	}
}

func TestFindGap(t *testing.T) {
	geom := testGeometry()

	target := 0.2
	gap, err := FindGap(geom, target, 0, 25)
	if err != nil {
		t.Fatalf("FindGap: %v", err)
	}

	if got := geom.FluxDensity(gap, 0); got < target {
		t.Errorf("flux at found gap %.4f mm is %.6f, below target %.6f", gap, got, target)
	}
	// Just past the found gap the target is no longer met.
	if got := geom.FluxDensity(gap+0.01, 0); got >= target {
		t.Errorf("gap %.4f mm is not maximal: flux %.6f still meets target", gap, got)
	}
}

func TestFindGapWholeRangeMeetsTarget(t *testing.T) {
	geom := testGeometry()

	// Even the widest gap delivers more than a tiny target.
	gap, err := FindGap(geom, 1e-6, 0, 25)
	if err != nil {
		t.Fatalf("FindGap: %v", err)
	}
	if gap != 25 {
		t.Errorf("expected full range 25, got %f", gap)
	}
}

func TestFindGapUnreachable(t *testing.T) {
	geom := testGeometry()

	// More flux than the closed gap produces.
	_, err := FindGap(geom, 1.0, 0, 25)
	if !errors.Is(err, ErrTargetUnreachable) {
		t.Errorf("expected ErrTargetUnreachable, got %v", err)
	}

	// Unsupported shapes cannot meet any target.
	geom.Shape = magnet.Ring
	_, err = FindGap(geom, 0.1, 0, 25)
	if !errors.Is(err, ErrTargetUnreachable) {
		t.Errorf("expected ErrTargetUnreachable for ring, got %v", err)
	}
}

func TestFluxes(t *testing.T) {
	points := Sweep(testGeometry(), 0, 5, 10)
	fluxes := Fluxes(points)
	if len(fluxes) != len(points) {
		t.Fatalf("length mismatch")
	}
	for i := range points {
		if fluxes[i] != points[i].Flux {
			t.Errorf("flux %d mismatch", i)
		}
		if math.IsNaN(fluxes[i]) {
			t.Errorf("unexpected NaN at %d", i)
		}
	}
}
