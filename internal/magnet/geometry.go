package magnet

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidGeometry indicates a geometry with non-positive dimensions or remanence.
var ErrInvalidGeometry = errors.New("magnet: invalid geometry")

// Shape identifies the magnet cross-section.
type Shape int

const (
	Cylinder Shape = iota
	Block
	Ring
)

func (s Shape) String() string {
	switch s {
	case Cylinder:
		return "cyl"
	case Block:
		return "block"
	case Ring:
		return "ring"
	}
	return "unknown"
}

// ParseShape maps a config/flag string to a Shape.
func ParseShape(name string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cyl", "cylinder":
		return Cylinder, nil
	case "block":
		return Block, nil
	case "ring":
		return Ring, nil
	}
	return Cylinder, fmt.Errorf("unknown shape: %q (want cyl, block, or ring)", name)
}

// Supported reports whether the flux formula for this shape is implemented.
// Block and ring evaluate to NaN everywhere.
func (s Shape) Supported() bool {
	return s == Cylinder
}

// Geometry describes one of a pair of identical opposed magnets.
// Dimensions are in millimeters, remanence in Tesla.
type Geometry struct {
	Remanence float64 // residual flux density Br of the magnet grade
	Radius    float64
	Thickness float64
	Shape     Shape
}

// Validate fails fast on parameters that would drive the formula to
// NaN or Inf (division by zero in the pole terms).
func (g Geometry) Validate() error {
	switch {
	case g.Remanence <= 0:
		return fmt.Errorf("%w: remanence %.4g T, must be > 0", ErrInvalidGeometry, g.Remanence)
	case g.Radius <= 0:
		return fmt.Errorf("%w: radius %.4g mm, must be > 0", ErrInvalidGeometry, g.Radius)
	case g.Thickness <= 0:
		return fmt.Errorf("%w: thickness %.4g mm, must be > 0", ErrInvalidGeometry, g.Thickness)
	}
	return nil
}

// Params exposes the tunable values for interactive adjustment.
func (g Geometry) Params() map[string]float64 {
	return map[string]float64{
		"remanence": g.Remanence,
		"radius":    g.Radius,
		"thickness": g.Thickness,
	}
}

// WithParam returns a copy with one named parameter replaced.
func (g Geometry) WithParam(name string, value float64) (Geometry, error) {
	switch name {
	case "remanence":
		g.Remanence = value
	case "radius":
		g.Radius = value
	case "thickness":
		g.Thickness = value
	default:
		return g, fmt.Errorf("unknown param: %s", name)
	}
	return g, nil
}
