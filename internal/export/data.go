package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"strconv"

	"github.com/lasmithusa/engineered-magnetics/internal/field"
	"github.com/lasmithusa/engineered-magnetics/internal/magnet"
)

// Flux is a float64 that encodes NaN as JSON null, so grids for
// unsupported shapes still export.
type Flux float64

func (f Flux) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(f)) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(float64(f), 'g', -1, 64)), nil
}

// GridData is the JSON export shape: generating parameters plus the
// three parallel arrays of the flux surface.
type GridData struct {
	Remanence  float64     `json:"remanence"`
	Radius     float64     `json:"radius_mm"`
	Thickness  float64     `json:"thickness_mm"`
	Shape      string      `json:"shape"`
	Resolution int         `json:"resolution"`
	Distance   [][]float64 `json:"distance_mm"`
	Position   [][]float64 `json:"position_mm"`
	Flux       [][]Flux    `json:"flux_t"`
}

// NewGridData bundles a computed grid with the geometry that produced it.
func NewGridData(geom magnet.Geometry, g *field.Grid) GridData {
	flux := make([][]Flux, len(g.Flux))
	for i, row := range g.Flux {
		flux[i] = make([]Flux, len(row))
		for j, v := range row {
			flux[i][j] = Flux(v)
		}
	}
	return GridData{
		Remanence:  geom.Remanence,
		Radius:     geom.Radius,
		Thickness:  geom.Thickness,
		Shape:      geom.Shape.String(),
		Resolution: g.N(),
		Distance:   g.Distance,
		Position:   g.Position,
		Flux:       flux,
	}
}

// WriteCSV streams the grid as one row per sample:
// distance_mm, position_mm, flux_t. NaN is emitted literally; readers
// of unsupported-shape exports must expect it.
func WriteCSV(w io.Writer, g *field.Grid) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"distance_mm", "position_mm", "flux_t"}); err != nil {
		return err
	}

	for i := range g.Flux {
		for j := range g.Flux[i] {
			row := []string{
				strconv.FormatFloat(g.Distance[i][j], 'f', 6, 64),
				strconv.FormatFloat(g.Position[i][j], 'f', 6, 64),
				strconv.FormatFloat(g.Flux[i][j], 'f', 9, 64),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON emits the full grid with its generating parameters.
func WriteJSON(w io.Writer, data GridData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
