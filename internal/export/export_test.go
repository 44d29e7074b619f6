package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/lasmithusa/engineered-magnetics/internal/field"
	"github.com/lasmithusa/engineered-magnetics/internal/magnet"
	"github.com/lasmithusa/engineered-magnetics/internal/viz"
)

func testGrid(t *testing.T, shape magnet.Shape, n int) (*field.Grid, magnet.Geometry) {
	t.Helper()
	geom := magnet.Geometry{
		Remanence: 1.21,
		Radius:    7.62,
		Thickness: 2.794,
		Shape:     shape,
	}
	g, err := field.New(0, 25, n)
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}
	g.Compute(geom)
	return g, geom
}

func TestWriteCSV(t *testing.T) {
	g, _ := testGrid(t, magnet.Cylinder, 10)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, g); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}

	if len(records) != 1+10*10 {
		t.Fatalf("expected header + 100 rows, got %d", len(records))
	}
	if records[0][0] != "distance_mm" || records[0][2] != "flux_t" {
		t.Errorf("bad header: %v", records[0])
	}
	for i, rec := range records[1:] {
		if len(rec) != 3 {
			t.Fatalf("row %d has %d fields", i, len(rec))
		}
	}
}

func TestWriteCSVNaN(t *testing.T) {
	g, _ := testGrid(t, magnet.Ring, 4)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, g); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if !strings.Contains(buf.String(), "NaN") {
		t.Error("expected literal NaN values for unsupported shape")
	}
}

func TestWriteJSON(t *testing.T) {
	g, geom := testGrid(t, magnet.Cylinder, 6)

	var buf bytes.Buffer
	if err := WriteJSON(&buf, NewGridData(geom, g)); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded struct {
		Remanence  float64      `json:"remanence"`
		Shape      string       `json:"shape"`
		Resolution int          `json:"resolution"`
		Flux       [][]*float64 `json:"flux_t"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Remanence != 1.21 || decoded.Shape != "cyl" || decoded.Resolution != 6 {
		t.Errorf("metadata mismatch: %+v", decoded)
	}
	if len(decoded.Flux) != 6 || len(decoded.Flux[0]) != 6 {
		t.Errorf("flux array shape wrong")
	}
}

func TestWriteJSONNaNBecomesNull(t *testing.T) {
	g, geom := testGrid(t, magnet.Block, 3)

	var buf bytes.Buffer
	if err := WriteJSON(&buf, NewGridData(geom, g)); err != nil {
		t.Fatalf("WriteJSON with NaN grid: %v", err)
	}

	var decoded struct {
		Flux [][]*float64 `json:"flux_t"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for i := range decoded.Flux {
		for j, v := range decoded.Flux[i] {
			if v != nil {
				t.Fatalf("expected null at [%d][%d], got %v", i, j, *v)
			}
		}
	}
}

func TestCanvasSVG(t *testing.T) {
	g, _ := testGrid(t, magnet.Cylinder, 20)
	cm := viz.NewDiverging()

	mesh := viz.BuildMesh(g, cm, 10)
	canvas := viz.NewCanvas(40, 16)
	mesh.Render(canvas, viz.NewCamera())

	svg := CanvasSVG(canvas, cm, 4)

	if !strings.HasPrefix(svg, `<?xml version="1.0"`) {
		t.Error("missing XML header")
	}
	if !strings.Contains(svg, "<svg") || !strings.HasSuffix(svg, "</svg>") {
		t.Error("not a complete SVG document")
	}
	if !strings.Contains(svg, "<circle") {
		t.Error("expected braille dots as circles")
	}
	// Colored dots should carry ramp colors, not just the fallback.
	if !strings.Contains(svg, "#053061") && !strings.Contains(svg, "#67001f") &&
		!strings.Contains(svg, "#4393c3") && !strings.Contains(svg, "#b2182b") {
		t.Error("expected colormap fills in SVG")
	}
}

func TestCanvasSVGNil(t *testing.T) {
	if s := CanvasSVG(nil, viz.NewDiverging(), 4); s != "" {
		t.Error("nil canvas should yield empty string")
	}
}

func TestSweepSVG(t *testing.T) {
	dists := []float64{0, 5, 10, 15, 20, 25}
	fluxes := []float64{0.4, 0.2, 0.1, 0.05, 0.02, 0.01}

	svg := SweepSVG(dists, fluxes, 400, 200)
	if !strings.Contains(svg, "<path") {
		t.Error("expected path element")
	}
	if SweepSVG(dists[:1], fluxes[:1], 400, 200) != "" {
		t.Error("single point should yield empty string")
	}
	if SweepSVG(dists, fluxes[:3], 400, 200) != "" {
		t.Error("mismatched lengths should yield empty string")
	}
}
