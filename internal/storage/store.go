package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lasmithusa/engineered-magnetics/internal/export"
	"github.com/lasmithusa/engineered-magnetics/internal/field"
	"github.com/lasmithusa/engineered-magnetics/internal/magnet"
)

// Store persists computed flux surfaces under a data directory, one
// subdirectory per run holding metadata.json and grid.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Remanence  float64   `json:"remanence"`
	Radius     float64   `json:"radius_mm"`
	Thickness  float64   `json:"thickness_mm"`
	Shape      string    `json:"shape"`
	DistMin    float64   `json:"dist_min_mm"`
	DistMax    float64   `json:"dist_max_mm"`
	Resolution int       `json:"resolution"`
	PeakFlux   float64   `json:"peak_flux_t"`
}

// Save writes one computed surface and returns its run ID.
func (s *Store) Save(geom magnet.Geometry, g *field.Grid) (string, error) {
	runID := fmt.Sprintf("flux_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	axis := g.Axis()
	stats := g.Summarize()

	meta := RunMetadata{
		ID:         runID,
		Timestamp:  time.Now(),
		Remanence:  geom.Remanence,
		Radius:     geom.Radius,
		Thickness:  geom.Thickness,
		Shape:      geom.Shape.String(),
		DistMin:    axis[0],
		DistMax:    axis[len(axis)-1],
		Resolution: g.N(),
		PeakFlux:   stats.Max,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "grid.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := export.WriteCSV(csvFile, g); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns metadata for every saved run, skipping unreadable ones.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadGrid reads a saved surface back into memory. The CSV carries one
// sample per row; the run's resolution restores the square shape.
func (s *Store) LoadGrid(runID string) (*field.Grid, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, "grid.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	n := meta.Resolution
	if len(records) != 1+n*n {
		return nil, fmt.Errorf("storage: grid.csv has %d rows, want %d", len(records), 1+n*n)
	}

	g, err := field.New(meta.DistMin, meta.DistMax, n)
	if err != nil {
		return nil, err
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			rec := records[1+i*n+j]
			flux, err := strconv.ParseFloat(rec[2], 64)
			if err != nil {
				return nil, fmt.Errorf("storage: bad flux at row %d: %w", 1+i*n+j, err)
			}
			g.Flux[i][j] = flux
		}
	}

	return g, nil
}
