package config

import "sort"

// Typical remanence values (Tesla) for sintered NdFeB grades. Nominal
// mid-range figures; actual Br varies by supplier batch.
var grades = map[string]float64{
	"n35": 1.18,
	"n38": 1.21,
	"n40": 1.26,
	"n42": 1.30,
	"n45": 1.35,
	"n48": 1.39,
	"n52": 1.44,
}

// GradeRemanence looks up the remanence for a named magnet grade.
func GradeRemanence(name string) (float64, bool) {
	br, ok := grades[name]
	return br, ok
}

// ListGrades returns the known grade names in ascending order.
func ListGrades() []string {
	names := make([]string, 0, len(grades))
	for name := range grades {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
