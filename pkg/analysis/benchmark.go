package analysis

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/amrwatch/surveillance/pkg/common/models"
	"gopkg.in/yaml.v3"
)

// BenchmarkEntry holds reference resistance medians (percent) for one
// (organism, antibiotic) pair.
type BenchmarkEntry struct {
	GlobalMedian   float64 `yaml:"global_median" json:"global_median"`
	RegionalMedian float64 `yaml:"regional_median" json:"regional_median"`
}

// BenchmarkTable maps organism -> antibiotic -> reference medians.
type BenchmarkTable struct {
	Organisms map[string]map[string]BenchmarkEntry `yaml:"organisms" json:"organisms"`
}

func LoadBenchmarks(path string) (BenchmarkTable, error) {
	if path == "" {
		return DefaultBenchmarks(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultBenchmarks(), err
	}
	var tbl BenchmarkTable
	if err := yaml.Unmarshal(content, &tbl); err != nil {
		return BenchmarkTable{}, err
	}
	if len(tbl.Organisms) == 0 {
		return BenchmarkTable{}, fmt.Errorf("benchmark table empty")
	}
	return tbl, nil
}

// DefaultBenchmarks carries approximate WHO GLASS 2022 medians; the
// regional figures are for the Eastern Mediterranean region.
func DefaultBenchmarks() BenchmarkTable {
	return BenchmarkTable{Organisms: map[string]map[string]BenchmarkEntry{
		"Escherichia coli": {
			"Ciprofloxacin": {GlobalMedian: 45, RegionalMedian: 55},
			"Ceftriaxone":   {GlobalMedian: 30, RegionalMedian: 40},
			"Amikacin":      {GlobalMedian: 5, RegionalMedian: 10},
		},
		"Klebsiella spp.": {
			"Ciprofloxacin": {GlobalMedian: 50, RegionalMedian: 60},
			"Ceftriaxone":   {GlobalMedian: 45, RegionalMedian: 55},
			"Meropenem":     {GlobalMedian: 10, RegionalMedian: 20},
		},
		"Staphylococcus aureus": {
			"Oxacillin":  {GlobalMedian: 35, RegionalMedian: 45}, // MRSA proxy
			"Vancomycin": {GlobalMedian: 0.5, RegionalMedian: 1},
		},
	}}
}

// Compare matches local rate records against the reference table. Pairs
// absent from the table, and records without tested specimens, are
// skipped rather than defaulted. Comparison is strict greater-than.
func (t BenchmarkTable) Compare(rates []models.RateRecord) []models.BenchmarkComparison {
	comparisons := make([]models.BenchmarkComparison, 0)

	for _, rec := range rates {
		if rec.NTested == 0 || math.IsNaN(rec.Rate) {
			continue
		}
		byAntibiotic, ok := t.Organisms[rec.Organism]
		if !ok {
			continue
		}
		entry, ok := byAntibiotic[rec.Antibiotic]
		if !ok {
			continue
		}

		comparisons = append(comparisons, models.BenchmarkComparison{
			Organism:       rec.Organism,
			Antibiotic:     rec.Antibiotic,
			LocalRate:      rec.Rate,
			GlobalMedian:   entry.GlobalMedian,
			RegionalMedian: entry.RegionalMedian,
			VsGlobal:       higherLower(rec.Rate, entry.GlobalMedian),
			VsRegional:     higherLower(rec.Rate, entry.RegionalMedian),
		})
	}

	return comparisons
}

func higherLower(local, reference float64) string {
	if local > reference {
		return "Higher"
	}
	return "Lower"
}
