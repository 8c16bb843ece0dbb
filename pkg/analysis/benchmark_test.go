package analysis

import (
	"math"
	"testing"

	"github.com/amrwatch/surveillance/pkg/common/models"
)

func TestBenchmarkCompare(t *testing.T) {
	table := DefaultBenchmarks()

	rates := []models.RateRecord{
		{Organism: "Escherichia coli", Antibiotic: "Ciprofloxacin", NTested: 50, Rate: 50},
	}

	comparisons := table.Compare(rates)
	if len(comparisons) != 1 {
		t.Fatalf("expected one comparison, got %+v", comparisons)
	}

	c := comparisons[0]
	// Global median 45, regional 55.
	if c.VsGlobal != "Higher" {
		t.Fatalf("50%% vs global 45%%: expected Higher, got %q", c.VsGlobal)
	}
	if c.VsRegional != "Lower" {
		t.Fatalf("50%% vs regional 55%%: expected Lower, got %q", c.VsRegional)
	}
	if c.GlobalMedian != 45 || c.RegionalMedian != 55 {
		t.Fatalf("reference medians not carried: %+v", c)
	}
}

func TestBenchmarkCompareEqualIsLower(t *testing.T) {
	table := DefaultBenchmarks()

	rates := []models.RateRecord{
		{Organism: "Escherichia coli", Antibiotic: "Ciprofloxacin", NTested: 50, Rate: 45},
	}
	comparisons := table.Compare(rates)
	if comparisons[0].VsGlobal != "Lower" {
		t.Fatalf("a rate equal to the median is not above it, got %q", comparisons[0].VsGlobal)
	}
}

func TestBenchmarkCompareSkipsUnmatched(t *testing.T) {
	table := DefaultBenchmarks()

	rates := []models.RateRecord{
		{Organism: "Proteus spp.", Antibiotic: "Ciprofloxacin", NTested: 10, Rate: 30},
		{Organism: "Escherichia coli", Antibiotic: "Vancomycin", NTested: 10, Rate: 30},
		{Organism: "Escherichia coli", Antibiotic: "Ciprofloxacin", NTested: 0, Rate: math.NaN()},
	}
	if comparisons := table.Compare(rates); len(comparisons) != 0 {
		t.Fatalf("expected all records skipped, got %+v", comparisons)
	}
}
