package analysis

import (
	"math"
	"testing"

	"github.com/amrwatch/surveillance/pkg/common/models"
)

func makeIsolate(organism string, year int, results map[string]string) models.Isolate {
	y := year
	return models.Isolate{
		ID:       organism + "-" + string(rune('0'+year%10)),
		Organism: organism,
		Year:     &y,
		Results:  results,
	}
}

func TestResistanceRatesCounts(t *testing.T) {
	isolates := []models.Isolate{
		makeIsolate("Escherichia coli", 2021, map[string]string{"Ciprofloxacin": models.OutcomeResistant}),
		makeIsolate("Escherichia coli", 2021, map[string]string{"Ciprofloxacin": models.OutcomeResistant}),
		makeIsolate("Escherichia coli", 2021, map[string]string{"Ciprofloxacin": models.OutcomeSensitive}),
		makeIsolate("Escherichia coli", 2021, map[string]string{"Ciprofloxacin": models.OutcomeIntermediate}),
	}

	records := ResistanceRates(isolates, []string{"Ciprofloxacin"}, Filter{})
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}

	rec := records[0]
	if rec.NTested != 4 || rec.NResistant != 2 || rec.NSensitive != 1 || rec.NIntermediate != 1 {
		t.Fatalf("unexpected counts: %+v", rec)
	}
	if rec.Rate != 50 {
		t.Fatalf("expected rate 50, got %v", rec.Rate)
	}
	if rec.CILower >= rec.Rate || rec.CIUpper <= rec.Rate {
		t.Fatalf("confidence interval [%v,%v] does not bracket rate %v", rec.CILower, rec.CIUpper, rec.Rate)
	}
}

func TestResistanceRatesUntestedAntibioticIsNaN(t *testing.T) {
	isolates := []models.Isolate{
		makeIsolate("Escherichia coli", 2021, map[string]string{"Ciprofloxacin": models.OutcomeResistant}),
	}

	records := ResistanceRates(isolates, []string{"Vancomycin"}, Filter{})
	if records[0].NTested != 0 {
		t.Fatalf("expected zero tested, got %d", records[0].NTested)
	}
	if !math.IsNaN(records[0].Rate) {
		t.Fatalf("expected NaN rate for untested antibiotic, got %v", records[0].Rate)
	}
}

func TestResistanceRatesOrganismFilter(t *testing.T) {
	isolates := []models.Isolate{
		makeIsolate("Escherichia coli", 2021, map[string]string{"Ciprofloxacin": models.OutcomeResistant}),
		makeIsolate("Klebsiella spp.", 2021, map[string]string{"Ciprofloxacin": models.OutcomeSensitive}),
	}

	records := ResistanceRates(isolates, []string{"Ciprofloxacin"}, Filter{Organism: "Escherichia coli"})
	if records[0].NTested != 1 || records[0].NResistant != 1 {
		t.Fatalf("filter leaked other organisms: %+v", records[0])
	}
	if records[0].Organism != "Escherichia coli" {
		t.Fatalf("expected organism carried on record, got %q", records[0].Organism)
	}
}

func TestResistanceRatesYearFilter(t *testing.T) {
	isolates := []models.Isolate{
		makeIsolate("Escherichia coli", 2020, map[string]string{"Ciprofloxacin": models.OutcomeResistant}),
		makeIsolate("Escherichia coli", 2021, map[string]string{"Ciprofloxacin": models.OutcomeSensitive}),
		{ID: "undated", Organism: "Escherichia coli", Results: map[string]string{"Ciprofloxacin": models.OutcomeResistant}},
	}

	year := 2020
	records := ResistanceRates(isolates, []string{"Ciprofloxacin"}, Filter{Year: &year})
	if records[0].NTested != 1 || records[0].NResistant != 1 {
		t.Fatalf("year filter failed: %+v", records[0])
	}
	if records[0].Year == nil || *records[0].Year != 2020 {
		t.Fatalf("expected year carried on record, got %v", records[0].Year)
	}
}

func TestResistanceRatesDoesNotMutateInput(t *testing.T) {
	results := map[string]string{"Ciprofloxacin": models.OutcomeResistant}
	isolates := []models.Isolate{makeIsolate("Escherichia coli", 2021, results)}

	ResistanceRates(isolates, []string{"Ciprofloxacin"}, Filter{})
	ResistanceRates(isolates, []string{"Ciprofloxacin"}, Filter{})

	if len(results) != 1 || results["Ciprofloxacin"] != models.OutcomeResistant {
		t.Fatalf("input results mutated: %v", results)
	}
}

func TestYearlyRatesSkipsEmptyYearsAndSorts(t *testing.T) {
	isolates := []models.Isolate{
		makeIsolate("Escherichia coli", 2022, map[string]string{"Ciprofloxacin": models.OutcomeResistant}),
		makeIsolate("Escherichia coli", 2019, map[string]string{"Ciprofloxacin": models.OutcomeSensitive}),
		// 2020 exists but was never tested against ciprofloxacin.
		makeIsolate("Escherichia coli", 2020, map[string]string{"Meropenem": models.OutcomeSensitive}),
		{ID: "undated", Organism: "Escherichia coli", Results: map[string]string{"Ciprofloxacin": models.OutcomeResistant}},
	}

	series := YearlyRates(isolates, "Ciprofloxacin", "Escherichia coli")
	if len(series) != 2 {
		t.Fatalf("expected two populated years, got %d: %+v", len(series), series)
	}
	if series[0].Year != 2019 || series[1].Year != 2022 {
		t.Fatalf("expected ascending years [2019 2022], got [%d %d]", series[0].Year, series[1].Year)
	}
	if series[0].Rate != 0 || series[1].Rate != 100 {
		t.Fatalf("unexpected rates: %+v", series)
	}
}
