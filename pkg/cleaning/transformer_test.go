package cleaning

import (
	"testing"

	"github.com/amrwatch/surveillance/pkg/analysis"
	"github.com/amrwatch/surveillance/pkg/common/models"
	"github.com/amrwatch/surveillance/pkg/vocab"
)

func newTestTransformer() *Transformer {
	return NewTransformer(vocab.DefaultTables(), analysis.NewClassifier(analysis.DefaultTaxonomy()))
}

func TestTransformFullRow(t *testing.T) {
	transformer := newTestTransformer()

	iso, err := transformer.Transform(map[string]interface{}{
		"date":     "15.06.2021",
		"sex":      "f",
		"age":      -34.0,
		"sample":   "urine sample",
		"bacteria": "e coli",
		"CIP":      "R",
		"MEM":      "s",
		"CRO":      "Resistant (R)",
		"ZZZ":      "R", // unknown column, dropped
	})
	if err != nil {
		t.Fatalf("transform failed: %v", err)
	}

	if iso.ID == "" {
		t.Fatal("expected generated id")
	}
	if iso.Year == nil || *iso.Year != 2021 {
		t.Fatalf("expected year 2021, got %v", iso.Year)
	}
	if iso.Gender != "Female" {
		t.Fatalf("expected Female, got %q", iso.Gender)
	}
	if iso.Age == nil || *iso.Age != 34 {
		t.Fatalf("expected negative age flipped to 34, got %v", iso.Age)
	}
	if iso.SampleType != "Urine" {
		t.Fatalf("expected Urine, got %q", iso.SampleType)
	}
	if iso.Organism != "Escherichia coli" {
		t.Fatalf("expected Escherichia coli, got %q", iso.Organism)
	}

	want := map[string]string{
		"Ciprofloxacin": models.OutcomeResistant,
		"Meropenem":     models.OutcomeSensitive,
		"Ceftriaxone":   models.OutcomeResistant,
	}
	if len(iso.Results) != len(want) {
		t.Fatalf("unexpected results: %v", iso.Results)
	}
	for abx, outcome := range want {
		if iso.Results[abx] != outcome {
			t.Fatalf("expected %s=%s, got %q", abx, outcome, iso.Results[abx])
		}
	}
}

func TestTransformEmptyRow(t *testing.T) {
	if _, err := newTestTransformer().Transform(nil); err == nil {
		t.Fatal("expected error for empty row")
	}
}

func TestTransformComputesMDRStatus(t *testing.T) {
	transformer := newTestTransformer()

	iso, err := transformer.Transform(map[string]interface{}{
		"bacteria": "Klebsiella",
		"IPM":      "R", // Carbapenems
		"CIP":      "R", // Fluoroquinolones
		"CN":       "R", // Aminoglycosides
	})
	if err != nil {
		t.Fatalf("transform failed: %v", err)
	}
	if iso.MDRStatus != models.MDRStatusMDR {
		t.Fatalf("expected MDR, got %q", iso.MDRStatus)
	}
}

func TestParseDateFormats(t *testing.T) {
	cases := []string{
		"2021-06-15",
		"15.06.2021",
		"15/06/2021",
		"15,06,2021",
		"15-06-2021",
		"2021/06/15",
	}
	for _, raw := range cases {
		parsed, ok := parseDate(raw)
		if !ok {
			t.Fatalf("failed to parse %q", raw)
		}
		if parsed.Year() != 2021 || parsed.Month() != 6 || parsed.Day() != 15 {
			t.Fatalf("%q parsed to %v", raw, parsed)
		}
	}
}

func TestParseDateDayFirstWins(t *testing.T) {
	// Ambiguous slash dates resolve day-first.
	parsed, ok := parseDate("03/04/2021")
	if !ok {
		t.Fatal("failed to parse ambiguous date")
	}
	if parsed.Day() != 3 || parsed.Month() != 4 {
		t.Fatalf("expected 3 April, got %v", parsed)
	}
}

func TestTransformUnparseableDate(t *testing.T) {
	iso, err := newTestTransformer().Transform(map[string]interface{}{
		"date":     "sometime last week",
		"bacteria": "E.coli",
	})
	if err != nil {
		t.Fatalf("transform failed: %v", err)
	}
	if iso.SampleDate != nil || iso.Year != nil {
		t.Fatalf("expected missing date, got %v / %v", iso.SampleDate, iso.Year)
	}
}

func TestCleanAge(t *testing.T) {
	if age := cleanAge(45.0); age == nil || *age != 45 {
		t.Fatalf("expected 45, got %v", age)
	}
	if age := cleanAge(" 27 "); age == nil || *age != 27 {
		t.Fatalf("expected string age 27, got %v", age)
	}
	if age := cleanAge(-5); age == nil || *age != 5 {
		t.Fatalf("expected sign flip to 5, got %v", age)
	}
	if age := cleanAge(300.0); age != nil {
		t.Fatalf("expected implausible age dropped, got %v", age)
	}
	if age := cleanAge("n/a"); age != nil {
		t.Fatalf("expected unparseable age dropped, got %v", age)
	}
	if age := cleanAge(nil); age != nil {
		t.Fatalf("expected nil for missing value, got %v", age)
	}
}

func TestStandardizeGender(t *testing.T) {
	if got := standardizeGender(" male "); got != "Male" {
		t.Fatalf("expected Male, got %q", got)
	}
	if got := standardizeGender("F"); got != "Female" {
		t.Fatalf("expected Female, got %q", got)
	}
	if got := standardizeGender("unknown"); got != "" {
		t.Fatalf("expected empty for unknown, got %q", got)
	}
}
