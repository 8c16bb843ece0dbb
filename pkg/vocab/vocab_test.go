package vocab

import "testing"

func TestAntibioticResolution(t *testing.T) {
	tables := DefaultTables()

	name, ok := tables.Antibiotic("cip")
	if !ok || name != "Ciprofloxacin" {
		t.Fatalf("expected CIP -> Ciprofloxacin, got %q ok=%v", name, ok)
	}

	// Already-canonical names resolve to themselves, case-insensitively.
	name, ok = tables.Antibiotic("meropenem")
	if !ok || name != "Meropenem" {
		t.Fatalf("expected canonical passthrough, got %q ok=%v", name, ok)
	}

	if _, ok := tables.Antibiotic("patient_id"); ok {
		t.Fatal("expected unknown column to be rejected")
	}
	if _, ok := tables.Antibiotic("  "); ok {
		t.Fatal("expected blank code to be rejected")
	}
}

func TestResultResolution(t *testing.T) {
	tables := DefaultTables()

	cases := map[string]string{
		"S":              "Sensitive",
		"r":              "Resistant",
		"IM":             "Intermediate",
		"Resistant (R)":  "Resistant",
		"sensitive dose": "Sensitive", // substring fallback
	}
	for raw, want := range cases {
		got, ok := tables.Result(raw)
		if !ok || got != want {
			t.Fatalf("%q: expected %q, got %q ok=%v", raw, want, got, ok)
		}
	}

	if _, ok := tables.Result("42"); ok {
		t.Fatal("expected numeric junk to read as not tested")
	}
	if _, ok := tables.Result(""); ok {
		t.Fatal("expected empty value to read as not tested")
	}
}

func TestOrganismResolution(t *testing.T) {
	tables := DefaultTables()

	// Exact map, including historical typos.
	if got := tables.Organism("Kle bsiella"); got != "Klebsiella spp." {
		t.Fatalf("expected typo mapping, got %q", got)
	}
	// Substring pattern.
	if got := tables.Organism("heavy growth of e coli"); got != "Escherichia coli" {
		t.Fatalf("expected pattern match, got %q", got)
	}
	// Species pattern beats the genus pattern.
	if got := tables.Organism("staphylococcus aureus isolate"); got != "Staphylococcus aureus" {
		t.Fatalf("expected species-level match, got %q", got)
	}
	// Unmatched labels pass through unchanged.
	if got := tables.Organism("Serratia marcescens"); got != "Serratia marcescens" {
		t.Fatalf("expected passthrough, got %q", got)
	}
	if got := tables.Organism("  "); got != "" {
		t.Fatalf("expected empty for blank input, got %q", got)
	}
}

func TestSampleTypeResolution(t *testing.T) {
	tables := DefaultTables()

	if got := tables.SampleType("mid-stream URINE"); got != "Urine" {
		t.Fatalf("expected Urine, got %q", got)
	}
	if got := tables.SampleType("high vaginal swab"); got != "HVS" {
		t.Fatalf("expected HVS, got %q", got)
	}
	if got := tables.SampleType("pleural fluid"); got != "Pleural Fluid" {
		t.Fatalf("expected title-cased passthrough, got %q", got)
	}
}

func TestLoadFallsBackToDefaults(t *testing.T) {
	tables, err := Load("")
	if err != nil {
		t.Fatalf("expected built-in tables, got error %v", err)
	}
	if len(tables.Antibiotics) == 0 || len(tables.Results) == 0 {
		t.Fatal("expected populated default tables")
	}
}
