package analysis

import (
	"testing"

	"github.com/amrwatch/surveillance/pkg/common/models"
)

func TestClassifySingleClassStaysResistant(t *testing.T) {
	classifier := NewClassifier(DefaultTaxonomy())

	// Two resistant carbapenems are still one resistant class.
	status := classifier.Classify(map[string]string{
		"Imipenem":  models.OutcomeResistant,
		"Meropenem": models.OutcomeResistant,
	})
	if status != models.MDRResistant {
		t.Fatalf("expected Resistant, got %q", status)
	}
}

func TestClassifyThreeClassesIsMDR(t *testing.T) {
	classifier := NewClassifier(DefaultTaxonomy())

	status := classifier.Classify(map[string]string{
		"Imipenem":      models.OutcomeResistant, // Carbapenems
		"Ciprofloxacin": models.OutcomeResistant, // Fluoroquinolones
		"Gentamicin":    models.OutcomeResistant, // Aminoglycosides
		"Ceftriaxone":   models.OutcomeSensitive,
	})
	if status != models.MDRStatusMDR {
		t.Fatalf("expected MDR, got %q", status)
	}
}

func TestClassifyNoResistance(t *testing.T) {
	classifier := NewClassifier(DefaultTaxonomy())

	status := classifier.Classify(map[string]string{
		"Ciprofloxacin": models.OutcomeSensitive,
		"Gentamicin":    models.OutcomeIntermediate,
	})
	if status != models.MDRSusceptible {
		t.Fatalf("expected Susceptible, got %q", status)
	}
	if status := classifier.Classify(nil); status != models.MDRSusceptible {
		t.Fatalf("expected Susceptible for empty results, got %q", status)
	}
}

func TestResistantClassesInTaxonomyOrder(t *testing.T) {
	classifier := NewClassifier(DefaultTaxonomy())

	classes := classifier.ResistantClasses(map[string]string{
		"Ciprofloxacin": models.OutcomeResistant,
		"Imipenem":      models.OutcomeResistant,
	})
	if len(classes) != 2 {
		t.Fatalf("expected two classes, got %v", classes)
	}
	if classes[0] != "Carbapenems" || classes[1] != "Fluoroquinolones" {
		t.Fatalf("expected taxonomy order [Carbapenems Fluoroquinolones], got %v", classes)
	}
}

func TestMDRPrevalenceTables(t *testing.T) {
	year2020, year2021 := 2020, 2021
	isolates := []models.Isolate{
		{ID: "a", Organism: "Escherichia coli", Year: &year2020, MDRStatus: models.MDRStatusMDR},
		{ID: "b", Organism: "Escherichia coli", Year: &year2020, MDRStatus: models.MDRSusceptible},
		{ID: "c", Organism: "Klebsiella spp.", Year: &year2021, MDRStatus: models.MDRStatusMDR},
		{ID: "d", Organism: "Klebsiella spp.", Year: &year2021, MDRStatus: models.MDRResistant},
	}

	prevalence := MDRPrevalence(isolates)
	if prevalence.Overall.Total != 4 || prevalence.Overall.MDRCount != 2 {
		t.Fatalf("unexpected overall tally: %+v", prevalence.Overall)
	}
	if prevalence.Overall.Rate != 50 {
		t.Fatalf("expected overall rate 50, got %v", prevalence.Overall.Rate)
	}

	if len(prevalence.ByOrganism) != 2 {
		t.Fatalf("expected two organism rows, got %+v", prevalence.ByOrganism)
	}
	if prevalence.ByOrganism[0].Label != "Escherichia coli" {
		t.Fatalf("expected organisms sorted alphabetically, got %+v", prevalence.ByOrganism)
	}

	if len(prevalence.ByYear) != 2 || prevalence.ByYear[0].Label != "2020" || prevalence.ByYear[1].Label != "2021" {
		t.Fatalf("expected year rows [2020 2021], got %+v", prevalence.ByYear)
	}
}

func TestMDRPrevalenceEmptySet(t *testing.T) {
	prevalence := MDRPrevalence(nil)
	if prevalence.Overall.Total != 0 || prevalence.Overall.Rate != 0 {
		t.Fatalf("expected zero overall row, got %+v", prevalence.Overall)
	}
}
