package analysis

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultTaxonomyClasses(t *testing.T) {
	tax := DefaultTaxonomy()
	if len(tax.Classes) != 9 {
		t.Fatalf("expected nine antimicrobial classes, got %d", len(tax.Classes))
	}

	byName := make(map[string][]string)
	for _, class := range tax.Classes {
		byName[class.Name] = class.Members
	}
	carbapenems, ok := byName["Carbapenems"]
	if !ok {
		t.Fatal("expected a Carbapenems class")
	}
	if len(carbapenems) != 2 {
		t.Fatalf("expected Imipenem and Meropenem, got %v", carbapenems)
	}
}

func TestLoadTaxonomyFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classes.yaml")
	content := []byte(`classes:
  - name: Carbapenems
    members: [Imipenem, Meropenem]
  - name: Fluoroquinolones
    members: [Ciprofloxacin]
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	tax, err := LoadTaxonomy(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(tax.Classes) != 2 || tax.Classes[0].Name != "Carbapenems" {
		t.Fatalf("unexpected taxonomy: %+v", tax)
	}
}

func TestLoadTaxonomyEmptyPathUsesDefaults(t *testing.T) {
	tax, err := LoadTaxonomy("")
	if err != nil {
		t.Fatalf("expected built-in taxonomy, got %v", err)
	}
	if len(tax.Classes) == 0 {
		t.Fatal("expected populated default taxonomy")
	}
}

func TestLoadThresholdsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	content := []byte(`rules:
  - type: Carbapenem Resistance
    antibiotics: [Meropenem]
    threshold: 5
    severity: HIGH
    escalation:
      threshold: 15
      severity: CRITICAL
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := LoadThresholds(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(cfg.Rules) != 1 {
		t.Fatalf("expected one rule, got %+v", cfg.Rules)
	}
	rule := cfg.Rules[0]
	if rule.Threshold != 5 || rule.Escalation == nil || rule.Escalation.Threshold != 15 {
		t.Fatalf("unexpected rule: %+v", rule)
	}
}
