package analysis

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/amrwatch/surveillance/pkg/common/models"
	"gopkg.in/yaml.v3"
)

// Escalation raises the severity of a rule when the rate clears a higher
// bar.
type Escalation struct {
	Threshold float64 `yaml:"threshold" json:"threshold"`
	Severity  string  `yaml:"severity" json:"severity"`
}

// AlertRule is one row of the clinical threshold table. An empty
// Organisms list scopes the rule to all organisms. Thresholds are
// percentages compared with strict greater-than.
type AlertRule struct {
	Type        string      `yaml:"type" json:"type"`
	Antibiotics []string    `yaml:"antibiotics" json:"antibiotics"`
	Organisms   []string    `yaml:"organisms,omitempty" json:"organisms,omitempty"`
	Threshold   float64     `yaml:"threshold" json:"threshold"`
	Severity    string      `yaml:"severity" json:"severity"`
	Escalation  *Escalation `yaml:"escalation,omitempty" json:"escalation,omitempty"`
}

type ThresholdsConfig struct {
	Rules []AlertRule `yaml:"rules" json:"rules"`
}

func LoadThresholds(path string) (ThresholdsConfig, error) {
	if path == "" {
		return DefaultThresholds(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultThresholds(), err
	}
	var cfg ThresholdsConfig
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return ThresholdsConfig{}, err
	}
	if len(cfg.Rules) == 0 {
		return ThresholdsConfig{}, fmt.Errorf("no alert thresholds configured")
	}
	return cfg, nil
}

// DefaultThresholds encodes the WHO-derived alert matrix: carbapenem
// resistance, third-generation cephalosporin resistance in
// Enterobacteriaceae as an ESBL indicator, and fluoroquinolone
// resistance.
func DefaultThresholds() ThresholdsConfig {
	return ThresholdsConfig{Rules: []AlertRule{
		{
			Type:        "Carbapenem Resistance",
			Antibiotics: []string{"Imipenem", "Meropenem"},
			Threshold:   10,
			Severity:    models.SeverityHigh,
			Escalation:  &Escalation{Threshold: 20, Severity: models.SeverityCritical},
		},
		{
			Type:        "ESBL Indicator",
			Antibiotics: []string{"Ceftriaxone", "Cefotaxime", "Ceftazidime"},
			Organisms:   []string{"Escherichia coli", "Klebsiella spp."},
			Threshold:   30,
			Severity:    models.SeverityHigh,
		},
		{
			Type:        "High Fluoroquinolone Resistance",
			Antibiotics: []string{"Ciprofloxacin", "Levofloxacin"},
			Threshold:   50,
			Severity:    models.SeverityModerate,
			Escalation:  &Escalation{Threshold: 70, Severity: models.SeverityHigh},
		},
	}}
}

// AlertEngine evaluates the threshold table against aggregated
// resistance rates. It holds no state between evaluations.
type AlertEngine struct {
	rules []AlertRule
}

func NewAlertEngine(cfg ThresholdsConfig) *AlertEngine {
	return &AlertEngine{rules: cfg.Rules}
}

// Evaluate emits one Alert per (rule, antibiotic) pair whose aggregated
// rate clears the rule threshold. Antibiotics with no tested specimens
// in the rule's scope are skipped silently.
func (e *AlertEngine) Evaluate(isolates []models.Isolate) []models.Alert {
	alerts := make([]models.Alert, 0)

	for _, rule := range e.rules {
		scoped := isolates
		if len(rule.Organisms) > 0 {
			scoped = filterOrganisms(isolates, rule.Organisms)
		}

		for _, rec := range ResistanceRates(scoped, rule.Antibiotics, Filter{}) {
			if rec.NTested == 0 || math.IsNaN(rec.Rate) {
				continue
			}
			if rec.Rate <= rule.Threshold {
				continue
			}

			severity := rule.Severity
			if rule.Escalation != nil && rec.Rate > rule.Escalation.Threshold {
				severity = rule.Escalation.Severity
			}

			alerts = append(alerts, models.Alert{
				Type:       rule.Type,
				Antibiotic: rec.Antibiotic,
				Rate:       rec.Rate,
				Severity:   severity,
			})
		}
	}

	return alerts
}

func filterOrganisms(isolates []models.Isolate, organisms []string) []models.Isolate {
	allowed := make(map[string]struct{}, len(organisms))
	for _, org := range organisms {
		allowed[org] = struct{}{}
	}
	out := make([]models.Isolate, 0, len(isolates))
	for _, iso := range isolates {
		if _, ok := allowed[iso.Organism]; ok {
			out = append(out, iso)
		}
	}
	return out
}
