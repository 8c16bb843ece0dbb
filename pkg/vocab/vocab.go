package vocab

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Pattern maps a lowercase substring to a canonical label. Patterns are
// evaluated in order; the first match wins.
type Pattern struct {
	Contains  string `yaml:"contains" json:"contains"`
	Canonical string `yaml:"canonical" json:"canonical"`
}

// Tables holds the closed vocabularies used to normalize raw laboratory
// encodings. Exact-match maps are tried before substring patterns.
type Tables struct {
	Antibiotics      map[string]string `yaml:"antibiotics" json:"antibiotics"`
	Results          map[string]string `yaml:"results" json:"results"`
	Organisms        map[string]string `yaml:"organisms" json:"organisms"`
	OrganismPatterns []Pattern         `yaml:"organism_patterns" json:"organism_patterns"`
	SampleTypes      []Pattern         `yaml:"sample_types" json:"sample_types"`
}

func Load(path string) (Tables, error) {
	if path == "" {
		return DefaultTables(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultTables(), err
	}
	var tbl Tables
	if err := yaml.Unmarshal(content, &tbl); err != nil {
		return Tables{}, err
	}
	if len(tbl.Antibiotics) == 0 || len(tbl.Results) == 0 {
		return Tables{}, fmt.Errorf("vocabulary tables incomplete")
	}
	return tbl, nil
}

// Antibiotic resolves a raw column code or name to its canonical
// antibiotic name. Already-canonical names resolve to themselves.
func (t Tables) Antibiotic(code string) (string, bool) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "", false
	}
	if name, ok := t.Antibiotics[strings.ToUpper(trimmed)]; ok {
		return name, true
	}
	for _, name := range t.Antibiotics {
		if strings.EqualFold(name, trimmed) {
			return name, true
		}
	}
	return "", false
}

// Result resolves a raw susceptibility value to Sensitive, Intermediate
// or Resistant. Unrecognized values report ok=false and are treated as
// not tested.
func (t Tables) Result(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	if mapped, ok := t.Results[trimmed]; ok {
		return mapped, true
	}
	upper := strings.ToUpper(trimmed)
	switch {
	case strings.Contains(upper, "SENSITIVE") || upper == "S":
		return "Sensitive", true
	case strings.Contains(upper, "RESISTANT") || upper == "R":
		return "Resistant", true
	case strings.Contains(upper, "INTERMEDIATE") || upper == "I" || upper == "IM":
		return "Intermediate", true
	}
	return "", false
}

// Organism resolves a raw organism label to a canonical species or genus
// name. Unmatched labels pass through unmodified; that is the designed
// fallback, not an error.
func (t Tables) Organism(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if canonical, ok := t.Organisms[trimmed]; ok {
		return canonical
	}
	lower := strings.ToLower(trimmed)
	for _, p := range t.OrganismPatterns {
		if strings.Contains(lower, p.Contains) {
			return p.Canonical
		}
	}
	return trimmed
}

// SampleType resolves a raw specimen label to a canonical category.
// Unmatched labels fall back to a title-cased pass-through.
func (t Tables) SampleType(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	lower := strings.ToLower(trimmed)
	for _, p := range t.SampleTypes {
		if strings.Contains(lower, p.Contains) {
			return p.Canonical
		}
	}
	return titleCase(lower)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// DefaultTables returns the built-in hospital laboratory vocabularies.
func DefaultTables() Tables {
	return Tables{
		Antibiotics: map[string]string{
			"AK": "Amikacin", "AM": "Ampicillin", "AMC": "Amoxicillin-Clavulanate",
			"AX": "Amoxicillin", "AZT": "Aztreonam", "ATM": "Aztreonam",
			"AZM": "Azithromycin", "C": "Chloramphenicol", "CAN": "Cefadroxil",
			"CAZ": "Ceftazidime", "CEO": "Cefoxitin", "CFM": "Cefixime",
			"CFR": "Cefadroxil", "CFX": "Cefotaxime", "CTX": "Cefotaxime",
			"CIP": "Ciprofloxacin", "CL": "Colistin", "CN": "Gentamicin",
			"GN": "Gentamicin", "CRO": "Ceftriaxone", "CX": "Cloxacillin",
			"DA": "Clindamycin", "DO": "Doxycycline", "E": "Erythromycin",
			"F": "Nitrofurantoin", "NI": "Nitrofurantoin", "FEP": "Cefepime",
			"FF": "Fosfomycin", "FOX": "Cefoxitin", "IPM": "Imipenem",
			"K": "Kanamycin", "KF": "Cephalothin", "LEV": "Levofloxacin",
			"MEM": "Meropenem", "MET": "Metronidazole", "ME": "Methicillin",
			"NA": "Nalidixic acid", "NET": "Netilmicin", "NOR": "Norfloxacin",
			"OFX": "Ofloxacin", "OX": "Oxacillin", "P": "Penicillin",
			"PRL": "Piperacillin", "PY": "Polymyxin B", "RA": "Rifampicin",
			"S": "Streptomycin", "SAM": "Ampicillin-Sulbactam",
			"SXT": "Trimethoprim-Sulfamethoxazole", "TE": "Tetracycline",
			"TEC": "Teicoplanin", "TGC": "Tigecycline", "TIM": "Ticarcillin-Clavulanate",
			"TMP": "Trimethoprim", "TOB": "Tobramycin", "TPZ": "Piperacillin-Tazobactam",
			"VA": "Vancomycin", "CPO": "Cefpodoxime", "CPD": "Cefpodoxime",
		},
		Results: map[string]string{
			"S": "Sensitive", "s": "Sensitive", "Sensitive (S)": "Sensitive",
			"R": "Resistant", "r": "Resistant", "Resistant (R)": "Resistant",
			"I": "Intermediate", "IM": "Intermediate", "im": "Intermediate",
			"Intermediate (I)": "Intermediate",
		},
		Organisms: map[string]string{
			"E.coli": "Escherichia coli", "E. coli": "Escherichia coli",
			"Ecoli": "Escherichia coli", "e.coli": "Escherichia coli",
			"Klebsiella": "Klebsiella spp.", "klebsiella": "Klebsiella spp.",
			"Kle bsiella": "Klebsiella spp.",
			"Staphylococcus": "Staphylococcus spp.", "staphylococcus": "Staphylococcus spp.",
			"Staphylococcus aureus": "Staphylococcus aureus",
			"S. aureus":             "Staphylococcus aureus",
			"staph": "Staphylococcus spp.", "Staph": "Staphylococcus spp.",
			"Streptococcus": "Streptococcus spp.", "streptococcus": "Streptococcus spp.",
			"Streptococcus pyogen": "Streptococcus pyogenes",
			"Strept":               "Streptococcus spp.", "strept": "Streptococcus spp.",
			"Pseudomonas": "Pseudomonas aeruginosa", "Psuedomonas": "Pseudomonas aeruginosa",
			"psuedomonas": "Pseudomonas aeruginosa",
			"Proteus":     "Proteus spp.", "proteus": "Proteus spp.",
			"Enterobacter":  "Enterobacter spp.",
			"Enterococcus":  "Enterococcus spp.",
			"Corynbacterium": "Corynebacterium spp.", "Corynebacterium": "Corynebacterium spp.",
			"corynbacterium": "Corynebacterium spp.",
		},
		OrganismPatterns: []Pattern{
			{Contains: "coli", Canonical: "Escherichia coli"},
			{Contains: "klebsiella", Canonical: "Klebsiella spp."},
			{Contains: "aureus", Canonical: "Staphylococcus aureus"},
			{Contains: "staphylococ", Canonical: "Staphylococcus spp."},
			{Contains: "staph", Canonical: "Staphylococcus spp."},
			{Contains: "streptococ", Canonical: "Streptococcus spp."},
			{Contains: "strept", Canonical: "Streptococcus spp."},
			{Contains: "pseudomonas", Canonical: "Pseudomonas aeruginosa"},
			{Contains: "psuedomonas", Canonical: "Pseudomonas aeruginosa"},
			{Contains: "proteus", Canonical: "Proteus spp."},
			{Contains: "enterobacter", Canonical: "Enterobacter spp."},
			{Contains: "enterococ", Canonical: "Enterococcus spp."},
			{Contains: "coryn", Canonical: "Corynebacterium spp."},
		},
		SampleTypes: []Pattern{
			{Contains: "urine", Canonical: "Urine"},
			{Contains: "sputum", Canonical: "Sputum"},
			{Contains: "wound", Canonical: "Wound swab"},
			{Contains: "ear", Canonical: "Ear swab"},
			{Contains: "hvs", Canonical: "HVS"},
			{Contains: "high vaginal", Canonical: "HVS"},
			{Contains: "throat", Canonical: "Throat swab"},
			{Contains: "swab", Canonical: "Swab"},
			{Contains: "pus", Canonical: "Pus"},
		},
	}
}
