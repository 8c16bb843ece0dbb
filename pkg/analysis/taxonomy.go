package analysis

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ClassDef names an antimicrobial class and its member antibiotics.
type ClassDef struct {
	Name    string   `yaml:"name" json:"name"`
	Members []string `yaml:"members" json:"members"`
}

type Taxonomy struct {
	Classes []ClassDef `yaml:"classes" json:"classes"`
}

func LoadTaxonomy(path string) (Taxonomy, error) {
	if path == "" {
		return DefaultTaxonomy(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultTaxonomy(), err
	}
	var tax Taxonomy
	if err := yaml.Unmarshal(content, &tax); err != nil {
		return Taxonomy{}, err
	}
	if len(tax.Classes) == 0 {
		return Taxonomy{}, fmt.Errorf("antimicrobial class taxonomy empty")
	}
	return tax, nil
}

func DefaultTaxonomy() Taxonomy {
	return Taxonomy{Classes: []ClassDef{
		{Name: "Penicillins", Members: []string{"Ampicillin", "Amoxicillin", "Penicillin"}},
		{Name: "Cephalosporins", Members: []string{"Ceftriaxone", "Cefotaxime", "Ceftazidime", "Cefepime", "Cefixime"}},
		{Name: "Carbapenems", Members: []string{"Imipenem", "Meropenem"}},
		{Name: "Aminoglycosides", Members: []string{"Amikacin", "Gentamicin", "Tobramycin"}},
		{Name: "Fluoroquinolones", Members: []string{"Ciprofloxacin", "Levofloxacin", "Norfloxacin"}},
		{Name: "Tetracyclines", Members: []string{"Tetracycline", "Doxycycline"}},
		{Name: "Sulfonamides", Members: []string{"Trimethoprim-Sulfamethoxazole"}},
		{Name: "Glycopeptides", Members: []string{"Vancomycin"}},
		{Name: "Macrolides", Members: []string{"Erythromycin", "Azithromycin"}},
	}}
}
