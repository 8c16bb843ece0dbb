package models

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestRateRecordNaNEncodesAsNull(t *testing.T) {
	rec := RateRecord{Antibiotic: "Meropenem", Rate: math.NaN()}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"rate":null`) {
		t.Fatalf("expected null rate, got %s", data)
	}

	var decoded RateRecord
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !math.IsNaN(decoded.Rate) {
		t.Fatalf("expected NaN restored, got %v", decoded.Rate)
	}
}

func TestRateRecordRoundTrip(t *testing.T) {
	year := 2021
	rec := RateRecord{
		Antibiotic: "Ciprofloxacin",
		Organism:   "Escherichia coli",
		Year:       &year,
		NTested:    10,
		NResistant: 6,
		Rate:       60,
		CILower:    31.3,
		CIUpper:    83.2,
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded RateRecord
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.Rate != 60 || decoded.NTested != 10 || *decoded.Year != 2021 {
		t.Fatalf("round trip lost fields: %+v", decoded)
	}
}
