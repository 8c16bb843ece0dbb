package models

import (
	"encoding/json"
	"math"
	"time"
)

// Susceptibility outcomes as produced by the cleaning pipeline. Results
// maps only ever contain these three values; an antibiotic that was not
// tested is simply absent from the map.
const (
	OutcomeSensitive    = "Sensitive"
	OutcomeIntermediate = "Intermediate"
	OutcomeResistant    = "Resistant"
)

// MDR classification labels.
const (
	MDRSusceptible = "Susceptible"
	MDRResistant   = "Resistant"
	MDRStatusMDR   = "MDR"
)

// Alert severities.
const (
	SeverityModerate = "MODERATE"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"
)

// Isolate is one cleaned susceptibility test episode. Pointer fields are
// nil when the raw value was absent or failed to parse.
type Isolate struct {
	ID         string            `json:"id"`
	Organism   string            `json:"organism,omitempty"`
	SampleType string            `json:"sample_type,omitempty"`
	Gender     string            `json:"gender,omitempty"`
	Age        *int              `json:"age,omitempty"`
	SampleDate *time.Time        `json:"sample_date,omitempty"`
	Year       *int              `json:"year,omitempty"`
	Results    map[string]string `json:"results"`
	MDRStatus  string            `json:"mdr_status,omitempty"`
}

// Submission models for the ingestion service.
type SubmitRequest struct {
	Source   string                 `json:"source"` // lab section submitting the row
	Row      map[string]interface{} `json:"row"`
	Metadata map[string]string      `json:"metadata,omitempty"`
}

type SubmitResponse struct {
	ID        string    `json:"id"`
	IsolateID string    `json:"isolate_id"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Event Bus models
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // isolate.cleaned
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

// RateRecord is a cross-sectional resistance rate for one antibiotic
// under an optional organism/year filter. Rate, CILower and CIUpper are
// percentages; Rate is NaN when NTested is zero, which callers must read
// as "insufficient data", never as zero resistance.
type RateRecord struct {
	Antibiotic    string  `json:"antibiotic"`
	Organism      string  `json:"organism,omitempty"`
	Year          *int    `json:"year,omitempty"`
	NTested       int     `json:"n_tested"`
	NResistant    int     `json:"n_resistant"`
	NIntermediate int     `json:"n_intermediate"`
	NSensitive    int     `json:"n_sensitive"`
	Rate          float64 `json:"rate"`
	CILower       float64 `json:"ci_lower"`
	CIUpper       float64 `json:"ci_upper"`
}

type rateRecordJSON struct {
	Antibiotic    string   `json:"antibiotic"`
	Organism      string   `json:"organism,omitempty"`
	Year          *int     `json:"year,omitempty"`
	NTested       int      `json:"n_tested"`
	NResistant    int      `json:"n_resistant"`
	NIntermediate int      `json:"n_intermediate"`
	NSensitive    int      `json:"n_sensitive"`
	Rate          *float64 `json:"rate"`
	CILower       float64  `json:"ci_lower"`
	CIUpper       float64  `json:"ci_upper"`
}

// MarshalJSON encodes a NaN rate as null so the missing marker survives
// serialization instead of breaking the encoder.
func (r RateRecord) MarshalJSON() ([]byte, error) {
	out := rateRecordJSON{
		Antibiotic:    r.Antibiotic,
		Organism:      r.Organism,
		Year:          r.Year,
		NTested:       r.NTested,
		NResistant:    r.NResistant,
		NIntermediate: r.NIntermediate,
		NSensitive:    r.NSensitive,
		CILower:       r.CILower,
		CIUpper:       r.CIUpper,
	}
	if !math.IsNaN(r.Rate) {
		rate := r.Rate
		out.Rate = &rate
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a null rate to NaN.
func (r *RateRecord) UnmarshalJSON(data []byte) error {
	var in rateRecordJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	r.Antibiotic = in.Antibiotic
	r.Organism = in.Organism
	r.Year = in.Year
	r.NTested = in.NTested
	r.NResistant = in.NResistant
	r.NIntermediate = in.NIntermediate
	r.NSensitive = in.NSensitive
	r.CILower = in.CILower
	r.CIUpper = in.CIUpper
	if in.Rate != nil {
		r.Rate = *in.Rate
	} else {
		r.Rate = math.NaN()
	}
	return nil
}

// YearlyRate is one point of a resistance time series.
type YearlyRate struct {
	Year       int     `json:"year"`
	Rate       float64 `json:"rate"`
	NTested    int     `json:"n_tested"`
	NResistant int     `json:"n_resistant"`
}

// TrendStats is nil on a TrendRecord when fewer than three years of data
// were available to fit.
type TrendStats struct {
	Slope       float64 `json:"slope"` // percentage points per year
	RSquared    float64 `json:"r_squared"`
	PValue      float64 `json:"p_value"`
	Direction   string  `json:"direction"` // increasing | decreasing
	Significant bool    `json:"significant"`
}

type TrendRecord struct {
	Antibiotic  string       `json:"antibiotic"`
	Organism    string       `json:"organism,omitempty"`
	YearlyRates []YearlyRate `json:"yearly_rates"`
	Trend       *TrendStats  `json:"trend,omitempty"`
}

type Alert struct {
	Type       string  `json:"type"`
	Antibiotic string  `json:"antibiotic"`
	Rate       float64 `json:"rate"`
	Severity   string  `json:"severity"`
}

type BenchmarkComparison struct {
	Organism       string  `json:"organism"`
	Antibiotic     string  `json:"antibiotic"`
	LocalRate      float64 `json:"local_rate"`
	GlobalMedian   float64 `json:"global_median"`
	RegionalMedian float64 `json:"regional_median"`
	VsGlobal       string  `json:"vs_global"`   // Higher | Lower
	VsRegional     string  `json:"vs_regional"` // Higher | Lower
}

// CountBucket is a single row of a distribution table, ordered by
// descending count in the containing slice.
type CountBucket struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type GenderBreakdown struct {
	Female  int `json:"female"`
	Male    int `json:"male"`
	Unknown int `json:"unknown"`
}

type AgeSummary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
}

type DemographicSummary struct {
	TotalRecords int             `json:"total_records"`
	FirstSample  *time.Time      `json:"first_sample,omitempty"`
	LastSample   *time.Time      `json:"last_sample,omitempty"`
	Gender       GenderBreakdown `json:"gender"`
	Age          *AgeSummary     `json:"age,omitempty"`
}

// MDR prevalence tables, supplementing the per-record classification.
type MDRRate struct {
	Label    string  `json:"label"` // organism name or calendar year
	MDRCount int     `json:"mdr_count"`
	Total    int     `json:"total"`
	Rate     float64 `json:"rate"`
}

type MDRPrevalence struct {
	Overall    MDRRate   `json:"overall"`
	ByOrganism []MDRRate `json:"by_organism"`
	ByYear     []MDRRate `json:"by_year"`
}

// SurveillanceReport is the composite structure handed to the reporting
// layer. All fields are fresh allocations derived from the snapshot.
type SurveillanceReport struct {
	GeneratedAt  time.Time             `json:"generated_at"`
	Demographics DemographicSummary    `json:"demographics"`
	Organisms    []CountBucket         `json:"organisms"`
	SampleTypes  []CountBucket         `json:"sample_types"`
	Rates        []RateRecord          `json:"rates"`
	Alerts       []Alert               `json:"alerts"`
	MDR          MDRPrevalence         `json:"mdr"`
	Benchmarks   []BenchmarkComparison `json:"benchmarks"`
}
