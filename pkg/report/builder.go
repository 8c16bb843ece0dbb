package report

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/amrwatch/surveillance/pkg/analysis"
	"github.com/amrwatch/surveillance/pkg/common/models"
)

// Builder assembles the full surveillance report from the analysis
// engine. It holds only configuration; every Build call derives fresh
// structures from the snapshot it is given.
type Builder struct {
	panel      []string
	alerts     *analysis.AlertEngine
	benchmarks analysis.BenchmarkTable
}

func NewBuilder(panel []string, alerts *analysis.AlertEngine, benchmarks analysis.BenchmarkTable) *Builder {
	return &Builder{panel: panel, alerts: alerts, benchmarks: benchmarks}
}

func (b *Builder) Build(isolates []models.Isolate) models.SurveillanceReport {
	return models.SurveillanceReport{
		GeneratedAt:  time.Now().UTC(),
		Demographics: analysis.Demographics(isolates),
		Organisms:    analysis.OrganismDistribution(isolates),
		SampleTypes:  analysis.SampleTypeDistribution(isolates),
		Rates:        analysis.ResistanceRates(isolates, b.panel, analysis.Filter{}),
		Alerts:       b.alerts.Evaluate(isolates),
		MDR:          analysis.MDRPrevalence(isolates),
		Benchmarks:   b.benchmarks.Compare(b.benchmarkRates(isolates)),
	}
}

// benchmarkRates computes organism-restricted rate records for every
// pair the reference table knows about.
func (b *Builder) benchmarkRates(isolates []models.Isolate) []models.RateRecord {
	organisms := make([]string, 0, len(b.benchmarks.Organisms))
	for org := range b.benchmarks.Organisms {
		organisms = append(organisms, org)
	}
	sort.Strings(organisms)

	var rates []models.RateRecord
	for _, org := range organisms {
		antibiotics := make([]string, 0, len(b.benchmarks.Organisms[org]))
		for abx := range b.benchmarks.Organisms[org] {
			antibiotics = append(antibiotics, abx)
		}
		sort.Strings(antibiotics)
		rates = append(rates, analysis.ResistanceRates(isolates, antibiotics, analysis.Filter{Organism: org})...)
	}
	return rates
}

// RenderText writes the report as the plain-text summary epidemiologists
// attach to the annual surveillance bulletin. Values are rounded to one
// decimal here and only here.
func RenderText(rep models.SurveillanceReport) string {
	var sb strings.Builder
	rule := strings.Repeat("=", 60)

	fmt.Fprintln(&sb, rule)
	fmt.Fprintln(&sb, "AMR SURVEILLANCE REPORT")
	fmt.Fprintln(&sb, rule)

	fmt.Fprintln(&sb, "\nDATASET OVERVIEW")
	fmt.Fprintf(&sb, "   Total records: %d\n", rep.Demographics.TotalRecords)
	if rep.Demographics.FirstSample != nil && rep.Demographics.LastSample != nil {
		fmt.Fprintf(&sb, "   Date range: %s to %s\n",
			rep.Demographics.FirstSample.Format("2006-01-02"),
			rep.Demographics.LastSample.Format("2006-01-02"))
	}
	fmt.Fprintf(&sb, "   Female: %d | Male: %d | Unknown: %d\n",
		rep.Demographics.Gender.Female, rep.Demographics.Gender.Male, rep.Demographics.Gender.Unknown)
	if rep.Demographics.Age != nil {
		fmt.Fprintf(&sb, "   Mean age: %.1f years\n", rep.Demographics.Age.Mean)
	}

	fmt.Fprintln(&sb, "\nORGANISM DISTRIBUTION")
	for i, bucket := range rep.Organisms {
		if i == 5 {
			break
		}
		fmt.Fprintf(&sb, "   %s: %d (%.1f%%)\n", bucket.Label, bucket.Count, bucket.Percentage)
	}

	fmt.Fprintln(&sb, "\nSAMPLE TYPES")
	for _, bucket := range rep.SampleTypes {
		fmt.Fprintf(&sb, "   %s: %d (%.1f%%)\n", bucket.Label, bucket.Count, bucket.Percentage)
	}

	fmt.Fprintln(&sb, "\nRESISTANCE RATES")
	for _, rec := range rep.Rates {
		if rec.NTested == 0 || math.IsNaN(rec.Rate) {
			fmt.Fprintf(&sb, "   %s: insufficient data\n", rec.Antibiotic)
			continue
		}
		fmt.Fprintf(&sb, "   %s: %.1f%% (95%% CI %.1f-%.1f, n=%d)\n",
			rec.Antibiotic, rec.Rate, rec.CILower, rec.CIUpper, rec.NTested)
	}

	if len(rep.Alerts) > 0 {
		fmt.Fprintln(&sb, "\nCRITICAL RESISTANCE ALERTS")
		for _, alert := range rep.Alerts {
			fmt.Fprintf(&sb, "   [%s] %s: %s = %.1f%%\n", alert.Severity, alert.Type, alert.Antibiotic, alert.Rate)
		}
	}

	fmt.Fprintln(&sb, "\nMDR PREVALENCE")
	fmt.Fprintf(&sb, "   Overall: %.1f%% (%d/%d)\n",
		rep.MDR.Overall.Rate, rep.MDR.Overall.MDRCount, rep.MDR.Overall.Total)

	if len(rep.Benchmarks) > 0 {
		fmt.Fprintln(&sb, "\nBENCHMARK COMPARISON")
		for _, cmp := range rep.Benchmarks {
			fmt.Fprintf(&sb, "   %s / %s: %.1f%% (global %.1f%%: %s, regional %.1f%%: %s)\n",
				cmp.Organism, cmp.Antibiotic, cmp.LocalRate,
				cmp.GlobalMedian, cmp.VsGlobal, cmp.RegionalMedian, cmp.VsRegional)
		}
	}

	fmt.Fprintln(&sb, "\n"+rule)
	return sb.String()
}
