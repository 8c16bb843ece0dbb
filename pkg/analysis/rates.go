package analysis

import (
	"math"
	"sort"

	"github.com/amrwatch/surveillance/pkg/common/models"
)

// Filter restricts a rate computation to one organism and/or one year.
// Zero values leave the dimension unrestricted.
type Filter struct {
	Organism string
	Year     *int
}

func (f Filter) matches(iso models.Isolate) bool {
	if f.Organism != "" && iso.Organism != f.Organism {
		return false
	}
	if f.Year != nil {
		if iso.Year == nil || *iso.Year != *f.Year {
			return false
		}
	}
	return true
}

// ResistanceRates computes a cross-sectional rate table: one RateRecord
// per requested antibiotic over the filtered isolate set. Each record is
// a fresh allocation; the input is never mutated. An antibiotic nobody
// was tested against yields NTested zero and a NaN rate.
func ResistanceRates(isolates []models.Isolate, antibiotics []string, filter Filter) []models.RateRecord {
	records := make([]models.RateRecord, 0, len(antibiotics))

	for _, abx := range antibiotics {
		var nResistant, nIntermediate, nSensitive int
		for _, iso := range isolates {
			if !filter.matches(iso) {
				continue
			}
			switch iso.Results[abx] {
			case models.OutcomeResistant:
				nResistant++
			case models.OutcomeIntermediate:
				nIntermediate++
			case models.OutcomeSensitive:
				nSensitive++
			}
		}

		rec := models.RateRecord{
			Antibiotic:    abx,
			Organism:      filter.Organism,
			NResistant:    nResistant,
			NIntermediate: nIntermediate,
			NSensitive:    nSensitive,
			NTested:       nResistant + nIntermediate + nSensitive,
			Rate:          math.NaN(),
		}
		if filter.Year != nil {
			y := *filter.Year
			rec.Year = &y
		}

		if rec.NTested > 0 {
			rec.Rate = float64(nResistant) / float64(rec.NTested) * 100
			lower, upper := ProportionCI(nResistant, rec.NTested, DefaultConfidence)
			rec.CILower = lower * 100
			rec.CIUpper = upper * 100
		}

		records = append(records, rec)
	}

	return records
}

// YearlyRates computes the resistance time series for one antibiotic,
// optionally restricted to an organism. Years with no tested specimens
// are absent from the sequence rather than zero-filled, so trend fits
// and plots never see false dips. The result is strictly ordered by
// ascending year.
func YearlyRates(isolates []models.Isolate, antibiotic, organism string) []models.YearlyRate {
	type counts struct {
		tested    int
		resistant int
	}
	byYear := make(map[int]counts)

	for _, iso := range isolates {
		if organism != "" && iso.Organism != organism {
			continue
		}
		if iso.Year == nil {
			continue
		}
		outcome, tested := iso.Results[antibiotic]
		if !tested {
			continue
		}
		c := byYear[*iso.Year]
		c.tested++
		if outcome == models.OutcomeResistant {
			c.resistant++
		}
		byYear[*iso.Year] = c
	}

	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Ints(years)

	series := make([]models.YearlyRate, 0, len(years))
	for _, year := range years {
		c := byYear[year]
		series = append(series, models.YearlyRate{
			Year:       year,
			Rate:       float64(c.resistant) / float64(c.tested) * 100,
			NTested:    c.tested,
			NResistant: c.resistant,
		})
	}

	return series
}
