package analysis

import (
	"sort"

	"github.com/amrwatch/surveillance/pkg/common/models"
)

// OrganismDistribution tabulates isolate counts per organism, ordered by
// descending count (label ascending on ties). Percentages are taken over
// the whole record set, so rows with a missing organism still widen the
// denominator even though they get no bucket.
func OrganismDistribution(isolates []models.Isolate) []models.CountBucket {
	return distribution(isolates, func(iso models.Isolate) string { return iso.Organism })
}

// SampleTypeDistribution tabulates isolate counts per specimen category.
func SampleTypeDistribution(isolates []models.Isolate) []models.CountBucket {
	return distribution(isolates, func(iso models.Isolate) string { return iso.SampleType })
}

func distribution(isolates []models.Isolate, label func(models.Isolate) string) []models.CountBucket {
	total := len(isolates)
	counts := make(map[string]int)
	for _, iso := range isolates {
		if l := label(iso); l != "" {
			counts[l]++
		}
	}

	buckets := make([]models.CountBucket, 0, len(counts))
	for l, count := range counts {
		buckets = append(buckets, models.CountBucket{
			Label:      l,
			Count:      count,
			Percentage: float64(count) / float64(total) * 100,
		})
	}

	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Label < buckets[j].Label
	})

	return buckets
}

// Demographics summarizes the record set: sample date range, gender
// breakdown and age statistics. Age statistics are nil when no record
// carries an age.
func Demographics(isolates []models.Isolate) models.DemographicSummary {
	summary := models.DemographicSummary{TotalRecords: len(isolates)}

	var ages []int
	for _, iso := range isolates {
		switch iso.Gender {
		case "Female":
			summary.Gender.Female++
		case "Male":
			summary.Gender.Male++
		default:
			summary.Gender.Unknown++
		}

		if iso.SampleDate != nil {
			if summary.FirstSample == nil || iso.SampleDate.Before(*summary.FirstSample) {
				d := *iso.SampleDate
				summary.FirstSample = &d
			}
			if summary.LastSample == nil || iso.SampleDate.After(*summary.LastSample) {
				d := *iso.SampleDate
				summary.LastSample = &d
			}
		}

		if iso.Age != nil {
			ages = append(ages, *iso.Age)
		}
	}

	if len(ages) > 0 {
		sort.Ints(ages)
		var sum int
		for _, a := range ages {
			sum += a
		}
		summary.Age = &models.AgeSummary{
			Mean:   float64(sum) / float64(len(ages)),
			Median: median(ages),
			Min:    ages[0],
			Max:    ages[len(ages)-1],
		}
	}

	return summary
}

func median(sorted []int) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}
