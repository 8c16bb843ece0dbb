package analysis

import (
	"testing"
	"time"

	"github.com/amrwatch/surveillance/pkg/common/models"
)

func TestOrganismDistributionOrderAndPercentages(t *testing.T) {
	isolates := []models.Isolate{
		{ID: "1", Organism: "Escherichia coli"},
		{ID: "2", Organism: "Escherichia coli"},
		{ID: "3", Organism: "Klebsiella spp."},
		{ID: "4"}, // missing organism still widens the denominator
	}

	buckets := OrganismDistribution(isolates)
	if len(buckets) != 2 {
		t.Fatalf("expected two buckets, got %+v", buckets)
	}
	if buckets[0].Label != "Escherichia coli" || buckets[0].Count != 2 {
		t.Fatalf("expected E. coli first with count 2, got %+v", buckets[0])
	}
	if buckets[0].Percentage != 50 {
		t.Fatalf("expected 50%% of four records, got %v", buckets[0].Percentage)
	}
	if buckets[1].Percentage != 25 {
		t.Fatalf("expected 25%%, got %v", buckets[1].Percentage)
	}
}

func TestDistributionTieBreaksOnLabel(t *testing.T) {
	isolates := []models.Isolate{
		{ID: "1", SampleType: "Urine"},
		{ID: "2", SampleType: "Sputum"},
	}
	buckets := SampleTypeDistribution(isolates)
	if buckets[0].Label != "Sputum" || buckets[1].Label != "Urine" {
		t.Fatalf("expected alphabetical tie-break, got %+v", buckets)
	}
}

func TestDemographics(t *testing.T) {
	early := time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2022, 7, 15, 0, 0, 0, 0, time.UTC)
	age30, age40, age50 := 30, 40, 50

	isolates := []models.Isolate{
		{ID: "1", Gender: "Female", Age: &age30, SampleDate: &late},
		{ID: "2", Gender: "Male", Age: &age40, SampleDate: &early},
		{ID: "3", Gender: "Female", Age: &age50},
		{ID: "4"},
	}

	summary := Demographics(isolates)
	if summary.TotalRecords != 4 {
		t.Fatalf("expected 4 records, got %d", summary.TotalRecords)
	}
	if summary.Gender.Female != 2 || summary.Gender.Male != 1 || summary.Gender.Unknown != 1 {
		t.Fatalf("unexpected gender breakdown: %+v", summary.Gender)
	}
	if summary.FirstSample == nil || !summary.FirstSample.Equal(early) {
		t.Fatalf("expected first sample %v, got %v", early, summary.FirstSample)
	}
	if summary.LastSample == nil || !summary.LastSample.Equal(late) {
		t.Fatalf("expected last sample %v, got %v", late, summary.LastSample)
	}
	if summary.Age == nil {
		t.Fatal("expected age summary")
	}
	if summary.Age.Mean != 40 || summary.Age.Median != 40 || summary.Age.Min != 30 || summary.Age.Max != 50 {
		t.Fatalf("unexpected age summary: %+v", summary.Age)
	}
}

func TestDemographicsNoAges(t *testing.T) {
	summary := Demographics([]models.Isolate{{ID: "1", Gender: "Male"}})
	if summary.Age != nil {
		t.Fatalf("expected nil age summary, got %+v", summary.Age)
	}
}

func TestDemographicsEvenAgeCount(t *testing.T) {
	age10, age20, age30, age40 := 10, 20, 30, 40
	summary := Demographics([]models.Isolate{
		{ID: "1", Age: &age10}, {ID: "2", Age: &age40},
		{ID: "3", Age: &age20}, {ID: "4", Age: &age30},
	})
	if summary.Age.Median != 25 {
		t.Fatalf("expected median 25 for even count, got %v", summary.Age.Median)
	}
}
