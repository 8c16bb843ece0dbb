package registry

import (
	"time"

	"github.com/amrwatch/surveillance/pkg/common/models"
	"gorm.io/datatypes"
)

// IsolateRecord is the persisted form of a cleaned isolate. Results are
// stored as a JSON map keyed by canonical antibiotic name.
type IsolateRecord struct {
	ID         string            `json:"id" gorm:"primaryKey;column:id"`
	Organism   string            `json:"organism" gorm:"column:organism;index"`
	SampleType string            `json:"sample_type" gorm:"column:sample_type"`
	Gender     string            `json:"gender" gorm:"column:gender"`
	Age        *int              `json:"age,omitempty" gorm:"column:age"`
	SampleDate *time.Time        `json:"sample_date,omitempty" gorm:"column:sample_date"`
	Year       *int              `json:"year,omitempty" gorm:"column:year;index"`
	Results    datatypes.JSONMap `json:"results" gorm:"column:results"`
	MDRStatus  string            `json:"mdr_status" gorm:"column:mdr_status"`
	CreatedAt  time.Time         `json:"created_at" gorm:"column:created_at"`
}

func (IsolateRecord) TableName() string {
	return "amr_isolates"
}

func fromModel(iso models.Isolate) IsolateRecord {
	results := make(datatypes.JSONMap, len(iso.Results))
	for abx, outcome := range iso.Results {
		results[abx] = outcome
	}
	return IsolateRecord{
		ID:         iso.ID,
		Organism:   iso.Organism,
		SampleType: iso.SampleType,
		Gender:     iso.Gender,
		Age:        iso.Age,
		SampleDate: iso.SampleDate,
		Year:       iso.Year,
		Results:    results,
		MDRStatus:  iso.MDRStatus,
	}
}

func (r IsolateRecord) toModel() models.Isolate {
	results := make(map[string]string, len(r.Results))
	for abx, outcome := range r.Results {
		if s, ok := outcome.(string); ok {
			results[abx] = s
		}
	}
	return models.Isolate{
		ID:         r.ID,
		Organism:   r.Organism,
		SampleType: r.SampleType,
		Gender:     r.Gender,
		Age:        r.Age,
		SampleDate: r.SampleDate,
		Year:       r.Year,
		Results:    results,
		MDRStatus:  r.MDRStatus,
	}
}
