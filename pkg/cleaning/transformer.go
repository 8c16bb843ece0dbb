package cleaning

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/amrwatch/surveillance/pkg/analysis"
	"github.com/amrwatch/surveillance/pkg/common/models"
	"github.com/amrwatch/surveillance/pkg/vocab"
	"github.com/google/uuid"
)

// dateLayouts are the raw encodings seen across the historical
// spreadsheets, day-first variants ahead of month-first.
var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"02/01/2006",
	"02.01.06",
	"02,01,2006",
	"02-01-2006",
	"01/02/2006",
	"2006/01/02",
}

// Column aliases accepted for the non-antibiotic fields of a raw row.
var (
	dateKeys     = []string{"sample_date", "date", "Date"}
	genderKeys   = []string{"gender", "sex", "Sex"}
	ageKeys      = []string{"age", "Age"}
	sampleKeys   = []string{"sample_type", "sample", "Sample"}
	organismKeys = []string{"organism", "bacteria", "Bacteria"}
)

// Transformer turns one raw laboratory row into a cleaned Isolate. Every
// field is normalized through the closed vocabularies; anything that
// fails to normalize becomes a missing value, never an error.
type Transformer struct {
	tables     vocab.Tables
	classifier *analysis.Classifier
}

func NewTransformer(tables vocab.Tables, classifier *analysis.Classifier) *Transformer {
	return &Transformer{tables: tables, classifier: classifier}
}

func (t *Transformer) Transform(row map[string]interface{}) (*models.Isolate, error) {
	if len(row) == 0 {
		return nil, errors.New("empty row")
	}

	iso := &models.Isolate{
		ID:      uuid.New().String(),
		Results: make(map[string]string),
	}

	consumed := make(map[string]struct{})

	if raw, key := firstString(row, dateKeys); key != "" {
		consumed[key] = struct{}{}
		if parsed, ok := parseDate(raw); ok {
			iso.SampleDate = &parsed
			year := parsed.Year()
			iso.Year = &year
		}
	}

	if raw, key := firstString(row, genderKeys); key != "" {
		consumed[key] = struct{}{}
		iso.Gender = standardizeGender(raw)
	}

	if raw, key := firstValue(row, ageKeys); key != "" {
		consumed[key] = struct{}{}
		iso.Age = cleanAge(raw)
	}

	if raw, key := firstString(row, sampleKeys); key != "" {
		consumed[key] = struct{}{}
		iso.SampleType = t.tables.SampleType(raw)
	}

	if raw, key := firstString(row, organismKeys); key != "" {
		consumed[key] = struct{}{}
		iso.Organism = t.tables.Organism(raw)
	}

	// Every remaining column is a candidate antibiotic result.
	for key, value := range row {
		if _, done := consumed[key]; done {
			continue
		}
		abx, ok := t.tables.Antibiotic(key)
		if !ok {
			continue
		}
		outcome, ok := t.tables.Result(asString(value))
		if !ok {
			continue // not tested
		}
		iso.Results[abx] = outcome
	}

	if t.classifier != nil {
		iso.MDRStatus = t.classifier.Classify(iso.Results)
	}

	return iso, nil
}

func parseDate(raw string) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func standardizeGender(raw string) string {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "F", "FEMALE":
		return "Female"
	case "M", "MALE":
		return "Male"
	}
	return ""
}

// cleanAge accepts numeric or string ages; negative entries are data
// entry errors and flip sign, implausible ages become missing.
func cleanAge(raw interface{}) *int {
	var age float64
	switch v := raw.(type) {
	case float64:
		age = v
	case int:
		age = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		age = parsed
	default:
		return nil
	}

	if age < 0 {
		age = math.Abs(age)
	}
	if age > 120 {
		return nil
	}
	result := int(age)
	return &result
}

func firstString(row map[string]interface{}, keys []string) (string, string) {
	for _, key := range keys {
		if value, ok := row[key]; ok {
			return asString(value), key
		}
	}
	return "", ""
}

func firstValue(row map[string]interface{}, keys []string) (interface{}, string) {
	for _, key := range keys {
		if value, ok := row[key]; ok {
			return value, key
		}
	}
	return nil, ""
}

func asString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	default:
		return ""
	}
}
