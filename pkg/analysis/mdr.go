package analysis

import (
	"sort"
	"strconv"

	"github.com/amrwatch/surveillance/pkg/common/models"
)

// mdrClassThreshold is the number of distinct resistant antimicrobial
// classes from which a record counts as multi-drug resistant.
const mdrClassThreshold = 3

type classSet struct {
	name    string
	members map[string]struct{}
}

// Classifier derives the three-level MDR status of a record from its
// per-antibiotic outcomes and a class taxonomy.
type Classifier struct {
	classes []classSet
}

func NewClassifier(tax Taxonomy) *Classifier {
	classes := make([]classSet, 0, len(tax.Classes))
	for _, def := range tax.Classes {
		members := make(map[string]struct{}, len(def.Members))
		for _, m := range def.Members {
			members[m] = struct{}{}
		}
		classes = append(classes, classSet{name: def.Name, members: members})
	}
	return &Classifier{classes: classes}
}

// Classify counts the antimicrobial classes in which the record shows at
// least one resistant member. A class is resistant iff the record's
// resistant-antibiotic set intersects the class member set, so three
// resistant drugs inside a single class still count as one class and do
// not make the record MDR. The input map is never mutated.
func (c *Classifier) Classify(results map[string]string) string {
	resistant := make(map[string]struct{})
	for abx, outcome := range results {
		if outcome == models.OutcomeResistant {
			resistant[abx] = struct{}{}
		}
	}

	count := 0
	for _, class := range c.classes {
		if intersects(resistant, class.members) {
			count++
		}
	}

	switch {
	case count >= mdrClassThreshold:
		return models.MDRStatusMDR
	case count >= 1:
		return models.MDRResistant
	default:
		return models.MDRSusceptible
	}
}

// ResistantClasses reports the class names with at least one resistant
// member, in taxonomy order.
func (c *Classifier) ResistantClasses(results map[string]string) []string {
	resistant := make(map[string]struct{})
	for abx, outcome := range results {
		if outcome == models.OutcomeResistant {
			resistant[abx] = struct{}{}
		}
	}

	var names []string
	for _, class := range c.classes {
		if intersects(resistant, class.members) {
			names = append(names, class.name)
		}
	}
	return names
}

func intersects(a map[string]struct{}, b map[string]struct{}) bool {
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	for k := range small {
		if _, ok := large[k]; ok {
			return true
		}
	}
	return false
}

// MDRPrevalence tabulates how common MDR isolates are overall, per
// organism and per year. Isolates without a computed status count toward
// totals but never as MDR.
func MDRPrevalence(isolates []models.Isolate) models.MDRPrevalence {
	prevalence := models.MDRPrevalence{
		Overall: models.MDRRate{Label: "overall", Total: len(isolates)},
	}

	type tally struct {
		mdr   int
		total int
	}
	byOrganism := make(map[string]tally)
	byYear := make(map[int]tally)

	for _, iso := range isolates {
		isMDR := iso.MDRStatus == models.MDRStatusMDR
		if isMDR {
			prevalence.Overall.MDRCount++
		}
		if iso.Organism != "" {
			t := byOrganism[iso.Organism]
			t.total++
			if isMDR {
				t.mdr++
			}
			byOrganism[iso.Organism] = t
		}
		if iso.Year != nil {
			t := byYear[*iso.Year]
			t.total++
			if isMDR {
				t.mdr++
			}
			byYear[*iso.Year] = t
		}
	}

	if prevalence.Overall.Total > 0 {
		prevalence.Overall.Rate = float64(prevalence.Overall.MDRCount) / float64(prevalence.Overall.Total) * 100
	}

	organisms := make([]string, 0, len(byOrganism))
	for org := range byOrganism {
		organisms = append(organisms, org)
	}
	sort.Strings(organisms)
	for _, org := range organisms {
		t := byOrganism[org]
		prevalence.ByOrganism = append(prevalence.ByOrganism, models.MDRRate{
			Label:    org,
			MDRCount: t.mdr,
			Total:    t.total,
			Rate:     float64(t.mdr) / float64(t.total) * 100,
		})
	}

	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Ints(years)
	for _, year := range years {
		t := byYear[year]
		prevalence.ByYear = append(prevalence.ByYear, models.MDRRate{
			Label:    strconv.Itoa(year),
			MDRCount: t.mdr,
			Total:    t.total,
			Rate:     float64(t.mdr) / float64(t.total) * 100,
		})
	}

	return prevalence
}
