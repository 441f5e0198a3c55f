// internal/scoring/rubric.go
package scoring

import (
	"math"

	"github.com/shrimpsizemoose/semla/internal/apperr"
)

const (
	KindTeam   = "team"
	KindMember = "member"
)

type Criterion struct {
	Name string
	Max  float64
}

// Rubric is the ordered list of criteria a judge fills in for one score.
type Rubric struct {
	Kind     string
	Criteria []Criterion
}

var TeamRubric = Rubric{
	Kind: KindTeam,
	Criteria: []Criterion{
		{Name: "creativity", Max: 25},
		{Name: "feasibility", Max: 25},
		{Name: "ai_effectiveness", Max: 20},
		{Name: "presentation", Max: 15},
		{Name: "social_impact", Max: 15},
	},
}

var MemberRubric = Rubric{
	Kind: KindMember,
	Criteria: []Criterion{
		{Name: "skills_learning", Max: 50},
		{Name: "inspiration", Max: 50},
	},
}

// Max is the highest total a single score can reach.
func (r Rubric) Max() float64 {
	var total float64
	for _, c := range r.Criteria {
		total += c.Max
	}
	return total
}

// Validate checks the given values against their bounds. Criteria missing from values are skipped,
// so a partial update only validates what it changes.
func (r Rubric) Validate(values map[string]float64) error {
	for _, c := range r.Criteria {
		v, ok := values[c.Name]
		if !ok {
			continue
		}
		if math.IsNaN(v) || v < 0 || v > c.Max {
			return apperr.Validationf("%s must be between 0 and %g", c.Name, c.Max)
		}
	}
	return nil
}

// Total sums every criterion, rounded to two decimals.
func (r Rubric) Total(values map[string]float64) float64 {
	var total float64
	for _, c := range r.Criteria {
		total += values[c.Name]
	}
	return roundCents(total)
}

// Cents rounds every value to the two decimals the score columns keep.
func Cents(values map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(values))
	for k, v := range values {
		out[k] = roundCents(v)
	}
	return out
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// Merge overlays patch on stored and returns a new map.
func Merge(stored, patch map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(stored))
	for k, v := range stored {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

func validateTotal(total *float64, r Rubric) error {
	if total == nil {
		return nil
	}
	if math.IsNaN(*total) || *total < 0 || *total > r.Max() {
		return apperr.Validationf("total_score must be between 0 and %g", r.Max())
	}
	return nil
}
