// Package ecoscore computes EcoScores: a deterministic sustainability rating
// derived from a product's name and description by keyword analysis, together
// with independently computed recyclability and carbon footprint estimates.
//
// Matching is plain case-insensitive substring search. "plastic-free" therefore
// contains "plastic" and is scored as a plastic product.
package ecoscore

import "fmt"

// Level is the qualitative tier of a score.
type Level string

const (
	LevelHigh     Level = "high"
	LevelModerate Level = "moderate"
	LevelLow      Level = "low"
)

// String implements fmt.Stringer.
func (l Level) String() string {
	return string(l)
}

// Input is the product text and optional seed values to score.
type Input struct {
	Name        string
	Description string

	// CarbonFootprint seeds the carbon pass (kg CO2). Nil or non-positive uses the default.
	CarbonFootprint *float64

	// RecyclabilityRating seeds the recyclability pass (0-100). Nil uses the default.
	RecyclabilityRating *int
}

// Result is the derived EcoScore for one product. It is never persisted.
type Result struct {
	// Score is the composite rating, clamped to [0,100].
	Score int `json:"score"`

	// Level is a pure function of Score.
	Level Level `json:"level"`

	// Explanation is the display sentence built from the tier and matched keywords.
	Explanation string `json:"explanation"`

	// Keywords lists matched tokens in match order. Negative matches carry NegativePrefix.
	Keywords []string `json:"keywords"`

	// DangerReasons is set only when Score is below ModerateThreshold and is then non-empty.
	DangerReasons []string `json:"danger_reasons,omitempty"`

	// RecyclabilityRating is in [0,100].
	RecyclabilityRating int `json:"recyclability_rating"`

	// CarbonFootprint is kg CO2, rounded to one decimal, always positive.
	CarbonFootprint float64 `json:"carbon_footprint"`
}

// IsLow reports whether the result is in the low tier.
func (r Result) IsLow() bool {
	return r.Level == LevelLow
}

// PositiveKeywords returns the matched keywords without a negative marker.
func (r Result) PositiveKeywords() []string {
	var out []string
	for _, k := range r.Keywords {
		if !isNegative(k) {
			out = append(out, k)
		}
	}
	return out
}

// Concerns returns the matched negative keywords with the marker stripped.
func (r Result) Concerns() []string {
	var out []string
	for _, k := range r.Keywords {
		if isNegative(k) {
			out = append(out, k[len(NegativePrefix):])
		}
	}
	return out
}

// EquivalencyType identifies a real-world comparison for a CO2 amount.
type EquivalencyType int

const (
	// EquivalencyMilesDriven is miles driven in an average passenger vehicle.
	EquivalencyMilesDriven EquivalencyType = iota
	// EquivalencySmartphonesCharged is full smartphone charges.
	EquivalencySmartphonesCharged
)

// String returns a human-readable representation of the EquivalencyType.
func (e EquivalencyType) String() string {
	switch e {
	case EquivalencyMilesDriven:
		return "MilesDriven"
	case EquivalencySmartphonesCharged:
		return "SmartphonesCharged"
	default:
		return fmt.Sprintf("EquivalencyType(%d)", e)
	}
}

// EquivalencyResult is one calculated comparison.
type EquivalencyResult struct {
	Type           EquivalencyType `json:"type"`
	Value          float64         `json:"value"`
	FormattedValue string          `json:"formatted_value"`
	Label          string          `json:"label"`
}

// EquivalencyOutput holds every comparison for a CO2 amount.
type EquivalencyOutput struct {
	InputKg     float64             `json:"input_kg"`
	Results     []EquivalencyResult `json:"results"`
	DisplayText string              `json:"display_text"`
	CompactText string              `json:"compact_text"`
	IsEmpty     bool                `json:"is_empty"`
}
