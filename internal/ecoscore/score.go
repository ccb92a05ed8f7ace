package ecoscore

import (
	"fmt"
	"strings"
)

// Score computes the EcoScore for a product's name and description.
// carbonSeed and recyclabilitySeed are optional and may be nil.
// Score never fails; empty strings yield the keyword-free baseline.
func Score(name, description string, carbonSeed *float64, recyclabilitySeed *int) Result {
	return ScoreInput(Input{
		Name:                name,
		Description:         description,
		CarbonFootprint:     carbonSeed,
		RecyclabilityRating: recyclabilitySeed,
	})
}

// Scorable is anything that can describe itself as scoring input.
type Scorable interface {
	ScoreInput() Input
}

// ScoreProduct scores any Scorable.
func ScoreProduct(s Scorable) Result {
	return ScoreInput(s.ScoreInput())
}

// ScoreInput computes the EcoScore for in.
func ScoreInput(in Input) Result {
	text := normalize(in.Name, in.Description)

	score, keywords := keywordScore(text)
	score = clamp(score, MinScore, MaxScore)
	level := LevelFor(score)

	res := Result{
		Score:               score,
		Level:               level,
		Keywords:            keywords,
		RecyclabilityRating: Recyclability(text, in.RecyclabilityRating),
		CarbonFootprint:     CarbonFootprint(text, in.CarbonFootprint),
	}
	res.Explanation = explain(res)
	if level == LevelLow {
		res.DangerReasons = dangerReasons(keywords)
	}
	return res
}

// LevelFor maps a score to its tier: >=80 high, 50-79 moderate, <50 low.
func LevelFor(score int) Level {
	switch {
	case score >= HighThreshold:
		return LevelHigh
	case score >= ModerateThreshold:
		return LevelModerate
	default:
		return LevelLow
	}
}

// Insight returns the fixed advisory sentence for the result's tier.
func Insight(r Result) string {
	switch LevelFor(r.Score) {
	case LevelHigh:
		return InsightHigh
	case LevelModerate:
		return InsightModerate
	default:
		return InsightLow
	}
}

// normalize joins name and description and case-folds them.
func normalize(name, description string) string {
	return strings.ToLower(name + " " + description)
}

// keywordScore applies the three keyword classes in order and returns the
// unclamped score with the matched keywords.
func keywordScore(text string) (int, []string) {
	score := BaselineScore
	keywords := []string{}

	for _, k := range HighKeywords {
		if strings.Contains(text, k) {
			score += HighKeywordWeight
			keywords = append(keywords, k)
		}
	}
	for _, k := range MediumKeywords {
		if strings.Contains(text, k) {
			score += MediumKeywordWeight
			keywords = append(keywords, k)
		}
	}
	for _, k := range NegativeKeywords {
		if strings.Contains(text, k) {
			score -= NegativeKeywordWeight
			keywords = append(keywords, NegativePrefix+k)
		}
	}

	return score, keywords
}

// dangerReasons returns one reason per negative keyword, or the generic reason
// when none matched.
func dangerReasons(keywords []string) []string {
	var reasons []string
	for _, k := range keywords {
		if !isNegative(k) {
			continue
		}
		if reason, ok := dangerByKeyword[k[len(NegativePrefix):]]; ok {
			reasons = append(reasons, reason)
		}
	}
	if len(reasons) == 0 {
		reasons = append(reasons, DangerGeneric)
	}
	return reasons
}

// explain builds the display sentence for r.
func explain(r Result) string {
	var b strings.Builder

	switch r.Level {
	case LevelHigh:
		fmt.Fprintf(&b, "EcoScore: %d 🌿 — Highly eco-friendly! ", r.Score)
	case LevelModerate:
		fmt.Fprintf(&b, "EcoScore: %d 💛 — Moderately eco-friendly. ", r.Score)
	default:
		fmt.Fprintf(&b, "EcoScore: %d 🔴 — Not eco-friendly. ", r.Score)
	}

	if positive := r.PositiveKeywords(); len(positive) > 0 {
		fmt.Fprintf(&b, "Contains: %s.", strings.Join(positive, ", "))
	}
	if concerns := r.Concerns(); len(concerns) > 0 {
		fmt.Fprintf(&b, " Concerns: %s.", strings.Join(concerns, ", "))
	}

	return strings.TrimSpace(b.String())
}

func isNegative(keyword string) bool {
	return strings.HasPrefix(keyword, NegativePrefix)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
