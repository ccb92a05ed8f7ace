package ecoscore

import (
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// keywordText generates text built from scoring keywords and filler words so
// the properties exercise every branch, not just random noise.
func keywordText() gopter.Gen {
	words := []string{
		"recycled", "organic", "biodegradable", "eco", "bamboo", "sustainable",
		"natural", "plastic", "disposable", "non-recyclable", "plastic-free",
		"recyclable", "steel", "cotton", "", "PLASTIC", "Organic",
	}
	return gen.SliceOf(gen.IntRange(0, len(words)-1)).Map(func(idx []int) string {
		parts := make([]string, 0, len(idx))
		for _, i := range idx {
			parts = append(parts, words[i])
		}
		return strings.Join(parts, " ")
	})
}

func TestScoreProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("score, recyclability and carbon stay in range", prop.ForAll(
		func(name, description string, carbon float64, recycle int) bool {
			r := Score(name, description, &carbon, &recycle)
			return r.Score >= MinScore && r.Score <= MaxScore &&
				r.RecyclabilityRating >= MinRecyclability && r.RecyclabilityRating <= MaxRecyclability &&
				r.CarbonFootprint > 0
		},
		keywordText(),
		gen.AnyString(),
		gen.Float64Range(-100, 10_000),
		gen.IntRange(-500, 500),
	))

	properties.Property("level is a function of score", prop.ForAll(
		func(text string) bool {
			r := Score(text, "", nil, nil)
			return r.Level == LevelFor(r.Score)
		},
		keywordText(),
	))

	properties.Property("danger reasons present iff score below 50", prop.ForAll(
		func(text string) bool {
			r := Score("", text, nil, nil)
			if r.Score < ModerateThreshold {
				return len(r.DangerReasons) > 0
			}
			return r.DangerReasons == nil
		},
		keywordText(),
	))

	properties.Property("scoring is deterministic", prop.ForAll(
		func(name, description string) bool {
			return reflect.DeepEqual(Score(name, description, nil, nil), Score(name, description, nil, nil))
		},
		keywordText(),
		keywordText(),
	))

	properties.TestingRun(t)
}
