package ecoscore

import (
	"math"
	"strings"
)

// CarbonFootprint estimates production impact in kg CO2 from normalized text.
// Multipliers compound in a fixed order: recycled, organic, plastic, disposable.
// The result is rounded to one decimal and never drops below MinCarbonFootprintKg.
func CarbonFootprint(text string, seed *float64) float64 {
	kg := DefaultCarbonFootprintKg
	if seed != nil && *seed > 0 && !math.IsInf(*seed, 0) && !math.IsNaN(*seed) {
		kg = *seed
	}

	if strings.Contains(text, "recycled") {
		kg *= RecycledCarbonFactor
	}
	if strings.Contains(text, "organic") {
		kg *= OrganicCarbonFactor
	}
	if strings.Contains(text, "plastic") {
		kg *= PlasticCarbonFactor
	}
	if strings.Contains(text, "disposable") {
		kg *= DisposableCarbonFactor
	}

	return max(roundTenth(kg), MinCarbonFootprintKg)
}

func roundTenth(v float64) float64 {
	const tenths = 10
	return math.Round(v*tenths) / tenths
}
