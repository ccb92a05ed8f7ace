package ecoscore

import "strings"

// Recyclability estimates end-of-life recyclability (0-100) from normalized
// text. The adjustments are independent and can all fire on the same text.
func Recyclability(text string, seed *int) int {
	rating := DefaultRecyclability
	if seed != nil {
		rating = *seed
	}

	if strings.Contains(text, "recycled") || strings.Contains(text, "recyclable") {
		rating += RecycledBonus
	}
	if strings.Contains(text, "biodegradable") {
		rating += BiodegradableBonus
	}
	if strings.Contains(text, "plastic") && !strings.Contains(text, "recyclable") {
		rating -= PlasticPenalty
	}
	if strings.Contains(text, "disposable") {
		rating -= DisposablePenalty
	}

	return clamp(rating, MinRecyclability, MaxRecyclability)
}
