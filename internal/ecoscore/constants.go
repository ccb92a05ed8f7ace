package ecoscore

// Score weights. Every product starts at BaselineScore and each matched
// keyword moves the score by its class weight, at most once per keyword.
const (
	BaselineScore = 50
	MinScore      = 0
	MaxScore      = 100

	HighKeywordWeight     = 20
	MediumKeywordWeight   = 15
	NegativeKeywordWeight = 20
)

// Level boundaries, shared by LevelFor and Insight.
const (
	HighThreshold     = 80
	ModerateThreshold = 50
)

// NegativePrefix marks a negative keyword in Result.Keywords.
const NegativePrefix = "-"

// Keyword classes. Order matters: it is the order keywords are reported in.
//
//nolint:gochecknoglobals // Immutable lookup tables.
var (
	HighKeywords     = []string{"recycled", "organic"}
	MediumKeywords   = []string{"biodegradable", "eco", "bamboo", "sustainable", "natural"}
	NegativeKeywords = []string{"plastic", "disposable", "non-recyclable"}
)

// Danger reasons attached to low scores.
const (
	DangerPlastic = "Contains plastic, which can take hundreds of years to decompose " +
		"and breaks down into harmful microplastics."
	DangerDisposable = "Single-use disposable design adds to landfill waste and ocean pollution."
	DangerNonRecyclable = "Non-recyclable materials cannot be recovered and end up " +
		"permanently in landfills."
	DangerGeneric = "Low sustainability score indicates significant environmental impact " +
		"from materials or production."
)

// dangerByKeyword maps each negative keyword to its fixed reason.
//
//nolint:gochecknoglobals // Immutable lookup table.
var dangerByKeyword = map[string]string{
	"plastic":        DangerPlastic,
	"disposable":     DangerDisposable,
	"non-recyclable": DangerNonRecyclable,
}

// Recyclability pass.
const (
	DefaultRecyclability = 50

	RecycledBonus      = 30
	BiodegradableBonus = 20
	PlasticPenalty     = 30
	DisposablePenalty  = 25
	MinRecyclability   = 0
	MaxRecyclability   = 100
)

// Carbon footprint pass (kg CO2).
const (
	DefaultCarbonFootprintKg = 5.0

	RecycledCarbonFactor   = 0.6
	OrganicCarbonFactor    = 0.7
	PlasticCarbonFactor    = 1.5
	DisposableCarbonFactor = 1.3

	// MinCarbonFootprintKg is the smallest value reported after rounding to
	// one decimal, so a footprint is always positive.
	MinCarbonFootprintKg = 0.1
)

// Advisory sentences returned by Insight.
const (
	InsightHigh     = "AI Insight: Excellent eco-friendly choice with sustainable materials."
	InsightModerate = "AI Insight: Moderate sustainability. Consider eco-friendly alternatives."
	InsightLow      = "AI Insight: Low eco-friendliness. We recommend greener alternatives."
)

// EPA greenhouse gas equivalency factors (2024 edition), kg CO2e per unit.
// Source: https://www.epa.gov/energy/greenhouse-gas-equivalencies-calculator
const (
	EPAMilesDrivenFactor      = 0.192
	EPASmartphoneChargeFactor = 0.00822

	// MinEquivalencyKg is the smallest amount worth translating into equivalencies.
	MinEquivalencyKg = 1.0

	LargeNumberThreshold = 1_000_000
	BillionThreshold     = 1_000_000_000
)
