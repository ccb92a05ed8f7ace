// Package catalog holds the products a shopper can browse, the brand
// sustainability ratings and the greener alternatives offered for poorly
// scoring products.
package catalog

import "github.com/rshade/ecoshopper/internal/ecoscore"

// Product is an item offered for sale. It is read-only input to scoring and
// the cart.
type Product struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	Price       float64 `json:"price" yaml:"price"`
	Image       string  `json:"image,omitempty" yaml:"image,omitempty"`
	Brand       string  `json:"brand,omitempty" yaml:"brand,omitempty"`
	Category    string  `json:"category,omitempty" yaml:"category,omitempty"`

	// CarbonFootprint seeds the carbon estimate in kg CO2.
	CarbonFootprint *float64 `json:"carbon_footprint,omitempty" yaml:"carbon_footprint,omitempty"`

	// RecyclabilityRating seeds the recyclability estimate (0-100).
	RecyclabilityRating *int `json:"recyclability_rating,omitempty" yaml:"recyclability_rating,omitempty"`
}

// ScoreInput implements ecoscore.Scorable.
func (p Product) ScoreInput() ecoscore.Input {
	return ecoscore.Input{
		Name:                p.Name,
		Description:         p.Description,
		CarbonFootprint:     p.CarbonFootprint,
		RecyclabilityRating: p.RecyclabilityRating,
	}
}

// Alternative is a greener substitute suggested for a low-scoring product.
// Its EcoScore is curated rather than computed.
type Alternative struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	EcoScore int     `json:"eco_score" yaml:"eco_score"`
	Price    float64 `json:"price" yaml:"price"`
	Image    string  `json:"image,omitempty" yaml:"image,omitempty"`
}
