// Package session holds a shopper's mutable session state: stats, cart,
// feedback and preferences. A Store is loaded from and saved to an injected
// Persistence port and never fails; storage problems are logged and the
// session continues on defaults.
package session

import (
	"fmt"

	"github.com/rshade/ecoshopper/internal/catalog"
)

// Logical persistence keys, one per snapshot part.
const (
	KeyStats      = "ecoshopper_stats"
	KeyCart       = "ecoshopper_cart"
	KeyTheme      = "ecoshopper_theme"
	KeyPreference = "ecoshopper_preference"
	KeyFeedback   = "ecoshopper_feedbacks"
)

// AllKeys returns every logical key in a stable order.
func AllKeys() []string {
	return []string{KeyStats, KeyCart, KeyTheme, KeyPreference, KeyFeedback}
}

// DefaultEcoPreference is the preference of a new session.
const DefaultEcoPreference = 50

// Theme is the display theme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), nil
	default:
		return "", fmt.Errorf("unknown theme %q", s)
	}
}

// Vote is a shopper's verdict on a product's EcoScore.
type Vote string

const (
	VoteUp   Vote = "up"
	VoteDown Vote = "down"
)

// ParseVote validates a vote.
func ParseVote(s string) (Vote, error) {
	switch Vote(s) {
	case VoteUp, VoteDown:
		return Vote(s), nil
	default:
		return "", fmt.Errorf("unknown vote %q (must be up or down)", s)
	}
}

// UserStats are the session's gamification counters. Badge is derived from
// EcoProductsViewed and never trusted from storage.
type UserStats struct {
	GreenPoints       int     `json:"green_points"`
	CO2Saved          float64 `json:"co2_saved"`
	ProductsViewed    int     `json:"products_viewed"`
	EcoProductsViewed int     `json:"eco_products_viewed"`
	Badge             string  `json:"badge"`
}

// CartItem is a cart line. Quantity is always positive while the line exists.
type CartItem struct {
	catalog.Product

	Quantity int `json:"quantity"`
}

// Subtotal is price times quantity.
func (c CartItem) Subtotal() float64 {
	return c.Price * float64(c.Quantity)
}

// Feedback is the single feedback record a shopper keeps per product.
type Feedback struct {
	ProductID string   `json:"product_id"`
	Vote      Vote     `json:"vote"`
	Comment   string   `json:"comment,omitempty"`
	Images    []string `json:"images"`

	// Timestamp is Unix milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// Snapshot is a point-in-time copy of the whole session.
type Snapshot struct {
	Stats         UserStats  `json:"stats"`
	Cart          []CartItem `json:"cart"`
	Theme         Theme      `json:"theme"`
	EcoPreference int        `json:"eco_preference"`
	Feedback      []Feedback `json:"feedback"`
}

// DefaultSnapshot is the state of a brand-new session.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Stats:         DefaultStats(),
		Cart:          []CartItem{},
		Theme:         ThemeLight,
		EcoPreference: DefaultEcoPreference,
		Feedback:      []Feedback{},
	}
}

// DefaultStats returns zeroed stats with the baseline badge.
func DefaultStats() UserStats {
	return UserStats{Badge: BadgeFor(0)}
}
