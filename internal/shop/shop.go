// Package shop is the caller-side policy shared by every host: which views
// earn points, how a product is presented, what a valid feedback looks like.
// It combines the catalog, the EcoScore engine and the session store.
package shop

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/ecoshopper/internal/catalog"
	"github.com/rshade/ecoshopper/internal/config"
	"github.com/rshade/ecoshopper/internal/ecoscore"
	"github.com/rshade/ecoshopper/internal/logging"
	"github.com/rshade/ecoshopper/internal/session"
)

// Limits applied to user input.
const (
	MaxFeedbackImages = 3
	MinEcoPreference  = 0
	MaxEcoPreference  = 100

	// DefaultBrandScore is shown for brands the catalog has no rating for.
	DefaultBrandScore = 50
)

// Sentinel errors.
var (
	ErrInvalidFeedback   = errors.New("invalid feedback")
	ErrInvalidPreference = errors.New("invalid eco preference")
)

// ErrProductNotFound is re-exported so hosts need not import catalog.
var ErrProductNotFound = catalog.ErrProductNotFound

// EngagementPolicy decides which views earn green points.
type EngagementPolicy struct {
	Threshold  int
	Points     int
	CO2PerView float64
}

// DefaultPolicy returns the built-in engagement policy.
func DefaultPolicy() EngagementPolicy {
	return EngagementPolicy{
		Threshold:  config.DefaultEngagementThreshold,
		Points:     config.DefaultEngagementPoints,
		CO2PerView: config.DefaultCO2PerView,
	}
}

// PolicyFromConfig reads the engagement section of cfg.
func PolicyFromConfig(cfg *config.Config) EngagementPolicy {
	if cfg == nil {
		return DefaultPolicy()
	}
	return EngagementPolicy{
		Threshold:  cfg.Engagement.Threshold,
		Points:     cfg.Engagement.Points,
		CO2PerView: cfg.Engagement.CO2PerView,
	}
}

// Qualifies reports whether a score is strictly above the threshold.
func (p EngagementPolicy) Qualifies(score int) bool {
	return score > p.Threshold
}

// ScoredProduct pairs a product with its EcoScore.
type ScoredProduct struct {
	catalog.Product
	Result ecoscore.Result `json:"result"`
}

// ProductView is everything a host shows on a product detail screen.
type ProductView struct {
	Product      catalog.Product            `json:"product"`
	Result       ecoscore.Result            `json:"result"`
	Insight      string                     `json:"insight"`
	Equivalency  ecoscore.EquivalencyOutput `json:"equivalency"`
	Alternatives []catalog.Alternative      `json:"alternatives,omitempty"`
	BrandScore   int                        `json:"brand_score"`

	// Qualified is true when the view earned points.
	Qualified bool `json:"qualified"`

	// RequiresDangerAck is true for low-tier products; hosts show a warning
	// before the details.
	RequiresDangerAck bool `json:"requires_danger_ack"`
}

// CartLine is a cart item with the product's score.
type CartLine struct {
	session.CartItem
	Score     int            `json:"score"`
	Level     ecoscore.Level `json:"level"`
	LineTotal float64        `json:"line_total"`
}

// CartSummary is the cart with its totals.
type CartSummary struct {
	Lines []CartLine `json:"lines"`
	Total float64    `json:"total"`
	Items int        `json:"items"`
}

// Option configures a Shop.
type Option func(*Shop)

// WithPolicy overrides DefaultPolicy.
func WithPolicy(p EngagementPolicy) Option {
	return func(s *Shop) {
		s.policy = p
	}
}

// WithClock overrides time.Now for feedback timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Shop) {
		s.now = now
	}
}

// WithLogger sets the shop's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Shop) {
		s.logger = l
	}
}

// Shop is safe for concurrent use; all mutable state lives in the store.
type Shop struct {
	catalog *catalog.Catalog
	store   *session.Store
	policy  EngagementPolicy
	now     func() time.Time
	logger  zerolog.Logger
}

// New builds a Shop over a catalog and session store.
func New(ctx context.Context, c *catalog.Catalog, st *session.Store, opts ...Option) *Shop {
	if ctx == nil {
		ctx = context.Background()
	}
	s := &Shop{
		catalog: c,
		store:   st,
		policy:  DefaultPolicy(),
		now:     time.Now,
		logger:  logging.ComponentLogger(*logging.FromContext(ctx), "shop"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the shop's catalog.
func (s *Shop) Catalog() *catalog.Catalog {
	return s.catalog
}

// Store returns the shop's session store.
func (s *Shop) Store() *session.Store {
	return s.store
}

// Policy returns the engagement policy in use.
func (s *Shop) Policy() EngagementPolicy {
	return s.policy
}

// Score scores a catalog product by id.
func (s *Shop) Score(id string) (ScoredProduct, error) {
	p, err := s.catalog.MustGet(id)
	if err != nil {
		return ScoredProduct{}, err
	}
	return ScoredProduct{Product: p, Result: ecoscore.ScoreProduct(p)}, nil
}

// Scored scores every product in category ("" for all), in catalog order.
func (s *Shop) Scored(category string) []ScoredProduct {
	products := s.catalog.Filter(category)
	out := make([]ScoredProduct, 0, len(products))
	for _, p := range products {
		out = append(out, ScoredProduct{Product: p, Result: ecoscore.ScoreProduct(p)})
	}
	return out
}

// Preview builds the detail view without counting it.
func (s *Shop) Preview(id string) (ProductView, error) {
	sp, err := s.Score(id)
	if err != nil {
		return ProductView{}, err
	}

	brand, ok := s.catalog.BrandScore(sp.Brand)
	if !ok {
		brand = DefaultBrandScore
	}

	return ProductView{
		Product:           sp.Product,
		Result:            sp.Result,
		Insight:           ecoscore.Insight(sp.Result),
		Equivalency:       ecoscore.Equivalency(sp.Result.CarbonFootprint),
		Alternatives:      s.catalog.AlternativesFor(id),
		BrandScore:        brand,
		Qualified:         s.policy.Qualifies(sp.Result.Score),
		RequiresDangerAck: sp.Result.IsLow(),
	}, nil
}

// View builds the detail view and records it in the session. Qualifying
// views earn the policy's points and CO2; others count as plain views.
func (s *Shop) View(id string) (ProductView, error) {
	v, err := s.Preview(id)
	if err != nil {
		return ProductView{}, err
	}

	points, co2 := 0, 0.0
	if v.Qualified {
		points, co2 = s.policy.Points, s.policy.CO2PerView
	}
	s.store.RecordProductView(points, co2, v.Qualified)

	s.logger.Debug().
		Str("operation", "view").
		Str("product_id", id).
		Int("score", v.Result.Score).
		Bool("qualified", v.Qualified).
		Msg("product viewed")
	return v, nil
}

// AddToCart adds one unit of a catalog product and returns it scored so the
// caller can celebrate eco-friendly choices.
func (s *Shop) AddToCart(id string) (ScoredProduct, error) {
	sp, err := s.Score(id)
	if err != nil {
		return ScoredProduct{}, err
	}
	s.store.AddToCart(sp.Product)
	return sp, nil
}

// SetQuantity sets a cart line's quantity; zero or less removes it. Ids not
// in the cart are ignored. It reports whether the id had a cart line.
func (s *Shop) SetQuantity(id string, quantity int) bool {
	found := s.inCart(id)
	s.store.SetQuantity(id, quantity)
	return found
}

// Remove deletes a cart line, ignoring ids not in the cart. It reports
// whether the id had a cart line.
func (s *Shop) Remove(id string) bool {
	found := s.inCart(id)
	s.store.RemoveFromCart(id)
	return found
}

// ClearCart empties the cart.
func (s *Shop) ClearCart() {
	s.store.ClearCart()
}

// Cart returns the cart lines with their scores and the totals.
func (s *Shop) Cart() CartSummary {
	items := s.store.Cart()
	summary := CartSummary{Lines: make([]CartLine, 0, len(items))}
	for _, item := range items {
		r := ecoscore.ScoreProduct(item.Product)
		line := CartLine{
			CartItem:  item,
			Score:     r.Score,
			Level:     r.Level,
			LineTotal: item.Subtotal(),
		}
		summary.Lines = append(summary.Lines, line)
		summary.Total += line.LineTotal
		summary.Items += item.Quantity
	}
	return summary
}

// SetEcoPreference stores the price/eco slider value.
func (s *Shop) SetEcoPreference(v int) error {
	if v < MinEcoPreference || v > MaxEcoPreference {
		return fmt.Errorf("%w: %d is outside [%d,%d]", ErrInvalidPreference, v, MinEcoPreference, MaxEcoPreference)
	}
	s.store.SetEcoPreference(v)
	return nil
}

// SubmitFeedback records a vote on a catalog product. A comment or at least
// one image is required. It replaces any earlier feedback for the product.
func (s *Shop) SubmitFeedback(id string, vote session.Vote, comment string, images []string) (session.Feedback, error) {
	if _, err := s.catalog.MustGet(id); err != nil {
		return session.Feedback{}, err
	}
	if _, err := session.ParseVote(string(vote)); err != nil {
		return session.Feedback{}, fmt.Errorf("%w: %w", ErrInvalidFeedback, err)
	}
	if len(images) > MaxFeedbackImages {
		return session.Feedback{}, fmt.Errorf("%w: at most %d images, got %d",
			ErrInvalidFeedback, MaxFeedbackImages, len(images))
	}
	comment = strings.TrimSpace(comment)
	if comment == "" && len(images) == 0 {
		return session.Feedback{}, fmt.Errorf("%w: a comment or an image is required", ErrInvalidFeedback)
	}

	f := session.Feedback{
		ProductID: id,
		Vote:      vote,
		Comment:   comment,
		Images:    append([]string{}, images...),
		Timestamp: s.now().UnixMilli(),
	}
	s.store.SubmitFeedback(f)

	s.logger.Info().
		Str("operation", "submit_feedback").
		Str("product_id", id).
		Str("vote", string(vote)).
		Int("images", len(images)).
		Msg("feedback recorded")
	return f, nil
}

// Vote records a thumbs up or down without a comment. An earlier comment and
// its images are kept; only the vote and timestamp change.
func (s *Shop) Vote(id string, vote session.Vote) (session.Feedback, error) {
	if _, err := s.catalog.MustGet(id); err != nil {
		return session.Feedback{}, err
	}
	if _, err := session.ParseVote(string(vote)); err != nil {
		return session.Feedback{}, fmt.Errorf("%w: %w", ErrInvalidFeedback, err)
	}

	f, ok := s.store.FeedbackForProduct(id)
	if !ok {
		f = session.Feedback{ProductID: id, Images: []string{}}
	}
	f.Vote = vote
	f.Timestamp = s.now().UnixMilli()
	s.store.SubmitFeedback(f)

	s.logger.Info().
		Str("operation", "vote").
		Str("product_id", id).
		Str("vote", string(vote)).
		Msg("vote recorded")
	return f, nil
}

// Feedback returns the feedback recorded for a product, if any.
func (s *Shop) Feedback(id string) (session.Feedback, bool) {
	return s.store.FeedbackForProduct(id)
}

func (s *Shop) inCart(id string) bool {
	for _, item := range s.store.Cart() {
		if item.ID == id {
			return true
		}
	}
	return false
}
