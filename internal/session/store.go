package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/ecoshopper/internal/catalog"
	"github.com/rshade/ecoshopper/internal/logging"
)

// DefaultSaveTimeout bounds each persistence write.
const DefaultSaveTimeout = 5 * time.Second

// Persistence loads and saves session parts by logical key. Load returns only
// the keys it has; a missing key is not an error.
type Persistence interface {
	Load(ctx context.Context, keys []string) (map[string][]byte, error)
	Save(ctx context.Context, entries map[string][]byte) error
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger. The default comes from the context
// passed to New.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithSaveTimeout overrides DefaultSaveTimeout.
func WithSaveTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.saveTimeout = d
	}
}

// Store is the session state container. Every method is atomic with respect
// to every other; it is safe for concurrent use.
//
// Saves and observer callbacks run on a single writer goroutine, in mutation
// order. Call Flush to wait for them and Close when the store is done.
type Store struct {
	mu          sync.Mutex
	state       Snapshot
	persistence Persistence

	ctx         context.Context //nolint:containedctx // Base context for fire-and-forget saves.
	logger      zerolog.Logger
	saveTimeout time.Duration

	queueMu   sync.Mutex
	queueCond *sync.Cond
	queue     []pending
	writing   bool
	closed    bool
	done      chan struct{}
	closeOnce sync.Once

	obsMu     sync.Mutex
	observers map[int]func(Snapshot)
	nextObsID int
}

// New builds a Store and loads its initial state from p. A nil p keeps the
// session in memory only. Load problems never fail construction: unreadable
// parts start from their defaults and are logged.
func New(ctx context.Context, p Persistence, opts ...Option) *Store {
	if ctx == nil {
		ctx = context.Background()
	}
	s := &Store{
		state:       DefaultSnapshot(),
		persistence: p,
		ctx:         context.WithoutCancel(ctx),
		logger:      logging.ComponentLogger(*logging.FromContext(ctx), "session"),
		saveTimeout: DefaultSaveTimeout,
		observers:   make(map[int]func(Snapshot)),
		done:        make(chan struct{}),
	}
	s.queueCond = sync.NewCond(&s.queueMu)
	for _, opt := range opts {
		opt(s)
	}
	s.load(ctx)
	go s.runWriter()
	return s
}

func (s *Store) load(ctx context.Context) {
	if s.persistence == nil {
		return
	}

	entries, err := s.persistence.Load(ctx, AllKeys())
	if err != nil {
		s.logger.Warn().Ctx(ctx).
			Str("operation", "load").
			Err(err).
			Msg("session snapshot unreadable, starting from defaults")
		return
	}

	snap, problems := decode(entries)
	for key, perr := range problems {
		s.logger.Warn().Ctx(ctx).
			Str("operation", "load").
			Str("key", key).
			Err(perr).
			Msg("session key malformed, using default")
	}
	s.state = snap

	s.logger.Debug().Ctx(ctx).
		Str("operation", "load").
		Int("keys_found", len(entries)).
		Int("cart_lines", len(snap.Cart)).
		Msg("session loaded")
}

// mutate applies fn under the lock and queues the resulting snapshot for the
// writer. Queueing under the lock keeps the queue in mutation order.
func (s *Store) mutate(fn func(*Snapshot), keys ...string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.state)
	snap := s.state.clone()
	s.enqueue(snap, keys)
	return snap
}

// save writes keys for snap. Failures are logged and otherwise ignored.
func (s *Store) save(snap Snapshot, keys []string) {
	if s.persistence == nil {
		return
	}

	entries, err := encode(snap, keys...)
	if err == nil {
		ctx, cancel := context.WithTimeout(s.ctx, s.saveTimeout)
		err = s.persistence.Save(ctx, entries)
		cancel()
	}
	if err != nil {
		s.logger.Warn().Ctx(s.ctx).
			Str("operation", "save").
			Strs("keys", keys).
			Err(err).
			Msg("session save failed")
	}
}

// RecordProductView counts a product view. Points and co2 are added as given;
// callers pass zero for views that do not qualify.
func (s *Store) RecordProductView(points int, co2 float64, isEco bool) {
	s.mutate(func(st *Snapshot) {
		st.Stats.ProductsViewed++
		if isEco {
			st.Stats.EcoProductsViewed++
		}
		st.Stats.GreenPoints += points
		st.Stats.CO2Saved += co2
		st.Stats.Badge = BadgeFor(st.Stats.EcoProductsViewed)
	}, KeyStats)
}

// AddToCart adds one unit of p, appending a new line if p is not in the cart.
func (s *Store) AddToCart(p catalog.Product) {
	s.mutate(func(st *Snapshot) {
		for i := range st.Cart {
			if st.Cart[i].ID == p.ID {
				st.Cart[i].Quantity++
				return
			}
		}
		st.Cart = append(st.Cart, CartItem{Product: p, Quantity: 1})
	}, KeyCart)
}

// RemoveFromCart deletes the line for productID. Absent ids are ignored.
func (s *Store) RemoveFromCart(productID string) {
	s.mutate(func(st *Snapshot) {
		st.Cart = removeLine(st.Cart, productID)
	}, KeyCart)
}

// SetQuantity sets a line's quantity. Zero or less removes the line; absent
// ids are ignored.
func (s *Store) SetQuantity(productID string, quantity int) {
	s.mutate(func(st *Snapshot) {
		if quantity <= 0 {
			st.Cart = removeLine(st.Cart, productID)
			return
		}
		for i := range st.Cart {
			if st.Cart[i].ID == productID {
				st.Cart[i].Quantity = quantity
				return
			}
		}
	}, KeyCart)
}

// ClearCart empties the cart.
func (s *Store) ClearCart() {
	s.mutate(func(st *Snapshot) {
		st.Cart = []CartItem{}
	}, KeyCart)
}

// ToggleTheme flips the theme and returns the new one.
func (s *Store) ToggleTheme() Theme {
	return s.mutate(func(st *Snapshot) {
		st.Theme = st.Theme.Toggle()
	}, KeyTheme).Theme
}

// SetEcoPreference stores v as given. Range checks belong to the caller.
func (s *Store) SetEcoPreference(v int) {
	s.mutate(func(st *Snapshot) {
		st.EcoPreference = v
	}, KeyPreference)
}

// SubmitFeedback replaces any feedback for f.ProductID with f.
func (s *Store) SubmitFeedback(f Feedback) {
	f.Images = append([]string{}, f.Images...)
	s.mutate(func(st *Snapshot) {
		st.Feedback = upsertFeedback(st.Feedback, f)
	}, KeyFeedback)
}

// FeedbackForProduct returns the feedback for productID, if any.
func (s *Store) FeedbackForProduct(productID string) (Feedback, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.state.Feedback {
		if f.ProductID == productID {
			return cloneFeedback(f), true
		}
	}
	return Feedback{}, false
}

// Stats returns the current stats.
func (s *Store) Stats() UserStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Stats
}

// Cart returns a copy of the cart lines in insertion order.
func (s *Store) Cart() []CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]CartItem{}, s.state.Cart...)
}

// CartTotals returns the cart's total price and item count.
//
//nolint:nonamedreturns // Named returns document the pair.
func (s *Store) CartTotals() (total float64, items int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, line := range s.state.Cart {
		total += line.Subtotal()
		items += line.Quantity
	}
	return total, items
}

// Theme returns the current theme.
func (s *Store) Theme() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Theme
}

// EcoPreference returns the current eco preference.
func (s *Store) EcoPreference() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.EcoPreference
}

// Feedbacks returns every feedback record, oldest submission first.
func (s *Store) Feedbacks() []Feedback {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone().Feedback
}

// Snapshot returns a deep copy of the whole session.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

func removeLine(cart []CartItem, productID string) []CartItem {
	out := make([]CartItem, 0, len(cart))
	for _, line := range cart {
		if line.ID != productID {
			out = append(out, line)
		}
	}
	return out
}

func (snap Snapshot) clone() Snapshot {
	out := snap
	out.Cart = append([]CartItem{}, snap.Cart...)
	out.Feedback = make([]Feedback, len(snap.Feedback))
	for i, f := range snap.Feedback {
		out.Feedback[i] = cloneFeedback(f)
	}
	return out
}

func cloneFeedback(f Feedback) Feedback {
	f.Images = append([]string{}, f.Images...)
	return f
}
