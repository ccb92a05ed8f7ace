package session_test

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecoshopper/internal/catalog"
	"github.com/rshade/ecoshopper/internal/session"
)

// fakePersistence is an in-memory Persistence with failure injection.
type fakePersistence struct {
	mu      sync.Mutex
	data    map[string][]byte
	loadErr error
	saveErr error
	saves   int
}

func newFake() *fakePersistence {
	return &fakePersistence{data: make(map[string][]byte)}
}

func (f *fakePersistence) Load(_ context.Context, keys []string) (map[string][]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	out := make(map[string][]byte)
	for _, k := range keys {
		if v, ok := f.data[k]; ok {
			out[k] = append([]byte(nil), v...)
		}
	}
	return out, nil
}

func (f *fakePersistence) Save(_ context.Context, entries map[string][]byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	for k, v := range entries {
		f.data[k] = append([]byte(nil), v...)
	}
	return nil
}

func product(id string, price float64) catalog.Product {
	return catalog.Product{ID: id, Name: "Product " + id, Price: price}
}

func TestNew_DefaultsWithoutPersistence(t *testing.T) {
	s := session.New(context.Background(), nil)

	assert.Equal(t, session.DefaultSnapshot(), s.Snapshot())
	assert.Equal(t, session.BadgeEcoBeginner, s.Stats().Badge)
	assert.Equal(t, session.ThemeLight, s.Theme())
	assert.Equal(t, 50, s.EcoPreference())
	assert.Empty(t, s.Cart())
	assert.Empty(t, s.Feedbacks())
}

func TestRecordProductView_TenEcoViewsMakeGreenHero(t *testing.T) {
	s := session.New(context.Background(), nil)

	for range 9 {
		s.RecordProductView(10, 0.5, true)
	}
	assert.Equal(t, session.BadgeEcoBeginner, s.Stats().Badge)

	s.RecordProductView(10, 0.5, true)

	stats := s.Stats()
	assert.Equal(t, 10, stats.ProductsViewed)
	assert.Equal(t, 10, stats.EcoProductsViewed)
	assert.Equal(t, 100, stats.GreenPoints)
	assert.InDelta(t, 5.0, stats.CO2Saved, 1e-9)
	assert.Equal(t, session.BadgeGreenHero, stats.Badge)
}

func TestRecordProductView_NonEcoAndRawDeltas(t *testing.T) {
	s := session.New(context.Background(), nil)

	s.RecordProductView(0, 0, false)
	s.RecordProductView(-5, -1.5, false)

	stats := s.Stats()
	assert.Equal(t, 2, stats.ProductsViewed)
	assert.Equal(t, 0, stats.EcoProductsViewed)
	assert.Equal(t, -5, stats.GreenPoints)
	assert.InDelta(t, -1.5, stats.CO2Saved, 1e-9)
}

func TestBadgeFor(t *testing.T) {
	tests := []struct {
		views int
		want  string
	}{
		{0, session.BadgeEcoBeginner},
		{9, session.BadgeEcoBeginner},
		{10, session.BadgeGreenHero},
		{24, session.BadgeGreenHero},
		{25, session.BadgePlanetSaver},
		{1000, session.BadgePlanetSaver},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, session.BadgeFor(tt.views), "views=%d", tt.views)
	}
}

func TestCart(t *testing.T) {
	t.Run("adding twice increments one line", func(t *testing.T) {
		s := session.New(context.Background(), nil)
		s.AddToCart(product("1", 2))
		s.AddToCart(product("1", 2))

		cart := s.Cart()
		require.Len(t, cart, 1)
		assert.Equal(t, 2, cart[0].Quantity)
	})

	t.Run("new lines append and order is kept", func(t *testing.T) {
		s := session.New(context.Background(), nil)
		s.AddToCart(product("a", 1))
		s.AddToCart(product("b", 1))
		s.AddToCart(product("a", 1))
		s.AddToCart(product("c", 1))

		ids := []string{}
		for _, line := range s.Cart() {
			ids = append(ids, line.ID)
		}
		assert.Equal(t, []string{"a", "b", "c"}, ids)
	})

	t.Run("set quantity zero removes", func(t *testing.T) {
		s := session.New(context.Background(), nil)
		s.AddToCart(product("a", 1))
		s.AddToCart(product("b", 1))
		s.SetQuantity("a", 0)

		cart := s.Cart()
		require.Len(t, cart, 1)
		assert.Equal(t, "b", cart[0].ID)
	})

	t.Run("set quantity negative removes", func(t *testing.T) {
		s := session.New(context.Background(), nil)
		s.AddToCart(product("a", 1))
		s.SetQuantity("a", -3)
		assert.Empty(t, s.Cart())
	})

	t.Run("set quantity on absent id is a no-op", func(t *testing.T) {
		s := session.New(context.Background(), nil)
		s.AddToCart(product("a", 1))
		before := s.Cart()
		s.SetQuantity("zzz", 5)
		assert.Equal(t, before, s.Cart())
	})

	t.Run("set quantity keeps order", func(t *testing.T) {
		s := session.New(context.Background(), nil)
		s.AddToCart(product("a", 1))
		s.AddToCart(product("b", 1))
		s.SetQuantity("a", 7)

		cart := s.Cart()
		require.Len(t, cart, 2)
		assert.Equal(t, "a", cart[0].ID)
		assert.Equal(t, 7, cart[0].Quantity)
		assert.Equal(t, 1, cart[1].Quantity)
	})

	t.Run("remove absent id is a no-op", func(t *testing.T) {
		s := session.New(context.Background(), nil)
		s.AddToCart(product("a", 1))
		s.RemoveFromCart("nope")
		assert.Len(t, s.Cart(), 1)
		s.RemoveFromCart("a")
		assert.Empty(t, s.Cart())
	})

	t.Run("clear and totals", func(t *testing.T) {
		s := session.New(context.Background(), nil)
		s.AddToCart(product("a", 2.5))
		s.AddToCart(product("a", 2.5))
		s.AddToCart(product("b", 10))

		total, items := s.CartTotals()
		assert.InDelta(t, 15.0, total, 1e-9)
		assert.Equal(t, 3, items)

		s.ClearCart()
		total, items = s.CartTotals()
		assert.Zero(t, total)
		assert.Zero(t, items)
	})
}

func TestCart_ConcurrentAddsDoNotDropIncrements(t *testing.T) {
	fake := newFake()
	s := session.New(context.Background(), fake)

	const workers = 50
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddToCart(product("p", 1))
		}()
	}
	wg.Wait()
	s.Flush()

	cart := s.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, workers, cart[0].Quantity)

	// The last write reflects the final state.
	reloaded := session.New(context.Background(), fake)
	assert.Equal(t, workers, reloaded.Cart()[0].Quantity)
}

func TestThemeAndPreference(t *testing.T) {
	s := session.New(context.Background(), nil)

	assert.Equal(t, session.ThemeDark, s.ToggleTheme())
	assert.Equal(t, session.ThemeDark, s.Theme())
	assert.Equal(t, session.ThemeLight, s.ToggleTheme())

	s.SetEcoPreference(150)
	assert.Equal(t, 150, s.EcoPreference(), "preference is stored as given")
}

func TestFeedback_LastWriteWins(t *testing.T) {
	s := session.New(context.Background(), nil)

	s.SubmitFeedback(session.Feedback{ProductID: "7", Vote: session.VoteUp, Timestamp: 1})
	s.SubmitFeedback(session.Feedback{ProductID: "2", Vote: session.VoteUp, Timestamp: 2})
	s.SubmitFeedback(session.Feedback{ProductID: "7", Vote: session.VoteDown, Comment: "changed", Timestamp: 3})

	all := s.Feedbacks()
	require.Len(t, all, 2)
	assert.Equal(t, "2", all[0].ProductID)
	assert.Equal(t, "7", all[1].ProductID)

	got, ok := s.FeedbackForProduct("7")
	require.True(t, ok)
	assert.Equal(t, session.VoteDown, got.Vote)
	assert.Equal(t, "changed", got.Comment)

	other, ok := s.FeedbackForProduct("2")
	require.True(t, ok)
	assert.Equal(t, session.VoteUp, other.Vote)

	_, ok = s.FeedbackForProduct("9")
	assert.False(t, ok)
}

func TestFeedback_ReturnsCopies(t *testing.T) {
	s := session.New(context.Background(), nil)
	images := []string{"a.png"}
	s.SubmitFeedback(session.Feedback{ProductID: "1", Vote: session.VoteUp, Images: images})
	images[0] = "mutated"

	got, _ := s.FeedbackForProduct("1")
	assert.Equal(t, []string{"a.png"}, got.Images)
	got.Images[0] = "mutated"

	again, _ := s.FeedbackForProduct("1")
	assert.Equal(t, []string{"a.png"}, again.Images)
}

func TestPersistence_RoundTrip(t *testing.T) {
	fake := newFake()
	s := session.New(context.Background(), fake)

	s.RecordProductView(10, 0.5, true)
	s.AddToCart(product("1", 12.99))
	s.ToggleTheme()
	s.SetEcoPreference(80)
	s.SubmitFeedback(session.Feedback{ProductID: "1", Vote: session.VoteUp, Comment: "great"})
	s.Flush()

	assert.Equal(t, "dark", string(fake.data[session.KeyTheme]))
	assert.Equal(t, "80", string(fake.data[session.KeyPreference]))

	reloaded := session.New(context.Background(), fake)
	assert.Equal(t, s.Snapshot(), reloaded.Snapshot())
}

func TestPersistence_MutationSavesOnlyTouchedKey(t *testing.T) {
	fake := newFake()
	s := session.New(context.Background(), fake)

	s.SetEcoPreference(10)
	s.Flush()

	assert.Len(t, fake.data, 1)
	assert.Contains(t, fake.data, session.KeyPreference)
}

func TestLoad_MalformedKeysFallBackIndividually(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	fake := newFake()
	fake.data[session.KeyStats] = []byte(`{not json`)
	fake.data[session.KeyCart] = []byte(`[{"id":"1","name":"x","price":1,"quantity":2},` +
		`{"id":"2","quantity":0},{"id":"1","quantity":5},{"id":"","quantity":1}]`)
	fake.data[session.KeyTheme] = []byte(`purple`)
	fake.data[session.KeyPreference] = []byte(` 75 `)
	fake.data[session.KeyFeedback] = []byte(`"nope"`)

	s := session.New(context.Background(), fake, session.WithLogger(logger))

	snap := s.Snapshot()
	assert.Equal(t, session.DefaultStats(), snap.Stats)
	require.Len(t, snap.Cart, 1)
	assert.Equal(t, 2, snap.Cart[0].Quantity)
	assert.Equal(t, session.ThemeLight, snap.Theme)
	assert.Equal(t, 75, snap.EcoPreference)
	assert.Empty(t, snap.Feedback)

	logs := buf.String()
	assert.Contains(t, logs, session.KeyStats)
	assert.Contains(t, logs, session.KeyTheme)
	assert.Contains(t, logs, session.KeyFeedback)
	assert.Contains(t, logs, `"level":"warn"`)
}

func TestLoad_StoredBadgeIsIgnoredAndCountsClamped(t *testing.T) {
	fake := newFake()
	fake.data[session.KeyStats] = []byte(`{"green_points":5,"products_viewed":3,` +
		`"eco_products_viewed":30,"badge":"Hacker"}`)

	s := session.New(context.Background(), fake)

	stats := s.Stats()
	assert.Equal(t, 3, stats.EcoProductsViewed)
	assert.Equal(t, session.BadgeEcoBeginner, stats.Badge)
	assert.Equal(t, 5, stats.GreenPoints)
}

func TestLoad_FailureUsesDefaults(t *testing.T) {
	fake := newFake()
	fake.loadErr = errors.New("disk on fire")

	s := session.New(context.Background(), fake)
	assert.Equal(t, session.DefaultSnapshot(), s.Snapshot())
}

func TestSave_FailureDoesNotGateOperations(t *testing.T) {
	var buf bytes.Buffer
	fake := newFake()
	fake.saveErr = errors.New("read-only")

	s := session.New(context.Background(), fake, session.WithLogger(zerolog.New(&buf)))

	for i := range 3 {
		s.AddToCart(product(strconv.Itoa(i), 1))
	}
	s.Flush()

	assert.Len(t, s.Cart(), 3)
	assert.Equal(t, 3, fake.saves)
	assert.Contains(t, buf.String(), "session save failed")
}

func TestSubscribe(t *testing.T) {
	s := session.New(context.Background(), nil)

	var got []session.Snapshot
	cancel := s.Subscribe(func(snap session.Snapshot) {
		// Reading back from the store inside a callback must not deadlock.
		_ = s.Theme()
		got = append(got, snap)
	})

	s.AddToCart(product("1", 1))
	s.ToggleTheme()
	s.Flush()
	cancel()
	cancel()
	s.ClearCart()
	s.Flush()

	require.Len(t, got, 2)
	assert.Len(t, got[0].Cart, 1)
	assert.Equal(t, session.ThemeDark, got[1].Theme)
}

func TestParseVoteAndTheme(t *testing.T) {
	v, err := session.ParseVote("up")
	require.NoError(t, err)
	assert.Equal(t, session.VoteUp, v)
	_, err = session.ParseVote("sideways")
	require.Error(t, err)

	th, err := session.ParseTheme("dark")
	require.NoError(t, err)
	assert.Equal(t, session.ThemeDark, th)
	_, err = session.ParseTheme("")
	require.Error(t, err)
}

// blockingPersistence never finishes a save until its context ends.
type blockingPersistence struct{}

func (blockingPersistence) Load(context.Context, []string) (map[string][]byte, error) {
	return nil, nil
}

func (blockingPersistence) Save(ctx context.Context, _ map[string][]byte) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestSaveTimeoutBoundsSlowBackends(t *testing.T) {
	var buf bytes.Buffer
	s := session.New(context.Background(), blockingPersistence{},
		session.WithLogger(zerolog.New(&buf)),
		session.WithSaveTimeout(20*time.Millisecond))

	start := time.Now()
	s.ToggleTheme()

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, session.ThemeDark, s.Theme(), "state changes even when the save fails")
	s.Flush()
	assert.Contains(t, buf.String(), "session save failed")
}

// gatedPersistence holds every save until release is closed and records the
// theme each save carried.
type gatedPersistence struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once

	mu     sync.Mutex
	themes []string
}

func newGated() *gatedPersistence {
	return &gatedPersistence{started: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedPersistence) Load(context.Context, []string) (map[string][]byte, error) {
	return nil, nil
}

func (g *gatedPersistence) Save(ctx context.Context, entries map[string][]byte) error {
	g.once.Do(func() { close(g.started) })
	select {
	case <-g.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if v, ok := entries[session.KeyTheme]; ok {
		g.themes = append(g.themes, string(v))
	}
	return nil
}

func TestSave_SlowBackendDoesNotBlockOperations(t *testing.T) {
	gated := newGated()
	s := session.New(context.Background(), gated, session.WithSaveTimeout(time.Minute))
	t.Cleanup(s.Close)

	s.ToggleTheme()
	<-gated.started

	start := time.Now()
	assert.Equal(t, session.ThemeDark, s.Theme())
	_ = s.Stats()
	s.AddToCart(product("1", 1))
	assert.Len(t, s.Cart(), 1)
	assert.Less(t, time.Since(start), 100*time.Millisecond, "operations waited on an in-flight save")

	close(gated.release)
	s.Flush()
}

func TestSave_WritesFollowMutationOrder(t *testing.T) {
	gated := newGated()
	close(gated.release)
	s := session.New(context.Background(), gated)

	var (
		mu       sync.Mutex
		observed []session.Theme
	)
	cancel := s.Subscribe(func(snap session.Snapshot) {
		mu.Lock()
		observed = append(observed, snap.Theme)
		mu.Unlock()
	})
	defer cancel()

	for range 5 {
		s.ToggleTheme()
	}
	s.Close()

	assert.Equal(t, []string{"dark", "light", "dark", "light", "dark"}, gated.themes)
	assert.Equal(t, []session.Theme{
		session.ThemeDark, session.ThemeLight, session.ThemeDark, session.ThemeLight, session.ThemeDark,
	}, observed)
}

func TestClose(t *testing.T) {
	fake := newFake()
	s := session.New(context.Background(), fake)

	s.SetEcoPreference(70)
	s.Close()
	assert.Equal(t, "70", string(fake.data[session.KeyPreference]), "close flushes pending saves")

	s.Close()
	s.SetEcoPreference(10)
	s.Flush()
	assert.Equal(t, 10, s.EcoPreference(), "the session keeps working in memory")
	assert.Equal(t, "70", string(fake.data[session.KeyPreference]))
}
