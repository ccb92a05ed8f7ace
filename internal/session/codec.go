package session

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// encode serializes the requested parts of snap keyed by logical key.
// Stats, cart and feedback are JSON; theme is the raw name; preference is a
// base-10 integer.
func encode(snap Snapshot, keys ...string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	for _, key := range keys {
		var (
			data []byte
			err  error
		)
		switch key {
		case KeyStats:
			data, err = json.Marshal(snap.Stats)
		case KeyCart:
			data, err = json.Marshal(snap.Cart)
		case KeyTheme:
			data = []byte(snap.Theme)
		case KeyPreference:
			data = []byte(strconv.Itoa(snap.EcoPreference))
		case KeyFeedback:
			data, err = json.Marshal(snap.Feedback)
		default:
			err = fmt.Errorf("unknown session key %q", key)
		}
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", key, err)
		}
		out[key] = data
	}
	return out, nil
}

// decode rebuilds a snapshot from stored entries. Each key is decoded on its
// own: a missing key takes its default silently, an unreadable key takes its
// default and is reported in the returned map.
func decode(entries map[string][]byte) (Snapshot, map[string]error) {
	snap := DefaultSnapshot()
	problems := make(map[string]error)

	if data, ok := entries[KeyStats]; ok {
		if stats, err := decodeStats(data); err != nil {
			problems[KeyStats] = err
		} else {
			snap.Stats = stats
		}
	}
	if data, ok := entries[KeyCart]; ok {
		if cart, err := decodeCart(data); err != nil {
			problems[KeyCart] = err
		} else {
			snap.Cart = cart
		}
	}
	if data, ok := entries[KeyTheme]; ok {
		if theme, err := ParseTheme(strings.TrimSpace(string(data))); err != nil {
			problems[KeyTheme] = err
		} else {
			snap.Theme = theme
		}
	}
	if data, ok := entries[KeyPreference]; ok {
		if pref, err := strconv.Atoi(strings.TrimSpace(string(data))); err != nil {
			problems[KeyPreference] = err
		} else {
			snap.EcoPreference = pref
		}
	}
	if data, ok := entries[KeyFeedback]; ok {
		if fb, err := decodeFeedback(data); err != nil {
			problems[KeyFeedback] = err
		} else {
			snap.Feedback = fb
		}
	}

	return snap, problems
}

func decodeStats(data []byte) (UserStats, error) {
	var stats UserStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return UserStats{}, err
	}
	stats.EcoProductsViewed = min(stats.EcoProductsViewed, stats.ProductsViewed)
	stats.Badge = BadgeFor(stats.EcoProductsViewed)
	return stats, nil
}

// decodeCart drops lines that could not exist in a live cart: empty ids,
// non-positive quantities and repeated ids.
func decodeCart(data []byte) ([]CartItem, error) {
	var raw []CartItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	cart := make([]CartItem, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, item := range raw {
		if item.ID == "" || item.Quantity <= 0 || seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		cart = append(cart, item)
	}
	return cart, nil
}

// decodeFeedback keeps the last record per product.
func decodeFeedback(data []byte) ([]Feedback, error) {
	var raw []Feedback
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make([]Feedback, 0, len(raw))
	for _, f := range raw {
		if f.ProductID == "" {
			continue
		}
		if f.Images == nil {
			f.Images = []string{}
		}
		out = upsertFeedback(out, f)
	}
	return out, nil
}

// upsertFeedback removes any record for f.ProductID and appends f.
func upsertFeedback(list []Feedback, f Feedback) []Feedback {
	out := make([]Feedback, 0, len(list)+1)
	for _, existing := range list {
		if existing.ProductID != f.ProductID {
			out = append(out, existing)
		}
	}
	return append(out, f)
}
