package pagination

import (
	"errors"
	"fmt"
	"strings"
)

// Sort orders.
const (
	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// Validation errors.
var (
	ErrInvalidSortFormat = errors.New("invalid sort format: use 'field' or 'field:order' (e.g., 'score:desc')")
	ErrEmptySortField    = errors.New("sort field cannot be empty")
	ErrInvalidSortOrder  = errors.New("sort order must be 'asc' or 'desc'")
	ErrInvalidSortField  = errors.New("invalid sort field")
	ErrNegativeValue     = errors.New("pagination values cannot be negative")
	ErrMixedModes        = errors.New("page and offset parameters are mutually exclusive")
)

// Params holds list flags. Offset-based (--limit/--offset) and page-based
// (--page/--page-size) modes are mutually exclusive. Zero Limit means no limit.
type Params struct {
	Limit    int
	Offset   int
	Page     int
	PageSize int
}

// Validate checks bounds and mode exclusivity.
func (p Params) Validate() error {
	checks := []struct {
		name string
		v    int
	}{{"limit", p.Limit}, {"offset", p.Offset}, {"page", p.Page}, {"page-size", p.PageSize}}
	for _, c := range checks {
		if c.v < 0 {
			return fmt.Errorf("%w: %s=%d", ErrNegativeValue, c.name, c.v)
		}
	}
	if p.Page > 0 && p.Offset > 0 {
		return ErrMixedModes
	}
	if p.Page > 0 && p.PageSize == 0 {
		return errors.New("page-size must be specified when using page")
	}
	if p.Page == 0 && p.PageSize > 0 {
		return errors.New("page must be specified when using page-size")
	}
	return nil
}

// IsPageBased reports whether page-based mode is active.
func (p Params) IsPageBased() bool {
	return p.Page > 0
}

// OffsetLimit returns the effective window. A zero limit means "to the end".
//
//nolint:nonamedreturns // Named returns document the pair.
func (p Params) OffsetLimit() (offset, limit int) {
	if p.IsPageBased() {
		return (p.Page - 1) * p.PageSize, p.PageSize
	}
	return p.Offset, p.Limit
}

// Apply returns the window of items selected by p. Page-based requests past
// the end clamp to the last page; offset-based ones return an empty slice.
func Apply[T any](p Params, items []T) []T {
	if len(items) == 0 {
		return items
	}

	offset, limit := p.OffsetLimit()
	if p.IsPageBased() && offset >= len(items) {
		offset = ((len(items) - 1) / p.PageSize) * p.PageSize
	}
	if offset >= len(items) {
		return []T{}
	}

	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

const sortPartsMax = 2

// ParseSort parses "field" or "field:order". A bare field sorts in
// defaultOrder; an empty expression returns an empty field.
//
//nolint:nonamedreturns // Named returns document the pair.
func ParseSort(expr, defaultOrder string) (field, order string, err error) {
	if strings.TrimSpace(expr) == "" {
		return "", defaultOrder, nil
	}

	parts := strings.Split(expr, ":")
	if len(parts) > sortPartsMax {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, expr)
	}

	field = strings.ToLower(strings.TrimSpace(parts[0]))
	if field == "" {
		return "", "", ErrEmptySortField
	}

	order = defaultOrder
	if len(parts) == sortPartsMax {
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	}
	if order != SortOrderAsc && order != SortOrderDesc {
		return "", "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}
	return field, order, nil
}
