package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for catalog construction and lookup.
var (
	// ErrInvalidCatalog is returned when a catalog source fails validation.
	ErrInvalidCatalog = errors.New("invalid catalog")

	// ErrProductNotFound is returned when a product id is not in the catalog.
	ErrProductNotFound = errors.New("product not found")
)

// Catalog is an immutable, ordered set of products with brand ratings and
// alternatives. It is safe for concurrent use.
type Catalog struct {
	products     []Product
	index        map[string]int
	brandScores  map[string]int
	alternatives map[string][]Alternative
}

// New builds a catalog. Product ids must be non-empty and unique; order is
// preserved as the display order.
func New(products []Product, brandScores map[string]int, alternatives map[string][]Alternative) (*Catalog, error) {
	c := &Catalog{
		products:     make([]Product, 0, len(products)),
		index:        make(map[string]int, len(products)),
		brandScores:  make(map[string]int, len(brandScores)),
		alternatives: make(map[string][]Alternative, len(alternatives)),
	}

	for _, p := range products {
		if strings.TrimSpace(p.ID) == "" {
			return nil, fmt.Errorf("%w: product %q has an empty id", ErrInvalidCatalog, p.Name)
		}
		if _, dup := c.index[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate product id %q", ErrInvalidCatalog, p.ID)
		}
		c.index[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	for brand, score := range brandScores {
		c.brandScores[brand] = score
	}
	for id, alts := range alternatives {
		c.alternatives[id] = append([]Alternative(nil), alts...)
	}

	return c, nil
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Get returns the product with the given id.
func (c *Catalog) Get(id string) (Product, bool) {
	i, ok := c.index[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// MustGet is Get returning ErrProductNotFound for unknown ids.
func (c *Catalog) MustGet(id string) (Product, error) {
	p, ok := c.Get(id)
	if !ok {
		return Product{}, fmt.Errorf("%w: %q", ErrProductNotFound, id)
	}
	return p, nil
}

// All returns a copy of every product in catalog order.
func (c *Catalog) All() []Product {
	return append([]Product(nil), c.products...)
}

// Filter returns the products in category, compared case-insensitively.
// An empty category returns every product.
func (c *Catalog) Filter(category string) []Product {
	if category == "" {
		return c.All()
	}
	var out []Product
	for _, p := range c.products {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns the distinct categories, sorted.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range c.products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}

// BrandScore returns the sustainability rating of a brand.
func (c *Catalog) BrandScore(brand string) (int, bool) {
	s, ok := c.brandScores[brand]
	return s, ok
}

// AlternativesFor returns the greener alternatives for a product id, or nil.
func (c *Catalog) AlternativesFor(productID string) []Alternative {
	alts := c.alternatives[productID]
	if len(alts) == 0 {
		return nil
	}
	return append([]Alternative(nil), alts...)
}
