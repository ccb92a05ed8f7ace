package pagination

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rshade/ecoshopper/internal/shop"
)

// Sorter orders scored products by a named field.
type Sorter interface {
	Sort(products []shop.ScoredProduct, field, order string) ([]shop.ScoredProduct, error)
	ValidFields() []string
}

type productLess func(a, b shop.ScoredProduct) bool

// ProductSorter implements Sorter for shop.ScoredProduct.
type ProductSorter struct {
	fields map[string]productLess
}

// NewProductSorter returns a sorter over score, price, name, brand, category,
// recyclability and carbon.
func NewProductSorter() *ProductSorter {
	return &ProductSorter{
		fields: map[string]productLess{
			"score": func(a, b shop.ScoredProduct) bool { return a.Result.Score < b.Result.Score },
			"price": func(a, b shop.ScoredProduct) bool { return a.Price < b.Price },
			"name": func(a, b shop.ScoredProduct) bool {
				return strings.ToLower(a.Name) < strings.ToLower(b.Name)
			},
			"brand":    func(a, b shop.ScoredProduct) bool { return a.Brand < b.Brand },
			"category": func(a, b shop.ScoredProduct) bool { return a.Category < b.Category },
			"recyclability": func(a, b shop.ScoredProduct) bool {
				return a.Result.RecyclabilityRating < b.Result.RecyclabilityRating
			},
			"carbon": func(a, b shop.ScoredProduct) bool {
				return a.Result.CarbonFootprint < b.Result.CarbonFootprint
			},
		},
	}
}

// ValidFields returns the sortable field names in a stable order.
func (s *ProductSorter) ValidFields() []string {
	out := make([]string, 0, len(s.fields))
	for f := range s.fields {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Sort returns a sorted copy. Ties keep catalog order in both directions.
// An empty field returns the input unchanged.
func (s *ProductSorter) Sort(products []shop.ScoredProduct, field, order string) ([]shop.ScoredProduct, error) {
	if field == "" {
		return products, nil
	}
	less, ok := s.fields[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrInvalidSortField, field, strings.Join(s.ValidFields(), ", "))
	}

	sorted := append([]shop.ScoredProduct(nil), products...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if order == SortOrderDesc {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})
	return sorted, nil
}
