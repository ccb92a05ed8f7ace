package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecoshopper/internal/catalog"
)

const validJSON = `{
  "products": [
    {"id": "p1", "name": "Cork Yoga Mat", "description": "Natural cork", "price": 45.5,
     "category": "Fitness", "carbon_footprint": 2.5, "recyclability_rating": 70},
    {"id": "p2", "name": "Foam Mat", "description": "Disposable plastic foam", "price": 9}
  ],
  "brand_scores": {"CorkCo": 91},
  "alternatives": {"p2": [{"id": "a1", "name": "Cork Mat", "eco_score": 88, "price": 40}]}
}`

const validYAML = `
products:
  - id: p1
    name: Cork Yoga Mat
    description: Natural cork
    price: 45.5
  - id: p2
    name: Foam Mat
    description: Disposable plastic foam
    price: 9
alternatives:
  3:
    - id: a1
      name: Cork Mat
      eco_score: 88
      price: 40
`

func TestParse_JSON(t *testing.T) {
	c, err := catalog.Parse([]byte(validJSON), catalog.FormatJSON)
	require.NoError(t, err)

	require.Equal(t, 2, c.Len())
	p, ok := c.Get("p1")
	require.True(t, ok)
	require.NotNil(t, p.CarbonFootprint)
	assert.InDelta(t, 2.5, *p.CarbonFootprint, 1e-9)
	require.NotNil(t, p.RecyclabilityRating)
	assert.Equal(t, 70, *p.RecyclabilityRating)

	score, ok := c.BrandScore("CorkCo")
	assert.True(t, ok)
	assert.Equal(t, 91, score)
	assert.Len(t, c.AlternativesFor("p2"), 1)
}

func TestParse_YAMLWithNumericKeys(t *testing.T) {
	c, err := catalog.Parse([]byte(validYAML), catalog.FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, 2, c.Len())
	assert.Len(t, c.AlternativesFor("3"), 1)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		format catalog.Format
	}{
		{"malformed json", `{"products": [`, catalog.FormatJSON},
		{"malformed yaml", "products: [\n  - id: {", catalog.FormatYAML},
		{"missing products", `{}`, catalog.FormatJSON},
		{"missing price", `{"products": [{"id": "a", "name": "n", "description": ""}]}`, catalog.FormatJSON},
		{"negative price", `{"products": [{"id": "a", "name": "n", "description": "", "price": -1}]}`, catalog.FormatJSON},
		{
			"recyclability out of range",
			`{"products": [{"id": "a", "name": "n", "description": "", "price": 1, "recyclability_rating": 101}]}`,
			catalog.FormatJSON,
		},
		{
			"zero carbon seed",
			`{"products": [{"id": "a", "name": "n", "description": "", "price": 1, "carbon_footprint": 0}]}`,
			catalog.FormatJSON,
		},
		{"unknown field", `{"products": [], "extra": true}`, catalog.FormatJSON},
		{
			"duplicate ids",
			`{"products": [{"id": "a", "name": "n", "description": "", "price": 1},
			               {"id": "a", "name": "m", "description": "", "price": 2}]}`,
			catalog.FormatJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.Parse([]byte(tt.doc), tt.format)
			require.ErrorIs(t, err, catalog.ErrInvalidCatalog)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(validJSON), 0o600))
	c, err := catalog.LoadFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	yamlPath := filepath.Join(dir, "catalog.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(validYAML), 0o600))
	c, err = catalog.LoadFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	_, err = catalog.LoadFile(filepath.Join(dir, "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestMarshal_RoundTripsDefault(t *testing.T) {
	for _, format := range []catalog.Format{catalog.FormatJSON, catalog.FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			data, err := catalog.Marshal(catalog.Default(), format)
			require.NoError(t, err)

			c, err := catalog.Parse(data, format)
			require.NoError(t, err)
			assert.Equal(t, catalog.Default().All(), c.All())
			assert.Len(t, c.AlternativesFor("6"), 2)
		})
	}
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, catalog.FormatYAML, catalog.FormatForPath("a.YAML"))
	assert.Equal(t, catalog.FormatYAML, catalog.FormatForPath("a.yml"))
	assert.Equal(t, catalog.FormatJSON, catalog.FormatForPath("a.json"))
	assert.Equal(t, catalog.FormatJSON, catalog.FormatForPath("a"))
}
