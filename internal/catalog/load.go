package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

const schemaURL = "https://ecoshopper.local/schemas/catalog.schema.json"

//go:embed schema/catalog.schema.json
var schemaJSON string

//nolint:gochecknoglobals // Schema is compiled once and reused.
var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	errSchema      error
)

// Format identifies a catalog document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// document is the on-disk catalog shape.
type document struct {
	Products     []Product                `json:"products"               yaml:"products"`
	BrandScores  map[string]int           `json:"brand_scores,omitempty" yaml:"brand_scores,omitempty"`
	Alternatives map[string][]Alternative `json:"alternatives,omitempty" yaml:"alternatives,omitempty"`
}

// FormatForPath picks the encoding from a file extension. Unknown extensions
// are treated as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadFile reads and validates a catalog file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	c, err := Parse(data, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse validates data against the catalog schema and builds a Catalog.
// Every validation failure wraps ErrInvalidCatalog.
func Parse(data []byte, format Format) (*Catalog, error) {
	raw, err := toJSON(data, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	schema, err := catalogSchema()
	if err != nil {
		return nil, err
	}

	var generic any
	if err = json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	if err = schema.Validate(generic); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	var doc document
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err = dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	return New(doc.Products, doc.BrandScores, doc.Alternatives)
}

// Marshal encodes c in the given format. The output is accepted by Parse.
func Marshal(c *Catalog, format Format) ([]byte, error) {
	doc := document{
		Products:     c.All(),
		BrandScores:  c.brandScores,
		Alternatives: c.alternatives,
	}
	if format == FormatYAML {
		return yaml.Marshal(doc)
	}
	return json.MarshalIndent(doc, "", "  ")
}

// toJSON normalizes a document to JSON so YAML and JSON sources are validated
// by the same schema.
func toJSON(data []byte, format Format) ([]byte, error) {
	if format != FormatYAML {
		if !json.Valid(data) {
			return nil, errors.New("malformed JSON")
		}
		return data, nil
	}

	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("malformed YAML: %w", err)
	}
	out, err := json.Marshal(stringKeys(v))
	if err != nil {
		return nil, fmt.Errorf("converting YAML: %w", err)
	}
	return out, nil
}

func catalogSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
			errSchema = fmt.Errorf("catalog schema load failed: %w", err)
			return
		}
		compiledSchema, errSchema = c.Compile(schemaURL)
		if errSchema != nil {
			errSchema = fmt.Errorf("catalog schema compile failed: %w", errSchema)
		}
	})
	return compiledSchema, errSchema
}

// stringKeys rewrites YAML maps with non-string keys, such as an unquoted
// product id of 3, into JSON-compatible maps.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = stringKeys(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = stringKeys(val)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = stringKeys(val)
		}
		return t
	default:
		return v
	}
}
