package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names.
const (
	keySchemaVersion = "schema_version"
	keyLogging       = "logging"
	keyStorage       = "storage"
	keyCatalog       = "catalog"
	keyEngagement    = "engagement"
	keyServer        = "server"
)

// MergeYAML loads a YAML file onto target section by section. A section in
// the file overrides only the fields it names; absent sections and fields keep
// their current values. Unknown top-level keys are rejected so typos surface.
func MergeYAML(target *Config, path string) error {
	if target == nil {
		return errors.New("nil target *Config in MergeYAML")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing config YAML from %s: %w", path, err)
	}

	for key, node := range overlay {
		if err = mergeSection(target, key, &node); err != nil {
			return fmt.Errorf("config section %q in %s: %w", key, path, err)
		}
	}

	return nil
}

// mergeSection decodes node onto the matching field of target.
func mergeSection(target *Config, key string, node *yaml.Node) error {
	switch key {
	case keySchemaVersion:
		return node.Decode(&target.SchemaVersion)
	case keyLogging:
		return node.Decode(&target.Logging)
	case keyStorage:
		return node.Decode(&target.Storage)
	case keyCatalog:
		return node.Decode(&target.Catalog)
	case keyEngagement:
		return node.Decode(&target.Engagement)
	case keyServer:
		return node.Decode(&target.Server)
	default:
		return fmt.Errorf("%w: unknown key", ErrInvalidConfig)
	}
}
