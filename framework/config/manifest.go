package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidManifest is returned when a bootstrap manifest cannot be parsed.
var ErrInvalidManifest = errors.New("config: invalid manifest")

// Manifest describes what the application registers at startup. Aliases are
// applied first, in file order, because provider service keys are derived
// from them.
//
//	aliases:
//	  DB: Database\ConnectionFacade
//	tags:
//	  Logger: App\ConsoleLogger
//	providers:
//	  - Database\ConnectionServiceProvider
type Manifest struct {
	Aliases   AliasList         `yaml:"aliases"`
	Tags      map[string]string `yaml:"tags"`
	Providers []string          `yaml:"providers"`
}

// Alias is one alias → class pair of a manifest.
type Alias struct {
	Name  string
	Class string
}

// AliasList keeps the aliases of a manifest in the order they appear.
type AliasList []Alias

// UnmarshalYAML decodes a mapping node without losing key order.
func (l *AliasList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: aliases must be a mapping (line %d)", ErrInvalidManifest, node.Line)
	}
	out := make(AliasList, 0, len(node.Content)/2)
	seen := make(map[string]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if key.Kind != yaml.ScalarNode || value.Kind != yaml.ScalarNode {
			return fmt.Errorf("%w: alias entries must be scalars (line %d)", ErrInvalidManifest, key.Line)
		}
		if key.Value == value.Value {
			return fmt.Errorf("%w: [%s] is aliased to itself", ErrInvalidManifest, key.Value)
		}
		if seen[key.Value] {
			return fmt.Errorf("%w: alias [%s] defined twice", ErrInvalidManifest, key.Value)
		}
		seen[key.Value] = true
		out = append(out, Alias{Name: key.Value, Class: value.Value})
	}
	*l = out
	return nil
}

// Map returns the aliases as a map.
func (l AliasList) Map() map[string]string {
	out := make(map[string]string, len(l))
	for _, a := range l {
		out[a.Name] = a.Class
	}
	return out
}

// ParseManifest decodes a YAML manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		if errors.Is(err, ErrInvalidManifest) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidManifest, err)
	}
	return &m, nil
}

// LoadManifest reads and decodes the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %q: %w", path, err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %q: %w", path, err)
	}
	return m, nil
}
