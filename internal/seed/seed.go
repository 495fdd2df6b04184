// Package seed provides the default records written into empty storage.
package seed

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"orderdesk/backend/internal/adapters/persistence"
	"orderdesk/backend/internal/ports"
)

//go:embed seed.yaml
var defaultSeed []byte

// Default returns the built-in seed records.
func Default() (ports.Snapshot, error) {
	return Parse(defaultSeed)
}

// Load reads a seed document from path, falling back to the built-in records
// when path is empty.
func Load(path string) (ports.Snapshot, error) {
	if path == "" {
		return Default()
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return ports.Snapshot{}, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(content)
}

// Parse decodes a YAML seed document. Keys use the same camelCase names as the
// JSON representation and timestamps are RFC 3339 strings.
func Parse(content []byte) (ports.Snapshot, error) {
	var tree any
	if err := yaml.Unmarshal(content, &tree); err != nil {
		return ports.Snapshot{}, fmt.Errorf("decode seed yaml: %w", err)
	}

	var snapshot ports.Snapshot
	if err := persistence.Decode(tree, &snapshot); err != nil {
		return ports.Snapshot{}, fmt.Errorf("decode seed records: %w", err)
	}
	return snapshot, nil
}
