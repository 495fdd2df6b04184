package persistence

import (
	"fmt"
	"strings"

	"orderdesk/backend/internal/ports"
)

const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// OpenStore opens the key-value backend named by kind. An empty kind selects
// the file backend.
func OpenStore(kind, path string) (ports.KeyValueStore, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile, "":
		return NewFileStore(path)
	case BackendSQLite:
		if strings.TrimSpace(path) == "" {
			path = "./orderdesk_data.db"
		}
		return OpenSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", kind)
	}
}
