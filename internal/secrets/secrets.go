// Package secrets loads the flat key/value credentials file once at startup
// and exposes it read-only. Secret values are only ever injected into
// execution environments; no tool returns them to the client.
package secrets

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Store is an immutable snapshot of the secrets file. The zero value is an
// empty store.
type Store struct {
	values map[string]string
}

// Load reads the secrets file at path. A missing file or invalid JSON is a
// fatal startup condition; editing the file requires a restart to take
// effect.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read secrets file: %w", err)
	}

	values := make(map[string]string)
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse secrets file %s: %w", path, err)
	}

	return &Store{values: values}, nil
}

// Keys returns the secret names in sorted order, without values.
func (s *Store) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// All returns a copy of the full mapping for merging into a child process
// environment.
func (s *Store) All() map[string]string {
	if s == nil {
		return nil
	}
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Len reports the number of loaded secrets.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}
