// Package mockapi is an in-memory stand-in for the FinanceHub REST API.
// It serves json-server style collections: list with equality filters,
// fetch by id and append.
package mockapi

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// Record is one JSON object of a collection.
type Record = map[string]any

// Store holds every collection in memory.
type Store struct {
	mu          sync.RWMutex
	collections map[string][]Record
	newID       func() string
}

// DefaultSeed returns the embedded seed document.
func DefaultSeed() []byte {
	return defaultSeed
}

// LoadSeed builds a store from a YAML document mapping collection names
// to lists of records.
func LoadSeed(data []byte) (*Store, error) {
	var raw map[string][]Record
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	s := &Store{
		collections: make(map[string][]Record, len(raw)),
		newID:       func() string { return uuid.NewString() },
	}
	for name, records := range raw {
		if records == nil {
			records = []Record{}
		}
		s.collections[name] = records
	}
	return s, nil
}

// Collections lists collection names in sorted order.
func (s *Store) Collections() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.collections))
	for n := range s.collections {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// List returns the records of collection whose fields equal every filter.
// The second result is false for an unknown collection.
func (s *Store) List(collection string, filters map[string]string) ([]Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.collections[collection]
	if !ok {
		return nil, false
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if matches(r, filters) {
			out = append(out, r)
		}
	}
	return out, true
}

// Get returns the record with id.
func (s *Store) Get(collection, id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.collections[collection] {
		if fmt.Sprint(r["id"]) == id {
			return r, true
		}
	}
	return nil, false
}

// Insert appends rec, assigning an id when it has none. Unknown
// collections are created on first insert.
func (s *Store) Insert(collection string, rec Record) Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := rec["id"]; !ok || id == nil || fmt.Sprint(id) == "" {
		rec["id"] = s.newID()
	}
	s.collections[collection] = append(s.collections[collection], rec)
	return rec
}

func matches(r Record, filters map[string]string) bool {
	for k, want := range filters {
		v, ok := r[k]
		if !ok || fmt.Sprint(v) != want {
			return false
		}
	}
	return true
}
