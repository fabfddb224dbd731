// Package exclusion manages the operator-maintained blocklist of
// identity keys that must never appear in query results. The set is
// persisted as a JSON array of canonical keys and re-read at the start
// of every query session, since it may be edited between queries.
package exclusion

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Set is an ordered collection of unique canonical identity keys.
type Set struct {
	order []string
	keys  map[string]struct{}
}

// NewSet returns an empty exclusion set.
func NewSet() *Set {
	return &Set{keys: make(map[string]struct{})}
}

// Load reads the set from path. A missing file is an empty set, and so
// is an unreadable or corrupt one: a broken blocklist must never make
// queries fail, only widen them, and the caller is expected to log it.
func Load(path string) *Set {
	s := NewSet()

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}

	var keys []string
	if err := json.Unmarshal(data, &keys); err != nil {
		return s
	}

	for _, key := range keys {
		s.Add(key)
	}
	return s
}

// Add appends key if absent and reports whether the set changed.
func (s *Set) Add(key string) bool {
	if _, ok := s.keys[key]; ok {
		return false
	}
	s.keys[key] = struct{}{}
	s.order = append(s.order, key)
	return true
}

// Remove deletes key and reports whether the set changed.
func (s *Set) Remove(key string) bool {
	if _, ok := s.keys[key]; !ok {
		return false
	}
	delete(s.keys, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports whether key is excluded.
func (s *Set) Contains(key string) bool {
	_, ok := s.keys[key]
	return ok
}

// Len returns the number of excluded keys.
func (s *Set) Len() int { return len(s.order) }

// Keys returns the excluded keys in insertion order. The caller must
// not mutate the returned slice.
func (s *Set) Keys() []string { return s.order }

// KeySet returns the keys as a membership set.
func (s *Set) KeySet() map[string]struct{} {
	set := make(map[string]struct{}, len(s.keys))
	for k := range s.keys {
		set[k] = struct{}{}
	}
	return set
}

// Save persists the set to path atomically: the JSON is written to a
// temp file in the same directory and renamed over the target, so a
// crash mid-write can never leave the list empty or truncated.
func (s *Set) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create exclusion directory: %w", err)
	}

	keys := s.order
	if keys == nil {
		keys = []string{}
	}
	data, err := json.MarshalIndent(keys, "", "    ")
	if err != nil {
		return fmt.Errorf("encode exclusion set: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".exclusion-*.json")
	if err != nil {
		return fmt.Errorf("create temp exclusion file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write exclusion set: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close exclusion set: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace exclusion set: %w", err)
	}
	return nil
}
