// Package settingsstore provides settings.WritableStore implementations.
package settingsstore

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/willibrandon/goslm/settings"
)

type propertyKind int

const (
	kindString propertyKind = iota
	kindUint32
)

type property struct {
	kind propertyKind
	str  string
	num  uint32
}

// MemoryStore is an in-memory WritableStore. It is safe for concurrent use
// and enumerates names in sorted order.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]property
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]property)}
}

// CollectionExists implements settings.WritableStore
func (s *MemoryStore) CollectionExists(collection string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.collections[collection]
	return ok, nil
}

// CreateCollection implements settings.WritableStore
func (s *MemoryStore) CreateCollection(collection string) error {
	if collection == "" {
		return fmt.Errorf("collection path is empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createLocked(collection)
	return nil
}

func (s *MemoryStore) createLocked(collection string) {
	for c := collection; c != ""; c = settings.ParentCollection(c) {
		if _, ok := s.collections[c]; ok {
			return
		}
		s.collections[c] = make(map[string]property)
	}
}

// DeleteCollection implements settings.WritableStore
func (s *MemoryStore) DeleteCollection(collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := collection + settings.CollectionSeparator
	for c := range s.collections {
		if c == collection || strings.HasPrefix(c, prefix) {
			delete(s.collections, c)
		}
	}
	return nil
}

// SubCollectionNames implements settings.WritableStore
func (s *MemoryStore) SubCollectionNames(collection string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var names []string
	for c := range s.collections {
		if settings.ParentCollection(c) == collection && c != collection {
			names = append(names, settings.CollectionName(c))
		}
	}
	sort.Strings(names)
	return names, nil
}

// PropertyNames implements settings.WritableStore
func (s *MemoryStore) PropertyNames(collection string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	props := s.collections[collection]
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// PropertyExists implements settings.WritableStore
func (s *MemoryStore) PropertyExists(collection, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.collections[collection][name]
	return ok, nil
}

// String implements settings.WritableStore
func (s *MemoryStore) String(collection, name string) (string, error) {
	p, err := s.get(collection, name)
	if err != nil {
		return "", err
	}
	if p.kind != kindString {
		return "", fmt.Errorf("%s\\%s: %w", collection, name, settings.ErrPropertyType)
	}
	return p.str, nil
}

// SetString implements settings.WritableStore
func (s *MemoryStore) SetString(collection, name, value string) error {
	return s.set(collection, name, property{kind: kindString, str: value})
}

// Uint32 implements settings.WritableStore
func (s *MemoryStore) Uint32(collection, name string) (uint32, error) {
	p, err := s.get(collection, name)
	if err != nil {
		return 0, err
	}
	if p.kind != kindUint32 {
		return 0, fmt.Errorf("%s\\%s: %w", collection, name, settings.ErrPropertyType)
	}
	return p.num, nil
}

// SetUint32 implements settings.WritableStore
func (s *MemoryStore) SetUint32(collection, name string, value uint32) error {
	return s.set(collection, name, property{kind: kindUint32, num: value})
}

// DeleteProperty implements settings.WritableStore
func (s *MemoryStore) DeleteProperty(collection, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections[collection], name)
	return nil
}

func (s *MemoryStore) get(collection, name string) (property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.collections[collection][name]
	if !ok {
		return property{}, fmt.Errorf("%s\\%s: %w", collection, name, settings.ErrPropertyNotFound)
	}
	return p, nil
}

func (s *MemoryStore) set(collection, name string, p property) error {
	if collection == "" {
		return fmt.Errorf("collection path is empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.createLocked(collection)
	s.collections[collection][name] = p
	return nil
}
