// Package memory is the in-process pending-jump store.
package memory

import (
	"time"

	"docnav/internal/cache"
)

// Store keeps jumps in two maps: key -> jump ID and ID -> jump.
type Store struct {
	keys   map[string]string
	jumps  map[string]cache.Jump
	closed bool
}

func New() *Store {
	return &Store{
		keys:  make(map[string]string),
		jumps: make(map[string]cache.Jump),
	}
}

func (s *Store) Put(keys []string, jump cache.Jump) error {
	if s.closed {
		return cache.ErrClosed
	}
	for _, k := range keys {
		if k == "" {
			return cache.ErrInvalidKey
		}
	}
	replaced := map[string]struct{}{}
	s.jumps[jump.ID] = jump
	for _, k := range keys {
		if prev, ok := s.keys[k]; ok && prev != jump.ID {
			replaced[prev] = struct{}{}
		}
		s.keys[k] = jump.ID
	}
	if len(replaced) > 0 {
		s.dropUnreferenced(replaced)
	}
	return nil
}

// dropUnreferenced removes jumps from ids that no key points at anymore.
func (s *Store) dropUnreferenced(ids map[string]struct{}) {
	for _, id := range s.keys {
		delete(ids, id)
	}
	for id := range ids {
		delete(s.jumps, id)
	}
}

func (s *Store) Get(key string) (cache.Jump, bool, error) {
	if s.closed {
		return cache.Jump{}, false, cache.ErrClosed
	}
	id, ok := s.keys[key]
	if !ok {
		return cache.Jump{}, false, nil
	}
	jump, ok := s.jumps[id]
	if !ok {
		// Dangling key left behind by an overwritten jump.
		delete(s.keys, key)
		return cache.Jump{}, false, nil
	}
	return jump, true, nil
}

func (s *Store) Delete(id string) error {
	if s.closed {
		return cache.ErrClosed
	}
	delete(s.jumps, id)
	for k, v := range s.keys {
		if v == id {
			delete(s.keys, k)
		}
	}
	return nil
}

func (s *Store) DeleteBefore(t time.Time) (int, error) {
	if s.closed {
		return 0, cache.ErrClosed
	}
	removed := 0
	for id, j := range s.jumps {
		if j.CreatedAt.Before(t) {
			delete(s.jumps, id)
			removed++
		}
	}
	if removed > 0 {
		for k, id := range s.keys {
			if _, ok := s.jumps[id]; !ok {
				delete(s.keys, k)
			}
		}
	}
	return removed, nil
}

func (s *Store) Len() (int, error) {
	if s.closed {
		return 0, cache.ErrClosed
	}
	return len(s.jumps), nil
}

// Keys returns the number of keys currently mapped.
func (s *Store) Keys() int {
	return len(s.keys)
}

func (s *Store) Close() error {
	s.closed = true
	s.keys = nil
	s.jumps = nil
	return nil
}
