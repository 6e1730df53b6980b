// Package store keeps the display projection of every indexed document,
// keyed by document id.
package store

import (
	"fmt"
	"sync"

	apperrors "github.com/Adithya-Monish-Kumar-K/sitesearch/pkg/errors"
)

// Record is the stored, never-indexed view of a document used to render a
// result.
type Record struct {
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Date      string `json:"date"`
	Permalink string `json:"permalink"`
}

type Store struct {
	mu   sync.RWMutex
	docs map[string]Record
}

func New() *Store {
	return &Store{docs: make(map[string]Record)}
}

// Put inserts or overwrites the record for id.
func (s *Store) Put(id string, rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[id] = rec
}

// Get returns the record for id, or an error wrapping
// errors.ErrDocumentNotFound.
func (s *Store) Get(id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.docs[id]
	if !ok {
		return Record{}, fmt.Errorf("document %q: %w", id, apperrors.ErrDocumentNotFound)
	}
	return rec, nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = make(map[string]Record)
}
