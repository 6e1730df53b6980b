package index

import (
	"sort"
	"sync"

	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/indexer/tokenizer"
)

// FieldIndex is an in-memory inverted index with one posting map per field.
// Every document keeps the sequence number of its first insertion so lookups
// return ids in a stable discovery order.
type FieldIndex struct {
	mu       sync.RWMutex
	tok      *tokenizer.Tokenizer
	postings map[Field]map[string]postingSet
	docTerms map[string]map[Field][]string
	seq      map[string]uint64
	nextSeq  uint64
}

func NewFieldIndex(tok *tokenizer.Tokenizer) *FieldIndex {
	idx := &FieldIndex{tok: tok}
	idx.reset()
	return idx
}

// Add indexes text under docID. Postings from a previous Add of the same id
// are removed first, so re-adding a document is idempotent and never leaves
// stale terms behind. The document keeps its original sequence number.
func (m *FieldIndex) Add(docID string, text FieldText) {
	terms := make(map[Field][]string, len(IndexedFields))
	for _, field := range IndexedFields {
		if t := m.tok.Terms(text[field]); len(t) > 0 {
			terms[field] = t
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.removeLocked(docID)
	if _, ok := m.seq[docID]; !ok {
		m.seq[docID] = m.nextSeq
		m.nextSeq++
	}
	for field, fieldTerms := range terms {
		byTerm := m.postings[field]
		for _, term := range fieldTerms {
			set, ok := byTerm[term]
			if !ok {
				set = make(postingSet)
				byTerm[term] = set
			}
			set[docID] = struct{}{}
		}
	}
	m.docTerms[docID] = terms
}

// Remove drops every posting of docID. It reports whether the document was
// indexed.
func (m *FieldIndex) Remove(docID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docTerms[docID]; !ok {
		return false
	}
	m.removeLocked(docID)
	delete(m.docTerms, docID)
	delete(m.seq, docID)
	return true
}

func (m *FieldIndex) removeLocked(docID string) {
	prev, ok := m.docTerms[docID]
	if !ok {
		return
	}
	for field, fieldTerms := range prev {
		byTerm := m.postings[field]
		for _, term := range fieldTerms {
			set := byTerm[term]
			delete(set, docID)
			if len(set) == 0 {
				delete(byTerm, term)
			}
		}
	}
}

// Lookup returns the ids whose field holds term, ordered by first insertion.
func (m *FieldIndex) Lookup(field Field, term string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	set := m.postings[field][term]
	if len(set) == 0 {
		return nil
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return m.seq[ids[i]] < m.seq[ids[j]]
	})
	return ids
}

// Contains reports whether docID is indexed.
func (m *FieldIndex) Contains(docID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.docTerms[docID]
	return ok
}

func (m *FieldIndex) DocCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docTerms)
}

// TermCount returns the number of distinct terms indexed for field.
func (m *FieldIndex) TermCount(field Field) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.postings[field])
}

func (m *FieldIndex) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := Stats{
		Documents: len(m.docTerms),
		Fields:    make([]FieldStats, 0, len(IndexedFields)),
	}
	for _, field := range IndexedFields {
		fs := FieldStats{Field: field, Terms: len(m.postings[field])}
		for _, set := range m.postings[field] {
			fs.Postings += len(set)
		}
		stats.Fields = append(stats.Fields, fs)
	}
	return stats
}

func (m *FieldIndex) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
}

func (m *FieldIndex) reset() {
	m.postings = make(map[Field]map[string]postingSet, len(IndexedFields))
	for _, field := range IndexedFields {
		m.postings[field] = make(map[string]postingSet)
	}
	m.docTerms = make(map[string]map[Field][]string)
	m.seq = make(map[string]uint64)
	m.nextSeq = 0
}
