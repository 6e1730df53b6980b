package indexer

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/store"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/pkg/config"
)

// BuildStats describes one Build run.
type BuildStats struct {
	Documents int           `json:"documents"`
	Duration  time.Duration `json:"duration"`
	Index     index.Stats   `json:"index"`
}

// Engine owns the tokenizer, the field index and the document store. It is
// populated once by Build and only read afterwards.
type Engine struct {
	tok     *tokenizer.Tokenizer
	idx     *index.FieldIndex
	docs    *store.Store
	buildMu sync.Mutex
	logger  *slog.Logger
}

func NewEngine(cfg config.IndexerConfig) (*Engine, error) {
	mode, err := tokenizer.ParseMode(cfg.Tokenize)
	if err != nil {
		return nil, fmt.Errorf("configuring tokenizer: %w", err)
	}
	tok := tokenizer.New(mode)
	return &Engine{
		tok:    tok,
		idx:    index.NewFieldIndex(tok),
		docs:   store.New(),
		logger: slog.Default().With("component", "indexer"),
	}, nil
}

// IndexDocument stores the display fields of doc and indexes its searchable
// fields. A document with an id already present replaces the earlier one.
func (e *Engine) IndexDocument(doc corpus.Document) {
	id := string(doc.ID)
	e.docs.Put(id, store.Record{
		Title:     doc.Title,
		Summary:   doc.Summary,
		Date:      doc.Date,
		Permalink: doc.Permalink,
	})
	e.idx.Add(id, index.FieldText{
		index.FieldTitle:   doc.Title,
		index.FieldTags:    string(doc.Tags),
		index.FieldContent: doc.Content,
		index.FieldDate:    doc.Date,
	})
	e.logger.Debug("document indexed", "doc_id", id)
}

// Build clears the engine and indexes docs in order.
func (e *Engine) Build(docs []corpus.Document) BuildStats {
	e.buildMu.Lock()
	defer e.buildMu.Unlock()

	start := time.Now()
	e.idx.Reset()
	e.docs.Reset()
	for _, doc := range docs {
		e.IndexDocument(doc)
	}
	stats := BuildStats{
		Documents: e.docs.Len(),
		Duration:  time.Since(start),
		Index:     e.idx.Stats(),
	}
	e.logger.Info("search index built",
		"documents", stats.Documents,
		"input_records", len(docs),
		"tokenizer", e.tok.Mode().String(),
		"duration_ms", stats.Duration.Milliseconds(),
	)
	return stats
}

// Lookup returns the ids holding term in field, in first-insertion order.
func (e *Engine) Lookup(field index.Field, term string) []string {
	return e.idx.Lookup(field, term)
}

// Document returns the stored record for id.
func (e *Engine) Document(id string) (store.Record, error) {
	return e.docs.Get(id)
}

// QueryTerms normalises a query with the engine's tokenizer.
func (e *Engine) QueryTerms(query string) []string {
	return e.tok.QueryTerms(query)
}

// Fields returns the indexed fields in scan order.
func (e *Engine) Fields() []index.Field {
	return index.IndexedFields
}

func (e *Engine) DocCount() int {
	return e.docs.Len()
}

func (e *Engine) Stats() index.Stats {
	return e.idx.Stats()
}
