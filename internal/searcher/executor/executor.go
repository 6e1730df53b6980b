package executor

import (
	"context"
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/searcher/ranker"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/store"
)

// DefaultLimit applies when a caller passes a non-positive limit.
const DefaultLimit = 10

// Index is the read side of the indexer engine.
type Index interface {
	Fields() []index.Field
	Lookup(field index.Field, term string) []string
	Document(id string) (store.Record, error)
}

// Result is one enriched match.
type Result struct {
	ID    string       `json:"id"`
	Doc   store.Record `json:"doc"`
	Score float64      `json:"score"`
}

type SearchResult struct {
	Query     string   `json:"query"`
	Terms     []string `json:"terms"`
	TotalHits int      `json:"total_hits"`
	Results   []Result `json:"results"`
}

type Executor struct {
	index      Index
	ranker     *ranker.Ranker
	maxResults int
	logger     *slog.Logger
}

// New returns an Executor. maxResults caps any requested limit; zero leaves
// it uncapped.
func New(idx Index, rk *ranker.Ranker, maxResults int) *Executor {
	return &Executor{
		index:      idx,
		ranker:     rk,
		maxResults: maxResults,
		logger:     slog.Default().With("component", "query-executor"),
	}
}

// Execute matches every plan term against every indexed field (OR semantics),
// deduplicates by document id, ranks, truncates to limit and enriches each id
// from the store. It never mutates the index.
func (e *Executor) Execute(ctx context.Context, plan *parser.QueryPlan, limit int) (*SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result := &SearchResult{
		Query:   plan.RawQuery,
		Terms:   plan.Terms,
		Results: []Result{},
	}
	if plan.Empty() {
		return result, nil
	}

	candidates := make([]ranker.Candidate, 0)
	position := make(map[string]int)
	for _, field := range e.index.Fields() {
		for _, term := range plan.Terms {
			for _, id := range e.index.Lookup(field, term) {
				i, seen := position[id]
				if !seen {
					i = len(candidates)
					position[id] = i
					candidates = append(candidates, ranker.Candidate{
						DocID: id,
						Order: i,
						Hits:  make(map[index.Field]int, 1),
					})
				}
				candidates[i].Hits[field]++
			}
		}
	}
	result.TotalHits = len(candidates)

	ranked := e.ranker.Rank(candidates, e.effectiveLimit(limit))
	for _, sd := range ranked {
		rec, err := e.index.Document(sd.DocID)
		if err != nil {
			e.logger.Error("indexed document missing from store", "doc_id", sd.DocID, "error", err)
			continue
		}
		result.Results = append(result.Results, Result{ID: sd.DocID, Doc: rec, Score: sd.Score})
	}

	e.logger.Debug("query executed",
		"query", plan.RawQuery,
		"terms", plan.Terms,
		"candidates", len(candidates),
		"results", len(result.Results),
	)
	return result, nil
}

func (e *Executor) effectiveLimit(limit int) int {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if e.maxResults > 0 && limit > e.maxResults {
		limit = e.maxResults
	}
	return limit
}
