package ranker

import (
	"fmt"
	"sort"

	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/pkg/config"
)

// Strategy selects how candidates are ordered.
type Strategy int

const (
	// Weighted orders by the summed weight of every matched (field, term)
	// pair.
	Weighted Strategy = iota
	// Discovery keeps the order in which candidates were first found.
	Discovery
)

func (s Strategy) String() string {
	if s == Discovery {
		return "discovery"
	}
	return "weighted"
}

func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "", "weighted":
		return Weighted, nil
	case "discovery":
		return Discovery, nil
	default:
		return Weighted, fmt.Errorf("unknown ranking strategy %q", s)
	}
}

// DefaultWeights favours title matches over tags, and tags over content and
// date.
var DefaultWeights = map[index.Field]int{
	index.FieldTitle:   3,
	index.FieldTags:    2,
	index.FieldContent: 1,
	index.FieldDate:    1,
}

// Candidate is a matched document. Order is its position in discovery order
// and Hits counts the distinct query terms matched in each field.
type Candidate struct {
	DocID string
	Order int
	Hits  map[index.Field]int
}

type ScoredDoc struct {
	DocID string  `json:"doc_id"`
	Score float64 `json:"score"`
}

type Ranker struct {
	strategy Strategy
	weights  map[index.Field]int
}

// New returns a Ranker. Fields missing from weights use DefaultWeights.
func New(strategy Strategy, weights map[index.Field]int) *Ranker {
	w := make(map[index.Field]int, len(DefaultWeights))
	for f, v := range DefaultWeights {
		w[f] = v
	}
	for f, v := range weights {
		w[f] = v
	}
	return &Ranker{strategy: strategy, weights: w}
}

// FromConfig builds a Ranker from the search section of the configuration.
func FromConfig(cfg config.SearchConfig) (*Ranker, error) {
	strategy, err := ParseStrategy(cfg.Ranking)
	if err != nil {
		return nil, err
	}
	weights := make(map[index.Field]int, len(cfg.FieldWeights))
	for name, v := range cfg.FieldWeights {
		field, err := index.ParseField(name)
		if err != nil {
			return nil, fmt.Errorf("search.fieldWeights: %w", err)
		}
		weights[field] = v
	}
	return New(strategy, weights), nil
}

func (r *Ranker) Strategy() Strategy {
	return r.strategy
}

// Rank scores candidates and returns at most limit of them, best first. Equal
// scores keep discovery order. A non-positive limit returns everything.
func (r *Ranker) Rank(candidates []Candidate, limit int) []ScoredDoc {
	ordered := make([]Candidate, len(candidates))
	copy(ordered, candidates)
	scores := make(map[string]float64, len(ordered))
	if r.strategy == Weighted {
		for _, c := range ordered {
			var score int
			for field, hits := range c.Hits {
				score += r.weights[field] * hits
			}
			scores[c.DocID] = float64(score)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		si, sj := scores[ordered[i].DocID], scores[ordered[j].DocID]
		if si != sj {
			return si > sj
		}
		return ordered[i].Order < ordered[j].Order
	})
	if limit > 0 && len(ordered) > limit {
		ordered = ordered[:limit]
	}
	result := make([]ScoredDoc, 0, len(ordered))
	for _, c := range ordered {
		result = append(result, ScoredDoc{DocID: c.DocID, Score: scores[c.DocID]})
	}
	return result
}
