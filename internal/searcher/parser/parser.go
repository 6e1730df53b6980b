package parser

import "strings"

// Normalizer turns a raw query into lookup terms. Both the tokenizer and the
// indexer engine satisfy it.
type Normalizer interface {
	QueryTerms(query string) []string
}

// QueryPlan is a parsed free-text query. Terms are matched with OR semantics
// across every indexed field.
type QueryPlan struct {
	Terms    []string
	RawQuery string
}

// Empty reports whether the plan can match nothing.
func (p *QueryPlan) Empty() bool {
	return len(p.Terms) == 0
}

// Parse trims query and normalises it into distinct terms. A blank query
// yields an empty plan.
func Parse(query string, n Normalizer) *QueryPlan {
	plan := &QueryPlan{
		Terms:    make([]string, 0),
		RawQuery: strings.TrimSpace(query),
	}
	if plan.RawQuery == "" {
		return plan
	}
	plan.Terms = append(plan.Terms, n.QueryTerms(plan.RawQuery)...)
	return plan
}
