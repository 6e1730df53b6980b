// Package tokenizer provides text tokenisation for the search engine.
// It normalises input to NFKC, case-folds it, splits on whitespace, strips
// punctuation from word boundaries and expands each word according to a Mode
// (whole words, prefixes, suffixes or every substring).
package tokenizer

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Mode selects how each word is expanded into index tokens.
type Mode int

const (
	// ModeForward emits every prefix of each word, including the word itself.
	ModeForward Mode = iota
	// ModeStrict emits whole words only.
	ModeStrict
	// ModeReverse emits every prefix and every suffix of each word.
	ModeReverse
	// ModeFull emits every substring of each word.
	ModeFull
)

func (m Mode) String() string {
	switch m {
	case ModeForward:
		return "forward"
	case ModeStrict:
		return "strict"
	case ModeReverse:
		return "reverse"
	case ModeFull:
		return "full"
	default:
		return "unknown"
	}
}

// ParseMode maps a configuration string to a Mode. The empty string selects
// ModeForward.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "forward":
		return ModeForward, nil
	case "strict":
		return ModeStrict, nil
	case "reverse":
		return ModeReverse, nil
	case "full":
		return ModeFull, nil
	default:
		return ModeForward, fmt.Errorf("unknown tokenize mode %q", s)
	}
}

// Token represents a single normalised term and the position of the word it
// was derived from.
type Token struct {
	Term     string
	Position int
}

// Tokenizer is safe for concurrent use; it holds no mutable state.
type Tokenizer struct {
	mode Mode
}

// New returns a Tokenizer expanding words with the given mode.
func New(mode Mode) *Tokenizer {
	return &Tokenizer{mode: mode}
}

// Mode reports the expansion mode.
func (t *Tokenizer) Mode() Mode {
	return t.mode
}

// Tokenize breaks text into expanded tokens. A term produced more than once
// by the same word is emitted once; the same term from different words is
// emitted once per word.
func (t *Tokenizer) Tokenize(text string) []Token {
	words := Words(text)
	tokens := make([]Token, 0, len(words)*4)
	for pos, word := range words {
		for _, term := range t.expand(word) {
			tokens = append(tokens, Token{Term: term, Position: pos})
		}
	}
	return tokens
}

// Terms returns the distinct terms Tokenize would produce, in first-seen
// order.
func (t *Tokenizer) Terms(text string) []string {
	seen := make(map[string]struct{})
	terms := make([]string, 0)
	for _, tok := range t.Tokenize(text) {
		if _, ok := seen[tok.Term]; ok {
			continue
		}
		seen[tok.Term] = struct{}{}
		terms = append(terms, tok.Term)
	}
	return terms
}

// QueryTerms normalises a query the same way indexed text is normalised but
// does not expand words: the index already holds the expansions, so each
// query word is looked up as-is. Duplicates are dropped, order is kept.
func (t *Tokenizer) QueryTerms(query string) []string {
	seen := make(map[string]struct{})
	terms := make([]string, 0)
	for _, w := range Words(query) {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		terms = append(terms, w)
	}
	return terms
}

// Normalize applies NFKC and Unicode case folding. A Caser carries state, so
// each call gets its own.
func Normalize(text string) string {
	return cases.Fold().String(norm.NFKC.String(text))
}

// Words returns the normalised, whitespace-delimited words of text with
// leading and trailing punctuation removed. Empty words are dropped.
func Words(text string) []string {
	fields := strings.FieldsFunc(Normalize(text), unicode.IsSpace)
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.TrimFunc(f, isBoundary)
		if w == "" {
			continue
		}
		words = append(words, w)
	}
	return words
}

func isBoundary(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

func (t *Tokenizer) expand(word string) []string {
	runes := []rune(word)
	n := len(runes)
	switch t.mode {
	case ModeStrict:
		return []string{word}
	case ModeReverse:
		out := make([]string, 0, 2*n)
		seen := make(map[string]struct{}, 2*n)
		for i := 1; i <= n; i++ {
			out = appendUnique(out, seen, string(runes[:i]))
		}
		for i := n - 1; i >= 0; i-- {
			out = appendUnique(out, seen, string(runes[i:]))
		}
		return out
	case ModeFull:
		out := make([]string, 0, n*(n+1)/2)
		seen := make(map[string]struct{}, n*(n+1)/2)
		for i := 0; i < n; i++ {
			for j := i + 1; j <= n; j++ {
				out = appendUnique(out, seen, string(runes[i:j]))
			}
		}
		return out
	default:
		out := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			out = append(out, string(runes[:i]))
		}
		return out
	}
}

func appendUnique(out []string, seen map[string]struct{}, term string) []string {
	if _, ok := seen[term]; ok {
		return out
	}
	seen[term] = struct{}{}
	return append(out, term)
}
