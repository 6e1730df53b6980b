// Package corpus defines the serialized search corpus produced by the site
// build and loads it with a single fetch. The corpus is a JSON array of
// document objects; ids may be strings or numbers and tags may be a
// delimited string or a list of strings.
package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// DocID is the normalised document identifier. Numeric ids in the corpus
// keep their literal form, so 1 and "1" name the same document.
type DocID string

// UnmarshalJSON accepts a JSON string or number.
func (id *DocID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*id = ""
		return nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decoding id: %w", err)
		}
		*id = DocID(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("id must be a string or number: %w", err)
		}
		*id = DocID(n.String())
		return nil
	}
}

// Tags is the flattened tag text of a document.
type Tags string

// UnmarshalJSON accepts a string, a list of strings or null. Tags are split
// on whitespace, commas and semicolons and joined with single spaces, so
// "go,wasm" and ["go", "wasm"] index the same words.
func (t *Tags) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if b[0] == '[' {
		var list []string
		if err := json.Unmarshal(b, &list); err != nil {
			return fmt.Errorf("tags must be a list of strings: %w", err)
		}
		*t = joinTags(list...)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("tags must be a string or list: %w", err)
	}
	*t = joinTags(s)
	return nil
}

func joinTags(raw ...string) Tags {
	var words []string
	for _, r := range raw {
		words = append(words, strings.FieldsFunc(r, isTagSeparator)...)
	}
	return Tags(strings.Join(words, " "))
}

func isTagSeparator(r rune) bool {
	return r == ',' || r == ';' || unicode.IsSpace(r)
}

// Document is one corpus entry. Title, Content, Tags and Date are indexed;
// Summary and Permalink are stored only.
type Document struct {
	ID        DocID  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Tags      Tags   `json:"tags"`
	Date      string `json:"date"`
	Summary   string `json:"summary"`
	Permalink string `json:"permalink"`
}
