package corpus

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError holds per-field validation failure messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s:%s", field, e.Fields[field]))
	}
	return strings.Join(parts, "; ")
}

// Validate checks that a document can be stored and indexed. Documents
// without any indexed text are valid; they simply never match.
func Validate(doc *Document) error {
	errs := make(map[string]string)

	id := strings.TrimSpace(string(doc.ID))
	if id == "" {
		errs["id"] = "id is required"
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
