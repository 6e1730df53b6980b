package index

import "fmt"

// Field names one independently indexed document field.
type Field string

const (
	FieldTitle   Field = "title"
	FieldTags    Field = "tags"
	FieldContent Field = "content"
	FieldDate    Field = "date"
)

// IndexedFields lists the indexed fields in the order queries scan them.
var IndexedFields = []Field{FieldTitle, FieldTags, FieldContent, FieldDate}

// ParseField maps a field name to a Field.
func ParseField(name string) (Field, error) {
	for _, f := range IndexedFields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown field %q", name)
}

// FieldText carries the raw text of each indexed field of one document.
type FieldText map[Field]string

// postingSet is the set of document ids holding one term in one field.
type postingSet map[string]struct{}

// FieldStats summarises one field of the index.
type FieldStats struct {
	Field    Field `json:"field"`
	Terms    int   `json:"terms"`
	Postings int   `json:"postings"`
}

// Stats summarises the whole index.
type Stats struct {
	Documents int          `json:"documents"`
	Fields    []FieldStats `json:"fields"`
}
