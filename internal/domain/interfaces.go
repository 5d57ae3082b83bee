package domain

import (
	"context"
	"errors"
)

// Error kinds returned by the recommendation core. Callers match them with errors.Is.
var (
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrInsufficientInput = errors.New("insufficient input")
	ErrDuplicateInput    = errors.New("duplicate input")
	ErrNotFound          = errors.New("not found")
)

// Row is a single corpus item with named fields.
type Row map[string]string

// Corpus is an ordered collection of rows. Row order defines the positional
// indices used by the vector space and similarity matrix.
type Corpus struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Rows)
}

// HasColumn reports whether name is one of the corpus columns.
func (c *Corpus) HasColumn(name string) bool {
	if c == nil {
		return false
	}
	for _, col := range c.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// Clone returns a copy whose row slice and row maps can be modified freely.
func (c *Corpus) Clone() *Corpus {
	if c == nil {
		return &Corpus{}
	}
	out := &Corpus{
		Columns: append([]string(nil), c.Columns...),
		Rows:    make([]Row, len(c.Rows)),
	}
	for i, r := range c.Rows {
		cp := make(Row, len(r))
		for k, v := range r {
			cp[k] = v
		}
		out.Rows[i] = cp
	}
	return out
}

// Field is a named output value attached to a recommendation.
type Field struct {
	Name  string
	Value string
}

// Recommendation is one ranked corpus row.
type Recommendation struct {
	Index      int
	Fields     []Field
	Score      float64
	Similarity string
}

// Result is the ranked answer to one query.
type Result struct {
	Query      string
	QueryIndex int
	NewQuery   bool
	Items      []Recommendation
}

// Request describes one recommendation call. A nil Query selects the first corpus row.
type Request struct {
	Query        *string
	InputField   string
	OutputFields []string
	TopN         int
	NewQuery     bool
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}

// Recommender defines the operations exposed by the application core.
type Recommender interface {
	Recommend(ctx context.Context, req Request) (*Result, error)
	AppendRow(row Row) error
	Corpus() *Corpus
	Summary() string
}
