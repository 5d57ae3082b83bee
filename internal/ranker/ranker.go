// Package ranker turns one row of a similarity matrix into a ranked recommendation list.
package ranker

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"textrec/internal/domain"
	"textrec/internal/similarity"
)

// Bounds for the number of recommendations; both are inclusive.
const (
	MinTopN = 2
	MaxTopN = 19
)

// ExclusionPolicy selects how the query row is kept out of its own recommendations.
type ExclusionPolicy string

const (
	// ExcludeByIndex drops the query row by index wherever it ranks.
	ExcludeByIndex ExclusionPolicy = "index"
	// ExcludeFirstRanked drops whatever ranks first, assuming it is the self-match.
	// A distinct row that ties or beats the query's self-similarity is lost instead.
	ExcludeFirstRanked ExclusionPolicy = "first_ranked"
)

// Options configures a ranking.
type Options struct {
	TopN         int
	OutputFields []string
	Exclusion    ExclusionPolicy
}

// ValidateTopN checks MinTopN <= n <= MaxTopN without clamping.
func ValidateTopN(n int) error {
	if n < MinTopN || n > MaxTopN {
		return fmt.Errorf("%w: top_n must satisfy 1 < top_n < 20, got %d", domain.ErrInvalidParameter, n)
	}
	return nil
}

type scored struct {
	idx   int
	score float64
}

// Rank returns up to opts.TopN rows most similar to row query, sorted by descending
// score. Equal scores keep ascending row order.
func Rank(query int, m similarity.Matrix, rows []domain.Row, opts Options) ([]domain.Recommendation, error) {
	if err := ValidateTopN(opts.TopN); err != nil {
		return nil, err
	}
	if len(rows) != m.Len() {
		return nil, fmt.Errorf("%w: %d rows for a %dx%d similarity matrix", domain.ErrInvalidParameter, len(rows), m.Len(), m.Len())
	}
	if query < 0 || query >= m.Len() {
		return nil, fmt.Errorf("%w: query index %d outside 0..%d", domain.ErrNotFound, query, m.Len()-1)
	}

	scores := make([]scored, 0, m.Len())
	for i, s := range m.Row(query) {
		scores = append(scores, scored{idx: i, score: s})
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	switch opts.Exclusion {
	case ExcludeFirstRanked:
		if len(scores) > 0 {
			scores = scores[1:]
		}
	default:
		filtered := scores[:0]
		for _, s := range scores {
			if s.idx != query {
				filtered = append(filtered, s)
			}
		}
		scores = filtered
	}

	topN := opts.TopN
	if topN > len(scores) {
		topN = len(scores)
	}
	out := make([]domain.Recommendation, 0, topN)
	for _, s := range scores[:topN] {
		fields := make([]domain.Field, 0, len(opts.OutputFields))
		for _, name := range opts.OutputFields {
			fields = append(fields, domain.Field{Name: name, Value: rows[s.idx][name]})
		}
		out = append(out, domain.Recommendation{
			Index:      s.idx,
			Fields:     fields,
			Score:      s.score,
			Similarity: FormatPercent(s.score),
		})
	}
	return out, nil
}

// FormatPercent renders score as a percentage rounded to two decimals, keeping at
// least one fractional digit: 0.87341 -> "87.34 %", 1 -> "100.0 %".
// Rounding works on the exact binary value, so 0.00125 renders as "0.12 %".
func FormatPercent(score float64) string {
	pct := score * 100
	if pct == 0 {
		pct = 0 // drop negative zero
	}
	s := strconv.FormatFloat(pct, 'f', 2, 64)
	s = strings.TrimSuffix(s, "0")
	return s + " %"
}
