package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"textrec/internal/domain"
	"textrec/internal/logging"
	"textrec/internal/metrics"
	"textrec/internal/ranker"
	"textrec/internal/similarity"
	"textrec/internal/textnorm"
	"textrec/internal/vectorspace"
)

// minQueryTokens is the smallest normalized token count accepted for a new query.
const minQueryTokens = 2

// Engine runs single recommendation requests against a corpus snapshot. It never
// mutates the corpus it is given and is safe for concurrent use.
type Engine struct {
	normalizer *textnorm.Normalizer
	builder    *vectorspace.Builder
	exclusion  ranker.ExclusionPolicy
	cache      *spaceCache
}

// NewEngine creates an engine. cacheSize 0 rebuilds the vector space on every call.
func NewEngine(exclusion ranker.ExclusionPolicy, cacheSize int) *Engine {
	if exclusion == "" {
		exclusion = ranker.ExcludeByIndex
	}
	return &Engine{
		normalizer: textnorm.New(),
		builder:    vectorspace.NewBuilder(),
		exclusion:  exclusion,
		cache:      newSpaceCache(cacheSize),
	}
}

// Recommend ranks the rows of corpus against the request's query.
//
// A new query is normalized, checked for length, appended to a private working copy
// and checked for duplicates before the vector space is rebuilt over the whole
// working copy. Without a new query, the query must already be present verbatim in
// the input field; a nil query selects the first row.
func (e *Engine) Recommend(ctx context.Context, corpus *domain.Corpus, req domain.Request) (*domain.Result, error) {
	if corpus == nil {
		corpus = &domain.Corpus{}
	}
	if err := validateFields(corpus, req); err != nil {
		return nil, err
	}
	if err := ranker.ValidateTopN(req.TopN); err != nil {
		return nil, err
	}
	log := logging.Ctx(ctx)

	var query string
	switch {
	case req.Query != nil:
		query = *req.Query
	case req.NewQuery:
		return nil, fmt.Errorf("%w: a new query needs text", domain.ErrInvalidParameter)
	case corpus.Len() == 0:
		return nil, fmt.Errorf("%w: corpus is empty", domain.ErrNotFound)
	default:
		query = corpus.Rows[0][req.InputField]
	}

	working := make([]domain.Row, corpus.Len(), corpus.Len()+1)
	copy(working, corpus.Rows)

	var normalizedQuery string
	if req.NewQuery {
		normalizedQuery = e.normalizer.Normalize(query)
		if n := len(strings.Fields(normalizedQuery)); n < minQueryTokens {
			return nil, fmt.Errorf("%w: %q leaves %d usable word(s); use more and different words", domain.ErrInsufficientInput, query, n)
		}
		working = append(working, domain.Row{req.InputField: query})
	}

	normalized := make([]string, len(working))
	for i, row := range working {
		normalized[i] = e.normalizer.Normalize(row[req.InputField])
	}

	if req.NewQuery {
		for i, text := range normalized[:len(normalized)-1] {
			if text == normalizedQuery {
				return nil, fmt.Errorf("%w: %q matches existing row %d", domain.ErrDuplicateInput, query, i)
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matrix, err := e.similarities(ctx, normalized)
	if err != nil {
		return nil, err
	}

	queryIdx := -1
	for i, row := range working {
		if row[req.InputField] == query {
			queryIdx = i
			break
		}
	}
	if queryIdx < 0 {
		return nil, fmt.Errorf("%w: no row with %s = %q", domain.ErrNotFound, req.InputField, query)
	}

	start := time.Now()
	items, err := ranker.Rank(queryIdx, matrix, working, ranker.Options{
		TopN:         req.TopN,
		OutputFields: req.OutputFields,
		Exclusion:    e.exclusion,
	})
	if err != nil {
		return nil, err
	}
	metrics.ObserveStage("rank", time.Since(start))

	if ev := log.Debug(); ev.Enabled() {
		scores := make([]float64, len(items))
		for i, it := range items {
			scores[i] = it.Score
		}
		ev.Int("query_index", queryIdx).Floats64("scores", scores).Msg("ranked recommendations")
	}
	return &domain.Result{
		Query:      query,
		QueryIndex: queryIdx,
		NewQuery:   req.NewQuery,
		Items:      items,
	}, nil
}

func (e *Engine) similarities(ctx context.Context, normalized []string) (similarity.Matrix, error) {
	key := snapshotKey(normalized)
	if m, ok := e.cache.get(key); ok {
		metrics.SpaceCacheHits.Inc()
		return m, nil
	}
	if e.cache.enabled() {
		metrics.SpaceCacheMisses.Inc()
	}

	start := time.Now()
	space := e.builder.Build(normalized)
	vectorized := time.Since(start)
	metrics.ObserveStage("vectorize", vectorized)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	m := similarity.Compute(space)
	computed := time.Since(start)
	metrics.ObserveStage("similarity", computed)

	logging.Ctx(ctx).Debug().
		Int("rows", space.Len()).
		Int("vocabulary", space.Dimension()).
		Dur("vectorize", vectorized).
		Dur("similarity", computed).
		Msg("vector space rebuilt")

	e.cache.put(key, m)
	return m, nil
}

func validateFields(corpus *domain.Corpus, req domain.Request) error {
	if req.InputField == "" {
		return fmt.Errorf("%w: input field is required", domain.ErrInvalidParameter)
	}
	if len(corpus.Columns) == 0 {
		return nil
	}
	if !corpus.HasColumn(req.InputField) {
		return fmt.Errorf("%w: unknown input field %q", domain.ErrInvalidParameter, req.InputField)
	}
	for _, f := range req.OutputFields {
		if !corpus.HasColumn(f) {
			return fmt.Errorf("%w: unknown output field %q", domain.ErrInvalidParameter, f)
		}
	}
	return nil
}
