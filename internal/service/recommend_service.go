package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"textrec/internal/domain"
	"textrec/internal/logging"
	"textrec/internal/metrics"
	"textrec/internal/ranker"
)

// Options configures a RecommendService.
type Options struct {
	InputField          string
	OutputFields        []string
	TopN                int
	Exclusion           ranker.ExclusionPolicy
	CacheSize           int
	SummaryMaxSentences int
}

// RecommendService holds the current corpus snapshot and answers recommendation
// requests against it. The snapshot is replaced, never modified, so concurrent
// requests each see a consistent corpus.
type RecommendService struct {
	engine     *Engine
	summarizer domain.Summarizer
	opts       Options

	mu      sync.RWMutex
	corpus  *domain.Corpus
	summary string
}

// NewRecommendService creates a service over a copy of corpus. summarizer may be nil.
func NewRecommendService(corpus *domain.Corpus, summarizer domain.Summarizer, opts Options) *RecommendService {
	if len(opts.OutputFields) == 0 && opts.InputField != "" {
		opts.OutputFields = []string{opts.InputField}
	}
	s := &RecommendService{
		engine:     NewEngine(opts.Exclusion, opts.CacheSize),
		summarizer: summarizer,
		opts:       opts,
	}
	s.setCorpus(corpus.Clone())
	return s
}

// Options returns the defaults the service was created with.
func (s *RecommendService) Options() Options { return s.opts }

// Request builds a request from the service defaults.
func (s *RecommendService) Request(query *string, newQuery bool) domain.Request {
	return domain.Request{
		Query:        query,
		InputField:   s.opts.InputField,
		OutputFields: append([]string(nil), s.opts.OutputFields...),
		TopN:         s.opts.TopN,
		NewQuery:     newQuery,
	}
}

// Recommend answers req against the current snapshot. Empty InputField and
// OutputFields fall back to the service defaults; TopN is used as given.
func (s *RecommendService) Recommend(ctx context.Context, req domain.Request) (*domain.Result, error) {
	ctx = logging.EnsureCorrelationID(ctx)
	if req.InputField == "" {
		req.InputField = s.opts.InputField
	}
	if len(req.OutputFields) == 0 {
		req.OutputFields = s.opts.OutputFields
	}

	start := time.Now()
	res, err := s.engine.Recommend(ctx, s.snapshot(), req)
	metrics.ObserveStage("total", time.Since(start))
	metrics.RecordOutcome(Outcome(err))
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Bool("new_query", req.NewQuery).Msg("recommendation failed")
		return nil, err
	}
	logging.Ctx(ctx).Info().
		Str("query", res.Query).
		Int("results", len(res.Items)).
		Dur("took", time.Since(start)).
		Msg("recommendation served")
	return res, nil
}

// AppendRow merges row into the held corpus. The row's input text goes through the
// same length and duplicate checks as a new query.
func (s *RecommendService) AppendRow(row domain.Row) error {
	text, ok := row[s.opts.InputField]
	if !ok {
		return fmt.Errorf("%w: row has no %q field", domain.ErrInvalidParameter, s.opts.InputField)
	}
	normalized := s.engine.normalizer.Normalize(text)
	if n := len(strings.Fields(normalized)); n < minQueryTokens {
		return fmt.Errorf("%w: %q leaves %d usable word(s)", domain.ErrInsufficientInput, text, n)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.corpus.Rows {
		if s.engine.normalizer.Normalize(existing[s.opts.InputField]) == normalized {
			return fmt.Errorf("%w: %q matches existing row %d", domain.ErrDuplicateInput, text, i)
		}
	}
	next := s.corpus.Clone()
	cp := make(domain.Row, len(row))
	for k, v := range row {
		cp[k] = v
		if !next.HasColumn(k) {
			next.Columns = append(next.Columns, k)
		}
	}
	next.Rows = append(next.Rows, cp)
	s.swapLocked(next)
	logging.Info().Int("rows", next.Len()).Msg("row appended to corpus")
	return nil
}

// Corpus returns a copy of the current snapshot.
func (s *RecommendService) Corpus() *domain.Corpus {
	return s.snapshot().Clone()
}

// Summary returns the summary of the current snapshot's input texts.
func (s *RecommendService) Summary() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}

func (s *RecommendService) snapshot() *domain.Corpus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.corpus
}

func (s *RecommendService) setCorpus(c *domain.Corpus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.swapLocked(c)
}

func (s *RecommendService) swapLocked(c *domain.Corpus) {
	s.corpus = c
	metrics.CorpusRows.Set(float64(c.Len()))
	if s.summarizer == nil {
		return
	}
	var b strings.Builder
	for _, row := range c.Rows {
		text := strings.TrimSpace(row[s.opts.InputField])
		if text == "" {
			continue
		}
		b.WriteString(text)
		if !strings.ContainsAny(text[len(text)-1:], ".!?") {
			b.WriteString(".")
		}
		b.WriteString("\n")
	}
	summary, err := s.summarizer.Summarize(b.String(), s.opts.SummaryMaxSentences)
	if err != nil {
		logging.Warn().Err(err).Msg("corpus summary failed")
		return
	}
	s.summary = summary
}

// Outcome names the error kind of err for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidParameter):
		return "invalid_parameter"
	case errors.Is(err, domain.ErrInsufficientInput):
		return "insufficient_input"
	case errors.Is(err, domain.ErrDuplicateInput):
		return "duplicate_input"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}
