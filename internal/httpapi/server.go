// Package httpapi exposes the recommender over a small JSON HTTP API.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"textrec/internal/domain"
	"textrec/internal/logging"
	"textrec/internal/metrics"
)

// Recommender is the subset of the service used by the API.
type Recommender interface {
	Recommend(ctx context.Context, req domain.Request) (*domain.Result, error)
	AppendRow(row domain.Row) error
	Corpus() *domain.Corpus
}

// Config configures the router.
type Config struct {
	DefaultTopN        int
	RequestTimeout     time.Duration
	RateLimitPerMinute int
	CORSOrigins        []string
}

type server struct {
	svc Recommender
	cfg Config
}

// NewRouter builds the API router.
func NewRouter(svc Recommender, cfg Config) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	s := &server{svc: svc, cfg: cfg}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(correlationID)
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, "/healthz", http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		if cfg.RateLimitPerMinute > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute))
		}
		r.Use(deadline(cfg.RequestTimeout))
		r.Post("/recommend", s.handleRecommend)
		r.Get("/corpus", s.handleCorpus)
		r.Post("/rows", s.handleAppendRow)
	})
	return r
}

// deadline bounds the request context. Handlers report an expired context
// through writeError, so this middleware never writes a response itself.
func deadline(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func correlationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if id := middleware.GetReqID(ctx); id != "" {
			ctx = logging.ContextWithCorrelationID(ctx, id)
		}
		next.ServeHTTP(w, r.WithContext(logging.EnsureCorrelationID(ctx)))
	})
}

type recommendRequest struct {
	Query        *string  `json:"query"`
	New          bool     `json:"new"`
	TopN         *int     `json:"top_n"`
	InputField   string   `json:"input_field"`
	OutputFields []string `json:"output_fields"`
}

type recommendationJSON struct {
	Index      int               `json:"index"`
	Fields     map[string]string `json:"fields"`
	Score      float64           `json:"score"`
	Similarity string            `json:"similarity"`
}

type resultJSON struct {
	Query      string               `json:"query"`
	QueryIndex int                  `json:"query_index"`
	New        bool                 `json:"new"`
	Items      []recommendationJSON `json:"items"`
}

type errorJSON struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func (s *server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	const route = "/v1/recommend"
	var body recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, route, http.StatusBadRequest, errorJSON{Error: "invalid JSON body: " + err.Error(), Kind: "invalid_parameter"})
		return
	}
	topN := s.cfg.DefaultTopN
	if body.TopN != nil {
		topN = *body.TopN
	}
	res, err := s.svc.Recommend(r.Context(), domain.Request{
		Query:        body.Query,
		InputField:   body.InputField,
		OutputFields: body.OutputFields,
		TopN:         topN,
		NewQuery:     body.New,
	})
	if err != nil {
		writeError(w, route, err)
		return
	}
	writeJSON(w, route, http.StatusOK, ToJSON(res))
}

func (s *server) handleCorpus(w http.ResponseWriter, _ *http.Request) {
	c := s.svc.Corpus()
	writeJSON(w, "/v1/corpus", http.StatusOK, map[string]any{
		"columns": c.Columns,
		"rows":    c.Rows,
	})
}

func (s *server) handleAppendRow(w http.ResponseWriter, r *http.Request) {
	const route = "/v1/rows"
	var row domain.Row
	if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
		writeJSON(w, route, http.StatusBadRequest, errorJSON{Error: "invalid JSON body: " + err.Error(), Kind: "invalid_parameter"})
		return
	}
	if err := s.svc.AppendRow(row); err != nil {
		writeError(w, route, err)
		return
	}
	writeJSON(w, route, http.StatusCreated, map[string]int{"rows": s.svc.Corpus().Len()})
}

// ToJSON converts a result to its wire form.
func ToJSON(res *domain.Result) any {
	out := resultJSON{
		Query:      res.Query,
		QueryIndex: res.QueryIndex,
		New:        res.NewQuery,
		Items:      make([]recommendationJSON, 0, len(res.Items)),
	}
	for _, it := range res.Items {
		fields := make(map[string]string, len(it.Fields))
		for _, f := range it.Fields {
			fields[f.Name] = f.Value
		}
		out.Items = append(out.Items, recommendationJSON{
			Index:      it.Index,
			Fields:     fields,
			Score:      it.Score,
			Similarity: it.Similarity,
		})
	}
	return out
}

// StatusFor maps an error kind to an HTTP status code.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidParameter):
		return http.StatusBadRequest, "invalid_parameter"
	case errors.Is(err, domain.ErrInsufficientInput):
		return http.StatusUnprocessableEntity, "insufficient_input"
	case errors.Is(err, domain.ErrDuplicateInput):
		return http.StatusConflict, "duplicate_input"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeError(w http.ResponseWriter, route string, err error) {
	status, kind := StatusFor(err)
	writeJSON(w, route, status, errorJSON{Error: err.Error(), Kind: kind})
}

func writeJSON(w http.ResponseWriter, route string, status int, v any) {
	metrics.APIRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn().Err(err).Str("route", route).Msg("write response failed")
	}
}
