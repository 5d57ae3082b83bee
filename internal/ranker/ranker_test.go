package ranker

import (
	"errors"
	"testing"

	"textrec/internal/domain"
	"textrec/internal/similarity"
)

func rowsOf(texts ...string) []domain.Row {
	rows := make([]domain.Row, len(texts))
	for i, t := range texts {
		rows[i] = domain.Row{"texts": t}
	}
	return rows
}

func indices(recs []domain.Recommendation) []int {
	out := make([]int, len(recs))
	for i, r := range recs {
		out[i] = r.Index
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRankInvalidTopN(t *testing.T) {
	m := similarity.Matrix{{1, 0.5, 0.1}, {0.5, 1, 0}, {0.1, 0, 1}}
	rows := rowsOf("a", "b", "c")
	for _, n := range []int{-3, 0, 1, 20, 25} {
		_, err := Rank(0, m, rows, Options{TopN: n})
		if !errors.Is(err, domain.ErrInvalidParameter) {
			t.Errorf("Rank(top_n=%d) error = %v, want ErrInvalidParameter", n, err)
		}
	}
	for _, n := range []int{2, 19} {
		if _, err := Rank(0, m, rows, Options{TopN: n}); err != nil {
			t.Errorf("Rank(top_n=%d) error = %v, want nil", n, err)
		}
	}
}

func TestRankStableTies(t *testing.T) {
	m := similarity.Matrix{
		{1, 0.5, 0.5, 0.9, 0.5},
		{0.5, 1, 0, 0, 0},
		{0.5, 0, 1, 0, 0},
		{0.9, 0, 0, 1, 0},
		{0.5, 0, 0, 0, 1},
	}
	got, err := Rank(0, m, rowsOf("q", "b", "c", "d", "e"), Options{TopN: 3, OutputFields: []string{"texts"}})
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if want := []int{3, 1, 2}; !equalInts(indices(got), want) {
		t.Errorf("Rank() indices = %v, want %v", indices(got), want)
	}
	if got[0].Fields[0].Value != "d" || got[0].Similarity != "90.0 %" {
		t.Errorf("first recommendation = %+v", got[0])
	}
}

func TestRankExclusionPolicies(t *testing.T) {
	// Row 0 ties the query's self-similarity and sorts ahead of it.
	m := similarity.Matrix{
		{1, 1, 0.3},
		{1, 1, 0.3},
		{0.3, 0.3, 1},
	}
	rows := rowsOf("dup", "query", "other")

	byIndex, err := Rank(1, m, rows, Options{TopN: 2, Exclusion: ExcludeByIndex})
	if err != nil {
		t.Fatalf("Rank(index) error = %v", err)
	}
	if want := []int{0, 2}; !equalInts(indices(byIndex), want) {
		t.Errorf("index policy = %v, want %v", indices(byIndex), want)
	}

	positional, err := Rank(1, m, rows, Options{TopN: 2, Exclusion: ExcludeFirstRanked})
	if err != nil {
		t.Fatalf("Rank(first_ranked) error = %v", err)
	}
	if want := []int{1, 2}; !equalInts(indices(positional), want) {
		t.Errorf("first_ranked policy = %v, want %v", indices(positional), want)
	}
}

func TestRankBoundsAndDistinct(t *testing.T) {
	m := similarity.Matrix{{1, 0.2, 0.4}, {0.2, 1, 0.1}, {0.4, 0.1, 1}}
	got, err := Rank(2, m, rowsOf("a", "b", "c"), Options{TopN: 10})
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	seen := map[int]bool{}
	for _, r := range got {
		if r.Index == 2 {
			t.Errorf("query row returned in its own recommendations")
		}
		if seen[r.Index] {
			t.Errorf("row %d returned twice", r.Index)
		}
		seen[r.Index] = true
	}
}

func TestRankBadInputs(t *testing.T) {
	m := similarity.Matrix{{1, 0}, {0, 1}}
	if _, err := Rank(5, m, rowsOf("a", "b"), Options{TopN: 2}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("out of range query error = %v, want ErrNotFound", err)
	}
	if _, err := Rank(0, m, rowsOf("a"), Options{TopN: 2}); !errors.Is(err, domain.ErrInvalidParameter) {
		t.Errorf("row mismatch error = %v, want ErrInvalidParameter", err)
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.873412, "87.34 %"},
		{1, "100.0 %"},
		{0, "0.0 %"},
		{0.5, "50.0 %"},
		{0.333333, "33.33 %"},
		{0.00004, "0.0 %"},
		{0.873, "87.3 %"},
		{0.00125, "0.12 %"},
		{0.00015, "0.01 %"},
		{0.00115, "0.11 %"},
	}
	for _, tt := range tests {
		if got := FormatPercent(tt.in); got != tt.want {
			t.Errorf("FormatPercent(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
