package vectorspace

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// Space is a TF-IDF vector space over a corpus snapshot.
// Row i of Weights corresponds to document i of the corpus it was built from.
type Space struct {
	Vocabulary []string
	IDF        []float64
	Weights    [][]float64
}

// Len returns the number of documents.
func (s *Space) Len() int { return len(s.Weights) }

// Dimension returns the vocabulary size.
func (s *Space) Dimension() int { return len(s.Vocabulary) }

// IsZero reports whether row i has no weighted terms.
func (s *Space) IsZero(i int) bool {
	for _, v := range s.Weights[i] {
		if v != 0 {
			return false
		}
	}
	return true
}

// Builder builds TF-IDF spaces. It is stateless between builds and safe for
// concurrent use.
type Builder struct {
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// NewBuilder creates a builder with the default token pattern and stop words.
func NewBuilder() *Builder {
	return &Builder{
		tokenPattern: regexp.MustCompile(`\b\w\w+\b`),
		stopwords:    defaultStopwords(),
	}
}

// Build computes L2-normalized TF-IDF vectors for docs.
//
//   - TF: raw count of the term in the document.
//   - IDF: ln((1+N)/(1+df)) + 1, where N = number of docs, df = docs containing the term.
//
// Documents without any vocabulary term get an all-zero row. An empty vocabulary
// yields zero-width rows; Build never fails.
func (b *Builder) Build(docs []string) *Space {
	tokenized := make([][]string, len(docs))
	df := make(map[string]int)
	for i, text := range docs {
		tokens := b.tokenize(text)
		tokenized[i] = tokens
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	// Stable ordering for vocabulary
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	vocabulary := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(docs))
	for i, term := range terms {
		vocabulary[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}

	weights := make([][]float64, len(docs))
	for i, tokens := range tokenized {
		vec := make([]float64, len(terms))
		for _, tok := range tokens {
			vec[vocabulary[tok]]++
		}
		for j := range vec {
			vec[j] *= idf[j]
		}
		l2Normalize(vec)
		weights[i] = vec
	}
	return &Space{Vocabulary: terms, IDF: idf, Weights: weights}
}

var std = NewBuilder()

// Build builds a space with the default builder.
func Build(docs []string) *Space { return std.Build(docs) }

func (b *Builder) tokenize(text string) []string {
	lower := strings.ToLower(text)
	raw := b.tokenPattern.FindAllString(lower, -1)
	if len(raw) == 0 {
		return nil
	}
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := b.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func l2Normalize(vec []float64) {
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
}
