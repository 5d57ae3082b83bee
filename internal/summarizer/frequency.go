package summarizer

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"textrec/internal/textnorm"
)

var sentencePattern = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)

// FrequencySummarizer ranks sentences by normalized word frequency.
type FrequencySummarizer struct {
	normalizer *textnorm.Normalizer
}

// NewFrequencySummarizer creates a frequency-based sentence ranker summarizer.
func NewFrequencySummarizer() *FrequencySummarizer {
	return &FrequencySummarizer{normalizer: textnorm.New()}
}

// Summarize returns up to maxSentences of the highest scoring sentences of text in
// their original order. A sentence scores the sum of its relative term frequencies
// divided by the square root of its token count.
func (s *FrequencySummarizer) Summarize(text string, maxSentences int) (string, error) {
	if maxSentences <= 0 {
		maxSentences = 3
	}
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return strings.TrimSpace(text), nil
	}
	tokens := make([][]string, len(sentences))
	for i, sent := range sentences {
		tokens[i] = s.normalizer.Tokens(sent)
	}
	weights := relativeFrequencies(tokens)

	ranked := make([]int, len(sentences))
	scores := make([]float64, len(sentences))
	for i, toks := range tokens {
		ranked[i] = i
		scores[i] = sentenceScore(toks, weights)
	}
	sort.SliceStable(ranked, func(a, b int) bool { return scores[ranked[a]] > scores[ranked[b]] })

	keep := ranked[:min(maxSentences, len(ranked))]
	sort.Ints(keep)
	out := make([]string, len(keep))
	for i, idx := range keep {
		out[i] = sentences[idx]
	}
	return strings.Join(out, " "), nil
}

// relativeFrequencies counts every token and scales the counts so the most frequent
// token weighs 1.
func relativeFrequencies(docs [][]string) map[string]float64 {
	counts := make(map[string]float64)
	top := 0.0
	for _, doc := range docs {
		for _, tok := range doc {
			counts[tok]++
			top = math.Max(top, counts[tok])
		}
	}
	for tok, n := range counts {
		counts[tok] = n / top
	}
	return counts
}

func sentenceScore(tokens []string, weights map[string]float64) float64 {
	if len(tokens) == 0 {
		return 0
	}
	sum := 0.0
	for _, tok := range tokens {
		sum += weights[tok]
	}
	return sum / math.Sqrt(float64(len(tokens)))
}

// SplitSentences splits text on ., ! and ? and trims the pieces. Trailing text
// after the last terminator is kept as a final sentence.
func SplitSentences(text string) []string {
	var out []string
	last := 0
	for _, loc := range sentencePattern.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[loc[0]:loc[1]]); s != "" {
			out = append(out, s)
		}
		last = loc[1]
	}
	if rest := strings.TrimSpace(text[last:]); rest != "" {
		out = append(out, rest)
	}
	return out
}
