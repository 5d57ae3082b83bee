// Package textnorm turns raw item text into the normalized form used for similarity.
//
// Normalization lowercases the input, replaces every character that is not an ASCII
// letter or digit with a space, splits on whitespace and drops English stop words.
// Digits are kept because alphanumeric codes often identify things.
package textnorm

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var nonAlnumPattern = regexp.MustCompile(`[^a-z0-9]`)

// Normalizer normalizes text with a fixed stop-word set.
// It holds no mutable state and is safe for concurrent use.
type Normalizer struct {
	stopwords map[string]struct{}
}

// New creates a normalizer using the default English stop words.
func New() *Normalizer {
	return &Normalizer{stopwords: defaultStopwords()}
}

// Normalize returns the surviving tokens of text joined by single spaces.
// Empty or all-stop-word input yields "".
func (n *Normalizer) Normalize(text string) string {
	return strings.Join(n.Tokens(text), " ")
}

// Tokens returns the normalized tokens of text in their original order.
func (n *Normalizer) Tokens(text string) []string {
	// cases.Caser is stateful, so one is created per call.
	lower := cases.Lower(language.Und).String(text)
	cleaned := nonAlnumPattern.ReplaceAllString(lower, " ")
	raw := strings.Fields(cleaned)
	if len(raw) == 0 {
		return nil
	}
	out := raw[:0]
	for _, t := range raw {
		if n.IsStopWord(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// IsStopWord reports whether token is in the stop-word set.
func (n *Normalizer) IsStopWord(token string) bool {
	_, ok := n.stopwords[token]
	return ok
}

var std = New()

// Normalize normalizes text with the default normalizer.
func Normalize(text string) string { return std.Normalize(text) }

// Tokens tokenizes text with the default normalizer.
func Tokens(text string) []string { return std.Tokens(text) }

// NormalizeValue coerces v to its string form and normalizes it.
func NormalizeValue(v any) string {
	if s, ok := v.(string); ok {
		return std.Normalize(s)
	}
	return std.Normalize(fmt.Sprint(v))
}

// defaultStopwords is the NLTK English list restricted to entries that can survive
// the alphanumeric filter (contractions split into their fragments, e.g. "re", "ve").
func defaultStopwords() map[string]struct{} {
	words := []string{
		"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you", "your", "yours", "yourself", "yourselves",
		"he", "him", "his", "himself", "she", "her", "hers", "herself", "it", "its", "itself", "they", "them", "their",
		"theirs", "themselves", "what", "which", "who", "whom", "this", "that", "these", "those", "am", "is", "are", "was",
		"were", "be", "been", "being", "have", "has", "had", "having", "do", "does", "did", "doing", "a", "an", "the",
		"and", "but", "if", "or", "because", "as", "until", "while", "of", "at", "by", "for", "with", "about", "against",
		"between", "into", "through", "during", "before", "after", "above", "below", "to", "from", "up", "down", "in",
		"out", "on", "off", "over", "under", "again", "further", "then", "once", "here", "there", "when", "where", "why",
		"how", "all", "any", "both", "each", "few", "more", "most", "other", "some", "such", "no", "nor", "not", "only",
		"own", "same", "so", "than", "too", "very", "s", "t", "can", "will", "just", "don", "should", "now", "d", "ll",
		"m", "o", "re", "ve", "y", "ain", "aren", "couldn", "didn", "doesn", "hadn", "hasn", "haven", "isn", "ma",
		"mightn", "mustn", "needn", "shan", "shouldn", "wasn", "weren", "won", "wouldn",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
