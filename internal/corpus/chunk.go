package corpus

import (
	"strings"

	"textrec/internal/summarizer"
)

// chunkSentences groups the sentences of text into rows of sentencesPerRow
// sentences, each row repeating the last overlap sentences of the previous one.
func chunkSentences(text string, sentencesPerRow, overlap int) []string {
	if sentencesPerRow <= 0 {
		sentencesPerRow = 1
	}
	if overlap < 0 || overlap >= sentencesPerRow {
		overlap = 0
	}
	sentences := summarizer.SplitSentences(text)
	var rows []string
	i := 0
	for i < len(sentences) {
		end := i + sentencesPerRow
		if end > len(sentences) {
			end = len(sentences)
		}
		rows = append(rows, strings.Join(sentences[i:end], " "))
		if end == len(sentences) {
			break
		}
		i = end - overlap
	}
	return rows
}
