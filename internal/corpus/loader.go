// Package corpus loads corpora from files.
//
// Supported formats, chosen by extension:
//   - .txt: one row per non-empty line, or sentence rows (see LoadOptions.Split)
//   - .csv: the header row names the columns
//   - .json: an array of objects
//   - .yaml, .yml: a list of mappings
//   - .toml: a "rows" array of tables
//
// Non-string values are converted with fmt.Sprint.
package corpus

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"textrec/internal/domain"
)

// DefaultField is the column used for rows read from plain text files.
const DefaultField = "texts"

// Split modes for plain text files.
const (
	SplitLine     = "line"
	SplitSentence = "sentence"
)

// LoadOptions controls how plain text files become rows.
type LoadOptions struct {
	Field            string
	Split            string
	SentencesPerRow  int
	OverlapSentences int
}

// Load reads every file matched by paths (glob patterns allowed) into one corpus,
// keeping file order and row order within each file.
func Load(paths []string, opts LoadOptions) (*domain.Corpus, error) {
	if opts.Field == "" {
		opts.Field = DefaultField
	}
	b := newBuilder()
	for _, p := range paths {
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("corpus pattern %q: %w", p, err)
		}
		if matches == nil {
			matches = []string{p}
		}
		for _, m := range matches {
			rows, err := loadFile(m, opts)
			if err != nil {
				return nil, fmt.Errorf("load %s: %w", m, err)
			}
			b.add(rows)
		}
	}
	if len(b.corpus.Rows) == 0 {
		return nil, errors.New("no rows found in corpus files")
	}
	return b.corpus, nil
}

func loadFile(path string, opts LoadOptions) ([]orderedRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text":
		return textRows(string(data), opts), nil
	case ".csv":
		return csvRows(data)
	case ".json":
		var raw []map[string]any
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return mapRows(raw), nil
	case ".yaml", ".yml":
		var raw []map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return mapRows(raw), nil
	case ".toml":
		var doc struct {
			Rows []map[string]any `toml:"rows"`
		}
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return mapRows(doc.Rows), nil
	default:
		return nil, fmt.Errorf("unsupported corpus format %q", filepath.Ext(path))
	}
}

// orderedRow keeps the column order of the source.
type orderedRow struct {
	keys   []string
	values map[string]string
}

type builder struct {
	corpus *domain.Corpus
	seen   map[string]struct{}
}

func newBuilder() *builder {
	return &builder{corpus: &domain.Corpus{}, seen: map[string]struct{}{}}
}

func (b *builder) add(rows []orderedRow) {
	for _, r := range rows {
		for _, k := range r.keys {
			if _, ok := b.seen[k]; !ok {
				b.seen[k] = struct{}{}
				b.corpus.Columns = append(b.corpus.Columns, k)
			}
		}
		b.corpus.Rows = append(b.corpus.Rows, domain.Row(r.values))
	}
}

func textRows(text string, opts LoadOptions) []orderedRow {
	var pieces []string
	if opts.Split == SplitSentence {
		pieces = chunkSentences(text, opts.SentencesPerRow, opts.OverlapSentences)
	} else {
		for _, line := range strings.Split(text, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				pieces = append(pieces, line)
			}
		}
	}
	rows := make([]orderedRow, 0, len(pieces))
	for _, p := range pieces {
		rows = append(rows, orderedRow{keys: []string{opts.Field}, values: map[string]string{opts.Field: p}})
	}
	return rows
}

func csvRows(data []byte) ([]orderedRow, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}
	var rows []orderedRow
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		values := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				values[col] = rec[i]
			} else {
				values[col] = ""
			}
		}
		rows = append(rows, orderedRow{keys: header, values: values})
	}
	return rows, nil
}

func mapRows(raw []map[string]any) []orderedRow {
	rows := make([]orderedRow, 0, len(raw))
	for _, m := range raw {
		keys := make([]string, 0, len(m))
		values := make(map[string]string, len(m))
		for k, v := range m {
			keys = append(keys, k)
			if v == nil {
				values[k] = ""
				continue
			}
			values[k] = fmt.Sprint(v)
		}
		sort.Strings(keys)
		rows = append(rows, orderedRow{keys: keys, values: values})
	}
	return rows
}
