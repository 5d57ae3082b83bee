package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"textrec/internal/domain"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeCorpus(t *testing.T) (dir, corpusPath string) {
	t.Helper()
	dir = t.TempDir()
	corpusPath = filepath.Join(dir, "items.txt")
	content := "apple banana fruit\nbanana smoothie recipe\ncar engine repair\n"
	if err := os.WriteFile(corpusPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, corpusPath
}

func TestRecommendCommandTable(t *testing.T) {
	dir, corpusPath := writeCorpus(t)
	out, err := runCommand(t, "--config", filepath.Join(dir, "config.yaml"), "--log-level", "disabled",
		"recommend", "--top", "2", corpusPath)
	if err != nil {
		t.Fatalf("recommend error = %v\n%s", err, out)
	}
	if !strings.Contains(out, `Top 2 Recommendations for "apple banana fruit"`) {
		t.Errorf("missing title in output:\n%s", out)
	}
	first := strings.Index(out, "banana smoothie recipe")
	second := strings.Index(out, "car engine repair")
	if first < 0 || second < 0 || first > second {
		t.Errorf("unexpected ranking in output:\n%s", out)
	}
}

func TestRecommendCommandJSON(t *testing.T) {
	dir, corpusPath := writeCorpus(t)
	out, err := runCommand(t, "--config", filepath.Join(dir, "config.yaml"), "--log-level", "disabled",
		"recommend", "--json", "--new", "--query", "engine oil repair", "--top", "2", corpusPath)
	if err != nil {
		t.Fatalf("recommend error = %v\n%s", err, out)
	}
	var res struct {
		Query string `json:"query"`
		Items []struct {
			Fields     map[string]string `json:"fields"`
			Similarity string            `json:"similarity"`
		} `json:"items"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(res.Items) != 2 || res.Items[0].Fields["texts"] != "car engine repair" {
		t.Errorf("items = %+v", res.Items)
	}
}

func TestRecommendCommandErrors(t *testing.T) {
	dir, corpusPath := writeCorpus(t)
	cfg := filepath.Join(dir, "config.yaml")
	if _, err := runCommand(t, "--config", cfg, "--log-level", "disabled", "recommend", "--top", "1", corpusPath); err == nil {
		t.Error("top 1 error = nil")
	}
	if _, err := runCommand(t, "--config", cfg, "--log-level", "disabled", "recommend", "--new", "--query", "hello", corpusPath); err == nil {
		t.Error("single word query error = nil")
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textrec.toml")
	if _, err := runCommand(t, "config", "init", path); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if _, err := runCommand(t, "config", "init", path); err == nil {
		t.Error("second config init without --force error = nil")
	}
	if _, err := runCommand(t, "config", "init", "--force", path); err != nil {
		t.Errorf("config init --force error = %v", err)
	}
}

func TestResultTable(t *testing.T) {
	res := &domain.Result{
		Query: "apple banana fruit",
		Items: []domain.Recommendation{
			{Index: 2, Fields: []domain.Field{{Name: "texts", Value: "car engine repair"}}, Similarity: "50.0 %"},
			{Index: 1, Fields: []domain.Field{{Name: "texts", Value: "banana smoothie"}}, Similarity: "12.5 %"},
		},
	}
	got := resultTable(res, []string{"texts"}, false)
	for _, want := range []string{"TEXTS", "SIMILARITY", "car engine repair", "50.0 %", "12.5 %"} {
		if !strings.Contains(got, want) {
			t.Errorf("resultTable() missing %q:\n%s", want, got)
		}
	}
	if strings.Index(got, "car engine repair") > strings.Index(got, "banana smoothie") {
		t.Errorf("resultTable() reordered items:\n%s", got)
	}
}
