package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"textrec/internal/domain"
	"textrec/internal/service"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	c := &domain.Corpus{Columns: []string{"texts"}}
	for _, s := range []string{"apple banana fruit", "banana smoothie recipe", "car engine repair", "engine oil change"} {
		c.Rows = append(c.Rows, domain.Row{"texts": s})
	}
	svc := service.NewRecommendService(c, nil, service.Options{InputField: "texts", TopN: 2})
	m := New(svc, Options{InputField: "texts", TopN: 2})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

func press(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestNewShowsFirstRowRecommendations(t *testing.T) {
	m := newTestModel(t)
	if m.result == nil || m.result.Query != "apple banana fruit" {
		t.Fatalf("initial result = %+v", m.result)
	}
	if !strings.Contains(m.title, `"apple banana fruit"`) {
		t.Errorf("title = %q", m.title)
	}
	if rows := m.table.Rows(); len(rows) != 2 || rows[0][0] != "banana smoothie recipe" {
		t.Errorf("table rows = %v", rows)
	}
	if !strings.Contains(m.View(), "similarity") {
		t.Error("view lacks similarity column")
	}
}

func TestEnterRunsNewQuery(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("engine repair shop")
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.result.Query != "engine repair shop" || !m.result.NewQuery {
		t.Fatalf("result = %+v", m.result)
	}
	if rows := m.table.Rows(); rows[0][0] != "car engine repair" {
		t.Errorf("top row = %v", rows[0])
	}
}

func TestEnterShowsErrors(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("hello")
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(m.status, "more and different words") {
		t.Errorf("status = %q", m.status)
	}
	// Previous recommendations stay visible.
	if m.result.Query != "apple banana fruit" {
		t.Errorf("result replaced after error: %+v", m.result)
	}

	m.input.SetValue("Car engine, repair!")
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(m.status, "existing item") {
		t.Errorf("status = %q", m.status)
	}
}

func TestSaveLastQuery(t *testing.T) {
	m := newTestModel(t)
	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if !strings.Contains(m.status, "Nothing to save") {
		t.Errorf("status = %q", m.status)
	}

	m.input.SetValue("banana bread baking")
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyCtrlS})
	if !strings.Contains(m.status, "Added") {
		t.Errorf("status = %q", m.status)
	}
	if n := m.service.Corpus().Len(); n != 5 {
		t.Errorf("corpus rows = %d, want 5", n)
	}
}

func TestTabAndExploreSelected(t *testing.T) {
	m := newTestModel(t)
	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if !m.table.Focused() || m.input.Focused() {
		t.Fatal("tab did not move focus to the table")
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.result.Query != "banana smoothie recipe" || m.result.NewQuery {
		t.Errorf("explore result = %+v", m.result)
	}
}

func TestHighlightTerms(t *testing.T) {
	if got := highlightTerms("plain text", ""); got != "plain text" {
		t.Errorf("highlightTerms(no query) = %q", got)
	}
	got := highlightTerms("Car engine repair", "engine")
	if !strings.Contains(got, "Car") || !strings.Contains(got, "repair") {
		t.Errorf("highlightTerms() = %q", got)
	}
}
