package tui

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"textrec/internal/domain"
)

// RecommenderPort is the TUI-facing subset of the recommendation service.
type RecommenderPort interface {
	Recommend(ctx context.Context, req domain.Request) (*domain.Result, error)
	AppendRow(row domain.Row) error
	Corpus() *domain.Corpus
	Summary() string
}

// Options configures the requests the dashboard sends.
type Options struct {
	InputField   string
	OutputFields []string
	TopN         int
	Timeout      time.Duration
}

const similarityColumn = "similarity"

// Model is the Bubble Tea model for the recommendation dashboard.
type Model struct {
	service   RecommenderPort
	opts      Options
	input     textinput.Model
	table     table.Model
	result    *domain.Result
	title     string
	summary   string
	status    string
	width     int
	ready     bool
	lastQuery string
	lastNew   bool
}

// New creates the dashboard and loads the recommendations for the first corpus row.
func New(service RecommenderPort, opts Options) Model {
	if len(opts.OutputFields) == 0 {
		opts.OutputFields = []string{opts.InputField}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "What do you feel like doing?"
	ti.Focus()
	ti.CharLimit = 0

	t := table.New(
		table.WithColumns(columnsFor(opts.OutputFields, 80)),
		table.WithHeight(opts.TopN+1),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).Bold(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	t.SetStyles(styles)

	m := Model{service: service, opts: opts, input: ti, table: t, summary: service.Summary()}
	m.run(nil, false)
	return m
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		_, qh := queryBoxStyle.GetFrameSize()
		_, th := tableBoxStyle.GetFrameSize()
		reserved := 4 + qh + th + 3 // header, summary, title, status + detail lines
		h := msg.Height - reserved
		if h < 3 {
			h = 3
		}
		if h > m.opts.TopN+1 {
			h = m.opts.TopN + 1
		}
		m.table.SetColumns(columnsFor(m.opts.OutputFields, max(40, msg.Width-4)))
		m.table.SetHeight(h)
		m.table.SetWidth(max(40, msg.Width-4))
		m.input.Width = max(20, msg.Width-8)
		return m, nil
	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "tab":
			if m.input.Focused() {
				m.input.Blur()
				m.table.Focus()
				return m, nil
			}
			m.table.Blur()
			return m, m.input.Focus()
		case "ctrl+s":
			m.saveLastQuery()
			return m, nil
		case "enter":
			if m.table.Focused() {
				m.exploreSelected()
				return m, nil
			}
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				m.run(&q, true)
				return m, nil
			}
		}
		if m.table.Focused() {
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the dashboard layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Text Recommendations")
	summary := summaryStyle.Width(max(20, m.width-2)).Render(m.summary)
	input := queryBoxStyle.Render(m.input.View())
	title := titleStyle.Render(m.title)
	results := tableBoxStyle.Render(m.table.View())
	detail := m.renderSelected()
	status := statusStyle.Render(m.status)
	help := helpStyle.Render("enter: recommend • tab: switch focus • ctrl+s: add query to corpus • ctrl+c: quit")
	return strings.Join([]string{header, summary, input, title, results, detail, status, help}, "\n")
}

func (m *Model) run(query *string, newQuery bool) {
	ctx, cancel := context.WithTimeout(context.Background(), m.opts.Timeout)
	defer cancel()
	res, err := m.service.Recommend(ctx, domain.Request{
		Query:        query,
		InputField:   m.opts.InputField,
		OutputFields: m.opts.OutputFields,
		TopN:         m.opts.TopN,
		NewQuery:     newQuery,
	})
	if err != nil {
		m.status = userMessage(err)
		return
	}
	m.result = res
	m.lastQuery = res.Query
	m.lastNew = newQuery
	m.title = fmt.Sprintf("Top %d Recommendations for %q", m.opts.TopN, res.Query)
	m.table.SetRows(rowsFor(res))
	m.table.SetCursor(0)
	m.status = fmt.Sprintf("%d results", len(res.Items))
}

func (m *Model) exploreSelected() {
	if m.result == nil || len(m.result.Items) == 0 {
		return
	}
	item := m.result.Items[m.table.Cursor()]
	c := m.service.Corpus()
	if item.Index >= c.Len() {
		return
	}
	q := c.Rows[item.Index][m.opts.InputField]
	m.run(&q, false)
}

func (m *Model) saveLastQuery() {
	if !m.lastNew || m.lastQuery == "" {
		m.status = "Nothing to save: submit a new query first."
		return
	}
	if err := m.service.AppendRow(domain.Row{m.opts.InputField: m.lastQuery}); err != nil {
		m.status = userMessage(err)
		return
	}
	m.lastNew = false
	m.summary = m.service.Summary()
	m.status = fmt.Sprintf("Added %q to the corpus.", m.lastQuery)
}

func (m Model) renderSelected() string {
	if m.result == nil || len(m.result.Items) == 0 {
		return "No results yet."
	}
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.result.Items) {
		return ""
	}
	item := m.result.Items[cursor]
	parts := make([]string, 0, len(item.Fields))
	for _, f := range item.Fields {
		parts = append(parts, highlightTerms(f.Value, m.lastQuery))
	}
	return detailStyle.Width(max(20, m.width-2)).Render(strings.Join(parts, " | "))
}

func columnsFor(fields []string, width int) []table.Column {
	const simWidth = 12
	cols := make([]table.Column, 0, len(fields)+1)
	per := (width - simWidth - 2*len(fields)) / max(1, len(fields))
	if per < 10 {
		per = 10
	}
	for _, f := range fields {
		cols = append(cols, table.Column{Title: f, Width: per})
	}
	return append(cols, table.Column{Title: similarityColumn, Width: simWidth})
}

func rowsFor(res *domain.Result) []table.Row {
	rows := make([]table.Row, 0, len(res.Items))
	for _, it := range res.Items {
		r := make(table.Row, 0, len(it.Fields)+1)
		for _, f := range it.Fields {
			r = append(r, f.Value)
		}
		rows = append(rows, append(r, it.Similarity))
	}
	return rows
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientInput):
		return "Too little to go on: please use more and different words. (" + err.Error() + ")"
	case errors.Is(err, domain.ErrDuplicateInput):
		return "That matches an existing item. Please change the input. (" + err.Error() + ")"
	case errors.Is(err, domain.ErrNotFound):
		return "Not found: " + err.Error()
	case errors.Is(err, domain.ErrInvalidParameter):
		return "Invalid setting: " + err.Error()
	default:
		return "Error: " + err.Error()
	}
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	summaryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	titleStyle    = lipgloss.NewStyle().Bold(true).MarginTop(1)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	detailStyle   = lipgloss.NewStyle().Padding(0, 1)
	tableBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
	queryBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlight     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	wordRe        = regexp.MustCompile(`[A-Za-z0-9]+`)
)

// highlightTerms emphasizes the words of text that also occur in query.
func highlightTerms(text, query string) string {
	terms := toTokenSet(query)
	if len(terms) == 0 {
		return text
	}
	return wordRe.ReplaceAllStringFunc(text, func(w string) string {
		if _, ok := terms[strings.ToLower(w)]; ok {
			return highlight.Render(w)
		}
		return w
	})
}

func toTokenSet(s string) map[string]struct{} {
	tokens := wordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}
