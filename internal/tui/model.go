package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"legalrag/internal/domain"
	"legalrag/internal/service"
)

// AssistantPort is the TUI-facing subset of the assistant.
type AssistantPort interface {
	Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error)
	SearchScoped(ctx context.Context, query, law string, topK int) ([]domain.SearchResult, error)
	Locate(law, number string) (string, bool)
	Laws() []string
	HasLaw(law string) bool
	Ask(ctx context.Context, req service.Request) service.Answer
}

const resultsPerQuery = 10

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	service   AssistantPort
	lang      domain.Lang
	input     textinput.Model
	viewport  viewport.Model
	results   []domain.SearchResult
	article   string
	answer    string
	summary   string
	status    string
	scope     string
	cursor    int
	ready     bool
	lastQuery string
}

// New creates a new TUI model instance. summary is shown under the title.
func New(service AssistantPort, lang domain.Lang, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Search, or /law <name>, /article <n>, /ask <question>, /all, /laws"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{service: service, lang: lang, input: ti, viewport: vp, summary: summary, status: "Loaded. Type to search."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around result and query boxes
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		totalHeaderLines := 2                                    // header + summary
		totalFooterLines := 1                                    // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1 // 1 spacer
		vh := msg.Height - reserved
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderCurrent())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			if line := strings.TrimSpace(m.input.Value()); line != "" {
				m = m.run(line)
				m.input.SetValue("")
				m.viewport.SetContent(m.renderCurrent())
				m.viewport.GotoTop()
				return m, nil
			}
		case "down":
			if len(m.results) > 0 && m.article == "" && m.answer == "" {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.viewport.SetContent(m.renderCurrent())
				return m, nil
			}
		case "up":
			if len(m.results) > 0 && m.article == "" && m.answer == "" {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.viewport.SetContent(m.renderCurrent())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// run executes one input line: a slash command or a search.
func (m Model) run(line string) Model {
	ctx := context.Background()
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "/all":
		m.scope = ""
		m.status = "Searching all laws."
		return m
	case "/laws":
		m.results, m.answer = nil, ""
		m.article = strings.Join(m.service.Laws(), "\n")
		m.status = fmt.Sprintf("%d laws loaded.", len(m.service.Laws()))
		return m
	case "/law":
		if !m.service.HasLaw(arg) {
			m.status = fmt.Sprintf("Unknown law %q. Use /laws to list them.", arg)
			return m
		}
		m.scope = arg
		m.status = "Scoped to " + arg
		return m
	case "/article":
		if m.scope == "" {
			m.status = "Pick a law first with /law <name>."
			return m
		}
		text, ok := m.service.Locate(m.scope, arg)
		if !ok {
			m.status = fmt.Sprintf("Article %s not found in %s.", arg, m.scope)
			return m
		}
		m.results, m.answer = nil, ""
		m.article = text
		m.status = fmt.Sprintf("Article %s of %s", arg, m.scope)
		return m
	case "/ask":
		ans := m.service.Ask(ctx, service.Request{Query: arg, Lang: m.lang, Law: m.scope})
		m.results, m.article = ans.Sources, ""
		m.answer = ans.Text
		m.lastQuery = arg
		m.status = fmt.Sprintf("Answer from %d sources", len(ans.Sources))
		return m
	}

	var (
		res []domain.SearchResult
		err error
	)
	if m.scope == "" {
		res, err = m.service.Search(ctx, line, resultsPerQuery)
	} else {
		res, err = m.service.SearchScoped(ctx, line, m.scope, resultsPerQuery)
	}
	m.article, m.answer = "", ""
	if err != nil {
		m.status = "Error: " + err.Error()
		m.results = nil
		return m
	}
	m.status = fmt.Sprintf("Results for %q", line)
	if m.scope != "" {
		m.status += " in " + m.scope
	}
	m.results = res
	m.cursor = 0
	m.lastQuery = line
	return m
}

// View renders the TUI layout and current result.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	title := "Legal Search"
	if m.scope != "" {
		title += "  [" + m.scope + "]"
	}
	header := lipgloss.NewStyle().Bold(true).Render(title)
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + summary + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderCurrent() string {
	switch {
	case m.article != "":
		return m.article
	case m.answer != "":
		var b strings.Builder
		b.WriteString(m.answer)
		for _, r := range m.results {
			fmt.Fprintf(&b, "\n\n- %s, page %s (score %.3f)", r.Chunk.LawName, r.Chunk.PageLabel(), r.Score)
		}
		return b.String()
	case len(m.results) == 0:
		return "No results yet."
	}
	r := m.results[m.cursor]
	title := fmt.Sprintf("Result %d/%d  %s  page %s  score=%.3f",
		m.cursor+1, len(m.results), r.Chunk.LawName, r.Chunk.PageLabel(), r.Score)
	body := highlightBestSentence(r.Chunk.Content, m.lastQuery)
	return title + "\n\n" + body
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	unicodeWordRe  = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’]\p{L}+)*`)
	sentenceRe     = regexp.MustCompile(`[^.!?؟]+[.!?؟]*`)
)

func highlightBestSentence(text, query string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	var sentences []string
	for _, s := range sentenceRe.FindAllString(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) == 0 {
		sentences = []string{strings.TrimSpace(text)}
	}
	qTokens := toTokenSet(query)
	if len(qTokens) == 0 {
		return strings.Join(sentences, " ")
	}
	bestIdx := 0
	bestScore := -1
	for i, s := range sentences {
		score := tokenOverlapScore(qTokens, s)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	sentences[bestIdx] = highlightStyle.Render(sentences[bestIdx])
	return strings.Join(sentences, " ")
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func tokenOverlapScore(queryTokens map[string]struct{}, sentence string) int {
	score := 0
	tokens := unicodeWordRe.FindAllString(strings.ToLower(sentence), -1)
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := queryTokens[t]; ok {
			score++
		}
	}
	return score
}
