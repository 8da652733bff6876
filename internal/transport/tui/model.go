package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/sandevgo/gtmsuite/internal/core"
	"github.com/sandevgo/gtmsuite/internal/service/ui"
)

type Asker interface {
	Ask(ctx context.Context, sessionID, question string) (core.QueryResult, error)
}

type entry struct {
	role    string
	content string
}

type answerMsg struct {
	res core.QueryResult
	err error
}

type commandMsg string

// Model is the Bubble Tea model of the AskGTM chat.
type Model struct {
	ctx       context.Context
	ask       Asker
	router    core.CmdRouter
	sessionID string

	input    textinput.Model
	viewport viewport.Model
	history  []entry
	waiting  bool
	ready    bool
	status   string
}

func New(ctx context.Context, ask Asker, router core.CmdRouter) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about product, pricing or sales playbooks. /help for commands"
	ti.Focus()
	ti.CharLimit = 2000

	return Model{
		ctx:       ctx,
		ask:       ask,
		router:    router,
		sessionID: "cli-" + uuid.NewString(),
		input:     ti,
		viewport:  viewport.New(0, 0),
		status:    "Ready.",
	}
}

func (m Model) SessionID() string { return m.sessionID }

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		fx, fy := transcriptStyle.GetFrameSize()
		// header + input box + status
		reserved := 1 + 3 + 1
		m.viewport.Width = max(20, msg.Width-fx)
		m.viewport.Height = max(3, msg.Height-reserved-fy)
		m.input.Width = max(10, msg.Width-6)
		m.refresh()
		return m, nil

	case answerMsg:
		m.waiting = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			m.history = append(m.history, entry{role: "error", content: msg.err.Error()})
		} else {
			m.status = fmt.Sprintf("Answered from %d source(s).", len(msg.res.Sources))
			m.history = append(m.history, entry{role: core.RoleAssistant, content: renderAnswer(msg.res)})
		}
		m.refresh()
		return m, nil

	case commandMsg:
		m.waiting = false
		m.status = "Ready."
		m.history = append(m.history, entry{role: "system", content: string(msg)})
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			return m, tea.Quit
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		case tea.KeyEnter:
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.waiting {
		return m, nil
	}
	if text == "/quit" || text == "/exit" {
		return m, tea.Quit
	}

	m.input.Reset()
	m.history = append(m.history, entry{role: core.RoleUser, content: text})
	m.waiting = true
	m.status = "Thinking..."
	m.refresh()

	ctx, router, ask, sid := m.ctx, m.router, m.ask, m.sessionID
	return m, func() tea.Msg {
		if out, handled := router.Execute(ctx, sid, text); handled {
			return commandMsg(out)
		}
		res, err := ask.Ask(ctx, sid, text)
		return answerMsg{res: res, err: err}
	}
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := ui.TitleStyle.UnsetMarginBottom().Render(core.SuiteName + " · AskGTM")
	transcript := transcriptStyle.Render(m.viewport.View())
	input := inputStyle.Render(m.input.View())
	status := ui.DescStyle.Render(m.status)
	return lipgloss.JoinVertical(lipgloss.Left, header, transcript, input, status)
}

func (m Model) renderTranscript() string {
	if len(m.history) == 0 {
		return ui.DescStyle.Render("No messages yet.")
	}

	width := max(20, m.viewport.Width-2)
	parts := make([]string, 0, len(m.history))
	for _, e := range m.history {
		var label string
		switch e.role {
		case core.RoleUser:
			label = ui.UsageStyle.Render("You")
		case core.RoleAssistant:
			label = ui.TitleStyle.UnsetMarginBottom().Render("AskGTM")
		case "error":
			label = errorStyle.Render("Error")
		default:
			label = ui.FlagStyle.Render("System")
		}
		body := lipgloss.NewStyle().Width(width).Render(e.content)
		parts = append(parts, label+"\n"+body)
	}
	return strings.Join(parts, "\n\n")
}

func renderAnswer(res core.QueryResult) string {
	if len(res.Sources) == 0 {
		return res.Answer
	}

	seen := make(map[string]bool)
	var refs []string
	for _, s := range res.Sources {
		ref := fmt.Sprintf("%s (%s)", s.Source, s.Category)
		if !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}
	return res.Answer + "\n" + ui.DescStyle.Render("Sources: "+strings.Join(refs, ", "))
}

var (
	transcriptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// Run starts the chat in the alternate screen and blocks until the user quits.
func Run(ctx context.Context, ask Asker, router core.CmdRouter) error {
	p := tea.NewProgram(New(ctx, ask, router), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
