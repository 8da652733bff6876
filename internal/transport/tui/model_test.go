package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/gtmsuite/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAsker struct {
	askFunc func(ctx context.Context, sessionID, question string) (core.QueryResult, error)
}

func (m *mockAsker) Ask(ctx context.Context, sessionID, question string) (core.QueryResult, error) {
	return m.askFunc(ctx, sessionID, question)
}

type mockRouter struct{}

func (mockRouter) Execute(_ context.Context, _, input string) (string, bool) {
	if strings.HasPrefix(input, "/") {
		return "Conversation reset", true
	}
	return "", false
}

func (mockRouter) ListCommands() []core.Command { return nil }

func typeLine(m tea.Model, text string) tea.Model {
	for _, r := range text {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func sized(m Model) tea.Model {
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next
}

func TestModel_AskRoundTrip(t *testing.T) {
	var gotSession string
	ask := &mockAsker{askFunc: func(_ context.Context, sid, q string) (core.QueryResult, error) {
		gotSession = sid
		return core.QueryResult{
			Answer:  "Starter is $49/month.",
			Sources: []core.SourcePreview{{Source: "pricing_guide", Category: "pricing"}},
		}, nil
	}}

	base := New(context.Background(), ask, mockRouter{})
	m := typeLine(sized(base), "How much is Starter?")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.(Model).waiting)
	assert.Contains(t, m.View(), "How much is Starter?")

	m, _ = m.Update(cmd())
	view := m.View()
	assert.Contains(t, view, "Starter is $49/month.")
	assert.Contains(t, view, "pricing_guide (pricing)")
	assert.False(t, m.(Model).waiting)
	assert.Equal(t, base.SessionID(), gotSession)
	assert.True(t, strings.HasPrefix(gotSession, "cli-"))
}

func TestModel_CommandsAndErrors(t *testing.T) {
	ask := &mockAsker{askFunc: func(context.Context, string, string) (core.QueryResult, error) {
		return core.QueryResult{}, errors.New("generation failed")
	}}
	m := sized(New(context.Background(), ask, mockRouter{}))

	m = typeLine(m, "/reset")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = m.Update(cmd())
	assert.Contains(t, m.View(), "Conversation reset")

	m = typeLine(m, "hello")
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = m.Update(cmd())
	assert.Contains(t, m.(Model).status, "generation failed")
}

func TestModel_Quit(t *testing.T) {
	m := sized(New(context.Background(), &mockAsker{}, mockRouter{}))

	m = typeLine(m, "/quit")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_IgnoresEmptyInput(t *testing.T) {
	m := sized(New(context.Background(), &mockAsker{}, mockRouter{}))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}
