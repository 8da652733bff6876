package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sandevgo/gtmsuite/internal/core"
	"github.com/stretchr/testify/assert"
)

type mockAsker struct {
	askFunc func(ctx context.Context, sessionID, question string) (core.QueryResult, error)
}

func (m *mockAsker) Ask(ctx context.Context, sessionID, question string) (core.QueryResult, error) {
	return m.askFunc(ctx, sessionID, question)
}

type mockRouter struct {
	executeFunc func(ctx context.Context, sessionID, input string) (string, bool)
}

func (m *mockRouter) Execute(ctx context.Context, sessionID, input string) (string, bool) {
	return m.executeFunc(ctx, sessionID, input)
}

func (m *mockRouter) ListCommands() []core.Command { return nil }

func TestBot_Reply(t *testing.T) {
	router := &mockRouter{executeFunc: func(_ context.Context, _, input string) (string, bool) {
		if strings.HasPrefix(input, "/") {
			return "command output", true
		}
		return "", false
	}}

	tests := []struct {
		name       string
		text       string
		askErr     error
		want       []string
		wantTyping bool
	}{
		{name: "command", text: "/stats", want: []string{"command output"}},
		{name: "question", text: "pricing?", want: []string{"Starter is $49", "**Sources**", "› pricing_guide (pricing)"}, wantTyping: true},
		{name: "failure", text: "pricing?", askErr: core.GenerationError("chat", errors.New("429")), want: []string{"generation failed"}, wantTyping: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Bot{
				router: router,
				ask: &mockAsker{askFunc: func(_ context.Context, sid, _ string) (core.QueryResult, error) {
					assert.Equal(t, "telegram-7", sid)
					if tt.askErr != nil {
						return core.QueryResult{}, tt.askErr
					}
					return core.QueryResult{
						Answer: "Starter is $49/month.",
						Sources: []core.SourcePreview{
							{Source: "pricing_guide", Category: "pricing"},
							{Source: "pricing_guide", Category: "pricing"},
						},
					}, nil
				}},
			}

			typing := false
			got := b.reply(context.Background(), "telegram-7", tt.text, func() { typing = true })
			for _, s := range tt.want {
				assert.Contains(t, got, s)
			}
			assert.Equal(t, tt.wantTyping, typing)
			assert.LessOrEqual(t, strings.Count(got, "pricing_guide"), 1)
		})
	}
}

func TestFormatAnswer_NoSources(t *testing.T) {
	assert.Equal(t, "No idea.", formatAnswer(core.QueryResult{Answer: "No idea."}))
}

func TestSplitHTML(t *testing.T) {
	short := splitHTML("hello", 10)
	assert.Equal(t, []string{"hello"}, short)

	text := strings.Repeat("a", 30) + "\n" + strings.Repeat("b", 30)
	parts := splitHTML(text, 40)
	assert.Equal(t, []string{strings.Repeat("a", 30), strings.Repeat("b", 30)}, parts)

	long := strings.Repeat("x", 25)
	parts = splitHTML(long, 10)
	assert.Equal(t, []string{"xxxxxxxxxx", "xxxxxxxxxx", "xxxxx"}, parts)
}
