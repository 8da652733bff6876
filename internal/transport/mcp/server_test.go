package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/sandevgo/gtmsuite/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAsk struct {
	askFunc   func(ctx context.Context, sessionID, question string) (core.QueryResult, error)
	resetFunc func(ctx context.Context, sessionID string) error
	statsFunc func(ctx context.Context) (core.KnowledgeStats, error)
}

func (m *mockAsk) Ask(ctx context.Context, sessionID, question string) (core.QueryResult, error) {
	return m.askFunc(ctx, sessionID, question)
}

func (m *mockAsk) Reset(ctx context.Context, sessionID string) error {
	return m.resetFunc(ctx, sessionID)
}

func (m *mockAsk) Stats(ctx context.Context) (core.KnowledgeStats, error) {
	return m.statsFunc(ctx)
}

type mockDeals struct {
	scoreFunc func(ctx context.Context, rec core.DealRecord) (core.DealScore, error)
}

func (m *mockDeals) Score(ctx context.Context, rec core.DealRecord) (core.DealScore, error) {
	return m.scoreFunc(ctx, rec)
}

type mockOutreach struct {
	generateFunc func(ctx context.Context, p core.Profile, channel core.Channel) (core.OutreachResult, error)
	variantsFunc func(ctx context.Context, p core.Profile, channel core.Channel, count int) ([]core.OutreachResult, error)
}

func (m *mockOutreach) Generate(ctx context.Context, p core.Profile, channel core.Channel) (core.OutreachResult, error) {
	return m.generateFunc(ctx, p, channel)
}

func (m *mockOutreach) GenerateVariants(ctx context.Context, p core.Profile, channel core.Channel, count int) ([]core.OutreachResult, error) {
	return m.variantsFunc(ctx, p, channel, count)
}

func callRequest(name string, args map[string]any) mcpproto.CallToolRequest {
	req := mcpproto.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcpproto.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcpproto.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func newTestServer(ask *mockAsk, deals *mockDeals, out *mockOutreach) *Server {
	return NewServer(ask, deals, out, strings.NewReader(""), &strings.Builder{})
}

func TestAskTool(t *testing.T) {
	ask := &mockAsk{askFunc: func(_ context.Context, sid, q string) (core.QueryResult, error) {
		assert.Equal(t, "mcp", sid)
		if q == "boom" {
			return core.QueryResult{}, core.GenerationError("ask", errors.New("upstream 500"))
		}
		return core.QueryResult{Answer: "Pro is $99/month.", Sources: []core.SourcePreview{{Source: "pricing_guide"}}}, nil
	}}
	s := newTestServer(ask, &mockDeals{}, &mockOutreach{})

	t.Run("answer as json", func(t *testing.T) {
		res, err := s.handleAsk(context.Background(), callRequest("ask_gtm", map[string]any{"question": "Pro price?"}))
		require.NoError(t, err)
		assert.False(t, res.IsError)

		var got core.QueryResult
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
		assert.Equal(t, "Pro is $99/month.", got.Answer)
		assert.Len(t, got.Sources, 1)
	})

	t.Run("missing question", func(t *testing.T) {
		res, err := s.handleAsk(context.Background(), callRequest("ask_gtm", map[string]any{}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})

	t.Run("domain error is a tool error", func(t *testing.T) {
		res, err := s.handleAsk(context.Background(), callRequest("ask_gtm", map[string]any{"question": "boom"}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "upstream 500")
	})
}

func TestResetAndStatsTools(t *testing.T) {
	var reset string
	ask := &mockAsk{
		resetFunc: func(_ context.Context, sid string) error {
			reset = sid
			return nil
		},
		statsFunc: func(context.Context) (core.KnowledgeStats, error) {
			return core.KnowledgeStats{TotalDocuments: 3, TotalChunks: 12}, nil
		},
	}
	s := newTestServer(ask, &mockDeals{}, &mockOutreach{})

	res, err := s.handleReset(context.Background(), callRequest("reset_conversation", map[string]any{"session_id": "claude-1"}))
	require.NoError(t, err)
	assert.Equal(t, "claude-1", reset)
	assert.Contains(t, resultText(t, res), "Conversation reset")

	res, err = s.handleStats(context.Background(), callRequest("knowledge_stats", nil))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), `"total_chunks": 12`)
}

func TestScoreDealTool(t *testing.T) {
	var got core.DealRecord
	deals := &mockDeals{scoreFunc: func(_ context.Context, rec core.DealRecord) (core.DealScore, error) {
		got = rec
		return core.DealScore{CompanyName: rec.CompanyName, CloseProbability: 72, RiskLevel: core.RiskLow}, nil
	}}
	s := newTestServer(&mockAsk{}, deals, &mockOutreach{})

	res, err := s.handleScoreDeal(context.Background(), callRequest("score_deal", map[string]any{
		"company_name":           "Acme",
		"deal_value":             float64(50000),
		"stage":                  "Negotiation",
		"days_in_pipeline":       float64(30),
		"last_contact_days":      float64(2),
		"decision_maker_engaged": true,
		"budget_confirmed":       true,
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	assert.Equal(t, "Acme", got.CompanyName)
	assert.Equal(t, 50000.0, got.DealValue)
	assert.Equal(t, 30, got.DaysInPipeline)
	assert.Equal(t, 2, got.LastContactDays)
	assert.True(t, got.DecisionMakerEngaged)
	assert.False(t, got.HasCompetitor)
	assert.Contains(t, resultText(t, res), `"risk_level": "Low"`)
}

func TestOutreachTools(t *testing.T) {
	out := &mockOutreach{
		generateFunc: func(_ context.Context, p core.Profile, ch core.Channel) (core.OutreachResult, error) {
			if ch == "fax" {
				return core.OutreachResult{}, core.InvalidInput("generate", "unsupported channel %q", ch)
			}
			return core.OutreachResult{Channel: ch, Body: "Hi " + p.CompanyName}, nil
		},
		variantsFunc: func(_ context.Context, _ core.Profile, ch core.Channel, count int) ([]core.OutreachResult, error) {
			return make([]core.OutreachResult, count), nil
		},
	}
	s := newTestServer(&mockAsk{}, &mockDeals{}, out)

	profile := map[string]any{
		"company_name": "Acme",
		"industry":     "SaaS",
		"company_size": "50-200",
		"pain_points":  []any{"manual reporting", "churn"},
		"channel":      "linkedin",
	}

	t.Run("single message", func(t *testing.T) {
		res, err := s.handleGenerate(context.Background(), callRequest("generate_outreach", profile))
		require.NoError(t, err)

		var got core.OutreachResult
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
		assert.Equal(t, core.ChannelLinkedIn, got.Channel)
		assert.Equal(t, "Hi Acme", got.Body)
	})

	t.Run("invalid channel", func(t *testing.T) {
		args := map[string]any{"company_name": "Acme", "channel": "fax"}
		res, err := s.handleGenerate(context.Background(), callRequest("generate_outreach", args))
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})

	t.Run("variants default count", func(t *testing.T) {
		res, err := s.handleGenerateVariants(context.Background(), callRequest("generate_outreach_variants", profile))
		require.NoError(t, err)

		var got []core.OutreachResult
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
		assert.Len(t, got, 3)
	})

	t.Run("variants out of range", func(t *testing.T) {
		args := map[string]any{"company_name": "Acme", "count": float64(9)}
		res, err := s.handleGenerateVariants(context.Background(), callRequest("generate_outreach_variants", args))
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})
}

func TestProfileFrom(t *testing.T) {
	p, ch := profileFrom(callRequest("generate_outreach", map[string]any{
		"company_name":         "Acme",
		"pain_points":          []any{"a", "b"},
		"decision_maker_title": "VP Sales",
	}))

	assert.Equal(t, core.ChannelEmail, ch)
	assert.Equal(t, []string{"a", "b"}, p.PainPoints)
	assert.Equal(t, "VP Sales", p.DecisionMakerTitle)
}
