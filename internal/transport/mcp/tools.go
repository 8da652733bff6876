package mcp

import (
	"context"

	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/sandevgo/gtmsuite/internal/core"
	"github.com/sandevgo/gtmsuite/internal/service/outreach"
)

const (
	defaultSession  = "mcp"
	defaultVariants = 3
)

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcpproto.NewTool("ask_gtm",
		mcpproto.WithDescription("Answer a question from the GTM knowledge base (product, pricing, playbooks) and cite the sources used"),
		mcpproto.WithString("question",
			mcpproto.Required(),
			mcpproto.Description("Question to answer"),
		),
		mcpproto.WithString("session_id",
			mcpproto.Description("Conversation to continue"),
			mcpproto.DefaultString(defaultSession),
		),
	), s.handleAsk)

	s.mcpServer.AddTool(mcpproto.NewTool("reset_conversation",
		mcpproto.WithDescription("Forget the history of an AskGTM conversation"),
		mcpproto.WithString("session_id",
			mcpproto.Description("Conversation to reset"),
			mcpproto.DefaultString(defaultSession),
		),
	), s.handleReset)

	s.mcpServer.AddTool(mcpproto.NewTool("knowledge_stats",
		mcpproto.WithDescription("Report document, chunk and category counts of the knowledge base"),
	), s.handleStats)

	s.mcpServer.AddTool(mcpproto.NewTool("score_deal",
		mcpproto.WithDescription("Score the close probability and risk of one CRM deal"),
		mcpproto.WithString("deal_id", mcpproto.Description("CRM identifier")),
		mcpproto.WithString("company_name", mcpproto.Required()),
		mcpproto.WithNumber("deal_value", mcpproto.Required(), mcpproto.Min(0)),
		mcpproto.WithString("stage", mcpproto.Required(), mcpproto.Description("Pipeline stage, e.g. Discovery or Negotiation")),
		mcpproto.WithNumber("days_in_pipeline", mcpproto.Min(0)),
		mcpproto.WithNumber("last_contact_days", mcpproto.Min(0)),
		mcpproto.WithBoolean("decision_maker_engaged"),
		mcpproto.WithBoolean("has_competitor"),
		mcpproto.WithBoolean("budget_confirmed"),
	), s.handleScoreDeal)

	s.mcpServer.AddTool(mcpproto.NewTool("generate_outreach",
		append(profileArgs(),
			mcpproto.WithDescription("Write a personalised outreach message for a prospect"),
		)...,
	), s.handleGenerate)

	s.mcpServer.AddTool(mcpproto.NewTool("generate_outreach_variants",
		append(profileArgs(),
			mcpproto.WithDescription("Write several outreach variants at increasing temperatures"),
			mcpproto.WithNumber("count",
				mcpproto.Description("Number of variants"),
				mcpproto.DefaultNumber(defaultVariants),
				mcpproto.Min(1),
				mcpproto.Max(5),
			),
		)...,
	), s.handleGenerateVariants)
}

func profileArgs() []mcpproto.ToolOption {
	channels := make([]string, 0, len(outreach.Channels()))
	for _, c := range outreach.Channels() {
		channels = append(channels, string(c.ID))
	}

	return []mcpproto.ToolOption{
		mcpproto.WithString("company_name", mcpproto.Required()),
		mcpproto.WithString("industry", mcpproto.Required()),
		mcpproto.WithString("company_size", mcpproto.Required(), mcpproto.Description("e.g. 50-200 employees")),
		mcpproto.WithArray("pain_points",
			mcpproto.Required(),
			mcpproto.WithStringItems(),
		),
		mcpproto.WithString("decision_maker_name"),
		mcpproto.WithString("decision_maker_title"),
		mcpproto.WithString("recent_activity"),
		mcpproto.WithString("channel",
			mcpproto.Enum(channels...),
			mcpproto.DefaultString(string(core.ChannelEmail)),
		),
	}
}

func (s *Server) handleAsk(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	question, err := req.RequireString("question")
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}

	res, err := s.ask.Ask(ctx, req.GetString("session_id", defaultSession), question)
	if err != nil {
		return toolError(ctx, "ask_gtm", err)
	}
	return jsonResult(res)
}

func (s *Server) handleReset(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	sid := req.GetString("session_id", defaultSession)
	if err := s.ask.Reset(ctx, sid); err != nil {
		return toolError(ctx, "reset_conversation", err)
	}
	return jsonResult(map[string]string{"message": "Conversation reset", "session_id": sid})
}

func (s *Server) handleStats(ctx context.Context, _ mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	stats, err := s.ask.Stats(ctx)
	if err != nil {
		return toolError(ctx, "knowledge_stats", err)
	}
	return jsonResult(stats)
}

func (s *Server) handleScoreDeal(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	rec := core.DealRecord{
		DealID:               req.GetString("deal_id", ""),
		CompanyName:          req.GetString("company_name", ""),
		DealValue:            req.GetFloat("deal_value", 0),
		Stage:                req.GetString("stage", ""),
		DaysInPipeline:       req.GetInt("days_in_pipeline", 0),
		LastContactDays:      req.GetInt("last_contact_days", 0),
		DecisionMakerEngaged: req.GetBool("decision_maker_engaged", false),
		HasCompetitor:        req.GetBool("has_competitor", false),
		BudgetConfirmed:      req.GetBool("budget_confirmed", false),
	}

	score, err := s.deals.Score(ctx, rec)
	if err != nil {
		return toolError(ctx, "score_deal", err)
	}
	return jsonResult(score)
}

func (s *Server) handleGenerate(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	p, channel := profileFrom(req)
	res, err := s.outreach.Generate(ctx, p, channel)
	if err != nil {
		return toolError(ctx, "generate_outreach", err)
	}
	return jsonResult(res)
}

func (s *Server) handleGenerateVariants(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	p, channel := profileFrom(req)
	count := req.GetInt("count", defaultVariants)
	if count < 1 || count > 5 {
		return mcpproto.NewToolResultError("count must be between 1 and 5"), nil
	}

	res, err := s.outreach.GenerateVariants(ctx, p, channel, count)
	if err != nil {
		return toolError(ctx, "generate_outreach_variants", err)
	}
	return jsonResult(res)
}

func profileFrom(req mcpproto.CallToolRequest) (core.Profile, core.Channel) {
	p := core.Profile{
		CompanyName:        req.GetString("company_name", ""),
		Industry:           req.GetString("industry", ""),
		CompanySize:        req.GetString("company_size", ""),
		PainPoints:         req.GetStringSlice("pain_points", nil),
		DecisionMakerName:  req.GetString("decision_maker_name", ""),
		DecisionMakerTitle: req.GetString("decision_maker_title", ""),
		RecentActivity:     req.GetString("recent_activity", ""),
	}
	return p, core.Channel(req.GetString("channel", string(core.ChannelEmail)))
}
