// Package mcp exposes the suite as MCP tools over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"io"
	stdlog "log"

	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sandevgo/gtmsuite/internal/core"
	"github.com/sandevgo/gtmsuite/pkg/log"
)

const serverName = "gtmsuite"

type AskService interface {
	Ask(ctx context.Context, sessionID, question string) (core.QueryResult, error)
	Reset(ctx context.Context, sessionID string) error
	Stats(ctx context.Context) (core.KnowledgeStats, error)
}

type DealService interface {
	Score(ctx context.Context, rec core.DealRecord) (core.DealScore, error)
}

type OutreachService interface {
	Generate(ctx context.Context, p core.Profile, channel core.Channel) (core.OutreachResult, error)
	GenerateVariants(ctx context.Context, p core.Profile, channel core.Channel, count int) ([]core.OutreachResult, error)
}

type Server struct {
	ask      AskService
	deals    DealService
	outreach OutreachService

	mcpServer *server.MCPServer
	in        io.Reader
	out       io.Writer
}

func NewServer(ask AskService, deals DealService, outreach OutreachService, in io.Reader, out io.Writer) *Server {
	s := &Server{
		ask:      ask,
		deals:    deals,
		outreach: outreach,
		in:       in,
		out:      out,
		mcpServer: server.NewMCPServer(
			serverName,
			core.SuiteVersion,
			server.WithToolCapabilities(true),
			server.WithRecovery(),
		),
	}
	s.registerTools()
	return s
}

// Start serves the protocol until the input closes or ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("server", serverName).Msg("MCP stdio server started")

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(stdlog.New(log.FromCtx(ctx), "", 0))

	err := stdio.Listen(ctx, s.in, s.out)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("MCP stdio server stopped")
	return nil
}

func jsonResult(v any) (*mcpproto.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcpproto.NewToolResultError("failed to encode result: " + err.Error()), nil
	}
	return mcpproto.NewToolResultText(string(data)), nil
}

func toolError(ctx context.Context, tool string, err error) (*mcpproto.CallToolResult, error) {
	log.FromCtx(ctx).Warn().Err(err).Str("tool", tool).Msg("tool call failed")
	return mcpproto.NewToolResultError(err.Error()), nil
}
