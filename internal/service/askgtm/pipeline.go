package askgtm

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/sandevgo/gtmsuite/internal/core"
	"github.com/sandevgo/gtmsuite/pkg/log"
)

// KnowledgeStore is the part of knowledge.Store the pipeline needs.
type KnowledgeStore interface {
	Search(ctx context.Context, query string, k int) ([]core.ScoredChunk, error)
	Ingest(ctx context.Context, docs []core.Document) (int, error)
	Stats(ctx context.Context) (core.KnowledgeStats, error)
}

type Config struct {
	TopK          int
	PreviewLength int
	HistoryTurns  int
	Temperature   float64
}

func DefaultConfig() Config {
	return Config{
		TopK:          4,
		PreviewLength: 200,
		HistoryTurns:  20,
		Temperature:   0.2,
	}
}

// Pipeline answers questions from the knowledge base while keeping a
// separate conversation per session id.
type Pipeline struct {
	store KnowledgeStore
	ai    core.AIProvider
	turns core.ConversationRepository
	cfg   Config

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	mu     sync.Mutex
	turns  []core.Turn
	loaded bool
	closed bool
}

// NewPipeline builds a pipeline. turns may be nil, in which case
// conversations live only in memory.
func NewPipeline(store KnowledgeStore, ai core.AIProvider, turns core.ConversationRepository, cfg Config) *Pipeline {
	def := DefaultConfig()
	if cfg.TopK <= 0 {
		cfg.TopK = def.TopK
	}
	if cfg.PreviewLength <= 0 {
		cfg.PreviewLength = def.PreviewLength
	}
	if cfg.HistoryTurns <= 0 {
		cfg.HistoryTurns = def.HistoryTurns
	}

	return &Pipeline{
		store:    store,
		ai:       ai,
		turns:    turns,
		cfg:      cfg,
		sessions: make(map[string]*session),
	}
}

// Ask answers question within the session. Calls for one session are
// answered one at a time in arrival order.
func (p *Pipeline) Ask(ctx context.Context, sessionID, question string) (core.QueryResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return core.QueryResult{}, core.InvalidInput("ask", "question is empty")
	}

	logger := log.FromCtx(ctx).With().Str("session", sessionID).Logger()

	s := p.acquire(sessionID)
	defer s.mu.Unlock()

	if !s.loaded {
		p.loadTurns(ctx, sessionID, s)
	}

	chunks, err := p.store.Search(ctx, question, p.cfg.TopK)
	if err != nil {
		if !errors.Is(err, core.ErrRetrieval) {
			err = core.RetrievalError("ask", err)
		}
		return core.QueryResult{}, err
	}

	system, err := systemPrompt.Render(map[string]any{"context": formatContext(chunks)})
	if err != nil {
		return core.QueryResult{}, core.GenerationError("render prompt", err)
	}

	messages := make([]core.Message, 0, 2*len(s.turns)+2)
	messages = append(messages, core.Message{Role: core.RoleSystem, Content: system})
	for _, t := range s.turns {
		messages = append(messages,
			core.Message{Role: core.RoleUser, Content: t.Question},
			core.Message{Role: core.RoleAssistant, Content: t.Answer},
		)
	}
	messages = append(messages, core.Message{Role: core.RoleUser, Content: question})

	logger.Debug().
		Int("chunks", len(chunks)).
		Int("history", len(s.turns)).
		Msg("asking model")

	reply, err := p.ai.Chat(ctx, messages, core.WithTemperature(p.cfg.Temperature))
	if err != nil {
		return core.QueryResult{}, core.GenerationError("ask", err)
	}
	if err := ctx.Err(); err != nil {
		return core.QueryResult{}, err
	}

	answer := strings.TrimSpace(reply.Content)
	turn := core.Turn{Question: question, Answer: answer, CreatedAt: time.Now().UTC()}

	s.turns = append(s.turns, turn)
	if over := len(s.turns) - p.cfg.HistoryTurns; over > 0 {
		s.turns = s.turns[over:]
	}

	if p.turns != nil {
		// The answer is already valid, a failed write only costs history
		if err := p.turns.AddTurn(context.WithoutCancel(ctx), sessionID, turn); err != nil {
			logger.Error().Err(err).Msg("failed to persist conversation turn")
		}
	}

	return core.QueryResult{
		Answer:  answer,
		Sources: p.previews(chunks),
	}, nil
}

// Reset drops the session and its stored turns. Resetting an unknown
// session is not an error.
func (p *Pipeline) Reset(ctx context.Context, sessionID string) error {
	// Holding the session keeps Ask from loading turns that are about to go
	s := p.acquire(sessionID)
	defer s.mu.Unlock()

	var err error
	if p.turns != nil {
		err = p.turns.DeleteSession(ctx, sessionID)
	}

	// Even after a failed delete the next Ask reloads from the repository
	s.closed = true
	s.turns = nil
	p.mu.Lock()
	if p.sessions[sessionID] == s {
		delete(p.sessions, sessionID)
	}
	p.mu.Unlock()

	if err != nil {
		return err
	}

	log.FromCtx(ctx).Info().Str("session", sessionID).Msg("conversation reset")
	return nil
}

// Active reports whether the session has been started and not reset.
func (p *Pipeline) Active(sessionID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.sessions[sessionID]
	return ok
}

func (p *Pipeline) Ingest(ctx context.Context, docs []core.Document) (int, error) {
	return p.store.Ingest(ctx, docs)
}

func (p *Pipeline) Stats(ctx context.Context) (core.KnowledgeStats, error) {
	return p.store.Stats(ctx)
}

// acquire returns the locked session, creating it on first use.
func (p *Pipeline) acquire(sessionID string) *session {
	for {
		p.mu.Lock()
		s, ok := p.sessions[sessionID]
		if !ok {
			s = &session{}
			p.sessions[sessionID] = s
		}
		p.mu.Unlock()

		s.mu.Lock()
		if !s.closed {
			return s
		}
		// Reset won the race, start over with a fresh session
		s.mu.Unlock()
	}
}

func (p *Pipeline) loadTurns(ctx context.Context, sessionID string, s *session) {
	s.loaded = true
	if p.turns == nil {
		return
	}

	turns, err := p.turns.GetTurns(ctx, sessionID, p.cfg.HistoryTurns)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("session", sessionID).Msg("failed to load conversation history")
		return
	}
	s.turns = turns
}

func (p *Pipeline) previews(chunks []core.ScoredChunk) []core.SourcePreview {
	out := make([]core.SourcePreview, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, core.SourcePreview{
			Content:  truncate(c.Chunk.Text, p.cfg.PreviewLength),
			Source:   orDefault(c.Chunk.Source, core.DefaultSource),
			Category: orDefault(c.Chunk.Category, core.DefaultCategory),
		})
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
