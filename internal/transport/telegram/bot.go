package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/gtmsuite/internal/config"
	"github.com/sandevgo/gtmsuite/internal/core"
	"github.com/sandevgo/gtmsuite/pkg/log"
	"github.com/sandevgo/gtmsuite/pkg/retry"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

type Asker interface {
	Ask(ctx context.Context, sessionID, question string) (core.QueryResult, error)
}

type Bot struct {
	bot     *tele.Bot
	cfg     *config.TelegramConfig
	ask     Asker
	router  core.CmdRouter
	sender  *sender
	ownerID int64
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	ask Asker,
	router core.CmdRouter,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:     b,
		cfg:     cfg,
		ask:     ask,
		router:  router,
		sender:  newSender(b, retry.NewDefaultRetrier()),
		ownerID: cfg.OwnerID,
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Middleware: Only allow the owner
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil || c.Sender().ID != bot.ownerID {
				return nil // Ignore unauthorized users
			}
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	sessionID := fmt.Sprintf("telegram-%d", c.Chat().ID)
	ctx = log.FromCtx(ctx).With().Str("session", sessionID).Logger().WithContext(ctx)

	reply := b.reply(ctx, sessionID, c.Text(), func() { _ = c.Notify(tele.Typing) })
	return b.sender.sendMarkdown(ctx, c.Chat(), reply, false)
}

// reply answers one incoming text as markdown. Slash commands never reach
// the model.
func (b *Bot) reply(ctx context.Context, sessionID, text string, typing func()) string {
	if out, handled := b.router.Execute(ctx, sessionID, text); handled {
		return out
	}

	typing()

	res, err := b.ask.Ask(ctx, sessionID, text)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("askgtm failed")
		return fmt.Sprintf("❌ %v", err)
	}
	return formatAnswer(res)
}

func formatAnswer(res core.QueryResult) string {
	if len(res.Sources) == 0 {
		return res.Answer
	}

	var sb strings.Builder
	sb.WriteString(res.Answer)
	sb.WriteString("\n\n**Sources**\n")

	seen := make(map[string]bool, len(res.Sources))
	for _, s := range res.Sources {
		key := s.Source + "/" + s.Category
		if seen[key] {
			continue
		}
		seen[key] = true
		sb.WriteString(fmt.Sprintf("› %s (%s)\n", s.Source, s.Category))
	}
	return strings.TrimSpace(sb.String())
}
