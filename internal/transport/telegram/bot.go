package telegram

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sandevgo/novatasks/internal/config"
	"github.com/sandevgo/novatasks/internal/core"
	"github.com/sandevgo/novatasks/internal/service/agent"
	"github.com/sandevgo/novatasks/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

const accessDeniedText = "**Access Denied!** Unauthorized user detected. I am exclusively configured to assist my designated operator."

const welcomeText = `**Hey there! I'm NovaTasks.**

I'm your task assistant right here on Telegram. No need to use strict commands, just chat with me naturally and I'll keep your to-dos organized!

Here are a few things you can ask me to do:
- Add a task: "Remind me to buy coffee tomorrow morning."
- Check your list: "What do I have to do today?"
- Check things off: "I finished the weekly report, mark it as done."
- Delete a task: "Cancel the gym task for tonight."

What's on your mind today?`

// TurnRunner runs one conversational turn. Satisfied by agent.Agent.
type TurnRunner interface {
	Run(ctx context.Context, key, input string) (string, bool, error)
}

type Bot struct {
	bot     *tele.Bot
	agent   TurnRunner
	gate    *Gate
	audit   core.AuditRepository
	send    *sender
	ownerID int64
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	ag TurnRunner,
	audit core.AuditRepository,
) (*Bot, error) {
	var bot *Bot

	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		// Last safety net: dispatch-layer failures are logged and alerted,
		// never re-raised.
		OnError: func(err error, c tele.Context) {
			logger := log.FromCtx(ctx)
			logger.Error().Err(err).Msg("unhandled transport error")
			bot.send.sendMarkdown(ctx, tele.ChatID(bot.ownerID),
				fmt.Sprintf("**SYSTEM ALERT: bot encountered an error**\n\n`%v`", err))
		},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot = &Bot{
		bot:     b,
		agent:   ag,
		gate:    NewGate(cfg.OwnerID),
		audit:   audit,
		send:    newSender(b),
		ownerID: cfg.OwnerID,
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	b.Handle("/start", bot.handleStart)
	b.Handle(tele.OnText, bot.handleText)

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

func (b *Bot) handleStart(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	b.send.sendMarkdown(ctx, c.Chat(), welcomeText)
	return nil
}

func (b *Bot) handleText(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx).With().Str("turn", uuid.NewString()[:8]).Logger()
	ctx = logger.WithContext(ctx)

	from := c.Sender()

	if !b.gate.Allowed(from.ID) {
		b.denyAccess(ctx, c)
		return nil
	}

	// Notify user we are working
	_ = c.Notify(tele.Typing)

	key := strconv.FormatInt(from.ID, 10)
	reply, destroyed, err := b.agent.Run(ctx, key, c.Text())
	if err != nil {
		category := agent.Classify(err)
		logger.Error().Err(err).Str("category", category.String()).Msg("turn failed")

		// Last line of defense: even this send may fail
		if sendErr := c.Send(category.UserMessage()); sendErr != nil {
			logger.Error().Err(sendErr).Msg("failed to deliver the error message")
		}
		return nil
	}

	if destroyed && b.audit != nil {
		if auditErr := b.audit.RecordCompletion(ctx, key); auditErr != nil {
			logger.Error().Err(auditErr).Msg("failed to record completion")
		}
	}

	b.send.sendPlain(ctx, c.Chat(), reply)
	return nil
}

// denyAccess answers an unauthorized sender and alerts the operator with
// who tried and what they typed. Both sends are best-effort.
func (b *Bot) denyAccess(ctx context.Context, c tele.Context) {
	logger := log.FromCtx(ctx)
	from := c.Sender()

	logger.Warn().
		Int64("user_id", from.ID).
		Str("name", from.FirstName).
		Msg("intrusion attempt blocked")

	attempts := 0
	if b.audit != nil {
		if err := b.audit.RecordDenied(ctx, from.ID, from.FirstName, c.Text()); err != nil {
			logger.Error().Err(err).Msg("failed to record denial")
		}
		var err error
		if attempts, err = b.audit.CountDenials(ctx, from.ID); err != nil {
			logger.Error().Err(err).Msg("failed to count denials")
		}
	}

	b.send.sendMarkdown(ctx, c.Chat(), accessDeniedText)

	alert := fmt.Sprintf(
		"**SECURITY ALERT**\n\nSomeone tried to access your task bot!\n- Name: %s\n- User ID: `%d`\n- They typed: %s",
		from.FirstName, from.ID, c.Text(),
	)
	if attempts > 0 {
		alert += fmt.Sprintf("\n- Blocked attempts from this user: %d", attempts)
	}
	b.send.sendMarkdown(ctx, tele.ChatID(b.ownerID), alert)
}
