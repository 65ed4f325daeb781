package telegram

import (
	"context"
	"strings"

	"github.com/sandevgo/novatasks/pkg/conv"
	"github.com/sandevgo/novatasks/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const maxTelegramMsgLen = 4000 // Safety margin below 4096

// sendAPI is the slice of tele.Bot the sender needs.
type sendAPI interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

type sender struct {
	bot sendAPI
}

func newSender(bot sendAPI) *sender {
	return &sender{bot: bot}
}

// sendPlain sends agent output, chunked on paragraph boundaries when it
// exceeds the transport limit. Send failures are logged and swallowed.
func (s *sender) sendPlain(ctx context.Context, to tele.Recipient, text string) {
	logger := log.FromCtx(ctx)
	for i, chunk := range SplitParagraphs(text, maxTelegramMsgLen) {
		if chunk == "" {
			continue
		}
		if _, err := s.bot.Send(to, chunk); err != nil {
			logger.Error().Err(err).Int("chunk", i).Int("len", len(chunk)).Msg("failed to send telegram chunk")
		}
	}
}

// sendMarkdown converts Markdown to Telegram HTML and sends it. Used for
// the welcome message and operator alerts, never for agent replies.
func (s *sender) sendMarkdown(ctx context.Context, to tele.Recipient, md string) {
	logger := log.FromCtx(ctx)
	html := strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(md)))
	if html == "" {
		return
	}
	if _, err := s.bot.Send(to, html, tele.ModeHTML); err != nil {
		logger.Error().Err(err).Msg("failed to send telegram message")
	}
}

// SplitParagraphs splits text into segments of at most maxLen characters,
// cutting only on blank-line boundaries. Paragraphs are accumulated
// greedily; a single paragraph longer than maxLen is passed through as
// one oversized segment rather than split mid-paragraph. Joining the
// segments back with a blank line reproduces the input.
func SplitParagraphs(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	paragraphs := strings.Split(text, "\n\n")
	segments := make([]string, 0, 2)

	current := paragraphs[0]
	for _, p := range paragraphs[1:] {
		if len(current)+2+len(p) > maxLen {
			segments = append(segments, current)
			current = p
			continue
		}
		current += "\n\n" + p
	}
	if current != "" {
		segments = append(segments, current)
	}
	return segments
}
