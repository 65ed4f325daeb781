package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sandevgo/novatasks/internal/core"
	"github.com/sandevgo/novatasks/pkg/log"
)

// fallbackAnswer substitutes an absent or empty agent result.
const fallbackAnswer = "Sorry, I am unable to process that scheduling request right now."

type Agent struct {
	ai      core.AIProvider
	toolset core.Toolset
	store   core.SessionStore
	prompt  *Assembler
	signals *CompletionHandler
}

func NewAgent(
	ai core.AIProvider,
	toolset core.Toolset,
	store core.SessionStore,
	prompt *Assembler,
) *Agent {
	return &Agent{
		ai:      ai,
		toolset: toolset,
		store:   store,
		prompt:  prompt,
		signals: NewCompletionHandler(store),
	}
}

// Run executes one turn for the session key: assemble the prompt from the
// stored history, drive the tool-calling loop to a final answer, record
// the exchange and evaluate the completion signal. The returned bool
// reports whether the session was destroyed. The AI call is the turn's
// only long-latency operation; no local timeout is imposed beyond the
// provider's own bounds.
func (a *Agent) Run(ctx context.Context, key, input string) (string, bool, error) {
	logger := log.FromCtx(ctx)

	history := a.store.GetOrCreate(key)
	messages := a.prompt.Build(time.Now(), history, input)
	a.debugTokens(ctx, messages)

	tools, err := a.toolset.GetTools(ctx)
	if err != nil {
		return "", false, fmt.Errorf("failed to get tools: %w", err)
	}

	var final string
	for {
		responseMsg, err := a.ai.Chat(ctx, messages, tools)
		if err != nil {
			return "", false, fmt.Errorf("ai chat error: %w", err)
		}
		messages = append(messages, responseMsg)

		if responseMsg.Content != "" {
			final = responseMsg.Content
		}

		if len(responseMsg.ToolCalls) == 0 {
			break
		}

		for _, tc := range responseMsg.ToolCalls {
			logger.Info().Str("tool", tc.Function.Name).Msg("executing tool")

			result, err := a.toolset.CallTool(ctx, tc.Function.Name, tc.Function.Arguments)
			if err != nil {
				return "", false, fmt.Errorf("tool %s failed: %w", tc.Function.Name, err)
			}

			messages = append(messages, core.Message{
				Role:       core.RoleTool,
				Content:    result,
				ToolCallID: tc.ID,
			})
		}
	}

	if strings.TrimSpace(final) == "" {
		final = fallbackAnswer
	}

	a.store.Append(key, core.RoleUser, input)
	a.store.Append(key, core.RoleAssistant, final)

	clean, destroyed := a.signals.Process(final, key)
	if destroyed {
		logger.Info().Str("session", key).Msg("completion signal received, session memory destroyed")
	}

	return clean, destroyed, nil
}

var (
	encOnce sync.Once
	encoder *tiktoken.Tiktoken
)

func (a *Agent) debugTokens(ctx context.Context, messages []core.Message) {
	logger := log.FromCtx(ctx)
	if !logger.Debug().Enabled() {
		return
	}

	encOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			logger.Debug().Err(err).Msg("token encoder unavailable")
			return
		}
		encoder = enc
	})
	if encoder == nil {
		return
	}

	total := 0
	for _, m := range messages {
		total += len(encoder.Encode(m.Content, nil, nil))
	}
	logger.Debug().Int("messages", len(messages)).Int("tokens_est", total).Msg("assembled prompt")
}
