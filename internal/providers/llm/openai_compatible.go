package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sandevgo/novatasks/internal/core"
)

// OpenAICompatible targets any endpoint speaking the chat completions
// wire format, for running the assistant against a self-hosted model.
type OpenAICompatible struct {
	baseProvider
	temperature float64
}

func NewOpenAICompatible(baseURL, apiKey, model string, temperature float64) *OpenAICompatible {
	return &OpenAICompatible{
		baseProvider: newBaseProvider(baseURL, apiKey, model),
		temperature:  temperature,
	}
}

func (o *OpenAICompatible) Chat(ctx context.Context, history []core.Message, tools []core.Tool) (core.Message, error) {
	payload := map[string]any{
		"model":       o.model,
		"messages":    history,
		"temperature": o.temperature,
	}
	if len(tools) > 0 {
		payload["tools"] = tools
	}

	headers := make(map[string]string)
	if o.apiKey != "" {
		headers["Authorization"] = "Bearer " + o.apiKey
	}

	resp, err := o.doRequest(ctx, http.MethodPost, "/v1/chat/completions", payload, headers)
	if err != nil {
		return core.Message{}, err
	}
	defer resp.Body.Close()

	return parseOpenAIResponse(resp)
}

func parseOpenAIResponse(resp *http.Response) (core.Message, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.Message{}, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return core.Message{}, fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	var result struct {
		Choices []struct {
			Message core.Message `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return core.Message{}, fmt.Errorf("decode: %w", err)
	}
	if len(result.Choices) == 0 {
		return core.Message{}, fmt.Errorf("empty choices: %s", string(data))
	}
	return result.Choices[0].Message, nil
}
