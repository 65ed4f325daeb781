package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sandevgo/novatasks/internal/core"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com"

// Gemini speaks the generateContent API with function calling. Gemini has
// no tool-call IDs, so the function name doubles as the ID when mapping
// into core messages and back.
type Gemini struct {
	baseProvider
	temperature float64
}

func NewGemini(apiKey, model string, temperature float64) *Gemini {
	return &Gemini{
		baseProvider: newBaseProvider(geminiBaseURL, apiKey, model),
		temperature:  temperature,
	}
}

type geminiFunctionCall struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
}

type geminiFunctionResponse struct {
	Name     string          `json:"name"`
	Response json.RawMessage `json:"response"`
}

type geminiPart struct {
	Text             string                  `json:"text,omitempty"`
	Thought          bool                    `json:"thought,omitempty"`
	FunctionCall     *geminiFunctionCall     `json:"functionCall,omitempty"`
	FunctionResponse *geminiFunctionResponse `json:"functionResponse,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiFunctionDecl struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

type geminiTool struct {
	FunctionDeclarations []geminiFunctionDecl `json:"functionDeclarations"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	Tools             []geminiTool    `json:"tools,omitempty"`
	GenerationConfig  struct {
		Temperature float64 `json:"temperature"`
	} `json:"generationConfig"`
}

func (g *Gemini) Chat(ctx context.Context, history []core.Message, tools []core.Tool) (core.Message, error) {
	payload := g.buildRequest(history, tools)

	headers := map[string]string{"x-goog-api-key": g.apiKey}
	path := fmt.Sprintf("/v1beta/models/%s:generateContent", g.model)

	resp, err := g.doRequest(ctx, http.MethodPost, path, payload, headers)
	if err != nil {
		return core.Message{}, err
	}
	defer resp.Body.Close()

	return parseGeminiResponse(resp)
}

func (g *Gemini) buildRequest(history []core.Message, tools []core.Tool) geminiRequest {
	var req geminiRequest
	req.GenerationConfig.Temperature = g.temperature

	var system []string
	for _, msg := range history {
		switch msg.Role {
		case core.RoleSystem:
			system = append(system, msg.Content)

		case core.RoleAssistant:
			content := geminiContent{Role: "model"}
			if msg.Content != "" {
				content.Parts = append(content.Parts, geminiPart{Text: msg.Content})
			}
			for _, tc := range msg.ToolCalls {
				args := json.RawMessage(tc.Function.Arguments)
				if len(args) == 0 {
					args = json.RawMessage("{}")
				}
				content.Parts = append(content.Parts, geminiPart{
					FunctionCall: &geminiFunctionCall{Name: tc.Function.Name, Args: args},
				})
			}
			req.Contents = append(req.Contents, content)

		case core.RoleTool:
			result, _ := json.Marshal(map[string]string{"result": msg.Content})
			req.Contents = append(req.Contents, geminiContent{
				Role: "user",
				Parts: []geminiPart{{
					FunctionResponse: &geminiFunctionResponse{Name: msg.ToolCallID, Response: result},
				}},
			})

		default:
			req.Contents = append(req.Contents, geminiContent{
				Role:  "user",
				Parts: []geminiPart{{Text: msg.Content}},
			})
		}
	}

	if len(system) > 0 {
		req.SystemInstruction = &geminiContent{
			Parts: []geminiPart{{Text: strings.Join(system, "\n\n")}},
		}
	}

	for _, t := range tools {
		decl := geminiFunctionDecl{
			Name:        t.Function.Name,
			Description: t.Function.Description,
			Parameters:  t.Function.Parameters,
		}
		if len(req.Tools) == 0 {
			req.Tools = append(req.Tools, geminiTool{})
		}
		req.Tools[0].FunctionDeclarations = append(req.Tools[0].FunctionDeclarations, decl)
	}

	return req
}

func parseGeminiResponse(resp *http.Response) (core.Message, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.Message{}, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return core.Message{}, fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	var result struct {
		Candidates []struct {
			Content geminiContent `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return core.Message{}, fmt.Errorf("decode: %w", err)
	}
	if len(result.Candidates) == 0 {
		return core.Message{}, fmt.Errorf("empty candidates: %s", string(data))
	}

	text, toolCalls := normalizeParts(result.Candidates[0].Content.Parts)
	return core.Message{
		Role:      core.RoleAssistant,
		Content:   text,
		ToolCalls: toolCalls,
	}, nil
}

// normalizeParts flattens a heterogeneous part sequence into one string
// plus the tool calls. Only text-bearing parts contribute to the string;
// thoughts and any unknown part kinds are dropped.
func normalizeParts(parts []geminiPart) (string, []core.ToolCall) {
	var sb strings.Builder
	var toolCalls []core.ToolCall

	for _, part := range parts {
		if part.FunctionCall != nil {
			args := string(part.FunctionCall.Args)
			if args == "" {
				args = "{}"
			}
			toolCalls = append(toolCalls, core.ToolCall{
				ID:   part.FunctionCall.Name,
				Type: "function",
				Function: core.FunctionCall{
					Name:      part.FunctionCall.Name,
					Arguments: args,
				},
			})
			continue
		}
		if part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}

	return sb.String(), toolCalls
}
