package core

import "context"

type AIProvider interface {
	Chat(ctx context.Context, history []Message, tools []Tool) (Message, error)
}

type Toolset interface {
	GetTools(ctx context.Context) ([]Tool, error)
	CallTool(ctx context.Context, name string, args string) (string, error)
}
