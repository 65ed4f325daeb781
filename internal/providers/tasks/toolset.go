package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sandevgo/novatasks/internal/core"
)

const listTasksSchema = `
{
  "type": "object",
  "properties": {
    "tasklist": { "type": "string", "description": "Task list identifier; omit for the default list" }
  }
}
`

const insertTaskSchema = `
{
  "type": "object",
  "properties": {
    "title": { "type": "string", "description": "Task title" },
    "due": { "type": "string", "description": "Due date in RFC3339 format" },
    "notes": { "type": "string", "description": "Optional notes" },
    "tasklist": { "type": "string", "description": "Task list identifier; omit for the default list" }
  },
  "required": ["title"]
}
`

const patchTaskSchema = `
{
  "type": "object",
  "properties": {
    "task_id": { "type": "string", "description": "Exact task id obtained from a prior listing call" },
    "title": { "type": "string", "description": "New title" },
    "due": { "type": "string", "description": "New due date in RFC3339 format" },
    "notes": { "type": "string", "description": "New notes" },
    "status": { "type": "string", "enum": ["needsAction", "completed"], "description": "Task status" },
    "tasklist": { "type": "string", "description": "Task list identifier; omit for the default list" }
  },
  "required": ["task_id"]
}
`

const deleteTaskSchema = `
{
  "type": "object",
  "properties": {
    "task_id": { "type": "string", "description": "Exact task id obtained from a prior listing call" },
    "tasklist": { "type": "string", "description": "Task list identifier; omit for the default list" }
  },
  "required": ["task_id"]
}
`

type handler = func(ctx context.Context, args json.RawMessage) (string, error)

// Toolset exposes the fixed remote task-store operations to the agent:
// list, insert, patch and delete, all scoped to the configured default
// list unless an argument overrides it. Implements core.Toolset.
type Toolset struct {
	client      *Client
	defaultList string
	handlers    map[string]handler
	definitions []core.Tool
}

func NewToolset(client *Client, defaultList string) *Toolset {
	t := &Toolset{
		client:      client,
		defaultList: defaultList,
		handlers:    make(map[string]handler),
	}

	register := func(name, description, schema string, h handler) {
		t.handlers[name] = h
		t.definitions = append(t.definitions, core.Tool{
			Type: "function",
			Function: core.Function{
				Name:        name,
				Description: description,
				Parameters:  json.RawMessage(schema),
			},
		})
	}

	register("tasks_list", "List all tasks on a task list, including completed ones", listTasksSchema, t.listTasks)
	register("tasks_insert", "Create a new task with a title and optional due date and notes", insertTaskSchema, t.insertTask)
	register("tasks_patch", "Update an existing task: title, due date, notes or status", patchTaskSchema, t.patchTask)
	register("tasks_delete", "Delete a task permanently", deleteTaskSchema, t.deleteTask)

	return t
}

func (t *Toolset) GetTools(ctx context.Context) ([]core.Tool, error) {
	return t.definitions, nil
}

func (t *Toolset) CallTool(ctx context.Context, name string, args string) (string, error) {
	h, ok := t.handlers[name]
	if !ok {
		return "", fmt.Errorf("unknown tool: %s", name)
	}
	return h(ctx, json.RawMessage(args))
}

func (t *Toolset) listTasks(ctx context.Context, args json.RawMessage) (string, error) {
	var input struct {
		Tasklist string `json:"tasklist"`
	}
	if err := json.Unmarshal(args, &input); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	return t.client.List(ctx, t.list(input.Tasklist))
}

func (t *Toolset) insertTask(ctx context.Context, args json.RawMessage) (string, error) {
	var input struct {
		Title    string `json:"title"`
		Due      string `json:"due"`
		Notes    string `json:"notes"`
		Tasklist string `json:"tasklist"`
	}
	if err := json.Unmarshal(args, &input); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	if input.Title == "" {
		return "", fmt.Errorf("title is required")
	}

	return t.client.Insert(ctx, t.list(input.Tasklist), Task{
		Title: input.Title,
		Due:   input.Due,
		Notes: input.Notes,
	})
}

func (t *Toolset) patchTask(ctx context.Context, args json.RawMessage) (string, error) {
	var input struct {
		TaskID   string `json:"task_id"`
		Title    string `json:"title"`
		Due      string `json:"due"`
		Notes    string `json:"notes"`
		Status   string `json:"status"`
		Tasklist string `json:"tasklist"`
	}
	if err := json.Unmarshal(args, &input); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	if input.TaskID == "" {
		return "", fmt.Errorf("task_id is required")
	}

	return t.client.Patch(ctx, t.list(input.Tasklist), input.TaskID, Task{
		Title:  input.Title,
		Due:    input.Due,
		Notes:  input.Notes,
		Status: input.Status,
	})
}

func (t *Toolset) deleteTask(ctx context.Context, args json.RawMessage) (string, error) {
	var input struct {
		TaskID   string `json:"task_id"`
		Tasklist string `json:"tasklist"`
	}
	if err := json.Unmarshal(args, &input); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	if input.TaskID == "" {
		return "", fmt.Errorf("task_id is required")
	}

	if err := t.client.Delete(ctx, t.list(input.Tasklist), input.TaskID); err != nil {
		return "", err
	}
	return fmt.Sprintf(`{"deleted":%q}`, input.TaskID), nil
}

func (t *Toolset) list(override string) string {
	if override != "" {
		return override
	}
	return t.defaultList
}
