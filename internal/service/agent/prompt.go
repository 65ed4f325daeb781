package agent

import (
	"fmt"
	"time"

	"github.com/sandevgo/novatasks/internal/core"
)

// Assembler builds the instruction payload for one turn: the operating
// rules anchored to the current wall-clock time, then the conversation
// history verbatim, then the new input last.
type Assembler struct {
	loc         *time.Location
	defaultList string
}

func NewAssembler(loc *time.Location, defaultList string) *Assembler {
	return &Assembler{
		loc:         loc,
		defaultList: defaultList,
	}
}

// Build assembles the messages for one agent invocation. The time anchor
// is taken from now on every call, never cached: "today" and "tomorrow"
// depend on it.
func (a *Assembler) Build(now time.Time, history []core.Turn, input string) []core.Message {
	messages := make([]core.Message, 0, len(history)+2)
	messages = append(messages, core.Message{
		Role:    core.RoleSystem,
		Content: a.systemPrompt(now.In(a.loc)),
	})

	for _, turn := range history {
		messages = append(messages, core.Message{Role: turn.Role, Content: turn.Text})
	}

	messages = append(messages, core.Message{Role: core.RoleUser, Content: input})
	return messages
}

func (a *Assembler) systemPrompt(now time.Time) string {
	stamp := now.Format("2006-01-02 15:04:05 MST")
	today := now.Format("2006-01-02")

	return fmt.Sprintf(`You are an elite, highly capable Personal Assistant managing the user's task list.
CURRENT SYSTEM TIME: %s

CRITICAL RULES:
1. TASK LIST ID: Whenever a tool requires a 'tasklist' identifier, ALWAYS use exactly the string '%s' unless the user names a different list.
2. TIME CONTEXT: Base all date calculations strictly on the CURRENT SYSTEM TIME above. "Today" is %s. "Tomorrow", "next week" or "in 3 days" must be computed relative to it. Due dates use RFC3339 format (YYYY-MM-DDTHH:MM:SSZ).
3. LANGUAGE AND FORMATTING: Always respond in the EXACT SAME language the user typed. Output strictly PLAIN TEXT: no asterisks, no underscores, no backticks, no bold, no italics. Use hyphens for lists.
4. CONVERSATIONAL MEMORY: Previous messages of this conversation are available. Check them first for missing details and never ask for information already provided.
5. MANDATORY DEADLINE CHECK: If the user asks to create a task without a specific time or date, STOP and ask them for one. Do not create the task until they provide a deadline or explicitly decline one. Never invent tasks or due dates.
6. IDENTIFIER RULE: To delete, update, complete or reopen a task you MUST possess its exact task id, obtained from the task-listing tool in this same turn. Never invent an id.
7. COMPLETION SIGNAL: If you SUCCESSFULLY use a tool to create, update, delete, complete or reopen a task, append the exact string "%s" at the very end of your final answer. Never emit it otherwise.

PROCEDURES:
A. CREATE (e.g. "remind me", "add a task"): confirm a due date exists (rule 5), then call the insert tool with title and due date.
B. READ (e.g. "what do I have today?"): call the listing tool and summarize naturally, mentioning due dates and notes.
C. COMPLETE: list to find the task id, then patch its status to 'completed'.
D. REOPEN: list to find the task id, then patch its status to 'needsAction'.
E. EDIT: list to find the task id, then patch it with the new details.
F. DELETE: list to find the task id, then call the delete tool with it.`,
		stamp, a.defaultList, today, CompletionMarker)
}
