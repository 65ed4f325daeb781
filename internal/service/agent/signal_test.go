package agent

import (
	"testing"

	"github.com/sandevgo/novatasks/internal/core"
	"github.com/sandevgo/novatasks/internal/session"
)

func TestCompletionHandler_Process(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantText      string
		wantDestroyed bool
	}{
		{
			name:          "no marker",
			input:         "You have 3 tasks today.",
			wantText:      "You have 3 tasks today.",
			wantDestroyed: false,
		},
		{
			name:          "marker at end",
			input:         "Task created for tomorrow. [TASK_DONE]",
			wantText:      "Task created for tomorrow.",
			wantDestroyed: true,
		},
		{
			name:          "marker repeated",
			input:         "[TASK_DONE]Done.[TASK_DONE]",
			wantText:      "Done.",
			wantDestroyed: true,
		},
		{
			name:          "marker only",
			input:         "[TASK_DONE]",
			wantText:      "",
			wantDestroyed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := session.NewMemoryStore()
			store.GetOrCreate("k")
			store.Append("k", core.RoleUser, "x")

			h := NewCompletionHandler(store)
			got, destroyed := h.Process(tt.input, "k")

			if got != tt.wantText {
				t.Errorf("Process() text = %q, want %q", got, tt.wantText)
			}
			if destroyed != tt.wantDestroyed {
				t.Errorf("Process() destroyed = %v, want %v", destroyed, tt.wantDestroyed)
			}

			buf := store.GetOrCreate("k")
			if tt.wantDestroyed && len(buf) != 0 {
				t.Errorf("session survived a completion signal: %v", buf)
			}
			if !tt.wantDestroyed && len(buf) == 0 {
				t.Error("session was destroyed without a completion signal")
			}
		})
	}
}

func TestCompletionHandler_Idempotent(t *testing.T) {
	store := session.NewMemoryStore()
	h := NewCompletionHandler(store)

	clean, destroyed := h.Process("All set. [TASK_DONE]", "k")
	if !destroyed {
		t.Fatal("expected destroyed on first pass")
	}

	again, destroyed := h.Process(clean, "k")
	if destroyed {
		t.Error("second pass over clean text reported destroyed")
	}
	if again != clean {
		t.Errorf("second pass changed text: %q -> %q", clean, again)
	}
}
