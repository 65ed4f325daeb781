package agent

import (
	"strings"

	"github.com/sandevgo/novatasks/internal/core"
)

// CompletionMarker is the out-of-band token the agent appends when a
// mutating tool call fully succeeded. It must never reach the end user.
const CompletionMarker = "[TASK_DONE]"

// CompletionHandler scans agent output for the completion marker and
// destroys the session it belongs to. Runs exactly once per turn, after
// the agent answered and before the reply is chunked for transport.
type CompletionHandler struct {
	store core.SessionStore
}

func NewCompletionHandler(store core.SessionStore) *CompletionHandler {
	return &CompletionHandler{store: store}
}

// Process strips every occurrence of the marker from text. When the marker
// was present the session for key is destroyed and destroyed=true is
// returned; otherwise text comes back unchanged.
func (h *CompletionHandler) Process(text, key string) (string, bool) {
	if !strings.Contains(text, CompletionMarker) {
		return text, false
	}

	clean := strings.TrimSpace(strings.ReplaceAll(text, CompletionMarker, ""))
	h.store.Destroy(key)
	return clean, true
}
