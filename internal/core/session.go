package core

// Turn is one entry of a conversation buffer: what the user said or what
// the assistant answered. Tool traffic is never stored here.
type Turn struct {
	Role string
	Text string
}

// SessionStore keeps one volatile conversation buffer per session key.
// Buffers live in process memory only and are destroyed as a whole when a
// task completes; there is deliberately no persistence and no size bound.
type SessionStore interface {
	// GetOrCreate returns a snapshot of the buffer for key, creating an
	// empty one if the key is unknown. Callers must not retain the
	// returned slice across turns.
	GetOrCreate(key string) []Turn

	// Append adds a turn to an existing buffer. Unknown keys are ignored;
	// callers are expected to GetOrCreate first.
	Append(key, role, text string)

	// Destroy removes the buffer for key. Destroying an absent key is a
	// no-op.
	Destroy(key string)
}
