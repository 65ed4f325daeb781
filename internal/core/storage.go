package core

import "context"

// AuditRepository records security and completion events. Conversation
// content is never written here; buffers stay volatile.
type AuditRepository interface {
	RecordDenied(ctx context.Context, userID int64, name, text string) error
	RecordCompletion(ctx context.Context, sessionID string) error
	CountDenials(ctx context.Context, userID int64) (int, error)
}
