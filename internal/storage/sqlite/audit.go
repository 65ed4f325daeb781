package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// AuditRepo records security and completion events. It deliberately never
// stores conversation content; session buffers stay in memory only.
type AuditRepo struct {
	db *sql.DB
}

func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

func (r *AuditRepo) RecordDenied(ctx context.Context, userID int64, name, text string) error {
	query := `INSERT INTO access_denials (user_id, name, message) VALUES (?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, userID, name, text); err != nil {
		return fmt.Errorf("failed to record denial: %w", err)
	}
	return nil
}

func (r *AuditRepo) RecordCompletion(ctx context.Context, sessionID string) error {
	query := `INSERT INTO completions (session_id) VALUES (?)`
	if _, err := r.db.ExecContext(ctx, query, sessionID); err != nil {
		return fmt.Errorf("failed to record completion: %w", err)
	}
	return nil
}

// CountDenials reports how many access attempts were blocked for a user.
func (r *AuditRepo) CountDenials(ctx context.Context, userID int64) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM access_denials WHERE user_id = ?`
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count denials: %w", err)
	}
	return n, nil
}
