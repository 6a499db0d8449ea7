package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hyperengineering/copydesk/internal/types"
)

// AppendAudit records an administrative or reconciliation action.
func (s *SQLiteStore) AppendAudit(ctx context.Context, entry types.AuditLog) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, actor, action, entity, entity_id, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, newID(), entry.Actor, entry.Action, entry.Entity,
		nullString(entry.EntityID), nullString(entry.Detail), nowString())
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// ListAuditLogs returns the most recent audit entries, newest first.
func (s *SQLiteStore) ListAuditLogs(ctx context.Context, limit int) ([]types.AuditLog, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, actor, action, entity, entity_id, detail, created_at
		FROM audit_logs
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit logs: %w", err)
	}
	defer rows.Close()

	var out []types.AuditLog
	for rows.Next() {
		var entry types.AuditLog
		var entityID, detail sql.NullString
		var createdAt string
		err := rows.Scan(&entry.ID, &entry.Actor, &entry.Action, &entry.Entity,
			&entityID, &detail, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		entry.EntityID = stringOr(entityID)
		entry.Detail = stringOr(detail)
		entry.CreatedAt = parseTime(createdAt)
		out = append(out, entry)
	}
	return out, rows.Err()
}
