package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hyperengineering/copydesk/internal/types"
)

const copyTypeColumns = `id, code, name, description, core_concept,
	example_copy, prompt_template, parent_id, created_at, updated_at`

func scanCopyType(scanner interface{ Scan(...any) error }) (*types.CopyType, error) {
	var ct types.CopyType
	var description, coreConcept, exampleCopy, promptTemplate, parentID sql.NullString
	var createdAt, updatedAt string

	err := scanner.Scan(
		&ct.ID,
		&ct.Code,
		&ct.Name,
		&description,
		&coreConcept,
		&exampleCopy,
		&promptTemplate,
		&parentID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	ct.Description = stringOr(description)
	ct.CoreConcept = stringOr(coreConcept)
	ct.ExampleCopy = stringOr(exampleCopy)
	ct.PromptTemplate = stringOr(promptTemplate)
	if parentID.Valid {
		ct.ParentID = &parentID.String
	}
	ct.CreatedAt = parseTime(createdAt)
	ct.UpdatedAt = parseTime(updatedAt)

	return &ct, nil
}

func (s *SQLiteStore) queryCopyTypes(ctx context.Context, query string, args ...any) ([]types.CopyType, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query copy types: %w", err)
	}
	defer rows.Close()

	var out []types.CopyType
	for rows.Next() {
		ct, err := scanCopyType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan copy type: %w", err)
		}
		out = append(out, *ct)
	}
	return out, rows.Err()
}

// ListCopyTypes returns all copy types ordered by code.
func (s *SQLiteStore) ListCopyTypes(ctx context.Context) ([]types.CopyType, error) {
	return s.queryCopyTypes(ctx,
		`SELECT `+copyTypeColumns+` FROM copy_types ORDER BY code`)
}

// TopLevelCopyTypes returns copy types without a parent. Only these
// participate in weekly checklist initialization.
func (s *SQLiteStore) TopLevelCopyTypes(ctx context.Context) ([]types.CopyType, error) {
	return s.queryCopyTypes(ctx,
		`SELECT `+copyTypeColumns+` FROM copy_types WHERE parent_id IS NULL ORDER BY code`)
}

// GetCopyType retrieves a copy type by ID.
func (s *SQLiteStore) GetCopyType(ctx context.Context, id string) (*types.CopyType, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+copyTypeColumns+` FROM copy_types WHERE id = ?`, id)

	ct, err := scanCopyType(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan copy type: %w", err)
	}
	return ct, nil
}

// CreateCopyType inserts a new copy type and returns the stored row.
func (s *SQLiteStore) CreateCopyType(ctx context.Context, ct types.CopyType) (*types.CopyType, error) {
	ct.ID = newID()
	now := nowString()

	var parentID sql.NullString
	if ct.ParentID != nil {
		parentID = sql.NullString{String: *ct.ParentID, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO copy_types (id, code, name, description, core_concept,
			example_copy, prompt_template, parent_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, ct.ID, ct.Code, ct.Name, nullString(ct.Description), nullString(ct.CoreConcept),
		nullString(ct.ExampleCopy), nullString(ct.PromptTemplate), parentID, now, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert copy type: %w", err)
	}

	return s.GetCopyType(ctx, ct.ID)
}

// UpdateCopyType overwrites a copy type's mutable fields.
func (s *SQLiteStore) UpdateCopyType(ctx context.Context, ct types.CopyType) (*types.CopyType, error) {
	var parentID sql.NullString
	if ct.ParentID != nil {
		parentID = sql.NullString{String: *ct.ParentID, Valid: true}
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE copy_types
		SET code = ?, name = ?, description = ?, core_concept = ?,
			example_copy = ?, prompt_template = ?, parent_id = ?, updated_at = ?
		WHERE id = ?
	`, ct.Code, ct.Name, nullString(ct.Description), nullString(ct.CoreConcept),
		nullString(ct.ExampleCopy), nullString(ct.PromptTemplate), parentID,
		nowString(), ct.ID)
	if err != nil {
		return nil, fmt.Errorf("update copy type: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return s.GetCopyType(ctx, ct.ID)
}

// DeleteCopyType removes a copy type by ID.
func (s *SQLiteStore) DeleteCopyType(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM copy_types WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete copy type: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
