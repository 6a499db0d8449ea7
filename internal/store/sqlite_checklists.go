package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hyperengineering/copydesk/internal/types"
)

const checklistColumns = `id, product_id, copy_type_id, team_id, week,
	status, notes, utm_code, excluded, created_at, updated_at`

func scanChecklist(scanner interface{ Scan(...any) error }) (*types.Checklist, error) {
	var c types.Checklist
	var status string
	var notes, utmCode sql.NullString
	var excluded int
	var createdAt, updatedAt string

	err := scanner.Scan(
		&c.ID,
		&c.ProductID,
		&c.CopyTypeID,
		&c.TeamID,
		&c.Week,
		&status,
		&notes,
		&utmCode,
		&excluded,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Status = types.ChecklistStatus(status)
	c.Notes = stringOr(notes)
	c.UTMCode = stringOr(utmCode)
	c.Excluded = excluded != 0
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)

	return &c, nil
}

// ChecklistsByWeek returns all checklist rows for a week without
// related entities attached.
func (s *SQLiteStore) ChecklistsByWeek(ctx context.Context, week string) ([]types.Checklist, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+checklistColumns+` FROM checklists WHERE week = ? ORDER BY created_at`, week)
	if err != nil {
		return nil, fmt.Errorf("query checklists: %w", err)
	}
	defer rows.Close()

	var out []types.Checklist
	for rows.Next() {
		c, err := scanChecklist(rows)
		if err != nil {
			return nil, fmt.Errorf("scan checklist: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// ListChecklists returns checklist rows, optionally filtered by week,
// with their product and copy type attached.
func (s *SQLiteStore) ListChecklists(ctx context.Context, week string) ([]types.Checklist, error) {
	query := `SELECT ` + checklistColumns + ` FROM checklists`
	var args []any
	if week != "" {
		query += ` WHERE week = ?`
		args = append(args, week)
	}
	query += ` ORDER BY week DESC, created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query checklists: %w", err)
	}
	defer rows.Close()

	var out []types.Checklist
	for rows.Next() {
		c, err := scanChecklist(rows)
		if err != nil {
			return nil, fmt.Errorf("scan checklist: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checklists: %w", err)
	}

	if err := s.attachChecklistRelations(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// attachChecklistRelations batch-loads the referenced products and copy
// types and attaches them by foreign key.
func (s *SQLiteStore) attachChecklistRelations(ctx context.Context, checklists []types.Checklist) error {
	if len(checklists) == 0 {
		return nil
	}

	products, err := s.ListProducts(ctx)
	if err != nil {
		return err
	}
	productsByID := make(map[string]*types.Product, len(products))
	for i := range products {
		productsByID[products[i].ID] = &products[i]
	}

	copyTypes, err := s.ListCopyTypes(ctx)
	if err != nil {
		return err
	}
	copyTypesByID := make(map[string]*types.CopyType, len(copyTypes))
	for i := range copyTypes {
		copyTypesByID[copyTypes[i].ID] = &copyTypes[i]
	}

	for i := range checklists {
		checklists[i].Product = productsByID[checklists[i].ProductID]
		checklists[i].CopyType = copyTypesByID[checklists[i].CopyTypeID]
	}
	return nil
}

// GetChecklist retrieves a checklist row by ID.
func (s *SQLiteStore) GetChecklist(ctx context.Context, id string) (*types.Checklist, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+checklistColumns+` FROM checklists WHERE id = ?`, id)

	c, err := scanChecklist(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan checklist: %w", err)
	}
	return c, nil
}

// CreateChecklists bulk-inserts checklist rows in a single transaction.
// Either every row is written or none are.
func (s *SQLiteStore) CreateChecklists(ctx context.Context, newRows []types.NewChecklist) ([]types.Checklist, error) {
	if len(newRows) == 0 {
		return []types.Checklist{}, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO checklists (id, product_id, copy_type_id, team_id, week,
			status, notes, utm_code, excluded, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	now := nowString()
	created := make([]types.Checklist, 0, len(newRows))

	for _, row := range newRows {
		status := row.Status
		if status == "" {
			status = types.StatusPending
		}

		c := types.Checklist{
			ID:         newID(),
			ProductID:  row.ProductID,
			CopyTypeID: row.CopyTypeID,
			TeamID:     row.TeamID,
			Week:       row.Week,
			Status:     status,
			Notes:      row.Notes,
			UTMCode:    row.UTMCode,
			CreatedAt:  parseTime(now),
			UpdatedAt:  parseTime(now),
		}

		_, err := stmt.ExecContext(ctx,
			c.ID, c.ProductID, c.CopyTypeID, c.TeamID, c.Week,
			string(c.Status), nullString(c.Notes), nullString(c.UTMCode),
			now, now)
		if err != nil {
			return nil, fmt.Errorf("insert checklist: %w", err)
		}
		created = append(created, c)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return created, nil
}

// UpdateChecklist applies a partial update. Nil fields are untouched;
// an empty UTMCode pointer clears the column to NULL.
func (s *SQLiteStore) UpdateChecklist(ctx context.Context, id string, update types.ChecklistUpdate) (*types.Checklist, error) {
	sets := "updated_at = ?"
	args := []any{nowString()}

	if update.Status != nil {
		sets += ", status = ?"
		args = append(args, string(*update.Status))
	}
	if update.Notes != nil {
		sets += ", notes = ?"
		args = append(args, nullString(*update.Notes))
	}
	if update.UTMCode != nil {
		sets += ", utm_code = ?"
		args = append(args, nullString(*update.UTMCode))
	}
	args = append(args, id)

	result, err := s.db.ExecContext(ctx,
		`UPDATE checklists SET `+sets+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update checklist: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return s.GetChecklist(ctx, id)
}

// ChecklistStats aggregates completion counts over all checklist rows.
func (s *SQLiteStore) ChecklistStats(ctx context.Context) (*types.ChecklistStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM checklists GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("query checklist stats: %w", err)
	}
	defer rows.Close()

	stats := types.ChecklistStats{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan checklist stats: %w", err)
		}
		stats.Total += count
		switch types.ChecklistStatus(status) {
		case types.StatusCompleted:
			stats.Completed = count
		case types.StatusInProgress:
			stats.InProgress = count
		case types.StatusPending:
			stats.Pending = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checklist stats: %w", err)
	}

	if stats.Total > 0 {
		rate := float64(stats.Completed) / float64(stats.Total) * 100
		// Round to one decimal place to match report formatting.
		stats.CompletionRate = float64(int(rate*10+0.5)) / 10
	}
	return &stats, nil
}

// CountChecklists returns the total number of checklist rows.
func (s *SQLiteStore) CountChecklists(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM checklists`).Scan(&count)
	return count, err
}
