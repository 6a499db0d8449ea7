package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hyperengineering/copydesk/internal/types"
)

const copyColumns = `id, product_id, copy_type_id, content, version,
	is_best, ad_spend, created_at, updated_at`

func scanCopy(scanner interface{ Scan(...any) error }) (*types.GeneratedCopy, error) {
	var c types.GeneratedCopy
	var isBest int
	var adSpend sql.NullFloat64
	var createdAt, updatedAt string

	err := scanner.Scan(
		&c.ID,
		&c.ProductID,
		&c.CopyTypeID,
		&c.Content,
		&c.Version,
		&isBest,
		&adSpend,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.IsBest = isBest != 0
	if adSpend.Valid {
		c.AdSpend = &adSpend.Float64
	}
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)

	return &c, nil
}

func (s *SQLiteStore) queryCopies(ctx context.Context, query string, args ...any) ([]types.GeneratedCopy, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query copies: %w", err)
	}
	defer rows.Close()

	var out []types.GeneratedCopy
	for rows.Next() {
		c, err := scanCopy(rows)
		if err != nil {
			return nil, fmt.Errorf("scan copy: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// ListCopies returns generated copies, newest first, optionally
// filtered by product and copy type.
func (s *SQLiteStore) ListCopies(ctx context.Context, productID, copyTypeID string) ([]types.GeneratedCopy, error) {
	query := `SELECT ` + copyColumns + ` FROM generated_copies`
	var where []string
	var args []any
	if productID != "" {
		where = append(where, "product_id = ?")
		args = append(args, productID)
	}
	if copyTypeID != "" {
		where = append(where, "copy_type_id = ?")
		args = append(args, copyTypeID)
	}
	for i, cond := range where {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += ` ORDER BY created_at DESC`

	return s.queryCopies(ctx, query, args...)
}

// RecentCopies returns the most recently created copies.
func (s *SQLiteStore) RecentCopies(ctx context.Context, limit int) ([]types.GeneratedCopy, error) {
	return s.queryCopies(ctx,
		`SELECT `+copyColumns+` FROM generated_copies ORDER BY created_at DESC LIMIT ?`, limit)
}

// GetCopy retrieves a generated copy by ID.
func (s *SQLiteStore) GetCopy(ctx context.Context, id string) (*types.GeneratedCopy, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+copyColumns+` FROM generated_copies WHERE id = ?`, id)

	c, err := scanCopy(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan copy: %w", err)
	}
	return c, nil
}

// CreateCopy inserts a generated copy. The version is assigned as one
// past the highest existing version for the (product, copy type) pair.
func (s *SQLiteStore) CreateCopy(ctx context.Context, c types.GeneratedCopy) (*types.GeneratedCopy, error) {
	c.ID = newID()
	now := nowString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var maxVersion sql.NullInt64
	err = tx.QueryRowContext(ctx, `
		SELECT MAX(version) FROM generated_copies
		WHERE product_id = ? AND copy_type_id = ?
	`, c.ProductID, c.CopyTypeID).Scan(&maxVersion)
	if err != nil {
		return nil, fmt.Errorf("query max version: %w", err)
	}
	c.Version = int(maxVersion.Int64) + 1

	var adSpend sql.NullFloat64
	if c.AdSpend != nil {
		adSpend = sql.NullFloat64{Float64: *c.AdSpend, Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO generated_copies (id, product_id, copy_type_id, content,
			version, is_best, ad_spend, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?, ?)
	`, c.ID, c.ProductID, c.CopyTypeID, c.Content, c.Version, adSpend, now, now)
	if err != nil {
		return nil, fmt.Errorf("insert copy: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return s.GetCopy(ctx, c.ID)
}

// UpdateCopy overwrites a copy's mutable fields.
func (s *SQLiteStore) UpdateCopy(ctx context.Context, c types.GeneratedCopy) (*types.GeneratedCopy, error) {
	isBest := 0
	if c.IsBest {
		isBest = 1
	}
	var adSpend sql.NullFloat64
	if c.AdSpend != nil {
		adSpend = sql.NullFloat64{Float64: *c.AdSpend, Valid: true}
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE generated_copies
		SET content = ?, is_best = ?, ad_spend = ?, updated_at = ?
		WHERE id = ?
	`, c.Content, isBest, adSpend, nowString(), c.ID)
	if err != nil {
		return nil, fmt.Errorf("update copy: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return s.GetCopy(ctx, c.ID)
}

// DeleteCopy removes a generated copy by ID.
func (s *SQLiteStore) DeleteCopy(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM generated_copies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete copy: %w", err)
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

// ListBestCopies returns best-copy records, optionally for one month,
// with the underlying copy attached.
func (s *SQLiteStore) ListBestCopies(ctx context.Context, month string) ([]types.BestCopy, error) {
	query := `SELECT id, copy_id, month, ad_spend, created_at FROM best_copies`
	var args []any
	if month != "" {
		query += ` WHERE month = ?`
		args = append(args, month)
	}
	query += ` ORDER BY ad_spend DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query best copies: %w", err)
	}
	defer rows.Close()

	var out []types.BestCopy
	for rows.Next() {
		var b types.BestCopy
		var createdAt string
		if err := rows.Scan(&b.ID, &b.CopyID, &b.Month, &b.AdSpend, &createdAt); err != nil {
			return nil, fmt.Errorf("scan best copy: %w", err)
		}
		b.CreatedAt = parseTime(createdAt)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate best copies: %w", err)
	}

	for i := range out {
		c, err := s.GetCopy(ctx, out[i].CopyID)
		if err != nil {
			if err == ErrNotFound {
				continue
			}
			return nil, err
		}
		out[i].Copy = c
	}
	return out, nil
}

// CreateBestCopy records a monthly best performer and flags the copy.
func (s *SQLiteStore) CreateBestCopy(ctx context.Context, b types.BestCopy) (*types.BestCopy, error) {
	b.ID = newID()
	now := nowString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO best_copies (id, copy_id, month, ad_spend, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, b.ID, b.CopyID, b.Month, b.AdSpend, now)
	if err != nil {
		return nil, fmt.Errorf("insert best copy: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE generated_copies SET is_best = 1, updated_at = ? WHERE id = ?`,
		now, b.CopyID)
	if err != nil {
		return nil, fmt.Errorf("flag best copy: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	b.CreatedAt = parseTime(now)
	return &b, nil
}
