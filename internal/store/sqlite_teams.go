package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hyperengineering/copydesk/internal/types"
)

// ListTeams returns all teams ordered by name.
func (s *SQLiteStore) ListTeams(ctx context.Context) ([]types.Team, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM teams ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query teams: %w", err)
	}
	defer rows.Close()

	var teams []types.Team
	for rows.Next() {
		var t types.Team
		var createdAt string
		if err := rows.Scan(&t.ID, &t.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		t.CreatedAt = parseTime(createdAt)
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// CreateTeam inserts a new team.
func (s *SQLiteStore) CreateTeam(ctx context.Context, name string) (*types.Team, error) {
	t := types.Team{ID: newID(), Name: name}
	now := nowString()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO teams (id, name, created_at) VALUES (?, ?, ?)`,
		t.ID, t.Name, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert team: %w", err)
	}

	t.CreatedAt = parseTime(now)
	return &t, nil
}

// DeleteTeam removes a team by ID.
func (s *SQLiteStore) DeleteTeam(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM teams WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete team: %w", err)
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

const teamProductColumns = `id, team_id, product_id, active, created_at, updated_at`

func scanTeamProduct(scanner interface{ Scan(...any) error }) (*types.TeamProduct, error) {
	var tp types.TeamProduct
	var active int
	var createdAt, updatedAt string

	err := scanner.Scan(&tp.ID, &tp.TeamID, &tp.ProductID, &active, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	tp.Active = active != 0
	tp.CreatedAt = parseTime(createdAt)
	tp.UpdatedAt = parseTime(updatedAt)
	return &tp, nil
}

func (s *SQLiteStore) queryTeamProducts(ctx context.Context, query string, args ...any) ([]types.TeamProduct, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query team products: %w", err)
	}
	defer rows.Close()

	var out []types.TeamProduct
	for rows.Next() {
		tp, err := scanTeamProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan team product: %w", err)
		}
		out = append(out, *tp)
	}
	return out, rows.Err()
}

// ListTeamProducts returns every assignment regardless of active state.
func (s *SQLiteStore) ListTeamProducts(ctx context.Context) ([]types.TeamProduct, error) {
	return s.queryTeamProducts(ctx,
		`SELECT `+teamProductColumns+` FROM team_products ORDER BY created_at`)
}

// ActiveTeamProducts returns assignments participating in weekly
// checklist initialization.
func (s *SQLiteStore) ActiveTeamProducts(ctx context.Context) ([]types.TeamProduct, error) {
	return s.queryTeamProducts(ctx,
		`SELECT `+teamProductColumns+` FROM team_products WHERE active = 1 ORDER BY created_at`)
}

// CreateTeamProduct assigns a product to a team. New assignments start active.
func (s *SQLiteStore) CreateTeamProduct(ctx context.Context, teamID, productID string) (*types.TeamProduct, error) {
	id := newID()
	now := nowString()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO team_products (id, team_id, product_id, active, created_at, updated_at)
		VALUES (?, ?, ?, 1, ?, ?)
	`, id, teamID, productID, now, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert team product: %w", err)
	}

	return s.getTeamProduct(ctx, id)
}

// SetTeamProductActive toggles an assignment's participation in the weekly grid.
func (s *SQLiteStore) SetTeamProductActive(ctx context.Context, id string, active bool) (*types.TeamProduct, error) {
	activeInt := 0
	if active {
		activeInt = 1
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE team_products SET active = ?, updated_at = ? WHERE id = ?`,
		activeInt, nowString(), id)
	if err != nil {
		return nil, fmt.Errorf("update team product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return s.getTeamProduct(ctx, id)
}

// DeleteTeamProduct removes an assignment by ID.
func (s *SQLiteStore) DeleteTeamProduct(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM team_products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete team product: %w", err)
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

func (s *SQLiteStore) getTeamProduct(ctx context.Context, id string) (*types.TeamProduct, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+teamProductColumns+` FROM team_products WHERE id = ?`, id)

	tp, err := scanTeamProduct(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan team product: %w", err)
	}
	return tp, nil
}
