package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hyperengineering/copydesk/internal/types"
)

const productColumns = `id, name, english_name, usp, mechanism, shape,
	appeal_points, features, herb_keywords, created_at, updated_at`

func scanProduct(scanner interface{ Scan(...any) error }) (*types.Product, error) {
	var p types.Product
	var englishName, usp, mechanism, shape sql.NullString
	var appealPoints, features, herbKeywords string
	var createdAt, updatedAt string

	err := scanner.Scan(
		&p.ID,
		&p.Name,
		&englishName,
		&usp,
		&mechanism,
		&shape,
		&appealPoints,
		&features,
		&herbKeywords,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.EnglishName = stringOr(englishName)
	p.USP = stringOr(usp)
	p.Mechanism = stringOr(mechanism)
	p.Shape = stringOr(shape)
	p.AppealPoints = unmarshalList(appealPoints)
	p.Features = unmarshalList(features)
	p.HerbKeywords = unmarshalList(herbKeywords)
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)

	return &p, nil
}

// ListProducts returns all products ordered by name.
func (s *SQLiteStore) ListProducts(ctx context.Context) ([]types.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []types.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// GetProduct retrieves a product by ID.
func (s *SQLiteStore) GetProduct(ctx context.Context, id string) (*types.Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id)

	p, err := scanProduct(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return p, nil
}

// CreateProduct inserts a new product and returns the stored row.
func (s *SQLiteStore) CreateProduct(ctx context.Context, p types.Product) (*types.Product, error) {
	p.ID = newID()
	now := nowString()

	appealPoints, err := marshalList(p.AppealPoints)
	if err != nil {
		return nil, err
	}
	features, err := marshalList(p.Features)
	if err != nil {
		return nil, err
	}
	herbKeywords, err := marshalList(p.HerbKeywords)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, english_name, usp, mechanism, shape,
			appeal_points, features, herb_keywords, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, nullString(p.EnglishName), nullString(p.USP),
		nullString(p.Mechanism), nullString(p.Shape),
		appealPoints, features, herbKeywords, now, now)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}

	return s.GetProduct(ctx, p.ID)
}

// UpdateProduct overwrites a product's mutable fields.
func (s *SQLiteStore) UpdateProduct(ctx context.Context, p types.Product) (*types.Product, error) {
	appealPoints, err := marshalList(p.AppealPoints)
	if err != nil {
		return nil, err
	}
	features, err := marshalList(p.Features)
	if err != nil {
		return nil, err
	}
	herbKeywords, err := marshalList(p.HerbKeywords)
	if err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = ?, english_name = ?, usp = ?, mechanism = ?, shape = ?,
			appeal_points = ?, features = ?, herb_keywords = ?, updated_at = ?
		WHERE id = ?
	`, p.Name, nullString(p.EnglishName), nullString(p.USP),
		nullString(p.Mechanism), nullString(p.Shape),
		appealPoints, features, herbKeywords, nowString(), p.ID)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return s.GetProduct(ctx, p.ID)
}

// DeleteProduct removes a product by ID.
func (s *SQLiteStore) DeleteProduct(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
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
