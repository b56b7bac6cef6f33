package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kislikjeka/warungku/internal/platform/category"
)

// CategoryRepository implements the category repository using PostgreSQL
type CategoryRepository struct {
	txScope
}

// NewCategoryRepository creates a new PostgreSQL category repository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{txScope{pool: pool}}
}

// Create inserts a category and fills in its serial ID
func (r *CategoryRepository) Create(ctx context.Context, c *category.Category) error {
	query := `
		INSERT INTO categories (type, name)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.getQueryer(ctx).QueryRow(ctx, query, string(c.Type), c.Name).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return category.ErrDuplicateCategory
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*category.Category, error) {
	query := `SELECT id, type, name, created_at FROM categories WHERE id = $1`

	c := &category.Category{}
	err := r.getQueryer(ctx).QueryRow(ctx, query, id).Scan(&c.ID, &c.Type, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return c, nil
}

// List returns categories ordered by name, optionally filtered by type
func (r *CategoryRepository) List(ctx context.Context, t *category.Type) ([]*category.Category, error) {
	query := `
		SELECT id, type, name, created_at
		FROM categories
		WHERE $1::text IS NULL OR type = $1
		ORDER BY type, name
	`

	var typeFilter *string
	if t != nil {
		s := string(*t)
		typeFilter = &s
	}

	rows, err := r.getQueryer(ctx).Query(ctx, query, typeFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*category.Category, 0)
	for rows.Next() {
		c := &category.Category{}
		if err := rows.Scan(&c.ID, &c.Type, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// Delete removes a category
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.getQueryer(ctx).Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	if result.RowsAffected() == 0 {
		return category.ErrCategoryNotFound
	}

	return nil
}
