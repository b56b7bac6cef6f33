package category

import "context"

// Repository defines the interface for category persistence
type Repository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, id int64) (*Category, error)
	// List returns categories ordered by name, optionally filtered by type
	List(ctx context.Context, t *Type) ([]*Category, error)
	Delete(ctx context.Context, id int64) error
}
