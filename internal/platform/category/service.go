package category

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kislikjeka/warungku/pkg/logger"
)

// Service manages the category registry
type Service struct {
	repo   Repository
	logger *logger.Logger
}

// NewService creates a new category service
func NewService(repo Repository, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: log.WithField("component", "category"),
	}
}

// Create adds a category
func (s *Service) Create(ctx context.Context, t Type, name string) (*Category, error) {
	c := &Category{Type: t, Name: name}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return c, nil
}

// List returns categories, filtered by type when t is non-nil
func (s *Service) List(ctx context.Context, t *Type) ([]*Category, error) {
	categories, err := s.repo.List(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Delete removes a category. Transactions keep the name they were recorded with.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// ResolveName picks the label stored on a transaction: the free-text name when
// given, otherwise the registry name for id. Lookup failures degrade to
// Uncategorized instead of failing the write.
func (s *Service) ResolveName(ctx context.Context, name string, id *int64) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}

	if id == nil {
		return Uncategorized
	}

	c, err := s.repo.GetByID(ctx, *id)
	if err != nil {
		if !errors.Is(err, ErrCategoryNotFound) {
			s.logger.WithContext(ctx).WithError(err).Warn("category lookup failed", "category_id", *id)
		}
		return Uncategorized
	}

	return c.Name
}
