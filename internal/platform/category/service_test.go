package category_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/warungku/internal/platform/category"
	"github.com/kislikjeka/warungku/pkg/logger"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, c *category.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*category.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, t *category.Type) ([]*category.Category, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*category.Category), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestParseType(t *testing.T) {
	tests := []struct {
		input   string
		want    category.Type
		wantErr bool
	}{
		{"INCOME", category.TypeIncome, false},
		{"income_source", category.TypeIncome, false},
		{"EXPENSE", category.TypeExpense, false},
		{"EXPENSE_CATEGORY", category.TypeExpense, false},
		{"TRANSFER", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := category.ParseType(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, category.ErrInvalidType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	repo := new(MockRepository)
	repo.On("Create", ctx, mock.AnythingOfType("*category.Category")).Return(nil)
	svc := category.NewService(repo, logger.Discard())

	c, err := svc.Create(ctx, category.TypeExpense, "  Listrik ")
	require.NoError(t, err)
	assert.Equal(t, "Listrik", c.Name)

	_, err = svc.Create(ctx, category.TypeExpense, "")
	assert.ErrorIs(t, err, category.ErrMissingName)

	_, err = svc.Create(ctx, category.Type("TRANSFER"), "Pindah")
	assert.ErrorIs(t, err, category.ErrInvalidType)

	repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestService_ResolveName(t *testing.T) {
	ctx := context.Background()
	id := int64(7)

	t.Run("free text wins", func(t *testing.T) {
		repo := new(MockRepository)
		svc := category.NewService(repo, logger.Discard())

		assert.Equal(t, "Pulsa", svc.ResolveName(ctx, " Pulsa ", &id))
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("registry lookup", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByID", ctx, id).Return(&category.Category{ID: id, Type: category.TypeIncome, Name: "Penjualan"}, nil)
		svc := category.NewService(repo, logger.Discard())

		assert.Equal(t, "Penjualan", svc.ResolveName(ctx, "", &id))
	})

	t.Run("unknown id falls back", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByID", ctx, id).Return(nil, category.ErrCategoryNotFound)
		svc := category.NewService(repo, logger.Discard())

		assert.Equal(t, category.Uncategorized, svc.ResolveName(ctx, "", &id))
	})

	t.Run("lookup error falls back", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByID", ctx, id).Return(nil, errors.New("connection reset"))
		svc := category.NewService(repo, logger.Discard())

		assert.Equal(t, category.Uncategorized, svc.ResolveName(ctx, "", &id))
	})

	t.Run("nothing given", func(t *testing.T) {
		svc := category.NewService(new(MockRepository), logger.Discard())
		assert.Equal(t, category.Uncategorized, svc.ResolveName(ctx, "", nil))
	})
}
