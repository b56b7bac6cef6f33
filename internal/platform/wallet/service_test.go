package wallet_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/warungku/internal/platform/wallet"
	apperr "github.com/kislikjeka/warungku/internal/shared/errors"
)

// MockRepository is a mock implementation of wallet.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, w *wallet.Wallet) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

func (m *MockRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*wallet.Wallet, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*wallet.Wallet), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, includeInactive bool) ([]*wallet.Wallet, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*wallet.Wallet), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, w *wallet.Wallet) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		wallet    *wallet.Wallet
		setupMock func(*MockRepository)
		wantErr   error
	}{
		{
			name:   "valid physical wallet",
			wallet: &wallet.Wallet{Name: "LACI1", Kind: wallet.KindPhysical},
			setupMock: func(m *MockRepository) {
				m.On("ExistsByName", ctx, "LACI1").Return(false, nil)
				m.On("Create", ctx, mock.AnythingOfType("*wallet.Wallet")).Return(nil)
			},
		},
		{
			name:   "name is trimmed before lookup",
			wallet: &wallet.Wallet{Name: "  DANA ", Kind: wallet.KindDigital},
			setupMock: func(m *MockRepository) {
				m.On("ExistsByName", ctx, "DANA").Return(false, nil)
				m.On("Create", ctx, mock.AnythingOfType("*wallet.Wallet")).Return(nil)
			},
		},
		{
			name:   "duplicate name",
			wallet: &wallet.Wallet{Name: "BRILINK", Kind: wallet.KindDigital},
			setupMock: func(m *MockRepository) {
				m.On("ExistsByName", ctx, "BRILINK").Return(true, nil)
			},
			wantErr: wallet.ErrDuplicateWalletName,
		},
		{
			name:      "missing name",
			wallet:    &wallet.Wallet{Name: "", Kind: wallet.KindDigital},
			setupMock: func(m *MockRepository) {},
			wantErr:   wallet.ErrMissingWalletName,
		},
		{
			name:      "invalid kind",
			wallet:    &wallet.Wallet{Name: "BANK", Kind: "CRYPTO"},
			setupMock: func(m *MockRepository) {},
			wantErr:   wallet.ErrInvalidKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			tt.setupMock(repo)
			svc := wallet.NewService(repo)

			created, err := svc.Create(ctx, tt.wallet)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Nil(t, created)
			} else {
				require.NoError(t, err)
				assert.NotEqual(t, uuid.Nil, created.ID)
				assert.True(t, created.Active)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestService_Create_ErrorCodes(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("ExistsByName", ctx, "LACI1").Return(true, nil)

	_, err := wallet.NewService(repo).Create(ctx, &wallet.Wallet{Name: "LACI1", Kind: wallet.KindPhysical})
	require.Error(t, err)
	assert.Equal(t, apperr.ErrCodeConflict, apperr.CodeOf(err))

	_, err = wallet.NewService(repo).Create(ctx, &wallet.Wallet{Name: "", Kind: wallet.KindPhysical})
	require.Error(t, err)
	assert.Equal(t, apperr.ErrCodeValidation, apperr.CodeOf(err))
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	existing := &wallet.Wallet{ID: id, Name: "LACI1", Kind: wallet.KindPhysical, Active: true}

	t.Run("rename to free name", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByID", ctx, id).Return(existing, nil)
		repo.On("ExistsByName", ctx, "LACI UTAMA").Return(false, nil)
		repo.On("Update", ctx, mock.AnythingOfType("*wallet.Wallet")).Return(nil)

		updated, err := wallet.NewService(repo).Update(ctx, &wallet.Wallet{ID: id, Name: "LACI UTAMA"})
		require.NoError(t, err)
		assert.Equal(t, "LACI UTAMA", updated.Name)
		assert.Equal(t, wallet.KindPhysical, updated.Kind)
		assert.True(t, updated.Active)
		repo.AssertExpectations(t)
	})

	t.Run("case change does not trip uniqueness", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByID", ctx, id).Return(existing, nil)
		repo.On("Update", ctx, mock.AnythingOfType("*wallet.Wallet")).Return(nil)

		_, err := wallet.NewService(repo).Update(ctx, &wallet.Wallet{ID: id, Name: "laci1"})
		require.NoError(t, err)
		repo.AssertNotCalled(t, "ExistsByName", mock.Anything, mock.Anything)
	})

	t.Run("rename to taken name", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByID", ctx, id).Return(existing, nil)
		repo.On("ExistsByName", ctx, "LACI2").Return(true, nil)

		_, err := wallet.NewService(repo).Update(ctx, &wallet.Wallet{ID: id, Name: "LACI2"})
		assert.ErrorIs(t, err, wallet.ErrDuplicateWalletName)
	})

	t.Run("unknown wallet", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByID", ctx, id).Return(nil, wallet.ErrWalletNotFound)

		_, err := wallet.NewService(repo).Update(ctx, &wallet.Wallet{ID: id, Name: "X"})
		assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
	})
}

func TestService_Deactivate(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	repo := new(MockRepository)
	repo.On("GetByID", ctx, id).Return(&wallet.Wallet{ID: id, Name: "DANA", Kind: wallet.KindDigital, Active: true}, nil)
	repo.On("SetActive", ctx, id, false).Return(nil)

	require.NoError(t, wallet.NewService(repo).Deactivate(ctx, id))
	repo.AssertExpectations(t)
}

func TestService_Deactivate_NotFound(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	repo := new(MockRepository)
	repo.On("GetByID", ctx, id).Return(nil, wallet.ErrWalletNotFound)

	err := wallet.NewService(repo).Deactivate(ctx, id)
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
	repo.AssertNotCalled(t, "SetActive", mock.Anything, mock.Anything, mock.Anything)
}

func TestParseKind(t *testing.T) {
	k, err := wallet.ParseKind(" digital ")
	require.NoError(t, err)
	assert.Equal(t, wallet.KindDigital, k)

	_, err = wallet.ParseKind("cash")
	assert.ErrorIs(t, err, wallet.ErrInvalidKind)
}

func TestWallet_EnsureUsable(t *testing.T) {
	w := &wallet.Wallet{Name: "LACI1", Kind: wallet.KindPhysical, Active: true}
	assert.NoError(t, w.EnsureUsable())
	assert.True(t, w.IsPhysical())

	w.Active = false
	assert.ErrorIs(t, w.EnsureUsable(), wallet.ErrWalletInactive)
}
