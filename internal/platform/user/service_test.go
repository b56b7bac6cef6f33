package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/warungku/internal/platform/user"
	"github.com/kislikjeka/warungku/pkg/logger"
)

// MockRepository is a mock implementation of user.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]*user.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*user.User), args.Error(1)
}

func (m *MockRepository) UpdateLastLogin(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) Exists(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func newService(repo *MockRepository) *user.Service {
	return user.NewService(repo, logger.Discard())
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to kasir", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Exists", ctx, "siti").Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*user.User")).Return(nil)

		u, err := newService(repo).Register(ctx, "siti", "rahasia123", "")
		require.NoError(t, err)
		assert.Equal(t, user.RoleKasir, u.Role)
		assert.NotEqual(t, "rahasia123", u.PasswordHash)
		assert.NoError(t, u.CheckPassword("rahasia123"))
		repo.AssertExpectations(t)
	})

	t.Run("duplicate username", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Exists", ctx, "admin").Return(true, nil)

		_, err := newService(repo).Register(ctx, "admin", "rahasia123", user.RoleAdmin)
		assert.ErrorIs(t, err, user.ErrUserAlreadyExists)
	})

	t.Run("short password", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Exists", ctx, "budi").Return(false, nil)

		_, err := newService(repo).Register(ctx, "budi", "123", user.RoleKasir)
		assert.ErrorIs(t, err, user.ErrPasswordTooShort)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("invalid username", func(t *testing.T) {
		repo := new(MockRepository)

		_, err := newService(repo).Register(ctx, "a b", "rahasia123", user.RoleKasir)
		assert.ErrorIs(t, err, user.ErrInvalidUsername)
	})

	t.Run("invalid role", func(t *testing.T) {
		repo := new(MockRepository)

		_, err := newService(repo).Register(ctx, "budi", "rahasia123", user.Role("OWNER"))
		assert.ErrorIs(t, err, user.ErrInvalidRole)
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	stored := &user.User{ID: uuid.New(), Username: "siti", Role: user.RoleKasir}
	require.NoError(t, stored.SetPassword("rahasia123"))

	t.Run("valid credentials", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByUsername", ctx, "siti").Return(stored, nil)
		repo.On("UpdateLastLogin", ctx, stored).Return(nil)

		u, err := newService(repo).Login(ctx, "siti", "rahasia123")
		require.NoError(t, err)
		assert.Equal(t, stored.ID, u.ID)
		assert.NotNil(t, u.LastLoginAt)
	})

	t.Run("last login failure does not fail login", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByUsername", ctx, "siti").Return(stored, nil)
		repo.On("UpdateLastLogin", ctx, stored).Return(errors.New("db down"))

		_, err := newService(repo).Login(ctx, "siti", "rahasia123")
		assert.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByUsername", ctx, "siti").Return(stored, nil)

		_, err := newService(repo).Login(ctx, "siti", "salah")
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("unknown user looks like wrong password", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByUsername", ctx, "ghost").Return(nil, user.ErrUserNotFound)

		_, err := newService(repo).Login(ctx, "ghost", "whatever")
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()
	target := uuid.New()

	t.Run("cannot delete self", func(t *testing.T) {
		repo := new(MockRepository)
		err := newService(repo).Delete(ctx, actor, actor)
		assert.ErrorIs(t, err, user.ErrCannotDeleteSelf)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("deletes other user", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Delete", ctx, target).Return(nil)
		require.NoError(t, newService(repo).Delete(ctx, target, actor))
		repo.AssertExpectations(t)
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Delete", ctx, target).Return(user.ErrUserNotFound)
		assert.ErrorIs(t, newService(repo).Delete(ctx, target, actor), user.ErrUserNotFound)
	})
}

func TestParseRole(t *testing.T) {
	r, err := user.ParseRole("")
	require.NoError(t, err)
	assert.Equal(t, user.RoleKasir, r)

	r, err = user.ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, r)

	_, err = user.ParseRole("owner")
	assert.ErrorIs(t, err, user.ErrInvalidRole)
}
