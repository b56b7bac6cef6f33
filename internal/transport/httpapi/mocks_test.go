package httpapi_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/kislikjeka/warungku/internal/ledger"
	"github.com/kislikjeka/warungku/internal/module/report"
	"github.com/kislikjeka/warungku/internal/platform/category"
	"github.com/kislikjeka/warungku/internal/platform/user"
	"github.com/kislikjeka/warungku/internal/platform/wallet"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, username, password string, role user.Role) (*user.User, error) {
	args := m.Called(ctx, username, password, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, username, password string) (*user.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context) ([]*user.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*user.User), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	args := m.Called(ctx, id, actorID)
	return args.Error(0)
}

type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) Create(ctx context.Context, w *wallet.Wallet) (*wallet.Wallet, error) {
	args := m.Called(ctx, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

func (m *MockWalletService) List(ctx context.Context, includeInactive bool) ([]*wallet.Wallet, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*wallet.Wallet), args.Error(1)
}

func (m *MockWalletService) GetByID(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

func (m *MockWalletService) Update(ctx context.Context, w *wallet.Wallet) (*wallet.Wallet, error) {
	args := m.Called(ctx, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

func (m *MockWalletService) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) Create(ctx context.Context, t category.Type, name string) (*category.Category, error) {
	args := m.Called(ctx, t, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

func (m *MockCategoryService) List(ctx context.Context, t *category.Type) ([]*category.Category, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*category.Category), args.Error(1)
}

func (m *MockCategoryService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockLedger serves both the session and transaction handlers
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) session(args mock.Arguments) (*ledger.Session, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Session), args.Error(1)
}

func (m *MockLedger) OpenSession(ctx context.Context, in ledger.OpenSessionInput) (*ledger.Session, error) {
	return m.session(m.Called(ctx, in))
}

func (m *MockLedger) CloseSession(ctx context.Context, id uuid.UUID, in ledger.CloseSessionInput) (*ledger.Session, error) {
	return m.session(m.Called(ctx, id, in))
}

func (m *MockLedger) GetCurrentSession(ctx context.Context) (*ledger.Session, error) {
	return m.session(m.Called(ctx))
}

func (m *MockLedger) GetLastClosedSession(ctx context.Context) (*ledger.Session, error) {
	return m.session(m.Called(ctx))
}

func (m *MockLedger) GetSession(ctx context.Context, id uuid.UUID) (*ledger.Session, error) {
	return m.session(m.Called(ctx, id))
}

func (m *MockLedger) ListSessions(ctx context.Context, filters ledger.SessionFilters) ([]*ledger.Session, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Session), args.Error(1)
}

func (m *MockLedger) AdminUpdateSession(ctx context.Context, id uuid.UUID, in ledger.UpdateSessionInput) (*ledger.Session, error) {
	return m.session(m.Called(ctx, id, in))
}

func (m *MockLedger) AddTransaction(ctx context.Context, in ledger.AddTransactionInput) (*ledger.Transaction, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Transaction), args.Error(1)
}

func (m *MockLedger) ListTransactions(ctx context.Context, filters ledger.TransactionFilters) ([]*ledger.Transaction, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Transaction), args.Error(1)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Monthly(ctx context.Context, year, month int) (*report.MonthlyReport, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.MonthlyReport), args.Error(1)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }
