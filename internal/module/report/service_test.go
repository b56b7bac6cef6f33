package report_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/warungku/internal/ledger"
	"github.com/kislikjeka/warungku/internal/module/report"
	"github.com/kislikjeka/warungku/pkg/logger"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) ListTransactions(ctx context.Context, filters ledger.TransactionFilters) ([]*ledger.Transaction, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Transaction), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, year int, month time.Month) (*report.MonthlyReport, bool, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*report.MonthlyReport), args.Bool(1), args.Error(2)
}

func (m *MockCache) Version(ctx context.Context, year int, month time.Month) (int64, error) {
	args := m.Called(ctx, year, month)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, r *report.MonthlyReport, version int64) (bool, error) {
	args := m.Called(ctx, r, version)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Invalidate(ctx context.Context, year int, month time.Month) error {
	return m.Called(ctx, year, month).Error(0)
}

func windowFilter(year int, month time.Month) interface{} {
	from, to := report.Window(year, month, jakarta)
	return mock.MatchedBy(func(f ledger.TransactionFilters) bool {
		return f.From != nil && f.To != nil && f.From.Equal(from) && f.To.Equal(to) && f.SessionID == nil
	})
}

func TestService_Monthly(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2024, time.July, 3, 10, 0, 0, 0, jakarta)

	t.Run("cache miss loads and stores", func(t *testing.T) {
		source := new(MockSource)
		cache := new(MockCache)
		source.On("ListTransactions", ctx, windowFilter(2024, time.July)).
			Return([]*ledger.Transaction{tx(ledger.TxTypeIncome, 20000, day)}, nil)
		cache.On("Get", ctx, 2024, time.July).Return(nil, false, nil)
		cache.On("Version", ctx, 2024, time.July).Return(int64(3), nil)
		cache.On("Set", ctx, mock.AnythingOfType("*report.MonthlyReport"), int64(3)).Return(true, nil)

		svc := report.NewService(source, cache, jakarta, logger.Discard())
		r, err := svc.Monthly(ctx, 2024, 7)
		require.NoError(t, err)

		assert.True(t, r.Summary.TotalIncome.Equal(decimal.NewFromInt(20000)))
		assert.Len(t, r.Daily, 31)
		assert.False(t, r.GeneratedAt.IsZero())
		cache.AssertExpectations(t)
	})

	t.Run("cache hit skips the database", func(t *testing.T) {
		source := new(MockSource)
		cache := new(MockCache)
		cached := &report.MonthlyReport{Year: 2024, Month: time.July}
		cache.On("Get", ctx, 2024, time.July).Return(cached, true, nil)

		svc := report.NewService(source, cache, jakarta, logger.Discard())
		r, err := svc.Monthly(ctx, 2024, 7)
		require.NoError(t, err)

		assert.Same(t, cached, r)
		source.AssertNotCalled(t, "ListTransactions", mock.Anything, mock.Anything)
	})

	t.Run("cache failures never fail the request", func(t *testing.T) {
		source := new(MockSource)
		cache := new(MockCache)
		source.On("ListTransactions", ctx, mock.Anything).Return([]*ledger.Transaction{}, nil)
		cache.On("Get", ctx, 2024, time.July).Return(nil, false, errors.New("connection refused"))
		cache.On("Version", ctx, 2024, time.July).Return(int64(0), nil)
		cache.On("Set", ctx, mock.Anything, int64(0)).Return(false, errors.New("connection refused"))

		svc := report.NewService(source, cache, jakarta, logger.Discard())
		_, err := svc.Monthly(ctx, 2024, 7)
		assert.NoError(t, err)
	})

	t.Run("version read before the transactions are loaded", func(t *testing.T) {
		source := new(MockSource)
		cache := new(MockCache)
		var order []string
		cache.On("Get", ctx, 2024, time.July).Return(nil, false, nil)
		cache.On("Version", ctx, 2024, time.July).
			Run(func(mock.Arguments) { order = append(order, "version") }).
			Return(int64(7), nil)
		source.On("ListTransactions", ctx, mock.Anything).
			Run(func(mock.Arguments) { order = append(order, "load") }).
			Return([]*ledger.Transaction{}, nil)
		// the month was invalidated while the report was being built
		cache.On("Set", ctx, mock.Anything, int64(7)).Return(false, nil)

		svc := report.NewService(source, cache, jakarta, logger.Discard())
		r, err := svc.Monthly(ctx, 2024, 7)
		require.NoError(t, err)
		assert.NotNil(t, r)
		assert.Equal(t, []string{"version", "load"}, order)
		cache.AssertExpectations(t)
	})

	t.Run("unknown version skips the cache write", func(t *testing.T) {
		source := new(MockSource)
		cache := new(MockCache)
		cache.On("Get", ctx, 2024, time.July).Return(nil, false, nil)
		cache.On("Version", ctx, 2024, time.July).Return(int64(0), errors.New("timeout"))
		source.On("ListTransactions", ctx, mock.Anything).Return([]*ledger.Transaction{}, nil)

		svc := report.NewService(source, cache, jakarta, logger.Discard())
		_, err := svc.Monthly(ctx, 2024, 7)
		require.NoError(t, err)
		cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("works without a cache", func(t *testing.T) {
		source := new(MockSource)
		source.On("ListTransactions", ctx, mock.Anything).Return([]*ledger.Transaction{}, nil)

		svc := report.NewService(source, nil, jakarta, logger.Discard())
		r, err := svc.Monthly(ctx, 2023, 2)
		require.NoError(t, err)
		assert.Len(t, r.Daily, 28)

		svc.InvalidateMonth(ctx, 2023, time.February)
	})

	t.Run("invalid period", func(t *testing.T) {
		svc := report.NewService(new(MockSource), nil, jakarta, logger.Discard())
		_, err := svc.Monthly(ctx, 2024, 13)
		assert.ErrorIs(t, err, report.ErrInvalidMonth)
	})

	t.Run("source error", func(t *testing.T) {
		source := new(MockSource)
		source.On("ListTransactions", ctx, mock.Anything).Return(nil, errors.New("boom"))

		svc := report.NewService(source, nil, jakarta, logger.Discard())
		_, err := svc.Monthly(ctx, 2024, 7)
		assert.Error(t, err)
	})
}

func TestService_InvalidateMonth(t *testing.T) {
	ctx := context.Background()
	cache := new(MockCache)
	cache.On("Invalidate", ctx, 2024, time.July).Return(errors.New("timeout")).Once()

	svc := report.NewService(new(MockSource), cache, jakarta, logger.Discard())
	svc.InvalidateMonth(ctx, 2024, time.July)

	cache.AssertExpectations(t)
}

func TestRenderPDF(t *testing.T) {
	day := time.Date(2024, time.July, 3, 10, 0, 0, 0, jakarta)
	r := report.Aggregate(2024, time.July, jakarta, []*ledger.Transaction{
		tx(ledger.TxTypeIncome, 1250000, day),
		tx(ledger.TxTypeExpense, 300000, day),
	})
	r.GeneratedAt = day

	var buf bytes.Buffer
	require.NoError(t, report.RenderPDF(&buf, r))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Equal(t, "Laporan Bulanan Juli 2024", r.Title())
}
