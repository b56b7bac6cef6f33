package report

import (
	"context"
	"time"

	"github.com/kislikjeka/warungku/internal/ledger"
)

// TransactionSource reads the transaction log
type TransactionSource interface {
	ListTransactions(ctx context.Context, filters ledger.TransactionFilters) ([]*ledger.Transaction, error)
}

// Cache stores rendered monthly reports.
// Every Invalidate bumps the month's version, and Set only stores a report built
// while that version was current.
type Cache interface {
	Get(ctx context.Context, year int, month time.Month) (*MonthlyReport, bool, error)
	Version(ctx context.Context, year int, month time.Month) (int64, error)
	Set(ctx context.Context, r *MonthlyReport, version int64) (bool, error)
	Invalidate(ctx context.Context, year int, month time.Month) error
}
