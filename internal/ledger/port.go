package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kislikjeka/warungku/internal/platform/wallet"
)

// Repository defines the interface for session and transaction persistence
type Repository interface {
	// Session operations. CreateSession and UpdateSession return ErrSessionAlreadyOpen
	// when the write would leave two sessions OPEN.
	CreateSession(ctx context.Context, s *Session) error
	GetSession(ctx context.Context, id uuid.UUID) (*Session, error)
	GetSessionForUpdate(ctx context.Context, id uuid.UUID) (*Session, error)
	GetSessionForShare(ctx context.Context, id uuid.UUID) (*Session, error)
	GetOpenSession(ctx context.Context) (*Session, error)
	GetLastClosedSession(ctx context.Context) (*Session, error)
	ListSessions(ctx context.Context, filters SessionFilters) ([]*Session, error)
	UpdateSession(ctx context.Context, s *Session) error

	// Balance operations
	CreateBalances(ctx context.Context, balances []*SessionBalance) error
	ListBalances(ctx context.Context, sessionID uuid.UUID) ([]*SessionBalance, error)
	UpsertClosingBalance(ctx context.Context, b *SessionBalance) error

	// Cash count operations; a close replaces whatever an earlier close stored
	ReplaceCashCounts(ctx context.Context, sessionID uuid.UUID, counts []*CashCount) error
	ListCashCounts(ctx context.Context, sessionID uuid.UUID) ([]*CashCount, error)

	// Transaction operations (append-only)
	CreateTransaction(ctx context.Context, tx *Transaction) error
	ListTransactions(ctx context.Context, filters TransactionFilters) ([]*Transaction, error)

	// Transaction management
	BeginTx(ctx context.Context) (context.Context, error)
	CommitTx(ctx context.Context) error
	RollbackTx(ctx context.Context) error
}

// WalletReader is the slice of the wallet registry the ledger needs
type WalletReader interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*wallet.Wallet, error)
	List(ctx context.Context, includeInactive bool) ([]*wallet.Wallet, error)
}

// CategoryResolver turns a free-text name or registry id into the stored category label
type CategoryResolver interface {
	ResolveName(ctx context.Context, name string, id *int64) string
}

// ReportInvalidator drops cached reports affected by a new transaction
type ReportInvalidator interface {
	InvalidateMonth(ctx context.Context, year int, month time.Month)
}

// SessionFilters defines filters for listing sessions. Dates are inclusive calendar days.
type SessionFilters struct {
	StartDate *time.Time
	EndDate   *time.Time
	Status    *SessionStatus
	Limit     int
	Offset    int
}

// TransactionFilters defines filters for listing transactions.
// From is inclusive, To is exclusive.
type TransactionFilters struct {
	SessionID *uuid.UUID
	Type      *TransactionType
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}
