package ledger

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kislikjeka/warungku/internal/platform/wallet"
	apperr "github.com/kislikjeka/warungku/internal/shared/errors"
	"github.com/kislikjeka/warungku/pkg/money"
)

// SessionStatus is the lifecycle state of a session. OPEN moves to CLOSED, never back,
// except through an explicit admin override.
type SessionStatus string

const (
	SessionOpen   SessionStatus = "OPEN"
	SessionClosed SessionStatus = "CLOSED"
)

// IsValid checks if the status is known
func (s SessionStatus) IsValid() bool {
	return s == SessionOpen || s == SessionClosed
}

// ParseSessionStatus parses a status string case-insensitively
func ParseSessionStatus(s string) (SessionStatus, error) {
	status := SessionStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", ErrInvalidSessionStatus
	}
	return status, nil
}

// Session is one accounting day
type Session struct {
	ID        uuid.UUID     `json:"id" db:"id"`
	Date      time.Time     `json:"date" db:"session_date"`
	Status    SessionStatus `json:"status" db:"status"`
	Notes     string        `json:"notes" db:"notes"`
	OpenedBy  *uuid.UUID    `json:"opened_by,omitempty" db:"opened_by"`
	ClosedBy  *uuid.UUID    `json:"closed_by,omitempty" db:"closed_by"`
	ClosedAt  *time.Time    `json:"closed_at,omitempty" db:"closed_at"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`

	Balances       []*SessionBalance    `json:"balances,omitempty"`
	Transactions   []*Transaction       `json:"transactions,omitempty"`
	CashCounts     []*CashCount         `json:"cash_counts,omitempty"`
	Reconciliation []ReconciliationLine `json:"reconciliation,omitempty"`
}

// IsOpen reports whether the session still accepts transactions
func (s *Session) IsOpen() bool {
	return s.Status == SessionOpen
}

// SessionBalance holds the per-wallet figures of a session.
// ClosingBalance is used by DIGITAL wallets, ActualBalance by PHYSICAL ones.
type SessionBalance struct {
	ID             uuid.UUID        `json:"id" db:"id"`
	SessionID      uuid.UUID        `json:"session_id" db:"session_id"`
	WalletID       uuid.UUID        `json:"wallet_id" db:"wallet_id"`
	WalletName     string           `json:"wallet_name" db:"wallet_name"`
	WalletKind     wallet.Kind      `json:"wallet_kind" db:"wallet_kind"`
	OpeningBalance decimal.Decimal  `json:"opening_balance" db:"opening_balance"`
	ClosingBalance *decimal.Decimal `json:"closing_balance" db:"closing_balance"`
	ActualBalance  *decimal.Decimal `json:"actual_balance" db:"actual_balance"`
	Reconciled     bool             `json:"reconciled" db:"reconciled"`
}

// Declared returns the closing figure that belongs to the wallet's kind
func (b *SessionBalance) Declared() *decimal.Decimal {
	if b.WalletKind == wallet.KindPhysical {
		return b.ActualBalance
	}
	return b.ClosingBalance
}

// SetDeclared writes v into the column that belongs to the wallet's kind and clears the other
func (b *SessionBalance) SetDeclared(v decimal.Decimal) {
	if b.WalletKind == wallet.KindPhysical {
		b.ActualBalance = &v
		b.ClosingBalance = nil
		return
	}
	b.ClosingBalance = &v
	b.ActualBalance = nil
}

// TransactionType is the kind of movement
type TransactionType string

const (
	TxTypeIncome   TransactionType = "INCOME"
	TxTypeExpense  TransactionType = "EXPENSE"
	TxTypeTransfer TransactionType = "TRANSFER"
)

// IsValid checks if the type is known
func (t TransactionType) IsValid() bool {
	switch t {
	case TxTypeIncome, TxTypeExpense, TxTypeTransfer:
		return true
	}
	return false
}

// ParseTransactionType parses a type string case-insensitively
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", ErrInvalidTransactionType
	}
	return t, nil
}

// MaxCategoryLength is the longest category label a transaction can carry
const MaxCategoryLength = 100

// Transaction is an immutable movement of money within a session
type Transaction struct {
	ID                    uuid.UUID       `json:"id" db:"id"`
	SessionID             uuid.UUID       `json:"session_id" db:"session_id"`
	Type                  TransactionType `json:"type" db:"type"`
	Category              string          `json:"category" db:"category"`
	CategoryID            *int64          `json:"category_id,omitempty" db:"category_id"`
	Amount                decimal.Decimal `json:"amount" db:"amount"`
	SourceWalletID        *uuid.UUID      `json:"source_wallet_id,omitempty" db:"source_wallet_id"`
	SourceWalletName      string          `json:"source_wallet_name,omitempty" db:"source_wallet_name"`
	DestinationWalletID   *uuid.UUID      `json:"destination_wallet_id,omitempty" db:"destination_wallet_id"`
	DestinationWalletName string          `json:"destination_wallet_name,omitempty" db:"destination_wallet_name"`
	Description           string          `json:"description" db:"description"`
	CreatedBy             *uuid.UUID      `json:"created_by,omitempty" db:"created_by"`
	OccurredAt            time.Time       `json:"occurred_at" db:"occurred_at"`
}

// Validate checks type, amount, category length and the wallet shape required by the type
func (t *Transaction) Validate() error {
	if !t.Type.IsValid() {
		return ErrInvalidTransactionType
	}
	if !money.IsPositive(t.Amount) {
		return ErrAmountNotPositive
	}
	if err := money.Validate(t.Amount); err != nil {
		return apperr.Validation(err.Error())
	}
	if utf8.RuneCountInString(t.Category) > MaxCategoryLength {
		return ErrCategoryTooLong
	}

	src, dst := t.SourceWalletID != nil, t.DestinationWalletID != nil
	switch t.Type {
	case TxTypeIncome:
		if !dst || src {
			return ErrIncomeShape
		}
	case TxTypeExpense:
		if !src || dst {
			return ErrExpenseShape
		}
	case TxTypeTransfer:
		if !src || !dst {
			return ErrTransferShape
		}
		if *t.SourceWalletID == *t.DestinationWalletID {
			return ErrTransferSameWallet
		}
	}
	return nil
}

// WalletIDs returns the wallets the transaction touches
func (t *Transaction) WalletIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, 2)
	if t.SourceWalletID != nil {
		ids = append(ids, *t.SourceWalletID)
	}
	if t.DestinationWalletID != nil {
		ids = append(ids, *t.DestinationWalletID)
	}
	return ids
}

// ReconciliationLine compares the theoretical and declared figures of one wallet at close
type ReconciliationLine struct {
	WalletID    uuid.UUID        `json:"wallet_id"`
	WalletName  string           `json:"wallet_name"`
	WalletKind  wallet.Kind      `json:"wallet_kind"`
	Opening     decimal.Decimal  `json:"opening"`
	Theoretical decimal.Decimal  `json:"theoretical"`
	Declared    *decimal.Decimal `json:"declared"`
	Variance    *decimal.Decimal `json:"variance"`
	Reconciled  bool             `json:"reconciled"`
}
