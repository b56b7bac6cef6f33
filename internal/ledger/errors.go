package ledger

import apperr "github.com/kislikjeka/warungku/internal/shared/errors"

// Session errors
var (
	ErrSessionAlreadyOpen     = apperr.Conflict("session already open")
	ErrSessionNotFound        = apperr.NotFound("session")
	ErrSessionClosed          = apperr.InvalidState("session is closed")
	ErrNoOpenSession          = apperr.Precondition("no open session")
	ErrInvalidSessionStatus   = apperr.Validation("status must be OPEN or CLOSED")
	ErrNegativeOpeningBalance = apperr.Validation("opening balance cannot be negative")
	ErrNegativeDeclaredValue  = apperr.Validation("declared balance cannot be negative")
	ErrDuplicateBalance       = apperr.Validation("wallet listed more than once")
)

// Cash count errors
var (
	ErrNegativeCount        = apperr.Validation("denomination counts cannot be negative")
	ErrDuplicateCashCount   = apperr.Validation("only one cash count per drawer is allowed")
	ErrCashCountNotPhysical = apperr.Validation("cash counts are only accepted for physical wallets")
	ErrCashCountMismatch    = apperr.Validation("cash count total does not match declared actual balance")
	ErrCashCountTooLarge    = apperr.Validation("cash count total exceeds the maximum amount")
)

// Transaction errors
var (
	ErrInvalidTransactionType = apperr.Validation("type must be INCOME, EXPENSE or TRANSFER")
	ErrAmountNotPositive      = apperr.Validation("amount must be greater than zero")
	ErrIncomeShape            = apperr.Validation("income requires a destination wallet and no source wallet")
	ErrExpenseShape           = apperr.Validation("expense requires a source wallet and no destination wallet")
	ErrTransferShape          = apperr.Validation("transfer requires both source and destination wallets")
	ErrTransferSameWallet     = apperr.Validation("transfer source and destination must differ")
	ErrCategoryTooLong        = apperr.Validation("category must be at most 100 characters")
)
