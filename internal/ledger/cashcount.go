package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kislikjeka/warungku/pkg/money"
)

// Banknote denominations accepted by the drawer count, in rupiah
const (
	Denomination100k = 100000
	Denomination50k  = 50000
	Denomination20k  = 20000
	Denomination10k  = 10000
)

// CashCount is a denomination tally of one physical drawer at close
type CashCount struct {
	ID         uuid.UUID `json:"id" db:"id"`
	SessionID  uuid.UUID `json:"session_id" db:"session_id"`
	WalletID   uuid.UUID `json:"wallet_id" db:"wallet_id"`
	WalletName string    `json:"wallet_name,omitempty" db:"wallet_name"`
	Count100k  int64     `json:"count_100k" db:"count_100k"`
	Count50k   int64     `json:"count_50k" db:"count_50k"`
	Count20k   int64     `json:"count_20k" db:"count_20k"`
	Count10k   int64     `json:"count_10k" db:"count_10k"`

	// TotalAmount mirrors the generated column; always equal to Total()
	TotalAmount decimal.Decimal `json:"total_amount" db:"total_amount"`
}

// Total is the value of the counted notes
func (c *CashCount) Total() decimal.Decimal {
	return decimal.NewFromInt(c.Count100k).Mul(decimal.NewFromInt(Denomination100k)).
		Add(decimal.NewFromInt(c.Count50k).Mul(decimal.NewFromInt(Denomination50k))).
		Add(decimal.NewFromInt(c.Count20k).Mul(decimal.NewFromInt(Denomination20k))).
		Add(decimal.NewFromInt(c.Count10k).Mul(decimal.NewFromInt(Denomination10k)))
}

// Validate rejects negative counts and totals the balance columns cannot hold
func (c *CashCount) Validate() error {
	if c.Count100k < 0 || c.Count50k < 0 || c.Count20k < 0 || c.Count10k < 0 {
		return ErrNegativeCount
	}
	if err := money.Validate(c.Total()); err != nil {
		return ErrCashCountTooLarge
	}
	return nil
}
