package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kislikjeka/warungku/internal/ledger"
	apperr "github.com/kislikjeka/warungku/internal/shared/errors"
)

var (
	ErrInvalidMonth = apperr.Validation("month must be between 1 and 12")
	ErrInvalidYear  = apperr.Validation("year must be between 2000 and 9999")
)

// Summary holds the P&L totals of a period. Transfers are not P&L events.
type Summary struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	NetProfit    decimal.Decimal `json:"net_profit"`
}

// DailyBucket holds the income and expense of one calendar day
type DailyBucket struct {
	Day     int             `json:"day"`
	Date    string          `json:"date"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// MonthlyReport is the roll-up of one calendar month
type MonthlyReport struct {
	Year         int                   `json:"year"`
	Month        time.Month            `json:"month"`
	Summary      Summary               `json:"summary"`
	Daily        []DailyBucket         `json:"daily"`
	Transactions []*ledger.Transaction `json:"transactions"`
	GeneratedAt  time.Time             `json:"generated_at"`
}

// ValidatePeriod checks month and year ranges
func ValidatePeriod(year, month int) error {
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	if year < 2000 || year > 9999 {
		return ErrInvalidYear
	}
	return nil
}

// Window returns [first instant of the month, first instant of the next month) in loc
func Window(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// DaysIn returns the number of calendar days in the month
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
