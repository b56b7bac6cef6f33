package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kislikjeka/warungku/internal/ledger"
)

// Aggregate rolls transactions up into a monthly report. The daily slice covers every
// day of the month. Transactions outside the month are ignored; the rest are listed oldest first.
func Aggregate(year int, month time.Month, loc *time.Location, txs []*ledger.Transaction) *MonthlyReport {
	days := DaysIn(year, month)
	daily := make([]DailyBucket, days)
	for i := range daily {
		daily[i] = DailyBucket{
			Day:     i + 1,
			Date:    time.Date(year, month, i+1, 0, 0, 0, 0, loc).Format(time.DateOnly),
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		}
	}

	summary := Summary{TotalIncome: decimal.Zero, TotalExpense: decimal.Zero}
	included := make([]*ledger.Transaction, 0, len(txs))

	for _, tx := range txs {
		local := tx.OccurredAt.In(loc)
		if local.Year() != year || local.Month() != month {
			continue
		}
		included = append(included, tx)

		bucket := &daily[local.Day()-1]
		switch tx.Type {
		case ledger.TxTypeIncome:
			summary.TotalIncome = summary.TotalIncome.Add(tx.Amount)
			bucket.Income = bucket.Income.Add(tx.Amount)
		case ledger.TxTypeExpense:
			summary.TotalExpense = summary.TotalExpense.Add(tx.Amount)
			bucket.Expense = bucket.Expense.Add(tx.Amount)
		}
	}
	summary.NetProfit = summary.TotalIncome.Sub(summary.TotalExpense)

	sort.SliceStable(included, func(i, j int) bool {
		return included[i].OccurredAt.Before(included[j].OccurredAt)
	})

	return &MonthlyReport{
		Year:         year,
		Month:        month,
		Summary:      summary,
		Daily:        daily,
		Transactions: included,
	}
}
