package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TheoreticalBalance is the opening balance plus everything received minus everything sent,
// over the given transactions, for one wallet.
func TheoreticalBalance(opening decimal.Decimal, txs []*Transaction, walletID uuid.UUID) decimal.Decimal {
	balance := opening
	for _, tx := range txs {
		if tx.DestinationWalletID != nil && *tx.DestinationWalletID == walletID {
			balance = balance.Add(tx.Amount)
		}
		if tx.SourceWalletID != nil && *tx.SourceWalletID == walletID {
			balance = balance.Sub(tx.Amount)
		}
	}
	return balance
}

// TheoreticalBalances computes TheoreticalBalance for every balance row in one pass
func TheoreticalBalances(balances []*SessionBalance, txs []*Transaction) map[uuid.UUID]decimal.Decimal {
	out := make(map[uuid.UUID]decimal.Decimal, len(balances))
	for _, b := range balances {
		out[b.WalletID] = b.OpeningBalance
	}
	for _, tx := range txs {
		if tx.DestinationWalletID != nil {
			if v, ok := out[*tx.DestinationWalletID]; ok {
				out[*tx.DestinationWalletID] = v.Add(tx.Amount)
			}
		}
		if tx.SourceWalletID != nil {
			if v, ok := out[*tx.SourceWalletID]; ok {
				out[*tx.SourceWalletID] = v.Sub(tx.Amount)
			}
		}
	}
	return out
}

// settle decides the stored closing figure of a balance row.
// A missing or zero declaration falls back to the theoretical value and leaves the row
// unreconciled. A physical drawer backed by a cash count is reconciled even when the count is zero.
func settle(b *SessionBalance, declared *decimal.Decimal, counted bool, theoretical decimal.Decimal) {
	if declared == nil || (declared.IsZero() && !counted) {
		b.SetDeclared(theoretical)
		b.Reconciled = false
		return
	}
	b.SetDeclared(*declared)
	b.Reconciled = true
}

// patchUnreconciled applies the zero fallback to balances read back from storage
func patchUnreconciled(balances []*SessionBalance, theoretical map[uuid.UUID]decimal.Decimal) {
	for _, b := range balances {
		d := b.Declared()
		if b.Reconciled && d != nil {
			continue
		}
		if d == nil || d.IsZero() {
			b.SetDeclared(theoretical[b.WalletID])
		}
	}
}

// Reconcile builds one line per balance row comparing declared and theoretical figures
func Reconcile(balances []*SessionBalance, txs []*Transaction) []ReconciliationLine {
	theoretical := TheoreticalBalances(balances, txs)
	lines := make([]ReconciliationLine, 0, len(balances))
	for _, b := range balances {
		line := ReconciliationLine{
			WalletID:    b.WalletID,
			WalletName:  b.WalletName,
			WalletKind:  b.WalletKind,
			Opening:     b.OpeningBalance,
			Theoretical: theoretical[b.WalletID],
			Reconciled:  b.Reconciled,
		}
		if d := b.Declared(); d != nil && b.Reconciled {
			declared := *d
			variance := declared.Sub(line.Theoretical)
			line.Declared = &declared
			line.Variance = &variance
		}
		lines = append(lines, line)
	}
	return lines
}
