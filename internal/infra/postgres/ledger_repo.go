package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/kislikjeka/warungku/internal/ledger"
)

const singleOpenConstraint = "sessions_single_open"

// LedgerRepository implements ledger.Repository using PostgreSQL
type LedgerRepository struct {
	txScope
}

// NewLedgerRepository creates a new PostgreSQL ledger repository
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{txScope{pool: pool}}
}

// Session operations

const sessionColumns = `id, session_date, status, notes, opened_by, closed_by, closed_at, created_at, updated_at`

func scanSession(row pgx.Row) (*ledger.Session, error) {
	s := &ledger.Session{}
	err := row.Scan(
		&s.ID,
		&s.Date,
		&s.Status,
		&s.Notes,
		&s.OpenedBy,
		&s.ClosedBy,
		&s.ClosedAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

func mapSessionWriteError(err error, action string) error {
	if constraint, ok := uniqueViolation(err); ok && constraint == singleOpenConstraint {
		return ledger.ErrSessionAlreadyOpen
	}
	return fmt.Errorf("failed to %s session: %w", action, err)
}

// CreateSession inserts a session. A second OPEN session violates sessions_single_open.
func (r *LedgerRepository) CreateSession(ctx context.Context, s *ledger.Session) error {
	query := `
		INSERT INTO sessions (id, session_date, status, notes, opened_by, closed_by, closed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.getQueryer(ctx).Exec(ctx, query,
		s.ID,
		s.Date,
		string(s.Status),
		s.Notes,
		s.OpenedBy,
		s.ClosedBy,
		s.ClosedAt,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		return mapSessionWriteError(err, "create")
	}

	return nil
}

func (r *LedgerRepository) getSession(ctx context.Context, query string, args ...any) (*ledger.Session, error) {
	s, err := scanSession(r.getQueryer(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

// GetSession retrieves a session by ID
func (r *LedgerRepository) GetSession(ctx context.Context, id uuid.UUID) (*ledger.Session, error) {
	return r.getSession(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id)
}

// GetSessionForUpdate retrieves a session with an exclusive row lock
func (r *LedgerRepository) GetSessionForUpdate(ctx context.Context, id uuid.UUID) (*ledger.Session, error) {
	return r.getSession(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = $1 FOR UPDATE`, id)
}

// GetSessionForShare retrieves a session with a shared row lock
func (r *LedgerRepository) GetSessionForShare(ctx context.Context, id uuid.UUID) (*ledger.Session, error) {
	return r.getSession(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = $1 FOR SHARE`, id)
}

// GetOpenSession retrieves the OPEN session
func (r *LedgerRepository) GetOpenSession(ctx context.Context) (*ledger.Session, error) {
	return r.getSession(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE status = 'OPEN'`)
}

// GetLastClosedSession retrieves the most recently closed session
func (r *LedgerRepository) GetLastClosedSession(ctx context.Context) (*ledger.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE status = 'CLOSED'
		ORDER BY session_date DESC, closed_at DESC NULLS LAST
		LIMIT 1
	`
	return r.getSession(ctx, query)
}

// ListSessions lists sessions newest first
func (r *LedgerRepository) ListSessions(ctx context.Context, filters ledger.SessionFilters) ([]*ledger.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE ($1::date IS NULL OR session_date >= $1)
		  AND ($2::date IS NULL OR session_date <= $2)
		  AND ($3::text IS NULL OR status = $3)
		ORDER BY session_date DESC, created_at DESC
		LIMIT $4 OFFSET $5
	`

	var status *string
	if filters.Status != nil {
		s := string(*filters.Status)
		status = &s
	}

	rows, err := r.getQueryer(ctx).Query(ctx, query,
		filters.StartDate,
		filters.EndDate,
		status,
		limitArg(filters.Limit),
		filters.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]*ledger.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}

	return sessions, nil
}

// UpdateSession writes date, status, notes and close stamps
func (r *LedgerRepository) UpdateSession(ctx context.Context, s *ledger.Session) error {
	query := `
		UPDATE sessions
		SET session_date = $2, status = $3, notes = $4, closed_by = $5, closed_at = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.getQueryer(ctx).Exec(ctx, query,
		s.ID,
		s.Date,
		string(s.Status),
		s.Notes,
		s.ClosedBy,
		s.ClosedAt,
		s.UpdatedAt,
	)
	if err != nil {
		return mapSessionWriteError(err, "update")
	}

	if result.RowsAffected() == 0 {
		return ledger.ErrSessionNotFound
	}

	return nil
}

// Balance operations

// CreateBalances inserts the opening balance rows of a session
func (r *LedgerRepository) CreateBalances(ctx context.Context, balances []*ledger.SessionBalance) error {
	query := `
		INSERT INTO session_balances (id, session_id, wallet_id, wallet_kind, opening_balance, reconciled)
		VALUES ($1, $2, $3, $4, $5, FALSE)
	`

	q := r.getQueryer(ctx)
	for _, b := range balances {
		if _, err := q.Exec(ctx, query, b.ID, b.SessionID, b.WalletID, string(b.WalletKind), b.OpeningBalance); err != nil {
			return fmt.Errorf("failed to create balance for wallet %s: %w", b.WalletID, err)
		}
	}

	return nil
}

// ListBalances returns a session's balance rows ordered by wallet name.
// The kind is the one stored on the row, so later wallet edits do not move a declared figure.
func (r *LedgerRepository) ListBalances(ctx context.Context, sessionID uuid.UUID) ([]*ledger.SessionBalance, error) {
	query := `
		SELECT sb.id, sb.session_id, sb.wallet_id, w.name, sb.wallet_kind,
		       sb.opening_balance, sb.closing_balance, sb.actual_balance, sb.reconciled
		FROM session_balances sb
		JOIN wallets w ON w.id = sb.wallet_id
		WHERE sb.session_id = $1
		ORDER BY LOWER(w.name)
	`

	rows, err := r.getQueryer(ctx).Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query balances: %w", err)
	}
	defer rows.Close()

	balances := make([]*ledger.SessionBalance, 0)
	for rows.Next() {
		b := &ledger.SessionBalance{}
		var closing, actual decimal.NullDecimal
		err := rows.Scan(
			&b.ID,
			&b.SessionID,
			&b.WalletID,
			&b.WalletName,
			&b.WalletKind,
			&b.OpeningBalance,
			&closing,
			&actual,
			&b.Reconciled,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		b.ClosingBalance = nullableDecimal(closing)
		b.ActualBalance = nullableDecimal(actual)
		balances = append(balances, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating balances: %w", err)
	}

	return balances, nil
}

// UpsertClosingBalance writes the closing figures, creating the row when the session has none
func (r *LedgerRepository) UpsertClosingBalance(ctx context.Context, b *ledger.SessionBalance) error {
	query := `
		INSERT INTO session_balances (id, session_id, wallet_id, wallet_kind, opening_balance, closing_balance, actual_balance, reconciled)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (session_id, wallet_id) DO UPDATE
		SET wallet_kind = EXCLUDED.wallet_kind,
		    closing_balance = EXCLUDED.closing_balance,
		    actual_balance = EXCLUDED.actual_balance,
		    reconciled = EXCLUDED.reconciled
	`

	_, err := r.getQueryer(ctx).Exec(ctx, query,
		b.ID,
		b.SessionID,
		b.WalletID,
		string(b.WalletKind),
		b.OpeningBalance,
		b.ClosingBalance,
		b.ActualBalance,
		b.Reconciled,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert balance: %w", err)
	}

	return nil
}

// Cash count operations

// ReplaceCashCounts deletes the drawer counts a session already has and inserts counts.
// A session reopened by an admin keeps its old counts until it is closed again.
func (r *LedgerRepository) ReplaceCashCounts(ctx context.Context, sessionID uuid.UUID, counts []*ledger.CashCount) error {
	query := `
		INSERT INTO cash_counts (id, session_id, wallet_id, count_100k, count_50k, count_20k, count_10k)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	q := r.getQueryer(ctx)
	if _, err := q.Exec(ctx, `DELETE FROM cash_counts WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("failed to delete cash counts: %w", err)
	}

	for _, c := range counts {
		_, err := q.Exec(ctx, query, c.ID, c.SessionID, c.WalletID, c.Count100k, c.Count50k, c.Count20k, c.Count10k)
		if err != nil {
			if _, ok := uniqueViolation(err); ok {
				return ledger.ErrDuplicateCashCount
			}
			return fmt.Errorf("failed to create cash count: %w", err)
		}
	}

	return nil
}

// ListCashCounts returns the drawer counts of a session
func (r *LedgerRepository) ListCashCounts(ctx context.Context, sessionID uuid.UUID) ([]*ledger.CashCount, error) {
	query := `
		SELECT c.id, c.session_id, c.wallet_id, w.name,
		       c.count_100k, c.count_50k, c.count_20k, c.count_10k, c.total_amount
		FROM cash_counts c
		JOIN wallets w ON w.id = c.wallet_id
		WHERE c.session_id = $1
		ORDER BY LOWER(w.name)
	`

	rows, err := r.getQueryer(ctx).Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cash counts: %w", err)
	}
	defer rows.Close()

	counts := make([]*ledger.CashCount, 0)
	for rows.Next() {
		c := &ledger.CashCount{}
		err := rows.Scan(
			&c.ID,
			&c.SessionID,
			&c.WalletID,
			&c.WalletName,
			&c.Count100k,
			&c.Count50k,
			&c.Count20k,
			&c.Count10k,
			&c.TotalAmount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cash count: %w", err)
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash counts: %w", err)
	}

	return counts, nil
}

// Transaction operations

// CreateTransaction appends a transaction to the log
func (r *LedgerRepository) CreateTransaction(ctx context.Context, tx *ledger.Transaction) error {
	query := `
		INSERT INTO transactions (
			id, session_id, type, category, category_id, amount,
			source_wallet_id, destination_wallet_id, description, created_by, occurred_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.getQueryer(ctx).Exec(ctx, query,
		tx.ID,
		tx.SessionID,
		string(tx.Type),
		tx.Category,
		tx.CategoryID,
		tx.Amount,
		tx.SourceWalletID,
		tx.DestinationWalletID,
		tx.Description,
		tx.CreatedBy,
		tx.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// ListTransactions lists transactions newest first with wallet names attached.
// A zero Limit returns every matching row.
func (r *LedgerRepository) ListTransactions(ctx context.Context, filters ledger.TransactionFilters) ([]*ledger.Transaction, error) {
	query := `
		SELECT t.id, t.session_id, t.type, t.category, t.category_id, t.amount,
		       t.source_wallet_id, COALESCE(sw.name, ''),
		       t.destination_wallet_id, COALESCE(dw.name, ''),
		       t.description, t.created_by, t.occurred_at
		FROM transactions t
		LEFT JOIN wallets sw ON sw.id = t.source_wallet_id
		LEFT JOIN wallets dw ON dw.id = t.destination_wallet_id
		WHERE ($1::uuid IS NULL OR t.session_id = $1)
		  AND ($2::text IS NULL OR t.type = $2)
		  AND ($3::timestamptz IS NULL OR t.occurred_at >= $3)
		  AND ($4::timestamptz IS NULL OR t.occurred_at < $4)
		ORDER BY t.occurred_at DESC, t.id
		LIMIT $5 OFFSET $6
	`

	var txType *string
	if filters.Type != nil {
		s := string(*filters.Type)
		txType = &s
	}

	rows, err := r.getQueryer(ctx).Query(ctx, query,
		filters.SessionID,
		txType,
		filters.From,
		filters.To,
		limitArg(filters.Limit),
		filters.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]*ledger.Transaction, 0)
	for rows.Next() {
		tx := &ledger.Transaction{}
		err := rows.Scan(
			&tx.ID,
			&tx.SessionID,
			&tx.Type,
			&tx.Category,
			&tx.CategoryID,
			&tx.Amount,
			&tx.SourceWalletID,
			&tx.SourceWalletName,
			&tx.DestinationWalletID,
			&tx.DestinationWalletName,
			&tx.Description,
			&tx.CreatedBy,
			&tx.OccurredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return txs, nil
}

// limitArg maps a zero limit to NULL, which Postgres treats as LIMIT ALL
func limitArg(limit int) *int {
	if limit <= 0 {
		return nil
	}
	return &limit
}

func nullableDecimal(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

var _ ledger.Repository = (*LedgerRepository)(nil)

