package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kislikjeka/warungku/internal/platform/wallet"
)

// WalletRepository implements the wallet repository using PostgreSQL
type WalletRepository struct {
	txScope
}

// NewWalletRepository creates a new PostgreSQL wallet repository
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{txScope{pool: pool}}
}

const walletColumns = `id, name, kind, active, created_at, updated_at`

func scanWallet(row pgx.Row) (*wallet.Wallet, error) {
	w := &wallet.Wallet{}
	err := row.Scan(
		&w.ID,
		&w.Name,
		&w.Kind,
		&w.Active,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	return w, err
}

// Create creates a new wallet
func (r *WalletRepository) Create(ctx context.Context, w *wallet.Wallet) error {
	query := `
		INSERT INTO wallets (id, name, kind, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	now := time.Now()
	w.CreatedAt = now
	w.UpdatedAt = now

	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}

	_, err := r.getQueryer(ctx).Exec(ctx, query,
		w.ID,
		w.Name,
		string(w.Kind),
		w.Active,
		w.CreatedAt,
		w.UpdatedAt,
	)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return wallet.ErrDuplicateWalletName
		}
		return fmt.Errorf("failed to create wallet: %w", err)
	}

	return nil
}

// GetByID retrieves a wallet by ID
func (r *WalletRepository) GetByID(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`

	w, err := scanWallet(r.getQueryer(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, wallet.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	return w, nil
}

// GetByIDs retrieves the wallets with the given IDs. Unknown IDs are absent from the map.
func (r *WalletRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*wallet.Wallet, error) {
	result := make(map[uuid.UUID]*wallet.Wallet, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = ANY($1)`

	rows, err := r.getQueryer(ctx).Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallet: %w", err)
		}
		result[w.ID] = w
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wallets: %w", err)
	}

	return result, nil
}

// List retrieves wallets ordered by name
func (r *WalletRepository) List(ctx context.Context, includeInactive bool) ([]*wallet.Wallet, error) {
	query := `
		SELECT ` + walletColumns + `
		FROM wallets
		WHERE active OR $1
		ORDER BY LOWER(name)
	`

	rows, err := r.getQueryer(ctx).Query(ctx, query, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallets: %w", err)
	}
	defer rows.Close()

	wallets := make([]*wallet.Wallet, 0)
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallet: %w", err)
		}
		wallets = append(wallets, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wallets: %w", err)
	}

	return wallets, nil
}

// Update updates name and kind of a wallet
func (r *WalletRepository) Update(ctx context.Context, w *wallet.Wallet) error {
	query := `
		UPDATE wallets
		SET name = $2, kind = $3, updated_at = $4
		WHERE id = $1
	`

	w.UpdatedAt = time.Now()

	result, err := r.getQueryer(ctx).Exec(ctx, query, w.ID, w.Name, string(w.Kind), w.UpdatedAt)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return wallet.ErrDuplicateWalletName
		}
		return fmt.Errorf("failed to update wallet: %w", err)
	}

	if result.RowsAffected() == 0 {
		return wallet.ErrWalletNotFound
	}

	return nil
}

// SetActive flips the soft-delete flag
func (r *WalletRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE wallets SET active = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.getQueryer(ctx).Exec(ctx, query, id, active)
	if err != nil {
		return fmt.Errorf("failed to update wallet: %w", err)
	}

	if result.RowsAffected() == 0 {
		return wallet.ErrWalletNotFound
	}

	return nil
}

// ExistsByName checks case-insensitively whether a wallet name is taken
func (r *WalletRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM wallets WHERE LOWER(name) = LOWER($1))`

	var exists bool
	if err := r.getQueryer(ctx).QueryRow(ctx, query, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check wallet existence: %w", err)
	}

	return exists, nil
}
