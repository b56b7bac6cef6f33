package wallet

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for wallet data access
type Repository interface {
	// Create creates a new wallet
	Create(ctx context.Context, wallet *Wallet) error

	// GetByID retrieves a wallet by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Wallet, error)

	// GetByIDs retrieves the wallets with the given IDs, keyed by ID
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Wallet, error)

	// List retrieves wallets ordered by name
	List(ctx context.Context, includeInactive bool) ([]*Wallet, error)

	// Update updates name and kind of an existing wallet
	Update(ctx context.Context, wallet *Wallet) error

	// SetActive flips the soft-delete flag
	SetActive(ctx context.Context, id uuid.UUID, active bool) error

	// ExistsByName checks case-insensitively whether a wallet name is taken
	ExistsByName(ctx context.Context, name string) (bool, error)
}
