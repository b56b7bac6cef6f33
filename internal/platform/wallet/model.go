package wallet

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes cash drawers from balances held elsewhere
type Kind string

const (
	KindPhysical Kind = "PHYSICAL" // Cash drawer, reconciled by counting notes
	KindDigital  Kind = "DIGITAL"  // E-wallet or bank, reconciled by reading the balance
)

// IsValid checks if the kind is valid
func (k Kind) IsValid() bool {
	switch k {
	case KindPhysical, KindDigital:
		return true
	}
	return false
}

// ParseKind normalizes user input into a Kind
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", ErrInvalidKind
	}
	return k, nil
}

// Wallet is a named account money moves in and out of.
// Wallets are never hard-deleted because historical transactions reference them.
type Wallet struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Kind      Kind      `json:"kind" db:"kind"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsPhysical reports whether the wallet is a cash drawer
func (w *Wallet) IsPhysical() bool {
	return w.Kind == KindPhysical
}

// ValidateCreate validates wallet fields for creation
func (w *Wallet) ValidateCreate() error {
	w.Name = strings.TrimSpace(w.Name)

	if w.Name == "" {
		return ErrMissingWalletName
	}

	if len(w.Name) > 100 {
		return ErrWalletNameTooLong
	}

	if !w.Kind.IsValid() {
		return ErrInvalidKind
	}

	return nil
}

// ValidateUpdate validates wallet fields for updates
func (w *Wallet) ValidateUpdate() error {
	if w.ID == uuid.Nil {
		return ErrInvalidWalletID
	}

	return w.ValidateCreate()
}

// EnsureUsable returns an error when the wallet cannot take new movements
func (w *Wallet) EnsureUsable() error {
	if !w.Active {
		return ErrWalletInactive
	}
	return nil
}
