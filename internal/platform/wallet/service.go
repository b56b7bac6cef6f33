package wallet

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Service provides business logic for wallet operations
type Service struct {
	repo Repository
}

// NewService creates a new wallet service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new active wallet
func (s *Service) Create(ctx context.Context, wallet *Wallet) (*Wallet, error) {
	if err := wallet.ValidateCreate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	exists, err := s.repo.ExistsByName(ctx, wallet.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check wallet existence: %w", err)
	}

	if exists {
		return nil, ErrDuplicateWalletName
	}

	wallet.ID = uuid.New()
	wallet.Active = true

	if err := s.repo.Create(ctx, wallet); err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	return wallet, nil
}

// GetByID retrieves a wallet by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Wallet, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves wallets; inactive ones only when asked
func (s *Service) List(ctx context.Context, includeInactive bool) ([]*Wallet, error) {
	wallets, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}

	return wallets, nil
}

// Update renames a wallet or changes its kind
func (s *Service) Update(ctx context.Context, wallet *Wallet) (*Wallet, error) {
	existing, err := s.repo.GetByID(ctx, wallet.ID)
	if err != nil {
		return nil, err
	}

	// Unset fields keep their current value
	if wallet.Name == "" {
		wallet.Name = existing.Name
	}
	if wallet.Kind == "" {
		wallet.Kind = existing.Kind
	}

	if err := wallet.ValidateUpdate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if !strings.EqualFold(wallet.Name, existing.Name) {
		exists, err := s.repo.ExistsByName(ctx, wallet.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to check wallet name: %w", err)
		}

		if exists {
			return nil, ErrDuplicateWalletName
		}
	}

	wallet.Active = existing.Active
	wallet.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, wallet); err != nil {
		return nil, fmt.Errorf("failed to update wallet: %w", err)
	}

	return wallet, nil
}

// Deactivate soft-deletes a wallet
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return fmt.Errorf("failed to deactivate wallet: %w", err)
	}

	return nil
}
