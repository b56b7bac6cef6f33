package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kislikjeka/warungku/internal/platform/category"
)

// AddTransactionInput describes a movement to append to the log.
// When SessionID is nil the open session is used.
type AddTransactionInput struct {
	Type                TransactionType
	Category            string
	CategoryID          *int64
	Amount              decimal.Decimal
	SourceWalletID      *uuid.UUID
	DestinationWalletID *uuid.UUID
	Description         string
	SessionID           *uuid.UUID
	CreatedBy           *uuid.UUID
}

// AddTransaction validates and appends a transaction. Balances are never stored on wallets;
// they are always derived from the log.
func (s *Service) AddTransaction(ctx context.Context, in AddTransactionInput) (*Transaction, error) {
	tx := &Transaction{
		ID:                  uuid.New(),
		Type:                in.Type,
		CategoryID:          in.CategoryID,
		Amount:              in.Amount,
		SourceWalletID:      in.SourceWalletID,
		DestinationWalletID: in.DestinationWalletID,
		Description:         in.Description,
		CreatedBy:           in.CreatedBy,
		OccurredAt:          s.now(),
	}

	tx.Category = category.Uncategorized
	if s.categories != nil {
		tx.Category = s.categories.ResolveName(ctx, in.Category, in.CategoryID)
	} else if in.Category != "" {
		tx.Category = in.Category
	}

	if err := tx.Validate(); err != nil {
		return nil, err
	}

	wallets, err := s.usableWallets(ctx, tx.WalletIDs())
	if err != nil {
		return nil, err
	}
	if tx.SourceWalletID != nil {
		tx.SourceWalletName = wallets[*tx.SourceWalletID].Name
	}
	if tx.DestinationWalletID != nil {
		tx.DestinationWalletName = wallets[*tx.DestinationWalletID].Name
	}

	err = s.inTx(ctx, func(txCtx context.Context) error {
		session, err := s.lockTargetSession(txCtx, in.SessionID)
		if err != nil {
			return err
		}
		tx.SessionID = session.ID

		if err := s.repo.CreateTransaction(txCtx, tx); err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.reports != nil {
		local := tx.OccurredAt.In(s.loc)
		s.reports.InvalidateMonth(ctx, local.Year(), local.Month())
	}

	s.logger.WithContext(ctx).Info("transaction recorded",
		"transaction_id", tx.ID,
		"session_id", tx.SessionID,
		"type", tx.Type,
		"amount", tx.Amount.String(),
		"category", tx.Category,
	)

	return tx, nil
}

// lockTargetSession share-locks the session a transaction is appended to so it cannot
// interleave with a close
func (s *Service) lockTargetSession(ctx context.Context, id *uuid.UUID) (*Session, error) {
	if id != nil {
		session, err := s.repo.GetSessionForShare(ctx, *id)
		if err != nil {
			return nil, err
		}
		if !session.IsOpen() {
			return nil, ErrSessionClosed
		}
		return session, nil
	}

	open, err := s.repo.GetOpenSession(ctx)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrNoOpenSession
		}
		return nil, fmt.Errorf("failed to get open session: %w", err)
	}

	session, err := s.repo.GetSessionForShare(ctx, open.ID)
	if err != nil {
		return nil, err
	}
	if !session.IsOpen() {
		return nil, ErrNoOpenSession
	}
	return session, nil
}

// ListTransactions lists transactions newest first
func (s *Service) ListTransactions(ctx context.Context, filters TransactionFilters) ([]*Transaction, error) {
	switch {
	case filters.Limit <= 0:
		filters.Limit = 100
	case filters.Limit > 500:
		filters.Limit = 500
	}
	txs, err := s.repo.ListTransactions(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}
