package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kislikjeka/warungku/internal/ledger"
	apperr "github.com/kislikjeka/warungku/internal/shared/errors"
	"github.com/kislikjeka/warungku/pkg/logger"
)

// TransactionServiceInterface defines the transaction recorder operations
type TransactionServiceInterface interface {
	AddTransaction(ctx context.Context, in ledger.AddTransactionInput) (*ledger.Transaction, error)
	ListTransactions(ctx context.Context, filters ledger.TransactionFilters) ([]*ledger.Transaction, error)
}

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactions TransactionServiceInterface
	loc          *time.Location
	log          *logger.Logger
}

// NewTransactionHandler creates a new transaction handler. loc anchors date-only filters.
func NewTransactionHandler(transactions TransactionServiceInterface, loc *time.Location, log *logger.Logger) *TransactionHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &TransactionHandler{transactions: transactions, loc: loc, log: log}
}

// CreateTransactionRequest is the body of POST /transactions
type CreateTransactionRequest struct {
	Type                string     `json:"type"`
	Category            string     `json:"category"`
	CategoryID          *int64     `json:"category_id"`
	Amount              *Amount    `json:"amount"`
	SourceWalletID      *uuid.UUID `json:"source_wallet_id"`
	DestinationWalletID *uuid.UUID `json:"destination_wallet_id"`
	Description         string     `json:"description"`
	SessionID           *uuid.UUID `json:"session_id"`

	// older clients send from/to instead of source/destination
	FromWalletID *uuid.UUID `json:"from_wallet_id"`
	ToWalletID   *uuid.UUID `json:"to_wallet_id"`
}

// walletAlias merges a wallet field with its older alias. Both set to different wallets is rejected.
func walletAlias(field, alias *uuid.UUID, name string) (*uuid.UUID, error) {
	switch {
	case alias == nil:
		return field, nil
	case field == nil || *field == *alias:
		return alias, nil
	}
	return nil, apperr.Validation(name + " conflicts with its alias")
}

// CreateTransaction handles POST /transactions
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	txType, err := ledger.ParseTransactionType(req.Type)
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}
	if req.Amount == nil {
		respondAppError(w, r, h.log, apperr.Validation("amount is required"))
		return
	}
	source, err := walletAlias(req.SourceWalletID, req.FromWalletID, "source_wallet_id")
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}
	destination, err := walletAlias(req.DestinationWalletID, req.ToWalletID, "destination_wallet_id")
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	tx, err := h.transactions.AddTransaction(r.Context(), ledger.AddTransactionInput{
		Type:                txType,
		Category:            req.Category,
		CategoryID:          req.CategoryID,
		Amount:              req.Amount.Decimal,
		SourceWalletID:      source,
		DestinationWalletID: destination,
		Description:         req.Description,
		SessionID:           req.SessionID,
		CreatedBy:           callerID(r),
	})
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	respondJSON(w, tx, http.StatusCreated)
}

// GetTransactions handles GET /transactions?session_id=&type=&from=&to=&limit=&offset=
func (h *TransactionHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filters ledger.TransactionFilters

	if raw := q.Get("session_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondAppError(w, r, h.log, apperr.Validation("invalid session_id"))
			return
		}
		filters.SessionID = &id
	}
	if raw := q.Get("type"); raw != "" {
		t, err := ledger.ParseTransactionType(raw)
		if err != nil {
			respondAppError(w, r, h.log, err)
			return
		}
		filters.Type = &t
	}

	var err error
	if filters.From, err = h.parseBound(q.Get("from"), "from", false); err != nil {
		respondAppError(w, r, h.log, err)
		return
	}
	if filters.To, err = h.parseBound(q.Get("to"), "to", true); err != nil {
		respondAppError(w, r, h.log, err)
		return
	}
	if filters.Limit, err = queryInt(r, "limit", 0); err != nil {
		respondAppError(w, r, h.log, err)
		return
	}
	if filters.Offset, err = queryInt(r, "offset", 0); err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	txs, err := h.transactions.ListTransactions(r.Context(), filters)
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}
	if txs == nil {
		txs = []*ledger.Transaction{}
	}

	respondJSON(w, map[string]interface{}{"transactions": txs}, http.StatusOK)
}

// parseBound accepts RFC 3339 instants or YYYY-MM-DD dates in the handler's location.
// A date used as the upper bound includes that whole day.
func (h *TransactionHandler) parseBound(raw, name string, upper bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, h.loc)
	if err != nil {
		return nil, apperr.Validation("invalid " + name + ", expected YYYY-MM-DD or RFC 3339")
	}
	if upper {
		t = t.AddDate(0, 0, 1)
	}
	return &t, nil
}
