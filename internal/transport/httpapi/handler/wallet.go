package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/kislikjeka/warungku/internal/platform/wallet"
	apperr "github.com/kislikjeka/warungku/internal/shared/errors"
	"github.com/kislikjeka/warungku/pkg/logger"
)

// WalletServiceInterface defines the interface for wallet operations
type WalletServiceInterface interface {
	Create(ctx context.Context, w *wallet.Wallet) (*wallet.Wallet, error)
	List(ctx context.Context, includeInactive bool) ([]*wallet.Wallet, error)
	GetByID(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error)
	Update(ctx context.Context, w *wallet.Wallet) (*wallet.Wallet, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// WalletHandler handles wallet-related HTTP requests
type WalletHandler struct {
	walletService WalletServiceInterface
	log           *logger.Logger
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(walletService WalletServiceInterface, log *logger.Logger) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		log:           log,
	}
}

// WalletRequest is the body of wallet create and update.
// Type is accepted as an alias of Kind for older clients.
type WalletRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Type string `json:"type"`
}

func (req WalletRequest) kind() (wallet.Kind, error) {
	raw := req.Kind
	if raw == "" {
		raw = req.Type
	}
	if raw == "" {
		return "", nil
	}
	return wallet.ParseKind(raw)
}

// WalletsListResponse represents the response for listing wallets
type WalletsListResponse struct {
	Wallets []*wallet.Wallet `json:"wallets"`
}

// CreateWallet handles POST /wallets
func (h *WalletHandler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	var req WalletRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	kind, err := req.kind()
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}
	if kind == "" {
		respondAppError(w, r, h.log, wallet.ErrInvalidKind)
		return
	}

	created, err := h.walletService.Create(r.Context(), &wallet.Wallet{Name: req.Name, Kind: kind})
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	respondJSON(w, created, http.StatusCreated)
}

// GetWallets handles GET /wallets?include_inactive=true
func (h *WalletHandler) GetWallets(w http.ResponseWriter, r *http.Request) {
	includeInactive := false
	if raw := r.URL.Query().Get("include_inactive"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			respondAppError(w, r, h.log, apperr.Validation("invalid include_inactive"))
			return
		}
		includeInactive = v
	}

	wallets, err := h.walletService.List(r.Context(), includeInactive)
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}
	if wallets == nil {
		wallets = []*wallet.Wallet{}
	}

	respondJSON(w, WalletsListResponse{Wallets: wallets}, http.StatusOK)
}

// GetWallet handles GET /wallets/{id}
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	wlt, err := h.walletService.GetByID(r.Context(), id)
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	respondJSON(w, wlt, http.StatusOK)
}

// UpdateWallet handles PUT /wallets/{id}
func (h *WalletHandler) UpdateWallet(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	var req WalletRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	kind, err := req.kind()
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	updated, err := h.walletService.Update(r.Context(), &wallet.Wallet{ID: id, Name: req.Name, Kind: kind})
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	respondJSON(w, updated, http.StatusOK)
}

// DeleteWallet handles DELETE /wallets/{id}. Wallets are deactivated, never removed.
func (h *WalletHandler) DeleteWallet(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	if err := h.walletService.Deactivate(r.Context(), id); err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
