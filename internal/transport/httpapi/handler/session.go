package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kislikjeka/warungku/internal/ledger"
	apperr "github.com/kislikjeka/warungku/internal/shared/errors"
	"github.com/kislikjeka/warungku/pkg/logger"
)

const dateLayout = "2006-01-02"

// SessionServiceInterface defines the session ledger operations
type SessionServiceInterface interface {
	OpenSession(ctx context.Context, in ledger.OpenSessionInput) (*ledger.Session, error)
	CloseSession(ctx context.Context, id uuid.UUID, in ledger.CloseSessionInput) (*ledger.Session, error)
	GetCurrentSession(ctx context.Context) (*ledger.Session, error)
	GetLastClosedSession(ctx context.Context) (*ledger.Session, error)
	GetSession(ctx context.Context, id uuid.UUID) (*ledger.Session, error)
	ListSessions(ctx context.Context, filters ledger.SessionFilters) ([]*ledger.Session, error)
	AdminUpdateSession(ctx context.Context, id uuid.UUID, in ledger.UpdateSessionInput) (*ledger.Session, error)
}

// SessionHandler handles cash session requests
type SessionHandler struct {
	sessions SessionServiceInterface
	log      *logger.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions SessionServiceInterface, log *logger.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, log: log}
}

// OpeningBalanceRequest is one wallet's starting figure
type OpeningBalanceRequest struct {
	WalletID       uuid.UUID `json:"wallet_id"`
	OpeningBalance Amount    `json:"opening_balance"`
}

// OpenSessionRequest is the body of POST /sessions/open
type OpenSessionRequest struct {
	OpeningBalances []OpeningBalanceRequest `json:"opening_balances"`
	Notes           string                  `json:"notes"`
}

// DeclaredBalanceRequest is one wallet's declared closing figure; a null value means not declared
type DeclaredBalanceRequest struct {
	WalletID uuid.UUID `json:"wallet_id"`
	Value    *Amount   `json:"value"`
}

// CashCountRequest is a denomination count of one drawer
type CashCountRequest struct {
	WalletID  uuid.UUID `json:"wallet_id"`
	Count100k int64     `json:"count_100k"`
	Count50k  int64     `json:"count_50k"`
	Count20k  int64     `json:"count_20k"`
	Count10k  int64     `json:"count_10k"`
}

// CloseSessionRequest is the body of POST /sessions/{id}/close
type CloseSessionRequest struct {
	Balances   []DeclaredBalanceRequest `json:"balances"`
	CashCounts []CashCountRequest       `json:"cash_counts"`
	Notes      *string                  `json:"notes"`
}

// UpdateSessionRequest is the body of the admin PUT /sessions/{id}
type UpdateSessionRequest struct {
	Date   *string `json:"date"`
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

// SessionResponse renders the session date as a calendar date
type SessionResponse struct {
	*ledger.Session
	Date string `json:"date"`
}

func toSessionResponse(s *ledger.Session) *SessionResponse {
	if s == nil {
		return nil
	}
	return &SessionResponse{Session: s, Date: s.Date.Format(dateLayout)}
}

// OpenSession handles POST /sessions/open
func (h *SessionHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	var req OpenSessionRequest
	if err := decodeJSON(r, &req, true); err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	openings := make(map[uuid.UUID]decimal.Decimal, len(req.OpeningBalances))
	for _, ob := range req.OpeningBalances {
		if ob.WalletID == uuid.Nil {
			respondAppError(w, r, h.log, apperr.Validation("opening_balances: wallet_id is required"))
			return
		}
		if _, dup := openings[ob.WalletID]; dup {
			respondAppError(w, r, h.log, apperr.Validation("opening_balances: wallet listed twice"))
			return
		}
		openings[ob.WalletID] = ob.OpeningBalance.Decimal
	}

	session, err := h.sessions.OpenSession(r.Context(), ledger.OpenSessionInput{
		OpeningBalances: openings,
		Notes:           req.Notes,
		OpenedBy:        callerID(r),
	})
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	respondJSON(w, toSessionResponse(session), http.StatusCreated)
}

// CloseSession handles POST /sessions/{id}/close
func (h *SessionHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}
	r = r.WithContext(logger.WithSessionID(r.Context(), id.String()))

	var req CloseSessionRequest
	if err := decodeJSON(r, &req, true); err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	in := ledger.CloseSessionInput{
		Notes:    req.Notes,
		ClosedBy: callerID(r),
	}
	for _, b := range req.Balances {
		in.Balances = append(in.Balances, ledger.DeclaredBalance{
			WalletID: b.WalletID,
			Value:    decimalPtr(b.Value),
		})
	}
	for _, c := range req.CashCounts {
		in.CashCounts = append(in.CashCounts, ledger.CashCount{
			WalletID:  c.WalletID,
			Count100k: c.Count100k,
			Count50k:  c.Count50k,
			Count20k:  c.Count20k,
			Count10k:  c.Count10k,
		})
	}

	session, err := h.sessions.CloseSession(r.Context(), id, in)
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	respondJSON(w, toSessionResponse(session), http.StatusOK)
}

// GetCurrentSession handles GET /sessions/current. No open session yields {"session": null}.
func (h *SessionHandler) GetCurrentSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.GetCurrentSession(r.Context())
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	respondJSON(w, map[string]interface{}{"session": toSessionResponse(session)}, http.StatusOK)
}

// GetLastClosedSession handles GET /sessions/last-closed
func (h *SessionHandler) GetLastClosedSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.GetLastClosedSession(r.Context())
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	respondJSON(w, map[string]interface{}{"session": toSessionResponse(session)}, http.StatusOK)
}

// GetSession handles GET /sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	session, err := h.sessions.GetSession(r.Context(), id)
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	respondJSON(w, toSessionResponse(session), http.StatusOK)
}

// ListSessions handles GET /sessions?start_date=&end_date=&status=&limit=&offset=
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filters ledger.SessionFilters

	var err error
	if filters.StartDate, err = queryDate(q.Get("start_date"), "start_date"); err != nil {
		respondAppError(w, r, h.log, err)
		return
	}
	if filters.EndDate, err = queryDate(q.Get("end_date"), "end_date"); err != nil {
		respondAppError(w, r, h.log, err)
		return
	}
	if filters.StartDate != nil && filters.EndDate != nil && filters.EndDate.Before(*filters.StartDate) {
		respondAppError(w, r, h.log, apperr.Validation("end_date must not be before start_date"))
		return
	}
	if raw := q.Get("status"); raw != "" {
		status, err := ledger.ParseSessionStatus(raw)
		if err != nil {
			respondAppError(w, r, h.log, err)
			return
		}
		filters.Status = &status
	}
	if filters.Limit, err = queryInt(r, "limit", 0); err != nil {
		respondAppError(w, r, h.log, err)
		return
	}
	if filters.Offset, err = queryInt(r, "offset", 0); err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	sessions, err := h.sessions.ListSessions(r.Context(), filters)
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	out := make([]*SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionResponse(s))
	}

	respondJSON(w, map[string]interface{}{"sessions": out}, http.StatusOK)
}

// UpdateSession handles the admin override PUT /sessions/{id}
func (h *SessionHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}
	r = r.WithContext(logger.WithSessionID(r.Context(), id.String()))

	var req UpdateSessionRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	var in ledger.UpdateSessionInput
	if req.Date != nil {
		if in.Date, err = queryDate(*req.Date, "date"); err != nil || in.Date == nil {
			respondAppError(w, r, h.log, apperr.Validation("invalid date, expected YYYY-MM-DD"))
			return
		}
	}
	if req.Status != nil {
		status, err := ledger.ParseSessionStatus(*req.Status)
		if err != nil {
			respondAppError(w, r, h.log, err)
			return
		}
		in.Status = &status
	}
	in.Notes = req.Notes

	session, err := h.sessions.AdminUpdateSession(r.Context(), id, in)
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	respondJSON(w, toSessionResponse(session), http.StatusOK)
}

// queryDate parses an optional YYYY-MM-DD value
func queryDate(raw, name string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, apperr.Validation("invalid " + name + ", expected YYYY-MM-DD")
	}
	return &t, nil
}
