package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/kislikjeka/warungku/internal/platform/wallet"
	apperr "github.com/kislikjeka/warungku/internal/shared/errors"
	"github.com/kislikjeka/warungku/pkg/logger"
	"github.com/kislikjeka/warungku/pkg/money"
)

// Service is the session ledger: it opens and closes sessions, records transactions
// and reconciles declared balances against the transaction log.
type Service struct {
	repo       Repository
	wallets    WalletReader
	categories CategoryResolver
	reports    ReportInvalidator
	loc        *time.Location
	now        func() time.Time
	logger     *logger.Logger
}

// Option configures a Service
type Option func(*Service)

// WithLocation sets the timezone used for session dates and report months
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithReportInvalidator registers the report cache to drop on new transactions
func WithReportInvalidator(r ReportInvalidator) Option {
	return func(s *Service) {
		s.reports = r
	}
}

// NewService creates a new ledger service
func NewService(repo Repository, wallets WalletReader, categories CategoryResolver, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		wallets:    wallets,
		categories: categories,
		loc:        time.UTC,
		now:        time.Now,
		logger:     log.WithField("component", "ledger"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OpenSessionInput holds the opening figures of a new session
type OpenSessionInput struct {
	OpeningBalances map[uuid.UUID]decimal.Decimal
	Notes           string
	OpenedBy        *uuid.UUID
}

// OpenSession starts a new session with one balance row per active wallet.
// Wallets missing from OpeningBalances open at zero.
func (s *Service) OpenSession(ctx context.Context, in OpenSessionInput) (*Session, error) {
	ids := make([]uuid.UUID, 0, len(in.OpeningBalances))
	for id, v := range in.OpeningBalances {
		if v.IsNegative() {
			return nil, ErrNegativeOpeningBalance
		}
		if err := money.Validate(v); err != nil {
			return nil, apperr.Validation(err.Error())
		}
		ids = append(ids, id)
	}

	if _, err := s.usableWallets(ctx, ids); err != nil {
		return nil, err
	}

	active, err := s.wallets.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}

	now := s.now()
	session := &Session{
		ID:        uuid.New(),
		Date:      s.dateOf(now),
		Status:    SessionOpen,
		Notes:     in.Notes,
		OpenedBy:  in.OpenedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}

	balances := make([]*SessionBalance, 0, len(active))
	for _, w := range active {
		balances = append(balances, &SessionBalance{
			ID:             uuid.New(),
			SessionID:      session.ID,
			WalletID:       w.ID,
			WalletName:     w.Name,
			WalletKind:     w.Kind,
			OpeningBalance: in.OpeningBalances[w.ID],
		})
	}

	err = s.inTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.GetOpenSession(txCtx); err == nil {
			return ErrSessionAlreadyOpen
		} else if !errors.Is(err, ErrSessionNotFound) {
			return fmt.Errorf("failed to check open session: %w", err)
		}

		// The single-open index catches the race the check above cannot
		if err := s.repo.CreateSession(txCtx, session); err != nil {
			return err
		}
		if err := s.repo.CreateBalances(txCtx, balances); err != nil {
			return fmt.Errorf("failed to create opening balances: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	session.Balances = balances
	session.Reconciliation = Reconcile(balances, nil)

	s.logger.WithContext(ctx).Info("session opened",
		"session_id", session.ID,
		"date", session.Date.Format(time.DateOnly),
		"wallets", len(balances),
	)

	return session, nil
}

// DeclaredBalance is the closing figure an operator reports for one wallet.
// A nil Value means nothing was entered.
type DeclaredBalance struct {
	WalletID uuid.UUID
	Value    *decimal.Decimal
}

// CloseSessionInput holds everything submitted when closing a session
type CloseSessionInput struct {
	Balances   []DeclaredBalance
	CashCounts []CashCount
	Notes      *string
	ClosedBy   *uuid.UUID
}

// CloseSession reconciles and closes an open session in a single database transaction
func (s *Service) CloseSession(ctx context.Context, id uuid.UUID, in CloseSessionInput) (*Session, error) {
	declared, counted, err := collectDeclarations(in)
	if err != nil {
		return nil, err
	}

	walletIDs := make([]uuid.UUID, 0, len(declared))
	for wID := range declared {
		walletIDs = append(walletIDs, wID)
	}
	wallets, err := s.existingWallets(ctx, walletIDs)
	if err != nil {
		return nil, err
	}
	for wID := range counted {
		if !wallets[wID].IsPhysical() {
			return nil, ErrCashCountNotPhysical
		}
	}

	var (
		session  *Session
		balances []*SessionBalance
		txs      []*Transaction
		counts   []*CashCount
	)

	err = s.inTx(ctx, func(txCtx context.Context) error {
		var err error
		session, err = s.repo.GetSessionForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if !session.IsOpen() {
			return ErrSessionClosed
		}

		if balances, err = s.repo.ListBalances(txCtx, id); err != nil {
			return fmt.Errorf("failed to load balances: %w", err)
		}
		if txs, err = s.repo.ListTransactions(txCtx, TransactionFilters{SessionID: &id}); err != nil {
			return fmt.Errorf("failed to load transactions: %w", err)
		}

		balances = ensureBalanceRows(id, balances, wallets)
		theoretical := TheoreticalBalances(balances, txs)
		for _, b := range balances {
			// a declaration is stored under the kind the wallet has at close
			if w, ok := wallets[b.WalletID]; ok {
				b.WalletKind = w.Kind
			}
			_, isCounted := counted[b.WalletID]
			settle(b, declared[b.WalletID], isCounted, theoretical[b.WalletID])
			if err := s.repo.UpsertClosingBalance(txCtx, b); err != nil {
				return fmt.Errorf("failed to save closing balance: %w", err)
			}
		}

		counts = make([]*CashCount, 0, len(in.CashCounts))
		for i := range in.CashCounts {
			c := in.CashCounts[i]
			c.ID = uuid.New()
			c.SessionID = id
			c.WalletName = wallets[c.WalletID].Name
			c.TotalAmount = c.Total()
			counts = append(counts, &c)
		}
		if err := s.repo.ReplaceCashCounts(txCtx, id, counts); err != nil {
			return fmt.Errorf("failed to save cash counts: %w", err)
		}

		now := s.now()
		session.Status = SessionClosed
		session.ClosedAt = &now
		session.ClosedBy = in.ClosedBy
		session.UpdatedAt = now
		if in.Notes != nil {
			session.Notes = *in.Notes
		}
		return s.repo.UpdateSession(txCtx, session)
	})
	if err != nil {
		return nil, err
	}

	session.Balances = balances
	session.Transactions = txs
	session.CashCounts = counts
	session.Reconciliation = Reconcile(balances, txs)

	unreconciled := 0
	for _, line := range session.Reconciliation {
		if !line.Reconciled {
			unreconciled++
		}
	}
	s.logger.WithContext(ctx).Info("session closed",
		"session_id", session.ID,
		"transactions", len(txs),
		"cash_counts", len(counts),
		"unreconciled_wallets", unreconciled,
	)

	return session, nil
}

// collectDeclarations merges declared balances and cash counts into one value per wallet.
// The second map marks wallets whose value comes from a cash count.
func collectDeclarations(in CloseSessionInput) (map[uuid.UUID]*decimal.Decimal, map[uuid.UUID]struct{}, error) {
	declared := make(map[uuid.UUID]*decimal.Decimal, len(in.Balances))
	for _, b := range in.Balances {
		if _, dup := declared[b.WalletID]; dup {
			return nil, nil, ErrDuplicateBalance
		}
		if b.Value != nil {
			if b.Value.IsNegative() {
				return nil, nil, ErrNegativeDeclaredValue
			}
			if err := money.Validate(*b.Value); err != nil {
				return nil, nil, apperr.Validation(err.Error())
			}
		}
		declared[b.WalletID] = b.Value
	}

	counted := make(map[uuid.UUID]struct{}, len(in.CashCounts))
	for i := range in.CashCounts {
		c := &in.CashCounts[i]
		if err := c.Validate(); err != nil {
			return nil, nil, err
		}
		if _, dup := counted[c.WalletID]; dup {
			return nil, nil, ErrDuplicateCashCount
		}
		counted[c.WalletID] = struct{}{}

		total := c.Total()
		if v, ok := declared[c.WalletID]; ok && v != nil && !v.Equal(total) {
			return nil, nil, ErrCashCountMismatch
		}
		declared[c.WalletID] = &total
	}

	return declared, counted, nil
}

// ensureBalanceRows adds a zero-opening row for every declared wallet the session has no row for
func ensureBalanceRows(sessionID uuid.UUID, balances []*SessionBalance, wallets map[uuid.UUID]*wallet.Wallet) []*SessionBalance {
	have := make(map[uuid.UUID]struct{}, len(balances))
	for _, b := range balances {
		have[b.WalletID] = struct{}{}
	}
	for id, w := range wallets {
		if _, ok := have[id]; ok {
			continue
		}
		balances = append(balances, &SessionBalance{
			ID:             uuid.New(),
			SessionID:      sessionID,
			WalletID:       id,
			WalletName:     w.Name,
			WalletKind:     w.Kind,
			OpeningBalance: decimal.Zero,
		})
	}
	return balances
}

// GetCurrentSession returns the open session with its details, or nil when none is open
func (s *Service) GetCurrentSession(ctx context.Context) (*Session, error) {
	session, err := s.repo.GetOpenSession(ctx)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open session: %w", err)
	}
	return s.loadDetail(ctx, session)
}

// GetLastClosedSession returns the most recently closed session, or nil when there is none
func (s *Service) GetLastClosedSession(ctx context.Context) (*Session, error) {
	session, err := s.repo.GetLastClosedSession(ctx)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last closed session: %w", err)
	}
	return s.loadDetail(ctx, session)
}

// GetSession returns a session with balances, reconciliation, cash counts and transactions
func (s *Service) GetSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	session, err := s.repo.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.loadDetail(ctx, session)
}

// ListSessions lists sessions newest first
func (s *Service) ListSessions(ctx context.Context, filters SessionFilters) ([]*Session, error) {
	sessions, err := s.repo.ListSessions(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

func (s *Service) loadDetail(ctx context.Context, session *Session) (*Session, error) {
	var (
		balances []*SessionBalance
		txs      []*Transaction
		counts   []*CashCount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		balances, err = s.repo.ListBalances(gctx, session.ID)
		return err
	})
	g.Go(func() error {
		var err error
		txs, err = s.repo.ListTransactions(gctx, TransactionFilters{SessionID: &session.ID})
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.repo.ListCashCounts(gctx, session.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load session detail: %w", err)
	}

	session.Reconciliation = Reconcile(balances, txs)
	if !session.IsOpen() {
		patchUnreconciled(balances, TheoreticalBalances(balances, txs))
	}
	session.Balances = balances
	session.Transactions = txs
	session.CashCounts = counts

	return session, nil
}

// UpdateSessionInput holds the fields an administrator may override
type UpdateSessionInput struct {
	Date   *time.Time
	Status *SessionStatus
	Notes  *string
}

// AdminUpdateSession forcibly edits a session. Reopening is refused while another session is open.
func (s *Service) AdminUpdateSession(ctx context.Context, id uuid.UUID, in UpdateSessionInput) (*Session, error) {
	if in.Status != nil && !in.Status.IsValid() {
		return nil, ErrInvalidSessionStatus
	}

	var session *Session
	err := s.inTx(ctx, func(txCtx context.Context) error {
		var err error
		session, err = s.repo.GetSessionForUpdate(txCtx, id)
		if err != nil {
			return err
		}

		now := s.now()
		if in.Date != nil {
			// a calendar date: keep its day, whatever zone it was parsed in
			d := *in.Date
			session.Date = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, s.loc)
		}
		if in.Notes != nil {
			session.Notes = *in.Notes
		}
		if in.Status != nil && *in.Status != session.Status {
			session.Status = *in.Status
			if session.Status == SessionClosed {
				session.ClosedAt = &now
			} else {
				session.ClosedAt = nil
				session.ClosedBy = nil
			}
		}
		session.UpdatedAt = now

		return s.repo.UpdateSession(txCtx, session)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithContext(ctx).Warn("session overridden by admin",
		"session_id", session.ID,
		"status", session.Status,
		"date", session.Date.Format(time.DateOnly),
	)

	return session, nil
}

// usableWallets loads wallets that must exist and be active
func (s *Service) usableWallets(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*wallet.Wallet, error) {
	wallets, err := s.existingWallets(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, w := range wallets {
		if err := w.EnsureUsable(); err != nil {
			return nil, err
		}
	}
	return wallets, nil
}

// existingWallets loads wallets that must exist, active or not
func (s *Service) existingWallets(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*wallet.Wallet, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]*wallet.Wallet{}, nil
	}
	wallets, err := s.wallets.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallets: %w", err)
	}
	for _, id := range ids {
		if _, ok := wallets[id]; !ok {
			return nil, wallet.ErrWalletNotFound
		}
	}
	return wallets, nil
}

// inTx runs fn inside a database transaction, rolling back on error
func (s *Service) inTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	txCtx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := s.repo.RollbackTx(txCtx); rbErr != nil {
				s.logger.WithContext(ctx).WithError(rbErr).Error("rollback failed")
			}
		}
	}()

	if err := fn(txCtx); err != nil {
		return err
	}

	if err := s.repo.CommitTx(txCtx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	committed = true
	return nil
}

// dateOf truncates t to midnight of its calendar day in the service timezone
func (s *Service) dateOf(t time.Time) time.Time {
	local := t.In(s.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
}
