package report

import (
	"context"
	"fmt"
	"time"

	"github.com/kislikjeka/warungku/internal/ledger"
	"github.com/kislikjeka/warungku/pkg/logger"
)

// Service builds monthly reports, serving them from cache when one is configured
type Service struct {
	source TransactionSource
	cache  Cache
	loc    *time.Location
	now    func() time.Time
	logger *logger.Logger
}

// NewService creates a new report service. cache may be nil.
func NewService(source TransactionSource, cache Cache, loc *time.Location, log *logger.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		source: source,
		cache:  cache,
		loc:    loc,
		now:    time.Now,
		logger: log.WithField("component", "report"),
	}
}

// Monthly returns the report for the given month. Cache failures are logged and bypassed.
func (s *Service) Monthly(ctx context.Context, year, month int) (*MonthlyReport, error) {
	if err := ValidatePeriod(year, month); err != nil {
		return nil, err
	}
	m := time.Month(month)
	log := s.logger.WithContext(ctx)

	var (
		version   int64
		cacheable bool
	)
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, year, m)
		if err != nil {
			log.WithError(err).Warn("report cache read failed", "year", year, "month", month)
		} else if ok {
			return cached, nil
		}

		// read before loading so a transaction committed meanwhile makes the result stale
		if version, err = s.cache.Version(ctx, year, m); err != nil {
			log.WithError(err).Warn("report cache version read failed", "year", year, "month", month)
		} else {
			cacheable = true
		}
	}

	from, to := Window(year, m, s.loc)
	txs, err := s.source.ListTransactions(ctx, ledger.TransactionFilters{From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	r := Aggregate(year, m, s.loc, txs)
	r.GeneratedAt = s.now()

	if cacheable {
		stored, err := s.cache.Set(ctx, r, version)
		if err != nil {
			log.WithError(err).Warn("report cache write failed", "year", year, "month", month)
		} else if !stored {
			log.Debug("report invalidated while building, not cached", "year", year, "month", month)
		}
	}

	log.Debug("monthly report built", "year", year, "month", month, "transactions", len(r.Transactions))
	return r, nil
}

// InvalidateMonth drops the cached report of a month
func (s *Service) InvalidateMonth(ctx context.Context, year int, month time.Month) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, year, month); err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("report cache invalidation failed", "year", year, "month", int(month))
	}
}
