package usecase

import (
	"context"
	"math"
	"strconv"
	"time"

	"HomePulse/internal/domain/models"
	"HomePulse/internal/domain/repository"
	"HomePulse/internal/match"
	xlogger "HomePulse/pkg/logger"
	"HomePulse/pkg/util"
)

// Unit conversions the trade upstream forces on us. Amounts arrive in 만원
// (10,000 KRW), areas in m² while clients display 평 (3.3 m²).
const (
	amountUnitKRW = 10_000
	pyeongM2      = 3.3
)

// Reconciler finds the latest trade record that plausibly belongs to a
// catalog apartment. The scan walks calendar months backward and stops at
// the first month that yields any candidate; within a month the greatest
// day-of-month wins. "Latest" is therefore defined by scan order, which is
// the observed product behavior.
type Reconciler struct {
	source      repository.TradeRecordSource
	publisher   repository.DealEventPublisher // optional
	metrics     repository.Metrics
	logger      *xlogger.Logger
	monthsBack  int
	pageSize    int
	pageCeiling int
	now         func() time.Time
}

// ReconcilerOption configures Reconciler.
type ReconcilerOption func(*Reconciler)

// WithPublisher emits each resolved snapshot to downstream consumers.
func WithPublisher(p repository.DealEventPublisher) ReconcilerOption {
	return func(r *Reconciler) { r.publisher = p }
}

// WithReconcilerClock overrides the clock (tests).
func WithReconcilerClock(now func() time.Time) ReconcilerOption {
	return func(r *Reconciler) { r.now = now }
}

// NewReconciler creates a Reconciler. monthsBack is the default scan depth,
// pageSize bounds one fetch, pageCeiling caps pages per period.
func NewReconciler(source repository.TradeRecordSource, metrics repository.Metrics, logger *xlogger.Logger,
	monthsBack, pageSize, pageCeiling int, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		source:      source,
		metrics:     metrics,
		logger:      logger,
		monthsBack:  monthsBack,
		pageSize:    pageSize,
		pageCeiling: pageCeiling,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FindLatestDeal returns the reconciled latest sale for apt, or nil when no
// period within monthsBack produced a candidate. Upstream failures for a
// single period count as empty and the scan continues; the call itself
// never fails.
func (r *Reconciler) FindLatestDeal(ctx context.Context, apt *models.Apartment, monthsBack int) *models.DealSnapshot {
	if apt == nil || apt.RegionCode == "" {
		return nil
	}
	if monthsBack <= 0 {
		monthsBack = r.monthsBack
	}

	for _, period := range util.PeriodsBack(r.now(), monthsBack) {
		best := r.bestInPeriod(ctx, apt, period)
		if best == nil {
			continue
		}
		snap := r.toSnapshot(best, period)
		if r.publisher != nil {
			if err := r.publisher.PublishSnapshot(ctx, apt.ID, snap); err != nil {
				r.logger.Warn("snapshot publish failed",
					xlogger.String("apt", apt.ID), xlogger.Error(err))
			}
		}
		return snap
	}
	return nil
}

// bestInPeriod pages through one month and keeps the matching record with
// the greatest day; on equal days the later record wins. A fetch error
// folds to "nothing this month".
func (r *Reconciler) bestInPeriod(ctx context.Context, apt *models.Apartment, period string) *models.TradeRecord {
	var best *models.TradeRecord
	for page := 1; page <= r.pageCeiling; page++ {
		rows, err := r.source.Fetch(ctx, apt.RegionCode, period, page, r.pageSize)
		if err != nil {
			r.metrics.RecordDegradedUnit("reconcile_period")
			r.logger.Debug("period fetch degraded to empty",
				xlogger.String("region", apt.RegionCode),
				xlogger.String("period", period),
				xlogger.Error(err))
			break
		}
		if len(rows) == 0 {
			break
		}
		for i := range rows {
			rec := &rows[i]
			if !r.isCandidate(apt, rec) {
				continue
			}
			if best == nil || rec.DealDay >= best.DealDay {
				cp := *rec
				best = &cp
			}
		}
		if len(rows) < r.pageSize {
			break
		}
	}
	return best
}

// isCandidate is deliberately permissive: upstream naming is inconsistent,
// so any one matching signal (name, lot, dong) is enough.
func (r *Reconciler) isCandidate(apt *models.Apartment, rec *models.TradeRecord) bool {
	return match.NamesMatch(apt.Name, rec.AptName) ||
		match.LotMatches(apt.LotNumber, rec.Jibun) ||
		match.DongMatches(apt.DongName, rec.Dong)
}

func (r *Reconciler) toSnapshot(rec *models.TradeRecord, period string) *models.DealSnapshot {
	snap := &models.DealSnapshot{
		DealYear:  rec.DealYear,
		DealMonth: rec.DealMonth,
		DealDay:   rec.DealDay,
	}
	if snap.DealYear == 0 && len(period) == 6 {
		snap.DealYear = util.ParseIntZero(period[:4])
	}
	if snap.DealMonth == 0 && len(period) == 6 {
		snap.DealMonth = util.ParseIntZero(period[4:6])
	}
	if amt, err := strconv.ParseInt(util.CleanAmount(rec.DealAmount), 10, 64); err == nil {
		snap.AmountKRW = amt * amountUnitKRW
	}
	if rec.ExclusiveAreaM2 > 0 {
		snap.AreaPyeong = math.Round(rec.ExclusiveAreaM2/pyeongM2*100) / 100
	}
	return snap
}
