package usecase

import (
	"context"
	"sort"
	"time"

	"HomePulse/internal/domain/models"
	"HomePulse/internal/domain/repository"
	"HomePulse/internal/match"
	xlogger "HomePulse/pkg/logger"
	"HomePulse/pkg/util"
	"HomePulse/pkg/workerpool"
)

// Collection window and result-size bounds. Requests outside these clamp
// silently instead of erroring.
const (
	minYearsBack = 1
	maxYearsBack = 3
	minResults   = 1
	maxResults   = 1000
)

// Collector gathers recent trade records across a multi-year window, one
// upstream page per calendar month, fanned out on the shared pool. A failed
// month contributes nothing; the merged result is sorted newest-first and
// truncated.
type Collector struct {
	source   repository.TradeRecordSource
	archive  repository.DealArchive // optional
	pool     *workerpool.Pool
	metrics  repository.Metrics
	logger   *xlogger.Logger
	pageSize int
	now      func() time.Time
}

// CollectorOption configures Collector.
type CollectorOption func(*Collector)

// WithArchive copies each collected batch into long-term storage.
func WithArchive(a repository.DealArchive) CollectorOption {
	return func(c *Collector) { c.archive = a }
}

// WithCollectorClock overrides the clock (tests).
func WithCollectorClock(now func() time.Time) CollectorOption {
	return func(c *Collector) { c.now = now }
}

// NewCollector creates a Collector. pageSize is the single page fetched per
// period.
func NewCollector(source repository.TradeRecordSource, pool *workerpool.Pool,
	metrics repository.Metrics, logger *xlogger.Logger, pageSize int, opts ...CollectorOption) *Collector {
	c := &Collector{
		source:   source,
		pool:     pool,
		metrics:  metrics,
		logger:   logger,
		pageSize: pageSize,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CollectForApartment returns up to limit recent deals for one apartment,
// keeping only records whose name plausibly matches the catalog name.
func (c *Collector) CollectForApartment(ctx context.Context, apt *models.Apartment, yearsBack, limit int) []models.TradeRecord {
	if apt == nil || apt.RegionCode == "" {
		return []models.TradeRecord{}
	}
	keep := func(rec *models.TradeRecord) bool {
		return match.NamesMatch(apt.Name, rec.AptName)
	}
	rows := c.collect(ctx, apt.RegionCode, yearsBack, limit, keep)
	c.archiveBatch(ctx, models.DealScope{ApartmentID: apt.ID, RegionCode: apt.RegionCode}, rows)
	return rows
}

// CollectForRegion returns up to limit recent deals across a whole legal
// district, unfiltered.
func (c *Collector) CollectForRegion(ctx context.Context, regionCode string, yearsBack, limit int) []models.TradeRecord {
	if regionCode == "" {
		return []models.TradeRecord{}
	}
	rows := c.collect(ctx, regionCode, yearsBack, limit, nil)
	c.archiveBatch(ctx, models.DealScope{RegionCode: regionCode}, rows)
	return rows
}

func (c *Collector) collect(ctx context.Context, regionCode string, yearsBack, limit int,
	keep func(*models.TradeRecord) bool) []models.TradeRecord {
	yearsBack = util.Clamp(yearsBack, minYearsBack, maxYearsBack)
	limit = util.Clamp(limit, minResults, maxResults)
	periods := util.PeriodsBack(c.now(), yearsBack*12)

	outcomes := make([]repository.PeriodOutcome, len(periods))
	group := c.pool.NewGroup()
	for i, period := range periods {
		i, period := i, period
		group.Go(func() {
			rows, err := c.source.Fetch(ctx, regionCode, period, 1, c.pageSize)
			outcomes[i] = repository.PeriodOutcome{Period: period, Records: rows, Err: err}
		})
	}
	group.Wait()

	all := make([]models.TradeRecord, 0, limit)
	degraded := 0
	for _, out := range outcomes {
		if out.Err != nil {
			degraded++
			c.metrics.RecordDegradedUnit("collect_period")
			c.logger.Debug("period collect degraded to empty",
				xlogger.String("region", regionCode),
				xlogger.String("period", out.Period),
				xlogger.Error(out.Err))
			continue
		}
		for i := range out.Records {
			if keep != nil && !keep(&out.Records[i]) {
				continue
			}
			all = append(all, out.Records[i])
		}
	}

	// newest first; records with missing date parts sink to the bottom
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.DealYear != b.DealYear {
			return a.DealYear > b.DealYear
		}
		if a.DealMonth != b.DealMonth {
			return a.DealMonth > b.DealMonth
		}
		return a.DealDay > b.DealDay
	})
	if len(all) > limit {
		all = all[:limit]
	}

	c.metrics.ObserveCollected("recent", len(all))
	if degraded > 0 {
		c.logger.Info("collection finished with degraded periods",
			xlogger.String("region", regionCode),
			xlogger.Int("degraded", degraded),
			xlogger.Int("collected", len(all)))
	}
	return all
}

// archiveBatch is best-effort; archival failure never touches the response.
func (c *Collector) archiveBatch(ctx context.Context, scope models.DealScope, rows []models.TradeRecord) {
	if c.archive == nil || len(rows) == 0 {
		return
	}
	if err := c.archive.ArchiveDeals(ctx, scope, rows); err != nil {
		c.logger.Warn("deal archive failed",
			xlogger.String("region", scope.RegionCode), xlogger.Error(err))
	}
}
