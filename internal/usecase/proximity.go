package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"HomePulse/internal/domain/models"
	"HomePulse/internal/domain/repository"
	xcache "HomePulse/pkg/cache"
	xhttp "HomePulse/pkg/http"
	xlogger "HomePulse/pkg/logger"
	"HomePulse/pkg/workerpool"
)

// missWalkLabel is rendered for categories with no POI inside the radius.
const missWalkLabel = "15분 이상"

// ProximityAggregator builds the walkability summary for an apartment: one
// nearest-POI lookup per category, fanned out on the shared pool, assembled
// in the declared category order. A per-category failure degrades to the
// same placeholder as "nothing within radius" so one flaky lookup never
// sinks the whole summary.
type ProximityAggregator struct {
	catalog  repository.ApartmentCatalog
	poi      repository.PoiSearch
	cache    xcache.Cache
	pool     *workerpool.Pool
	metrics  repository.Metrics
	logger   *xlogger.Logger
	radiusM  int
	walkPace float64
	ttl      time.Duration
}

// NewProximityAggregator creates a ProximityAggregator. walkPace is meters
// per minute; ttl bounds how long a cached summary is served.
func NewProximityAggregator(catalog repository.ApartmentCatalog, poi repository.PoiSearch,
	cache xcache.Cache, pool *workerpool.Pool, metrics repository.Metrics, logger *xlogger.Logger,
	radiusM int, walkPace float64, ttl time.Duration) *ProximityAggregator {
	return &ProximityAggregator{
		catalog:  catalog,
		poi:      poi,
		cache:    cache,
		pool:     pool,
		metrics:  metrics,
		logger:   logger,
		radiusM:  radiusM,
		walkPace: walkPace,
		ttl:      ttl,
	}
}

func summaryCacheKey(aptID string) string {
	return "access:" + aptID
}

// Summarize returns the proximity summary for an apartment, serving the
// cached copy when fresh. Unknown apartments and unparseable coordinates
// are invalid-argument errors; upstream trouble per category is not.
func (a *ProximityAggregator) Summarize(ctx context.Context, aptID string) (*models.ProximitySummary, error) {
	key := summaryCacheKey(aptID)
	if b, ok, err := a.cache.GetBytes(ctx, key); err == nil && ok {
		var cached models.ProximitySummary
		if err := json.Unmarshal(b, &cached); err == nil {
			a.metrics.RecordCacheLookup("summary", true)
			return &cached, nil
		}
	}
	a.metrics.RecordCacheLookup("summary", false)

	apt, err := a.catalog.Lookup(ctx, aptID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, xhttp.InvalidArgumentErrorf("unknown apartment %s", aptID)
		}
		return nil, fmt.Errorf("catalog lookup %s: %w", aptID, err)
	}

	lat, errLat := strconv.ParseFloat(apt.Latitude, 64)
	lon, errLon := strconv.ParseFloat(apt.Longitude, 64)
	if errLat != nil || errLon != nil {
		return nil, xhttp.InvalidArgumentErrorf("apartment %s has no usable coordinates", aptID)
	}

	outcomes := a.collect(ctx, lat, lon)

	summary := &models.ProximitySummary{
		ApartmentID: aptID,
		Origin:      models.Origin{Latitude: lat, Longitude: lon},
		Items:       make([]models.ProximityItem, 0, len(models.Categories)),
	}
	for _, out := range outcomes {
		summary.Items = append(summary.Items, a.toItem(lat, lon, out))
	}

	if b, err := json.Marshal(summary); err == nil {
		if err := a.cache.SetBytes(ctx, key, b, a.ttl); err != nil {
			a.logger.Warn("summary cache write failed",
				xlogger.String("apt", aptID), xlogger.Error(err))
		}
	}
	return summary, nil
}

// Invalidate drops the cached summary for an apartment.
func (a *ProximityAggregator) Invalidate(ctx context.Context, aptID string) error {
	return a.cache.Delete(ctx, summaryCacheKey(aptID))
}

// collect runs one nearest-POI search per category on the shared pool.
// Results land in indexed slots so output order is the declared category
// order regardless of completion order.
func (a *ProximityAggregator) collect(ctx context.Context, lat, lon float64) []repository.PoiOutcome {
	outcomes := make([]repository.PoiOutcome, len(models.Categories))
	group := a.pool.NewGroup()
	for i, cat := range models.Categories {
		i, cat := i, cat
		group.Go(func() {
			poi, err := a.poi.Nearest(ctx, lat, lon, cat.Code, a.radiusM)
			outcomes[i] = repository.PoiOutcome{Category: cat, POI: poi, Err: err}
		})
	}
	group.Wait()
	return outcomes
}

func (a *ProximityAggregator) toItem(lat, lon float64, out repository.PoiOutcome) models.ProximityItem {
	if out.Err != nil {
		a.metrics.RecordDegradedUnit("poi_category")
		a.logger.Warn("poi lookup degraded to miss",
			xlogger.String("category", out.Category.Code), xlogger.Error(out.Err))
	}
	if out.Miss() {
		return models.ProximityItem{
			Category:  out.Category.Label,
			Name:      "",
			DistanceM: a.radiusM,
			WalkLabel: missWalkLabel,
		}
	}

	var dist int
	if out.POI.DistanceM != nil {
		dist = *out.POI.DistanceM
	} else {
		dist = int(math.Round(haversineMeters(lat, lon, out.POI.Latitude, out.POI.Longitude)))
	}
	walk := int(math.Ceil(float64(dist) / a.walkPace))
	return models.ProximityItem{
		Category:  out.Category.Label,
		Name:      out.POI.Name,
		DistanceM: dist,
		WalkLabel: fmt.Sprintf("%d분", walk),
	}
}
