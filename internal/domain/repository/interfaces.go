package repository

import (
	"context"
	"errors"

	"HomePulse/internal/domain/models"
)

// ErrNotFound is returned by catalog lookups when no row exists.
var ErrNotFound = errors.New("not found")

// TradeRecordSource fetches one page of monthly trade records for a region.
// period is YYYYMM, page is 1-based. An empty slice means no more data; an
// error means the upstream was unreachable or returned a malformed payload.
type TradeRecordSource interface {
	Fetch(ctx context.Context, regionCode, period string, page, size int) ([]models.TradeRecord, error)
}

// ApartmentCatalog is the locally stored authoritative apartment registry.
type ApartmentCatalog interface {
	Lookup(ctx context.Context, aptID string) (*models.Apartment, error)
	ResolveRegion(ctx context.Context, sido, gugun, dong string) (string, error)
}

// PoiSearch finds the single nearest POI of a category within a radius.
// (nil, nil) means no POI exists inside the radius.
type PoiSearch interface {
	Nearest(ctx context.Context, lat, lon float64, categoryCode string, radiusM int) (*models.POI, error)
}

// DealArchive receives collected deals for offline analytics. Best-effort:
// callers never fail a response on archive errors.
type DealArchive interface {
	ArchiveDeals(ctx context.Context, scope models.DealScope, deals []models.TradeRecord) error
}

// DealEventPublisher emits reconciled deal snapshots to downstream consumers.
type DealEventPublisher interface {
	PublishSnapshot(ctx context.Context, aptID string, snap *models.DealSnapshot) error
}

// Metrics records operational counters for the aggregation engine.
type Metrics interface {
	RecordUpstreamCall(upstream, result string)
	RecordCacheLookup(cache string, hit bool)
	RecordDegradedUnit(kind string)
	ObserveCollected(scope string, n int)
}
