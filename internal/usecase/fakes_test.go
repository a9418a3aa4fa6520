package usecase

import (
	"context"
	"sync"
	"sync/atomic"

	"HomePulse/internal/domain/models"
	"HomePulse/internal/domain/repository"
)

// fakeSource scripts TradeRecordSource responses keyed by period.
type fakeSource struct {
	mu      sync.Mutex
	pages   map[string][]models.TradeRecord // period -> single page
	fail    map[string]error                // period -> forced error
	fetches int32
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		pages: make(map[string][]models.TradeRecord),
		fail:  make(map[string]error),
	}
}

func (f *fakeSource) Fetch(_ context.Context, _, period string, page, _ int) ([]models.TradeRecord, error) {
	atomic.AddInt32(&f.fetches, 1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.fail[period]; ok {
		return nil, err
	}
	if page > 1 {
		return nil, nil
	}
	return f.pages[period], nil
}

func (f *fakeSource) fetchCount() int { return int(atomic.LoadInt32(&f.fetches)) }

// fakePoi scripts PoiSearch responses keyed by category code.
type fakePoi struct {
	mu    sync.Mutex
	pois  map[string]*models.POI
	fail  map[string]error
	calls int32
}

func newFakePoi() *fakePoi {
	return &fakePoi{pois: make(map[string]*models.POI), fail: make(map[string]error)}
}

func (f *fakePoi) Nearest(_ context.Context, _, _ float64, categoryCode string, _ int) (*models.POI, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.fail[categoryCode]; ok {
		return nil, err
	}
	return f.pois[categoryCode], nil
}

func (f *fakePoi) callCount() int { return int(atomic.LoadInt32(&f.calls)) }

// fakeCatalog holds apartments by ID.
type fakeCatalog struct {
	apts map[string]*models.Apartment
}

func (f *fakeCatalog) Lookup(_ context.Context, aptID string) (*models.Apartment, error) {
	apt, ok := f.apts[aptID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return apt, nil
}

func (f *fakeCatalog) ResolveRegion(_ context.Context, _, _, _ string) (string, error) {
	return "", repository.ErrNotFound
}

// nopMetrics satisfies repository.Metrics without a registry.
type nopMetrics struct{}

func (nopMetrics) RecordUpstreamCall(string, string) {}
func (nopMetrics) RecordCacheLookup(string, bool)    {}
func (nopMetrics) RecordDegradedUnit(string)         {}
func (nopMetrics) ObserveCollected(string, int)      {}

func intPtr(v int) *int { return &v }
