package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"HomePulse/internal/domain/models"
	domrepo "HomePulse/internal/domain/repository"
	"HomePulse/internal/usecase"
	xcache "HomePulse/pkg/cache"
	xlogger "HomePulse/pkg/logger"
	"HomePulse/pkg/workerpool"
)

type stubCatalog struct {
	apts map[string]*models.Apartment
}

func (s *stubCatalog) Lookup(_ context.Context, aptID string) (*models.Apartment, error) {
	apt, ok := s.apts[aptID]
	if !ok {
		return nil, domrepo.ErrNotFound
	}
	return apt, nil
}

func (s *stubCatalog) ResolveRegion(context.Context, string, string, string) (string, error) {
	return "", domrepo.ErrNotFound
}

type stubSource struct {
	rows []models.TradeRecord
}

func (s *stubSource) Fetch(context.Context, string, string, int, int) ([]models.TradeRecord, error) {
	return s.rows, nil
}

type stubPoi struct{}

func (stubPoi) Nearest(context.Context, float64, float64, string, int) (*models.POI, error) {
	return nil, nil
}

type nopMetrics struct{}

func (nopMetrics) RecordUpstreamCall(string, string) {}
func (nopMetrics) RecordCacheLookup(string, bool)    {}
func (nopMetrics) RecordDegradedUnit(string)         {}
func (nopMetrics) ObserveCollected(string, int)      {}

func newTestHandler(t *testing.T, source domrepo.TradeRecordSource) *ItemsHandler {
	t.Helper()
	logger := xlogger.Nop()
	catalog := &stubCatalog{apts: map[string]*models.Apartment{
		"apt-1": {ID: "apt-1", Name: "래미안", RegionCode: "11680", Latitude: "37.5", Longitude: "127.0"},
	}}
	pool := workerpool.New(2)
	t.Cleanup(pool.StopWait)
	mem := xcache.NewMemory(xcache.WithMemoryMaxSize(10))
	t.Cleanup(func() { _ = mem.Close() })

	rec := usecase.NewReconciler(source, nopMetrics{}, logger, 12, 100, 10)
	agg := usecase.NewProximityAggregator(catalog, stubPoi{}, mem, pool, nopMetrics{}, logger, 1000, 80.0, time.Hour)
	col := usecase.NewCollector(source, pool, nopMetrics{}, logger, 500)
	return NewItemsHandler(logger, catalog, source, rec, agg, col)
}

func serve(t *testing.T, h *ItemsHandler, target string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h.RegisterRoutes(e)
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rw := httptest.NewRecorder()
	e.ServeHTTP(rw, req)
	return rw
}

func TestDetailReturnsCatalogInfo(t *testing.T) {
	h := newTestHandler(t, &stubSource{})
	rw := serve(t, h, "/api/items/apt-1")
	if rw.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rw.Code, rw.Body.String())
	}

	var env struct {
		Data models.ItemDetailResponse `json:"data"`
	}
	if err := json.Unmarshal(rw.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.Info == nil || env.Data.Info.Name != "래미안" {
		t.Errorf("info = %+v", env.Data.Info)
	}
	if env.Data.Access != nil {
		t.Error("access must be omitted without withAccess")
	}
}

func TestDetailWithAccessIncludesSummary(t *testing.T) {
	h := newTestHandler(t, &stubSource{})
	rw := serve(t, h, "/api/items/apt-1?withAccess=true")
	if rw.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rw.Code, rw.Body.String())
	}

	var env struct {
		Data models.ItemDetailResponse `json:"data"`
	}
	if err := json.Unmarshal(rw.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.Access == nil || len(env.Data.Access.Items) != len(models.Categories) {
		t.Errorf("access = %+v", env.Data.Access)
	}
}

func TestDetailUnknownApartment(t *testing.T) {
	h := newTestHandler(t, &stubSource{})
	rw := serve(t, h, "/api/items/no-such")
	var env struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rw.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Status != http.StatusBadRequest {
		t.Errorf("envelope status = %d, want 400", env.Status)
	}
}

func TestTransactionsRequiresPeriod(t *testing.T) {
	h := newTestHandler(t, &stubSource{})
	rw := serve(t, h, "/api/items/apt-1/transactions")
	var env struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rw.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Status != http.StatusBadRequest {
		t.Errorf("envelope status = %d, want 400 without period", env.Status)
	}
}

func TestRecentDealsRejectsOutOfRangeYears(t *testing.T) {
	h := newTestHandler(t, &stubSource{})
	rw := serve(t, h, "/api/items/apt-1/transactions/recent?years=9")
	var env struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rw.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Status != http.StatusBadRequest {
		t.Errorf("envelope status = %d, want 400 for years=9", env.Status)
	}
}

func TestRegionRecentDeals(t *testing.T) {
	src := &stubSource{rows: []models.TradeRecord{
		{AptName: "단지A", DealYear: 2025, DealMonth: 1, DealDay: 5},
	}}
	h := newTestHandler(t, src)
	rw := serve(t, h, "/api/regions/11680/transactions/recent?years=1&limit=10")
	if rw.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rw.Code, rw.Body.String())
	}

	var env struct {
		Data struct {
			Rows  []models.TradeRecord `json:"rows"`
			Total int64                `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rw.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.Total == 0 || len(env.Data.Rows) == 0 {
		t.Errorf("rows = %d total = %d, want data", len(env.Data.Rows), env.Data.Total)
	}
}
