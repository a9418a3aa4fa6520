package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"HomePulse/internal/domain/models"
	xlogger "HomePulse/pkg/logger"
)

func testApartment() *models.Apartment {
	return &models.Apartment{
		ID:         "11680-1",
		Name:       "래미안",
		DongName:   "역삼동",
		LotNumber:  "123-45",
		RegionCode: "11680",
	}
}

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	}
}

func newTestReconciler(src *fakeSource, opts ...ReconcilerOption) *Reconciler {
	opts = append(opts, WithReconcilerClock(fixedClock()))
	return NewReconciler(src, nopMetrics{}, xlogger.Nop(), 12, 100, 10, opts...)
}

func TestFindLatestDealPicksGreatestDayInPeriod(t *testing.T) {
	src := newFakeSource()
	src.pages["202503"] = []models.TradeRecord{
		{AptName: "래미안", DealYear: 2025, DealMonth: 3, DealDay: 15, DealAmount: "150,000", ExclusiveAreaM2: 82.5},
		{AptName: "래미안", DealYear: 2025, DealMonth: 3, DealDay: 28, DealAmount: "152,000", ExclusiveAreaM2: 82.5},
		{AptName: "전혀다른단지", DealYear: 2025, DealMonth: 3, DealDay: 30, DealAmount: "999,999"},
	}

	snap := newTestReconciler(src).FindLatestDeal(context.Background(), testApartment(), 12)
	if snap == nil {
		t.Fatal("expected a snapshot")
	}
	if snap.DealDay != 28 {
		t.Errorf("DealDay = %d, want 28", snap.DealDay)
	}
	if snap.AmountKRW != 1_520_000_000 {
		t.Errorf("AmountKRW = %d, want 1520000000", snap.AmountKRW)
	}
	if snap.AreaPyeong != 25.0 {
		t.Errorf("AreaPyeong = %v, want 25.0", snap.AreaPyeong)
	}
}

func TestFindLatestDealTieOnDayKeepsLaterRecord(t *testing.T) {
	src := newFakeSource()
	src.pages["202503"] = []models.TradeRecord{
		{AptName: "래미안", DealYear: 2025, DealMonth: 3, DealDay: 28, DealAmount: "150,000"},
		{AptName: "래미안", DealYear: 2025, DealMonth: 3, DealDay: 28, DealAmount: "152,000"},
	}

	snap := newTestReconciler(src).FindLatestDeal(context.Background(), testApartment(), 12)
	if snap == nil {
		t.Fatal("expected a snapshot")
	}
	if snap.AmountKRW != 1_520_000_000 {
		t.Errorf("AmountKRW = %d, want the later record's 1520000000", snap.AmountKRW)
	}
}

func TestFindLatestDealStopsAtFirstMatchingPeriod(t *testing.T) {
	src := newFakeSource()
	// current month has data but no candidate; previous month matches by lot
	src.pages["202503"] = []models.TradeRecord{
		{AptName: "무관한단지", Jibun: "999", DealYear: 2025, DealMonth: 3, DealDay: 2, DealAmount: "80,000"},
	}
	src.pages["202502"] = []models.TradeRecord{
		{AptName: "표기가다른래미안본관", Jibun: "123-45", DealYear: 2025, DealMonth: 2, DealDay: 7, DealAmount: "140,000"},
	}
	src.pages["202501"] = []models.TradeRecord{
		{AptName: "래미안", DealYear: 2025, DealMonth: 1, DealDay: 31, DealAmount: "130,000"},
	}

	snap := newTestReconciler(src).FindLatestDeal(context.Background(), testApartment(), 12)
	if snap == nil {
		t.Fatal("expected a snapshot")
	}
	if snap.DealYear != 2025 || snap.DealMonth != 2 || snap.DealDay != 7 {
		t.Errorf("got %d-%d-%d, want 2025-2-7", snap.DealYear, snap.DealMonth, snap.DealDay)
	}
	// January must never be fetched once February matched
	if got := src.fetchCount(); got != 2 {
		t.Errorf("fetchCount = %d, want 2", got)
	}
}

func TestFindLatestDealAllPeriodsFailing(t *testing.T) {
	src := newFakeSource()
	boom := errors.New("upstream down")
	for _, p := range []string{
		"202503", "202502", "202501", "202412", "202411", "202410",
		"202409", "202408", "202407", "202406", "202405", "202404",
	} {
		src.fail[p] = boom
	}

	if snap := newTestReconciler(src).FindLatestDeal(context.Background(), testApartment(), 12); snap != nil {
		t.Errorf("expected nil snapshot, got %+v", snap)
	}
}

func TestFindLatestDealNoCandidateAnywhere(t *testing.T) {
	src := newFakeSource()
	src.pages["202501"] = []models.TradeRecord{
		{AptName: "다른곳", Dong: "다른동", Jibun: "1", DealYear: 2025, DealMonth: 1, DealDay: 1},
	}

	if snap := newTestReconciler(src).FindLatestDeal(context.Background(), testApartment(), 12); snap != nil {
		t.Errorf("expected nil snapshot, got %+v", snap)
	}
}

func TestFindLatestDealFillsDateFromPeriod(t *testing.T) {
	src := newFakeSource()
	src.pages["202503"] = []models.TradeRecord{
		{AptName: "래미안", DealDay: 9, DealAmount: "100,000"},
	}

	snap := newTestReconciler(src).FindLatestDeal(context.Background(), testApartment(), 12)
	if snap == nil {
		t.Fatal("expected a snapshot")
	}
	if snap.DealYear != 2025 || snap.DealMonth != 3 {
		t.Errorf("got %d-%d, want 2025-3 derived from the scanned period", snap.DealYear, snap.DealMonth)
	}
}
