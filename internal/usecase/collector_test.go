package usecase

import (
	"context"
	"errors"
	"testing"

	"HomePulse/internal/domain/models"
	xlogger "HomePulse/pkg/logger"
	"HomePulse/pkg/workerpool"
)

func newTestCollector(t *testing.T, src *fakeSource, opts ...CollectorOption) *Collector {
	t.Helper()
	pool := workerpool.New(6)
	t.Cleanup(pool.StopWait)
	opts = append(opts, WithCollectorClock(fixedClock()))
	return NewCollector(src, pool, nopMetrics{}, xlogger.Nop(), 500, opts...)
}

func TestCollectForRegionMergesAndSorts(t *testing.T) {
	src := newFakeSource()
	src.pages["202503"] = []models.TradeRecord{
		{AptName: "단지A", DealYear: 2025, DealMonth: 3, DealDay: 3},
		{AptName: "단지B", DealYear: 2025, DealMonth: 3, DealDay: 21},
	}
	src.fail["202502"] = errors.New("upstream down")
	src.pages["202501"] = []models.TradeRecord{
		{AptName: "단지C", DealYear: 2025, DealMonth: 1, DealDay: 30},
		{AptName: "단지D", DealYear: 2025, DealMonth: 1, DealDay: 2},
		{AptName: "단지E"}, // date-less row sinks to the bottom
	}

	rows := newTestCollector(t, src).CollectForRegion(context.Background(), "11680", 1, 100)
	if len(rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(rows))
	}
	wantOrder := []string{"단지B", "단지A", "단지C", "단지D", "단지E"}
	for i, want := range wantOrder {
		if rows[i].AptName != want {
			t.Errorf("rows[%d] = %q, want %q", i, rows[i].AptName, want)
		}
	}
	// one fetch per month in the window, failed month included
	if got := src.fetchCount(); got != 12 {
		t.Errorf("fetchCount = %d, want 12", got)
	}
}

func TestCollectForRegionTruncatesToLimit(t *testing.T) {
	src := newFakeSource()
	src.pages["202503"] = []models.TradeRecord{
		{AptName: "단지A", DealYear: 2025, DealMonth: 3, DealDay: 1},
		{AptName: "단지B", DealYear: 2025, DealMonth: 3, DealDay: 2},
		{AptName: "단지C", DealYear: 2025, DealMonth: 3, DealDay: 3},
		{AptName: "단지D", DealYear: 2025, DealMonth: 3, DealDay: 4},
	}

	rows := newTestCollector(t, src).CollectForRegion(context.Background(), "11680", 1, 2)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].DealDay != 4 || rows[1].DealDay != 3 {
		t.Errorf("kept days %d,%d, want 4,3", rows[0].DealDay, rows[1].DealDay)
	}
}

func TestCollectForApartmentFiltersByName(t *testing.T) {
	src := newFakeSource()
	src.pages["202503"] = []models.TradeRecord{
		{AptName: "래미안 (1차)", DealYear: 2025, DealMonth: 3, DealDay: 10},
		{AptName: "무관한단지", DealYear: 2025, DealMonth: 3, DealDay: 11},
	}

	apt := testApartment()
	rows := newTestCollector(t, src).CollectForApartment(context.Background(), apt, 1, 100)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].AptName != "래미안 (1차)" {
		t.Errorf("kept %q", rows[0].AptName)
	}
}

func TestCollectClampsWindowAndLimit(t *testing.T) {
	src := newFakeSource()
	c := newTestCollector(t, src)

	// yearsBack 10 clamps to 3 -> 36 monthly fetches
	c.CollectForRegion(context.Background(), "11680", 10, 100)
	if got := src.fetchCount(); got != 36 {
		t.Errorf("fetchCount = %d, want 36", got)
	}

	// limit 0 clamps to 1
	src.pages["202503"] = []models.TradeRecord{
		{AptName: "단지A", DealYear: 2025, DealMonth: 3, DealDay: 1},
		{AptName: "단지B", DealYear: 2025, DealMonth: 3, DealDay: 2},
	}
	rows := c.CollectForRegion(context.Background(), "11680", 1, 0)
	if len(rows) != 1 {
		t.Errorf("rows = %d, want 1", len(rows))
	}
}

func TestCollectEmptyRegion(t *testing.T) {
	rows := newTestCollector(t, newFakeSource()).CollectForRegion(context.Background(), "", 1, 100)
	if len(rows) != 0 {
		t.Errorf("rows = %d, want 0", len(rows))
	}
}

type recordingArchive struct {
	scopes []models.DealScope
	count  int
	err    error
}

func (a *recordingArchive) ArchiveDeals(_ context.Context, scope models.DealScope, deals []models.TradeRecord) error {
	a.scopes = append(a.scopes, scope)
	a.count += len(deals)
	return a.err
}

func TestCollectArchivesBestEffort(t *testing.T) {
	src := newFakeSource()
	src.pages["202503"] = []models.TradeRecord{
		{AptName: "단지A", DealYear: 2025, DealMonth: 3, DealDay: 1},
	}

	arch := &recordingArchive{err: errors.New("clickhouse down")}
	rows := newTestCollector(t, src, WithArchive(arch)).CollectForRegion(context.Background(), "11680", 1, 100)
	if len(rows) != 1 {
		t.Fatalf("archive failure must not affect the response, rows = %d", len(rows))
	}
	if arch.count != 1 {
		t.Errorf("archived %d rows, want 1", arch.count)
	}
}
