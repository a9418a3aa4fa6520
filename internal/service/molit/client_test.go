package molit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	xhttp "HomePulse/pkg/http"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "/trade", "test-key",
		xhttp.NewClient(xhttp.WithTimeout(2*time.Second)))
}

func TestFetchParsesKoreanFieldNames(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("LAWD_CD") != "11680" || q.Get("DEAL_YMD") != "202503" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"response":{"body":{"items":{"item":[
			{"거래금액":"150,000","년":2025,"월":3,"일":15,"아파트":"래미안","법정동":"역삼동","지번":"123-45","전용면적":"84.97","층":"12"},
			{"거래금액":"80,000","년":"2025","월":"3","일":"2","아파트":"자이","법정동":"역삼동","지번":"7","전용면적":59.9,"층":3}
		]}}}}`))
	})

	rows, err := c.Fetch(context.Background(), "11680", "202503", 1, 100)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	first := rows[0]
	if first.DealAmount != "150000" {
		t.Errorf("DealAmount = %q, want commas stripped", first.DealAmount)
	}
	if first.DealYear != 2025 || first.DealMonth != 3 || first.DealDay != 15 {
		t.Errorf("date = %d-%d-%d", first.DealYear, first.DealMonth, first.DealDay)
	}
	if first.AptName != "래미안" || first.Dong != "역삼동" || first.Jibun != "123-45" {
		t.Errorf("identity fields = %+v", first)
	}
	if first.ExclusiveAreaM2 != 84.97 || first.Floor != 12 {
		t.Errorf("area/floor = %v/%d", first.ExclusiveAreaM2, first.Floor)
	}
	// numbers-as-strings and bare numbers both parse
	if rows[1].DealYear != 2025 || rows[1].ExclusiveAreaM2 != 59.9 || rows[1].Floor != 3 {
		t.Errorf("mixed-type row = %+v", rows[1])
	}
}

func TestFetchSingleObjectItem(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"response":{"body":{"items":{"item":
			{"dealAmount":"120,000","year":"2024","month":"11","day":"8","aptNm":"힐스테이트","umdNm":"삼성동","jibun":"55"}
		}}}}`))
	})

	rows, err := c.Fetch(context.Background(), "11680", "202411", 1, 100)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].AptName != "힐스테이트" || rows[0].Dong != "삼성동" || rows[0].DealYear != 2024 {
		t.Errorf("row = %+v", rows[0])
	}
}

func TestFetchDerivesDateFromDealYmd(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"response":{"body":{"items":{"item":[
			{"DEAL_AMT":"90,000","DEAL_YMD":"202502","aptName":"개포주공"}
		]}}}}`))
	})

	rows, err := c.Fetch(context.Background(), "11680", "202502", 1, 100)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if rows[0].DealYear != 2025 || rows[0].DealMonth != 2 {
		t.Errorf("derived date = %d-%d, want 2025-2", rows[0].DealYear, rows[0].DealMonth)
	}
}

func TestFetchEmptyMonth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"response":{"body":{"items":{"item":""}}}}`))
	})

	rows, err := c.Fetch(context.Background(), "11680", "202501", 1, 100)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rows = %d, want 0", len(rows))
	}
}

func TestFetchUpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	if _, err := c.Fetch(context.Background(), "11680", "202503", 1, 100); err == nil {
		t.Fatal("expected an error on 429")
	}
}

func TestFetchRequiresServiceKey(t *testing.T) {
	c := New("http://unused", "/trade", "", xhttp.NewClient())
	if _, err := c.Fetch(context.Background(), "11680", "202503", 1, 100); err == nil {
		t.Fatal("expected an error without a service key")
	}
}
