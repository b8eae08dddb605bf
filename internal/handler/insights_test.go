package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bolt-support/insights-service/internal/config"
	"github.com/bolt-support/insights-service/internal/dataset"
	"github.com/bolt-support/insights-service/internal/handler"
	"github.com/bolt-support/insights-service/internal/router"
	"github.com/bolt-support/insights-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const sampleCSV = `Key,Summary,Category,Review_Flag,Status,Priority,Assignee,Created,Updated,Last Viewed,Resolved
BOLT-1,Login fails,Authentication,YES,Open,High,alice,05/01/2024 09:30,06/01/2024 10:00,,
BOLT-2,Slow reports,Performance,NO,Closed,Low,bob,12/02/2024 14:10,13/02/2024 09:00,14/02/2024 08:00,15/02/2024 16:45
BOLT-3,Refund not processed,Billing,YES,Open,High,alice,20/02/2024 11:00,,,
BOLT-4,Typo on page,,,Open,,,25/02/2024 08:15,,,
`

func newTestRouter(t *testing.T, csvContent string) (http.Handler, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	path := filepath.Join(t.TempDir(), "tickets.csv")
	if csvContent != "" {
		if err := os.WriteFile(path, []byte(csvContent), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}
	store := dataset.NewStore(dataset.NewLoader(config.DefaultDateLayout))
	svc := service.NewInsightsService(store, path)
	h := handler.NewInsightsHandler(svc, config.DefaultDateLayout)
	return router.New(h, zerolog.Nop()), path
}

func get(t *testing.T, r http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), into); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, sampleCSV)
	w := get(t, r, "/api/v1/summary")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var s struct {
		Total      int     `json:"total"`
		Flagged    int     `json:"flagged"`
		FlaggedPct float64 `json:"flagged_pct"`
		Categories int     `json:"categories"`
		Resolved   int     `json:"resolved"`
	}
	decode(t, w, &s)
	if s.Total != 4 || s.Flagged != 2 || s.FlaggedPct != 50 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if s.Categories != 4 || s.Resolved != 1 {
		t.Fatalf("unexpected summary: %+v", s)
	}
}

func TestCategoryBreakdownSumsToFilteredTotal(t *testing.T) {
	r, _ := newTestRouter(t, sampleCSV)
	w := get(t, r, "/api/v1/breakdown?review=flagged")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Breakdown []struct {
			Category string `json:"category"`
			Total    int    `json:"total"`
		} `json:"breakdown"`
	}
	decode(t, w, &resp)
	sum := 0
	for _, row := range resp.Breakdown {
		sum += row.Total
	}

	var listing struct {
		Total int `json:"total"`
	}
	wl := get(t, r, "/api/v1/tickets?review=flagged")
	decode(t, wl, &listing)
	if sum != listing.Total {
		t.Fatalf("breakdown sums to %d, listing total is %d", sum, listing.Total)
	}
}

func TestTicketListingFilteredByCategory(t *testing.T) {
	r, _ := newTestRouter(t, sampleCSV)
	w := get(t, r, "/api/v1/tickets?category=Billing")
	var resp struct {
		Tickets []struct {
			Key      string `json:"key"`
			Category string `json:"category"`
		} `json:"tickets"`
		Total int `json:"total"`
	}
	decode(t, w, &resp)
	if resp.Total != 1 || len(resp.Tickets) != 1 {
		t.Fatalf("expected 1 billing ticket, got %+v", resp)
	}
	if resp.Tickets[0].Category != "Billing" {
		t.Fatalf("unexpected category %q", resp.Tickets[0].Category)
	}
}

func TestTicketListingNewestFirstWithLimit(t *testing.T) {
	r, _ := newTestRouter(t, sampleCSV)
	w := get(t, r, "/api/v1/tickets?limit=2")
	var resp struct {
		Tickets []struct {
			Key string `json:"key"`
		} `json:"tickets"`
		Total int `json:"total"`
	}
	decode(t, w, &resp)
	if resp.Total != 4 {
		t.Fatalf("total = %d, want 4 (pre-pagination)", resp.Total)
	}
	if len(resp.Tickets) != 2 || resp.Tickets[0].Key != "BOLT-4" || resp.Tickets[1].Key != "BOLT-3" {
		t.Fatalf("unexpected page: %+v", resp.Tickets)
	}
}

func TestUncategorizedDefaultVisibleThroughAPI(t *testing.T) {
	r, _ := newTestRouter(t, sampleCSV)
	w := get(t, r, "/api/v1/tickets?category=Uncategorized")
	var resp struct {
		Total int `json:"total"`
	}
	decode(t, w, &resp)
	if resp.Total != 1 {
		t.Fatalf("expected 1 uncategorized ticket, got %d", resp.Total)
	}
}

func TestBadReviewParamReturns400(t *testing.T) {
	r, _ := newTestRouter(t, sampleCSV)
	if w := get(t, r, "/api/v1/summary?review=bogus"); w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
	if w := get(t, r, "/api/v1/tickets?from=02-2024"); w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
}

func TestMissingDataFileReturns503(t *testing.T) {
	r, _ := newTestRouter(t, "")
	w := get(t, r, "/api/v1/summary")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status %d, want 503: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Error string `json:"error"`
	}
	decode(t, w, &resp)
	if resp.Error == "" {
		t.Fatal("expected user-visible error message")
	}
}

func TestExportRoundTripMatchesFilteredView(t *testing.T) {
	r, _ := newTestRouter(t, sampleCSV)

	w := get(t, r, "/api/v1/export?review=flagged")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	cd := w.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "support_insights_filtered_") || !strings.Contains(cd, ".csv") {
		t.Fatalf("unexpected content disposition %q", cd)
	}

	loader := dataset.NewLoader(config.DefaultDateLayout)
	reloaded, err := loader.Read(w.Body)
	if err != nil {
		t.Fatalf("reload export: %v", err)
	}

	var listing struct {
		Total int `json:"total"`
	}
	decode(t, get(t, r, "/api/v1/tickets?review=flagged"), &listing)
	if len(reloaded) != listing.Total {
		t.Fatalf("export has %d rows, filtered view has %d", len(reloaded), listing.Total)
	}
}

func TestExportUnknownFormatReturns400(t *testing.T) {
	r, _ := newTestRouter(t, sampleCSV)
	if w := get(t, r, "/api/v1/export?format=pdf"); w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
}

func TestFiltersEndpointListsSortedCategoriesAndBounds(t *testing.T) {
	r, _ := newTestRouter(t, sampleCSV)
	w := get(t, r, "/api/v1/filters")
	var opts struct {
		Categories     []string `json:"categories"`
		ReviewStatuses []string `json:"review_statuses"`
		MinCreated     string   `json:"min_created"`
		MaxCreated     string   `json:"max_created"`
	}
	decode(t, w, &opts)
	want := []string{"Authentication", "Billing", "Performance", "Uncategorized"}
	if len(opts.Categories) != len(want) {
		t.Fatalf("categories = %v, want %v", opts.Categories, want)
	}
	for i, cat := range want {
		if opts.Categories[i] != cat {
			t.Fatalf("categories = %v, want %v", opts.Categories, want)
		}
	}
	if !strings.HasPrefix(opts.MinCreated, "2024-01-05") || !strings.HasPrefix(opts.MaxCreated, "2024-02-25") {
		t.Fatalf("unexpected date bounds %q .. %q", opts.MinCreated, opts.MaxCreated)
	}
}

func TestReloadPicksUpNewRows(t *testing.T) {
	r, path := newTestRouter(t, sampleCSV)

	// Warm the memoized table, then grow the file behind it.
	get(t, r, "/api/v1/summary")
	grown := sampleCSV + "BOLT-5,New issue,Billing,NO,Open,,,26/02/2024 09:00,,,\n"
	if err := os.WriteFile(path, []byte(grown), 0o644); err != nil {
		t.Fatalf("rewrite fixture: %v", err)
	}

	var before struct {
		Total int `json:"total"`
	}
	decode(t, get(t, r, "/api/v1/summary"), &before)
	if before.Total != 4 {
		t.Fatalf("expected memoized total 4, got %d", before.Total)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/reload", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("reload status %d: %s", w.Code, w.Body.String())
	}

	var after struct {
		Total int `json:"total"`
	}
	decode(t, get(t, r, "/api/v1/summary"), &after)
	if after.Total != 5 {
		t.Fatalf("expected total 5 after reload, got %d", after.Total)
	}
}

func TestDashboardAndHealthServed(t *testing.T) {
	r, _ := newTestRouter(t, sampleCSV)
	w := get(t, r, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard status %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Support Insights Dashboard") {
		t.Fatal("dashboard page missing title")
	}
	if w := get(t, r, "/health"); w.Code != http.StatusOK {
		t.Fatalf("health status %d", w.Code)
	}
}
