package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bolt-support/insights-service/internal/config"
	"github.com/bolt-support/insights-service/internal/dataset"
)

const sampleCSV = `Summary,Category,Review_Flag,Created
first,Billing,YES,05/01/2024 09:30
second,Billing,NO,12/02/2024 14:10
third,Authentication,NO,20/02/2024 11:00
`

func newTestService(t *testing.T) *InsightsService {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tickets.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	store := dataset.NewStore(dataset.NewLoader(config.DefaultDateLayout))
	return NewInsightsService(store, path)
}

func TestTicketsPaginationClampsOffset(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	items, total, err := svc.Tickets(ctx, dataset.Filter{}, 0, 10)
	if err != nil {
		t.Fatalf("tickets: %v", err)
	}
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty page past the end, got %d rows", len(items))
	}

	items, _, err = svc.Tickets(ctx, dataset.Filter{}, 2, 1)
	if err != nil {
		t.Fatalf("tickets: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(items))
	}
	// Newest first: third (20/02), second (12/02), first (05/01); offset 1 skips third.
	if items[0].Summary != "second" || items[1].Summary != "first" {
		t.Fatalf("unexpected page order: %q, %q", items[0].Summary, items[1].Summary)
	}
}

func TestReloadReturnsRowCount(t *testing.T) {
	svc := newTestService(t)
	rows, err := svc.Reload(context.Background())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if rows != 3 {
		t.Fatalf("rows = %d, want 3", rows)
	}
}

func TestOptionsComputesBoundsAndSortedCategories(t *testing.T) {
	svc := newTestService(t)
	opts, err := svc.Options(context.Background())
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if len(opts.Categories) != 2 || opts.Categories[0] != "Authentication" || opts.Categories[1] != "Billing" {
		t.Fatalf("unexpected categories %v", opts.Categories)
	}
	if opts.MinCreated == nil || opts.MaxCreated == nil {
		t.Fatal("expected created bounds")
	}
	if !opts.MinCreated.Before(*opts.MaxCreated) {
		t.Fatalf("bounds inverted: %v .. %v", opts.MinCreated, opts.MaxCreated)
	}
}
