package service

import (
	"context"
	"sort"
	"time"

	"github.com/bolt-support/insights-service/internal/dataset"
	"github.com/bolt-support/insights-service/internal/model"
	"github.com/bolt-support/insights-service/internal/stats"
	"github.com/bolt-support/insights-service/pkg/metrics"
)

// InsightsServicer — the interface handlers depend on (Dependency Inversion).
type InsightsServicer interface {
	View(ctx context.Context, f dataset.Filter) ([]model.Ticket, error)
	Summary(ctx context.Context, f dataset.Filter) (stats.Summary, error)
	Categories(ctx context.Context, f dataset.Filter) ([]stats.CategoryCount, error)
	ReviewFlags(ctx context.Context, f dataset.Filter) ([]stats.ReviewFlagCount, error)
	Timeline(ctx context.Context, f dataset.Filter) ([]stats.TimelineBucket, error)
	Breakdown(ctx context.Context, f dataset.Filter) ([]stats.BreakdownRow, error)
	Tickets(ctx context.Context, f dataset.Filter, limit, offset int) ([]model.Ticket, int, error)
	Options(ctx context.Context) (FilterOptions, error)
	Reload(ctx context.Context) (int, error)
}

// FilterOptions feeds the dashboard's filter controls: the categories
// present in the data and the created-date bounds.
type FilterOptions struct {
	Categories     []string   `json:"categories"`
	ReviewStatuses []string   `json:"review_statuses"`
	MinCreated     *time.Time `json:"min_created,omitempty"`
	MaxCreated     *time.Time `json:"max_created,omitempty"`
}

// InsightsService serves every aggregate from the memoized in-memory table;
// the whole view is recomputed per request, which is cheap at export sizes.
type InsightsService struct {
	store    *dataset.Store
	dataFile string
}

func NewInsightsService(store *dataset.Store, dataFile string) *InsightsService {
	return &InsightsService{store: store, dataFile: dataFile}
}

func (s *InsightsService) load() ([]model.Ticket, error) {
	tickets, err := s.store.Load(s.dataFile)
	if err != nil {
		return nil, err
	}
	metrics.DatasetRows.Set(float64(len(tickets)))
	return tickets, nil
}

func (s *InsightsService) View(_ context.Context, f dataset.Filter) ([]model.Ticket, error) {
	tickets, err := s.load()
	if err != nil {
		return nil, err
	}
	return f.Apply(tickets), nil
}

func (s *InsightsService) Summary(ctx context.Context, f dataset.Filter) (stats.Summary, error) {
	view, err := s.View(ctx, f)
	if err != nil {
		return stats.Summary{}, err
	}
	return stats.Summarize(view), nil
}

func (s *InsightsService) Categories(ctx context.Context, f dataset.Filter) ([]stats.CategoryCount, error) {
	view, err := s.View(ctx, f)
	if err != nil {
		return nil, err
	}
	return stats.CountByCategory(view), nil
}

func (s *InsightsService) ReviewFlags(ctx context.Context, f dataset.Filter) ([]stats.ReviewFlagCount, error) {
	view, err := s.View(ctx, f)
	if err != nil {
		return nil, err
	}
	return stats.CountByReviewFlag(view), nil
}

func (s *InsightsService) Timeline(ctx context.Context, f dataset.Filter) ([]stats.TimelineBucket, error) {
	view, err := s.View(ctx, f)
	if err != nil {
		return nil, err
	}
	return stats.Timeline(view), nil
}

func (s *InsightsService) Breakdown(ctx context.Context, f dataset.Filter) ([]stats.BreakdownRow, error) {
	view, err := s.View(ctx, f)
	if err != nil {
		return nil, err
	}
	return stats.Breakdown(view), nil
}

// Tickets lists the filtered view newest-first with optional pagination.
// The returned total is the filtered row count before pagination.
func (s *InsightsService) Tickets(ctx context.Context, f dataset.Filter, limit, offset int) ([]model.Ticket, int, error) {
	view, err := s.View(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	ordered := stats.Recent(view, 0)
	total := len(ordered)
	if offset > 0 {
		if offset > total {
			offset = total
		}
		ordered = ordered[offset:]
	}
	if limit > 0 && limit < len(ordered) {
		ordered = ordered[:limit]
	}
	return ordered, total, nil
}

func (s *InsightsService) Options(_ context.Context) (FilterOptions, error) {
	tickets, err := s.load()
	if err != nil {
		return FilterOptions{}, err
	}
	opts := FilterOptions{
		ReviewStatuses: []string{
			string(dataset.ReviewAll),
			string(dataset.ReviewFlagged),
			string(dataset.ReviewAuto),
		},
	}
	seen := make(map[string]struct{})
	for i := range tickets {
		t := &tickets[i]
		if _, ok := seen[t.Category]; !ok {
			seen[t.Category] = struct{}{}
			opts.Categories = append(opts.Categories, t.Category)
		}
		if t.Created != nil {
			if opts.MinCreated == nil || t.Created.Before(*opts.MinCreated) {
				opts.MinCreated = t.Created
			}
			if opts.MaxCreated == nil || t.Created.After(*opts.MaxCreated) {
				opts.MaxCreated = t.Created
			}
		}
	}
	sort.Strings(opts.Categories)
	return opts, nil
}

// Reload drops the memoized table and reads the export again, returning the
// new row count.
func (s *InsightsService) Reload(_ context.Context) (int, error) {
	tickets, err := s.store.Reload(s.dataFile)
	if err != nil {
		return 0, err
	}
	metrics.DatasetRows.Set(float64(len(tickets)))
	metrics.DatasetLoadTimestamp.SetToCurrentTime()
	return len(tickets), nil
}
