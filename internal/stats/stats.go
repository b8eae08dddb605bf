// Package stats computes the dashboard aggregates over a filtered view.
// All functions are pure: they never mutate the input slice.
package stats

import (
	"sort"

	"github.com/bolt-support/insights-service/internal/model"
)

type Summary struct {
	Total       int     `json:"total"`
	Flagged     int     `json:"flagged"`
	FlaggedPct  float64 `json:"flagged_pct"`
	Categories  int     `json:"categories"`
	Resolved    int     `json:"resolved"`
	ResolvedPct float64 `json:"resolved_pct"`
}

// Summarize computes the metric-card numbers. Percentages are 0 for an
// empty view, never NaN.
func Summarize(view []model.Ticket) Summary {
	s := Summary{Total: len(view)}
	seen := make(map[string]struct{})
	for i := range view {
		t := &view[i]
		if t.IsFlagged() {
			s.Flagged++
		}
		if t.IsResolved() {
			s.Resolved++
		}
		seen[t.Category] = struct{}{}
	}
	s.Categories = len(seen)
	s.FlaggedPct = pct(s.Flagged, s.Total)
	s.ResolvedPct = pct(s.Resolved, s.Total)
	return s
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CountByCategory is the per-category value count, ordered by count
// descending with category name as tiebreak so output is deterministic.
func CountByCategory(view []model.Ticket) []CategoryCount {
	counts := make(map[string]int)
	for i := range view {
		counts[view[i].Category]++
	}
	out := make([]CategoryCount, 0, len(counts))
	for cat, n := range counts {
		out = append(out, CategoryCount{Category: cat, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}

type ReviewFlagCount struct {
	Flag  model.ReviewFlag `json:"flag"`
	Count int              `json:"count"`
	Share float64          `json:"share"`
}

// CountByReviewFlag returns the review-flag distribution with percentage
// shares, YES first.
func CountByReviewFlag(view []model.Ticket) []ReviewFlagCount {
	var yes, no int
	for i := range view {
		if view[i].IsFlagged() {
			yes++
		} else {
			no++
		}
	}
	return []ReviewFlagCount{
		{Flag: model.ReviewFlagYes, Count: yes, Share: pct(yes, len(view))},
		{Flag: model.ReviewFlagNo, Count: no, Share: pct(no, len(view))},
	}
}

// MonthLayout formats a created timestamp into a timeline bucket key.
const MonthLayout = "2006-01"

type TimelineBucket struct {
	Month    string `json:"month"`
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Timeline groups the view by creation month and category. Records without
// a creation timestamp are skipped. Buckets are ordered by month, then
// category.
func Timeline(view []model.Ticket) []TimelineBucket {
	type key struct{ month, category string }
	counts := make(map[key]int)
	for i := range view {
		t := &view[i]
		if t.Created == nil {
			continue
		}
		counts[key{t.Created.Format(MonthLayout), t.Category}]++
	}
	out := make([]TimelineBucket, 0, len(counts))
	for k, n := range counts {
		out = append(out, TimelineBucket{Month: k.month, Category: k.category, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].Category < out[j].Category
	})
	return out
}

type BreakdownRow struct {
	Category string `json:"category"`
	Total    int    `json:"total"`
	Flagged  int    `json:"flagged"`
	Resolved int    `json:"resolved"`
}

// Breakdown is the per-category table: total, flagged and resolved counts,
// ordered by total descending with category name as tiebreak.
func Breakdown(view []model.Ticket) []BreakdownRow {
	rows := make(map[string]*BreakdownRow)
	for i := range view {
		t := &view[i]
		row, ok := rows[t.Category]
		if !ok {
			row = &BreakdownRow{Category: t.Category}
			rows[t.Category] = row
		}
		row.Total++
		if t.IsFlagged() {
			row.Flagged++
		}
		if t.IsResolved() {
			row.Resolved++
		}
	}
	out := make([]BreakdownRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// Recent returns the n most recently created tickets. Records without a
// creation timestamp sort last; ties keep input order.
func Recent(view []model.Ticket, n int) []model.Ticket {
	out := make([]model.Ticket, len(view))
	copy(out, view)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Created, out[j].Created
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

func pct(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
