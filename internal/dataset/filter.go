package dataset

import (
	"fmt"
	"time"

	"github.com/bolt-support/insights-service/internal/errs"
	"github.com/bolt-support/insights-service/internal/model"
)

// ReviewStatus selects tickets by review flag.
type ReviewStatus string

const (
	ReviewAll     ReviewStatus = "all"
	ReviewFlagged ReviewStatus = "flagged" // Review_Flag == YES
	ReviewAuto    ReviewStatus = "auto"    // Review_Flag == NO (auto-assigned)
)

// ParseReviewStatus maps a query value to a ReviewStatus; empty means all.
func ParseReviewStatus(s string) (ReviewStatus, error) {
	switch ReviewStatus(s) {
	case "", ReviewAll:
		return ReviewAll, nil
	case ReviewFlagged:
		return ReviewFlagged, nil
	case ReviewAuto:
		return ReviewAuto, nil
	}
	return "", fmt.Errorf("%w: review=%q", errs.ErrBadFilter, s)
}

// DateOnly is the layout for from/to filter parameters.
const DateOnly = "2006-01-02"

// Filter narrows a loaded view. Zero value matches every record.
type Filter struct {
	Category string
	Review   ReviewStatus
	From     *time.Time // created on or after this day
	To       *time.Time // created on or before this day (whole day inclusive)
}

// ParseDate parses a from/to parameter; empty yields nil.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	ts, err := time.Parse(DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("%w: date=%q", errs.ErrBadFilter, s)
	}
	return &ts, nil
}

// Match reports whether a single record passes the filter. Records without a
// creation timestamp are excluded once a date bound is set.
func (f Filter) Match(t *model.Ticket) bool {
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	switch f.Review {
	case ReviewFlagged:
		if !t.IsFlagged() {
			return false
		}
	case ReviewAuto:
		if t.IsFlagged() {
			return false
		}
	}
	if f.From != nil || f.To != nil {
		if t.Created == nil {
			return false
		}
		if f.From != nil && t.Created.Before(*f.From) {
			return false
		}
		if f.To != nil && !t.Created.Before(f.To.AddDate(0, 0, 1)) {
			return false
		}
	}
	return true
}

// Apply returns the records matching the filter, preserving input order.
func (f Filter) Apply(in []model.Ticket) []model.Ticket {
	out := make([]model.Ticket, 0, len(in))
	for i := range in {
		if f.Match(&in[i]) {
			out = append(out, in[i])
		}
	}
	return out
}
