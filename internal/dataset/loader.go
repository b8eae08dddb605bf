package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bolt-support/insights-service/internal/errs"
	"github.com/bolt-support/insights-service/internal/model"
)

// Column names as they appear in the export header. Matching is
// case-insensitive and treats spaces and underscores alike.
const (
	ColKey        = "Key"
	ColSummary    = "Summary"
	ColCategory   = "Category"
	ColReviewFlag = "Review_Flag"
	ColStatus     = "Status"
	ColPriority   = "Priority"
	ColAssignee   = "Assignee"
	ColCreated    = "Created"
	ColUpdated    = "Updated"
	ColLastViewed = "Last Viewed"
	ColResolved   = "Resolved"
)

// Columns is the canonical column order, used for exports.
var Columns = []string{
	ColKey, ColSummary, ColCategory, ColReviewFlag, ColStatus, ColPriority,
	ColAssignee, ColCreated, ColUpdated, ColLastViewed, ColResolved,
}

// Loader reads a categorized ticket export. Column order is not assumed;
// only Summary is required. Timestamp cells that fail to parse become nil
// rather than errors, and absent Category/Review_Flag values get defaults.
type Loader struct {
	layout string
}

func NewLoader(dateLayout string) *Loader {
	return &Loader{layout: dateLayout}
}

func (l *Loader) Load(path string) ([]model.Ticket, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", errs.ErrDatasetUnavailable, path, err)
	}
	defer f.Close()
	return l.Read(f)
}

// Read parses the export from r. The first record is the header.
func (l *Loader) Read(r io.Reader) ([]model.Ticket, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", errs.ErrDatasetUnavailable, err)
	}
	cols := indexColumns(header)
	if _, ok := cols[normalizeColumn(ColSummary)]; !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrMissingColumn, ColSummary)
	}

	var tickets []model.Ticket
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read row: %v", errs.ErrDatasetUnavailable, err)
		}
		tickets = append(tickets, l.row(cols, rec))
	}
	return tickets, nil
}

func (l *Loader) row(cols map[string]int, rec []string) model.Ticket {
	cell := func(name string) string {
		i, ok := cols[normalizeColumn(name)]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	t := model.Ticket{
		Key:        cell(ColKey),
		Summary:    cell(ColSummary),
		Category:   cell(ColCategory),
		ReviewFlag: model.ReviewFlag(strings.ToUpper(cell(ColReviewFlag))),
		Status:     cell(ColStatus),
		Priority:   cell(ColPriority),
		Assignee:   cell(ColAssignee),
		Created:    l.parseTime(cell(ColCreated)),
		Updated:    l.parseTime(cell(ColUpdated)),
		LastViewed: l.parseTime(cell(ColLastViewed)),
		Resolved:   l.parseTime(cell(ColResolved)),
	}
	if t.Category == "" {
		t.Category = model.CategoryUncategorized
	}
	if t.ReviewFlag == "" {
		t.ReviewFlag = model.ReviewFlagNo
	}
	return t
}

// parseTime coerces a timestamp cell; malformed values become nil.
func (l *Loader) parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	ts, err := time.Parse(l.layout, s)
	if err != nil {
		return nil
	}
	return &ts
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		key := normalizeColumn(name)
		if _, seen := cols[key]; !seen {
			cols[key] = i
		}
	}
	return cols
}

func normalizeColumn(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(name, "_", " ")
}
