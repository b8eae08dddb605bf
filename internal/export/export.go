// Package export writes the currently filtered view back out as a CSV or
// XLSX download. Column order matches the source export, so an exported
// file can be loaded again by the dataset loader.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/bolt-support/insights-service/internal/dataset"
	"github.com/bolt-support/insights-service/internal/model"
	"github.com/xuri/excelize/v2"
)

// Filename builds the timestamped download name, e.g.
// support_insights_filtered_20260823_141502.csv.
func Filename(ext string, now time.Time) string {
	return fmt.Sprintf("support_insights_filtered_%s.%s", now.Format("20060102_150405"), ext)
}

// WriteCSV writes the view with the canonical header. Absent timestamps
// render as empty cells.
func WriteCSV(w io.Writer, view []model.Ticket, dateLayout string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(dataset.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range view {
		if err := cw.Write(record(&view[i], dateLayout)); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

const sheetName = "Tickets"

// WriteXLSX writes the view as a single-sheet workbook.
func WriteXLSX(w io.Writer, view []model.Ticket, dateLayout string) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header := make([]interface{}, len(dataset.Columns))
	for i, c := range dataset.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range view {
		rec := record(&view[i], dateLayout)
		row := make([]interface{}, len(rec))
		for j, cell := range rec {
			row[j] = cell
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell address: %w", err)
		}
		if err := f.SetSheetRow(sheetName, addr, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func record(t *model.Ticket, dateLayout string) []string {
	return []string{
		t.Key,
		t.Summary,
		t.Category,
		string(t.ReviewFlag),
		t.Status,
		t.Priority,
		t.Assignee,
		formatTime(t.Created, dateLayout),
		formatTime(t.Updated, dateLayout),
		formatTime(t.LastViewed, dateLayout),
		formatTime(t.Resolved, dateLayout),
	}
}

func formatTime(ts *time.Time, layout string) string {
	if ts == nil {
		return ""
	}
	return ts.Format(layout)
}
