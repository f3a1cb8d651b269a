package fileio

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/department"
)

// =============================================================================
// WORKBOOK EXPORT
// =============================================================================

// RunInfo is the batch metadata stamped into the workbook's last sheet.
type RunInfo struct {
	RunID        string
	GeneratedAt  time.Time
	Period       attendance.Period
	RecordCount  int
	RejectedRows int
}

const (
	employeesSheet   = "Employees"
	departmentsSheet = "Departments"
	runInfoSheet     = "Run Info"
)

// WriteWorkbook writes one xlsx with an employee sheet, a department
// sheet, and the run metadata.
func WriteWorkbook(path string, employees []attendance.Summary, departments []department.Summary, info RunInfo) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", employeesSheet)
	writeRow(f, employeesSheet, 1, toCells(summaryHeader))
	for i, s := range employees {
		writeRow(f, employeesSheet, i+2, toCells(summaryRow(s)))
	}

	if _, err := f.NewSheet(departmentsSheet); err != nil {
		return errors.Wrap(err, "adding departments sheet")
	}
	writeRow(f, departmentsSheet, 1, toCells(departmentHeader))
	for i, s := range departments {
		writeRow(f, departmentsSheet, i+2, toCells(departmentRow(s)))
	}

	if _, err := f.NewSheet(runInfoSheet); err != nil {
		return errors.Wrap(err, "adding run info sheet")
	}
	meta := [][]any{
		{"Run ID", info.RunID},
		{"Generated At", info.GeneratedAt.Format(time.RFC3339)},
		{"Period", info.Period.String()},
		{"Records", info.RecordCount},
		{"Rejected Rows", info.RejectedRows},
		{"Employees", len(employees)},
		{"Departments", len(departments)},
	}
	for i, row := range meta {
		writeRow(f, runInfoSheet, i+1, row)
	}

	return errors.Wrap(f.SaveAs(path), "saving workbook")
}

// writeRow fills one sheet row left to right starting at column A.
func writeRow(f *excelize.File, sheet string, row int, values []any) {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			continue
		}
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func toCells(row []string) []any {
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}

// SummaryFileName builds the conventional export name for a period.
func SummaryFileName(period attendance.Period, ext string) string {
	return fmt.Sprintf("attendance_%s_%s.%s", period.Start, period.End, ext)
}
