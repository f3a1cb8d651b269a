/*
reader.go - Punch CSV ingestion

PURPOSE:
  Reads daily punch exports into validated attendance records. The files
  come from several timekeeping systems, so the reader accepts English
  and Japanese column headings and sniffs the encoding: UTF-8 with BOM,
  plain UTF-8, then Shift-JIS as the fallback for legacy exports.

FAILURE MODEL:
  File-level partial failure mirrors the engine's record-level partial
  failure: rows that fail record validation come back as RowErrors next
  to the good records instead of aborting the read. Only file problems
  (unreadable, undecodable, no usable header) error.

SEE ALSO:
  - attendance/record.go: the validating constructor every row passes
  - writer.go, excel.go: the export side
*/
package fileio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/warp/attendance-engine/attendance"
)

// =============================================================================
// ROW ERRORS
// =============================================================================

// RowError is one rejected punch row: the 1-based row number (header is
// row 1) and the validation failure.
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string { return fmt.Sprintf("row %d: %v", e.Row, e.Err) }

func (e RowError) Unwrap() error { return e.Err }

// =============================================================================
// HEADER MAPPING
// =============================================================================

// Canonical punch-file columns.
const (
	colEmployeeID   = "employee_id"
	colEmployeeName = "employee_name"
	colDepartment   = "department_code"
	colDate         = "date"
	colClockIn      = "clock_in"
	colClockOut     = "clock_out"
	colBreak        = "break_minutes"
	colStatus       = "status"
)

// headerAliases maps accepted headings, English and Japanese, onto the
// canonical columns. Unknown headings are ignored so exports may carry
// extra columns.
var headerAliases = map[string]string{
	"employee_id":     colEmployeeID,
	"employee id":     colEmployeeID,
	"id":              colEmployeeID,
	"社員番号":            colEmployeeID,
	"従業員id":           colEmployeeID,
	"employee_name":   colEmployeeName,
	"employee name":   colEmployeeName,
	"name":            colEmployeeName,
	"氏名":              colEmployeeName,
	"名前":              colEmployeeName,
	"department_code": colDepartment,
	"department":      colDepartment,
	"部署コード":           colDepartment,
	"部署":              colDepartment,
	"date":            colDate,
	"work_date":       colDate,
	"日付":              colDate,
	"勤務日":             colDate,
	"clock_in":        colClockIn,
	"clock in":        colClockIn,
	"出勤時刻":            colClockIn,
	"出勤":              colClockIn,
	"clock_out":       colClockOut,
	"clock out":       colClockOut,
	"退勤時刻":            colClockOut,
	"退勤":              colClockOut,
	"break_minutes":   colBreak,
	"break":           colBreak,
	"休憩時間":            colBreak,
	"休憩":              colBreak,
	"status":          colStatus,
	"区分":              colStatus,
	"ステータス":           colStatus,
}

// =============================================================================
// READING
// =============================================================================

// ReadPunchCSV reads a punch file from disk. See ReadPunches.
func ReadPunchCSV(path string) ([]attendance.Record, []RowError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening punch file")
	}
	defer f.Close()
	return ReadPunches(f)
}

// ReadPunches reads punch rows into validated records. Rows that fail
// validation are returned as RowErrors alongside the good records; the
// read itself only fails on file-level problems.
func ReadPunches(r io.Reader) ([]attendance.Record, []RowError, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading punch data")
	}
	decoded, err := decode(raw)
	if err != nil {
		return nil, nil, err
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, errors.New("punch file is empty")
	}
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading punch header")
	}
	columns := mapHeader(header)
	if _, ok := columns[colEmployeeID]; !ok {
		return nil, nil, errors.New("punch file has no employee id column")
	}
	if _, ok := columns[colDate]; !ok {
		return nil, nil, errors.New("punch file has no date column")
	}

	var (
		records   []attendance.Record
		rowErrors []RowError
	)
	for row := 2; ; row++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrors = append(rowErrors, RowError{Row: row, Err: err})
			continue
		}
		if blankRow(fields) {
			continue
		}
		input := attendance.RecordInput{
			EmployeeID:     field(fields, columns, colEmployeeID),
			EmployeeName:   field(fields, columns, colEmployeeName),
			DepartmentCode: field(fields, columns, colDepartment),
			WorkDate:       field(fields, columns, colDate),
			ClockIn:        field(fields, columns, colClockIn),
			ClockOut:       field(fields, columns, colClockOut),
			BreakMinutes:   field(fields, columns, colBreak),
			Status:         field(fields, columns, colStatus),
		}
		rec, err := attendance.NewRecord(input)
		if err != nil {
			rowErrors = append(rowErrors, RowError{Row: row, Err: err})
			continue
		}
		records = append(records, rec)
	}
	return records, rowErrors, nil
}

// mapHeader resolves each heading to its canonical column. The first
// occurrence of a column wins.
func mapHeader(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))
		canonical, ok := headerAliases[key]
		if !ok {
			continue
		}
		if _, taken := columns[canonical]; !taken {
			columns[canonical] = i
		}
	}
	return columns
}

func field(fields []string, columns map[string]int, name string) string {
	i, ok := columns[name]
	if !ok || i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}

func blankRow(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// decode sniffs the punch-file encoding: UTF-8 BOM, valid UTF-8, then
// Shift-JIS.
func decode(raw []byte) ([]byte, error) {
	if bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}) {
		return raw[3:], nil
	}
	if utf8.Valid(raw) {
		return raw, nil
	}
	decoded, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), raw)
	if err != nil {
		return nil, errors.Wrap(err, "decoding punch file as Shift-JIS")
	}
	return decoded, nil
}
