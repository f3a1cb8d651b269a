package fileio_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/fileio"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// punchCSV builds a punch file dated relative to today so the record date
// window never rejects the rows.
func punchCSV(t *testing.T, header string, rows ...string) string {
	t.Helper()
	date := attendance.Today().AddDays(-7).String()
	lines := []string{header}
	for _, row := range rows {
		lines = append(lines, strings.ReplaceAll(row, "{date}", date))
	}
	return strings.Join(lines, "\n") + "\n"
}

const englishHeader = "employee_id,employee_name,department_code,date,clock_in,clock_out,break_minutes,status"

// =============================================================================
// READING
// =============================================================================

func TestReadPunches_EnglishHeader(t *testing.T) {
	data := punchCSV(t, englishHeader,
		"E001,Sato Yuki,DEV,{date},09:00,18:00,60,",
		"E002,Tanaka Ken,SALES,{date},10:00,19:30,45,present",
	)

	records, rowErrors, err := fileio.ReadPunches(strings.NewReader(data))

	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, records, 2)

	assert.Equal(t, attendance.EmployeeID("E001"), records[0].EmployeeID)
	assert.Equal(t, attendance.DepartmentCode("DEV"), records[0].DepartmentCode)
	assert.Equal(t, 480, records[0].WorkedMinutes())
	assert.Equal(t, attendance.StatusPresent, records[1].Status)
	assert.Equal(t, 525, records[1].WorkedMinutes())
}

func TestReadPunches_JapaneseHeader(t *testing.T) {
	data := punchCSV(t, "社員番号,氏名,部署,勤務日,出勤時刻,退勤時刻,休憩,区分",
		"E001,佐藤雪,開発,{date},09:00,18:00,60,出勤",
	)

	records, rowErrors, err := fileio.ReadPunches(strings.NewReader(data))

	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, records, 1)
	assert.Equal(t, "佐藤雪", records[0].EmployeeName)
	assert.Equal(t, attendance.StatusPresent, records[0].Status)
}

func TestReadPunches_ShiftJISFallback(t *testing.T) {
	// GIVEN: The same punch file encoded as Shift-JIS (a legacy export)
	utf8Data := punchCSV(t, "社員番号,氏名,部署,勤務日,出勤時刻,退勤時刻,休憩,区分",
		"E001,佐藤雪,開発,{date},09:00,18:00,60,",
	)
	sjis, _, err := transform.Bytes(japanese.ShiftJIS.NewEncoder(), []byte(utf8Data))
	require.NoError(t, err)

	// WHEN: Reading it
	records, rowErrors, err := fileio.ReadPunches(bytes.NewReader(sjis))

	// THEN: The encoding is sniffed and the names decode intact
	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, records, 1)
	assert.Equal(t, "佐藤雪", records[0].EmployeeName)
}

func TestReadPunches_UTF8BOMStripped(t *testing.T) {
	data := "\xEF\xBB\xBF" + punchCSV(t, englishHeader,
		"E001,Sato Yuki,DEV,{date},09:00,18:00,60,",
	)

	records, rowErrors, err := fileio.ReadPunches(strings.NewReader(data))

	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, records, 1)
}

func TestReadPunches_ExtraAndReorderedColumns(t *testing.T) {
	data := punchCSV(t, "memo,date,clock_out,clock_in,employee_name,employee_id",
		"ignored,{date},18:00,09:00,Sato Yuki,E001",
	)

	records, rowErrors, err := fileio.ReadPunches(strings.NewReader(data))

	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, records, 1)
	assert.Equal(t, 540, records[0].GrossMinutes())
}

func TestReadPunches_BlankRowsSkipped(t *testing.T) {
	data := punchCSV(t, englishHeader,
		"E001,Sato Yuki,DEV,{date},09:00,18:00,60,",
		",,,,,,,",
	)

	records, rowErrors, err := fileio.ReadPunches(strings.NewReader(data))

	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	assert.Len(t, records, 1)
}

// =============================================================================
// PARTIAL FAILURE
// =============================================================================

func TestReadPunches_BadRowsReturnedAlongsideGoodOnes(t *testing.T) {
	// GIVEN: A good row, a row without a name, and a swapped punch pair
	data := punchCSV(t, englishHeader,
		"E001,Sato Yuki,DEV,{date},09:00,18:00,60,",
		"E002,,SALES,{date},09:00,18:00,60,",
		"E003,Tanaka Ken,DEV,{date},23:50,00:10,0,",
	)

	// WHEN: Reading
	records, rowErrors, err := fileio.ReadPunches(strings.NewReader(data))

	// THEN: The good row survives; each bad row names its line number
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Len(t, rowErrors, 2)

	assert.Equal(t, 3, rowErrors[0].Row)
	assert.ErrorIs(t, rowErrors[0], attendance.ErrMissingField)
	assert.Equal(t, 4, rowErrors[1].Row)
	assert.ErrorIs(t, rowErrors[1], attendance.ErrTimeLogic)
}

// =============================================================================
// FILE-LEVEL FAILURES
// =============================================================================

func TestReadPunches_EmptyFile(t *testing.T) {
	_, _, err := fileio.ReadPunches(strings.NewReader(""))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestReadPunches_HeaderWithoutRequiredColumns(t *testing.T) {
	for name, header := range map[string]string{
		"no employee id": "employee_name,date\nSato Yuki,2026-07-06",
		"no date":        "employee_id,employee_name\nE001,Sato Yuki",
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := fileio.ReadPunches(strings.NewReader(header))
			assert.Error(t, err)
		})
	}
}

func TestReadPunchCSV_MissingFile(t *testing.T) {
	_, _, err := fileio.ReadPunchCSV("/nonexistent/punches.csv")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening punch file")
}
