package attendance_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/attendance-engine/attendance"
)

func batchShift(t *testing.T, employee string, day int, in, out string) attendance.Record {
	t.Helper()
	rec := shift(t, day, in, out, 60)
	rec.EmployeeID = attendance.EmployeeID(employee)
	rec.EmployeeName = "Employee " + employee
	return rec
}

func TestCalculateBatch_OneSummaryPerEmployee_SortedByID(t *testing.T) {
	// GIVEN: Interleaved records for three employees
	// WHEN: Calculating the batch
	// THEN: Three summaries ordered by employee ID, each equal to the
	//       summary a solo Calculate produces for that employee

	calc := newCalculator(t, attendance.DefaultWorkRules())
	records := []attendance.Record{
		batchShift(t, "emp-3", 6, "09:00", "18:00"),
		batchShift(t, "emp-1", 6, "09:00", "21:00"),
		batchShift(t, "emp-2", 7, "23:00", "02:00"),
		batchShift(t, "emp-1", 7, "09:00", "18:00"),
	}

	summaries, err := calc.CalculateBatch(context.Background(), records, july())
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	assert.Equal(t, attendance.EmployeeID("emp-1"), summaries[0].EmployeeID)
	assert.Equal(t, attendance.EmployeeID("emp-2"), summaries[1].EmployeeID)
	assert.Equal(t, attendance.EmployeeID("emp-3"), summaries[2].EmployeeID)

	solo, err := calc.Calculate([]attendance.Record{records[1], records[3]}, july())
	require.NoError(t, err)
	assert.Equal(t, solo, summaries[0])
}

func TestCalculateBatch_DeterministicAcrossRuns(t *testing.T) {
	calc := newCalculator(t, attendance.DefaultWorkRules())
	records := []attendance.Record{
		batchShift(t, "emp-2", 6, "09:00", "19:30"),
		batchShift(t, "emp-1", 6, "22:00", "05:00"),
		batchShift(t, "emp-1", 8, "09:00", "18:00"),
	}

	first, err := calc.CalculateBatch(context.Background(), records, july())
	require.NoError(t, err)
	second, err := calc.CalculateBatch(context.Background(), records, july())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCalculateBatch_EmptyInput_Rejected(t *testing.T) {
	calc := newCalculator(t, attendance.DefaultWorkRules())

	_, err := calc.CalculateBatch(context.Background(), nil, july())
	assert.ErrorIs(t, err, attendance.ErrCalculation)
}

func TestCalculateBatch_StructuralErrorFailsTheBatch(t *testing.T) {
	calc := newCalculator(t, attendance.DefaultWorkRules())
	records := []attendance.Record{batchShift(t, "emp-1", 6, "09:00", "18:00")}
	inverted := attendance.Period{
		Start: attendance.NewDate(2026, time.July, 31),
		End:   attendance.NewDate(2026, time.July, 1),
	}

	_, err := calc.CalculateBatch(context.Background(), records, inverted)
	assert.ErrorIs(t, err, attendance.ErrCalculation)
}

func TestCalculateBatch_CancelledContext_Aborts(t *testing.T) {
	calc := newCalculator(t, attendance.DefaultWorkRules())
	records := []attendance.Record{batchShift(t, "emp-1", 6, "09:00", "18:00")}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := calc.CalculateBatch(ctx, records, july())
	assert.ErrorIs(t, err, context.Canceled)
}
