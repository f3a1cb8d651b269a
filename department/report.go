package department

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// COMPARISON - Ranking department summaries on one metric
// =============================================================================

// Metric selects the axis a comparison ranks on.
type Metric string

const (
	MetricCompliance     Metric = "compliance"
	MetricAttendanceRate Metric = "attendance_rate"
	MetricOvertime       Metric = "overtime"
	MetricAverageWorked  Metric = "average_worked"
)

// ParseMetric maps a name onto the closed metric set. Unknown names are
// rejected so a typo surfaces at load time, not as a silent default.
func ParseMetric(s string) (Metric, error) {
	switch m := Metric(s); m {
	case MetricCompliance, MetricAttendanceRate, MetricOvertime, MetricAverageWorked:
		return m, nil
	default:
		return "", fmt.Errorf("unknown comparison metric %q", s)
	}
}

// Rank is one row of a comparison, best first.
type Rank struct {
	Position   int
	Summary    Summary
	Advisories []string
}

// Comparison is the ranked view of a set of department summaries.
type Comparison struct {
	Metric Metric
	Ranks  []Rank
}

// Compare ranks summaries on the metric. Compliance and attendance rate
// rank descending (higher is better); overtime and average worked rank
// ascending. Ties break by department code.
func Compare(summaries []Summary, metric Metric) (Comparison, error) {
	if _, err := ParseMetric(string(metric)); err != nil {
		return Comparison{}, err
	}

	ranked := make([]Summary, len(summaries))
	copy(ranked, summaries)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := metricValue(ranked[i], metric), metricValue(ranked[j], metric)
		if !a.Equal(b) {
			if metricDescending(metric) {
				return a.GreaterThan(b)
			}
			return a.LessThan(b)
		}
		return ranked[i].Code < ranked[j].Code
	})

	comparison := Comparison{Metric: metric, Ranks: make([]Rank, len(ranked))}
	for i, s := range ranked {
		comparison.Ranks[i] = Rank{Position: i + 1, Summary: s, Advisories: advisories(s)}
	}
	return comparison, nil
}

func metricValue(s Summary, m Metric) decimal.Decimal {
	switch m {
	case MetricAttendanceRate:
		return s.AttendanceRate
	case MetricOvertime:
		return decimal.NewFromInt(int64(s.OvertimeMinutes))
	case MetricAverageWorked:
		return s.AverageWorkedMinutes
	default:
		return s.ComplianceScore
	}
}

func metricDescending(m Metric) bool {
	return m == MetricCompliance || m == MetricAttendanceRate
}

// lowAttendanceRate is the advisory floor for department attendance.
var lowAttendanceRate = decimal.NewFromFloat(0.80)

// advisories emits the flags HR reads alongside a ranking. Departments
// without member data get none.
func advisories(s Summary) []string {
	if s.EmployeeCount == 0 {
		return nil
	}
	var out []string
	if s.ViolationCount > 0 {
		out = append(out, fmt.Sprintf("%d rule violations on record", s.ViolationCount))
	}
	if s.AttendanceRate.LessThan(lowAttendanceRate) {
		out = append(out, fmt.Sprintf("attendance rate %s%% below the 80%% floor",
			s.AttendanceRate.Mul(decimal.NewFromInt(100)).StringFixed(1)))
	}
	avgOvertime := decimal.NewFromInt(int64(s.OvertimeMinutes)).
		Div(decimal.NewFromInt(int64(s.EmployeeCount)))
	if avgOvertime.GreaterThan(decimal.NewFromInt(defaultOvertimeBaseline)) {
		out = append(out, fmt.Sprintf("average overtime %s minutes exceeds the 45-hour monthly guideline",
			avgOvertime.StringFixed(0)))
	}
	return out
}
