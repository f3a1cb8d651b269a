/*
aggregator.go - Hierarchy validation and rollup

PURPOSE:
  The Aggregator turns per-employee attendance summaries into
  per-department summaries. Construction runs the full hierarchy
  validation, so an Aggregator that exists is always safe to use:
  structural checks first (blank/duplicate codes, unknown parents), then
  cycle detection over the parent chains, then level arithmetic. No
  partially constructed aggregator is ever returned.

FAILURE MODEL:
  Hierarchy problems and bad arguments (unknown code, out-of-range
  level) are caller misuse and error. Missing data never does: a
  department without matching employees produces the neutral zero
  summary so a batch report never aborts on one empty department.

EXAMPLE:
  agg, err := department.NewAggregator(departments)
  rollup, err := agg.AggregateByLevel(summaries, 1)

SEE ALSO:
  - summary.go: the result value, weighted means, compliance score
  - report.go: ranking and advisories on top of the rollup
*/
package department

import (
	"fmt"
	"sort"

	"github.com/warp/attendance-engine/attendance"
)

// =============================================================================
// AGGREGATOR
// =============================================================================

// Aggregator rolls employee summaries up the department tree. It is
// read-only after construction and safe to share across goroutines.
type Aggregator struct {
	index    map[attendance.DepartmentCode]Department
	children map[attendance.DepartmentCode][]attendance.DepartmentCode
	baseline int
}

// Option adjusts aggregator construction.
type Option func(*Aggregator)

// WithOvertimeBaseline sets the average scheduled-overtime minutes per
// employee at which the compliance overtime penalty maxes out. The
// default is the 45-hour monthly cap.
func WithOvertimeBaseline(minutes int) Option {
	return func(a *Aggregator) {
		if minutes > 0 {
			a.baseline = minutes
		}
	}
}

// NewAggregator validates the hierarchy and returns a ready aggregator.
// Structural problems fail with a ValidationError; a looping parent
// chain fails with a CircularReferenceError.
func NewAggregator(departments []Department, opts ...Option) (*Aggregator, error) {
	if len(departments) == 0 {
		return nil, &ValidationError{Reason: "no departments"}
	}

	index := make(map[attendance.DepartmentCode]Department, len(departments))
	for _, d := range departments {
		if d.Code == "" {
			return nil, &ValidationError{Reason: "blank department code"}
		}
		if _, dup := index[d.Code]; dup {
			return nil, &ValidationError{Code: d.Code, Reason: "duplicate code"}
		}
		index[d.Code] = d
	}
	for _, d := range departments {
		if d.Parent == "" {
			continue
		}
		if _, ok := index[d.Parent]; !ok {
			return nil, &ValidationError{Code: d.Code, Reason: fmt.Sprintf("unknown parent %q", d.Parent)}
		}
	}

	// Cycles are checked before level arithmetic so that a loop reports
	// as a circular reference rather than as a level mismatch.
	if err := detectCycles(index); err != nil {
		return nil, err
	}

	for _, d := range departments {
		switch {
		case d.Level < 0 || d.Level >= MaxLevels:
			return nil, &ValidationError{Code: d.Code, Reason: fmt.Sprintf("level %d outside [0, %d)", d.Level, MaxLevels)}
		case d.Parent == "" && d.Level != 0:
			return nil, &ValidationError{Code: d.Code, Reason: fmt.Sprintf("parentless department must be level 0, got %d", d.Level)}
		case d.Parent != "":
			if parent := index[d.Parent]; d.Level != parent.Level+1 {
				return nil, &ValidationError{Code: d.Code,
					Reason: fmt.Sprintf("level %d does not follow parent %s at level %d", d.Level, parent.Code, parent.Level)}
			}
		}
	}

	children := make(map[attendance.DepartmentCode][]attendance.DepartmentCode)
	for _, d := range departments {
		if d.Parent != "" {
			children[d.Parent] = append(children[d.Parent], d.Code)
		}
	}
	for _, kids := range children {
		sort.Slice(kids, func(i, j int) bool { return kids[i] < kids[j] })
	}

	a := &Aggregator{index: index, children: children, baseline: defaultOvertimeBaseline}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// detectCycles walks every parent chain iteratively. A code seen twice
// within one chain is a cycle; a chain that reaches a root or an already
// verified code is clean. The step count is bounded so even a corrupted
// index cannot loop forever.
func detectCycles(index map[attendance.DepartmentCode]Department) error {
	codes := make([]attendance.DepartmentCode, 0, len(index))
	for code := range index {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	verified := make(map[attendance.DepartmentCode]bool, len(index))
	for _, start := range codes {
		if verified[start] {
			continue
		}
		var chain []attendance.DepartmentCode
		position := make(map[attendance.DepartmentCode]int)
		cur := start
		for steps := 0; steps <= len(index); steps++ {
			if verified[cur] {
				break
			}
			if at, seen := position[cur]; seen {
				cycle := append(append([]attendance.DepartmentCode{}, chain[at:]...), cur)
				return &CircularReferenceError{Path: cycle}
			}
			position[cur] = len(chain)
			chain = append(chain, cur)
			parent := index[cur].Parent
			if parent == "" {
				break
			}
			cur = parent
		}
		for _, code := range chain {
			verified[code] = true
		}
	}
	return nil
}

// =============================================================================
// LOOKUPS
// =============================================================================

// Department returns the node for a code.
func (a *Aggregator) Department(code attendance.DepartmentCode) (Department, bool) {
	d, ok := a.index[code]
	return d, ok
}

// Departments returns every node ordered by level, then code.
func (a *Aggregator) Departments() []Department {
	out := make([]Department, 0, len(a.index))
	for _, d := range a.index {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level < out[j].Level
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// Children returns the direct children of a code, ordered by code.
func (a *Aggregator) Children(code attendance.DepartmentCode) []attendance.DepartmentCode {
	return a.children[code]
}

// =============================================================================
// AGGREGATION
// =============================================================================

// AggregateDepartment builds the summary of one department's direct
// members over the period. Employee summaries assigned to other
// departments or falling outside the period are ignored. An unknown
// code errors; a department with no matching members yields the neutral
// zero summary.
func (a *Aggregator) AggregateDepartment(code attendance.DepartmentCode, summaries []attendance.Summary, period attendance.Period) (Summary, error) {
	dept, ok := a.index[code]
	if !ok {
		return Summary{}, &ValidationError{Code: code, Reason: "unknown department"}
	}
	var members []attendance.Summary
	for _, s := range summaries {
		if s.DepartmentCode == code && period.Covers(s.Period) {
			members = append(members, s)
		}
	}
	return newSummary(dept, members, period, a.baseline), nil
}

// AggregateByLevel rolls employee summaries up to every active
// department at the level: each target combines its own direct members
// with those of every descendant, active or not. Additive fields sum
// exactly; rates and averages are employee-count-weighted means; period
// bounds are the min/max across members. Results are ordered by
// department code.
func (a *Aggregator) AggregateByLevel(summaries []attendance.Summary, level int) ([]Summary, error) {
	if level < 0 || level >= MaxLevels {
		return nil, &ValidationError{Reason: fmt.Sprintf("level %d outside [0, %d)", level, MaxLevels)}
	}

	byDept := make(map[attendance.DepartmentCode][]attendance.Summary)
	for _, s := range summaries {
		byDept[s.DepartmentCode] = append(byDept[s.DepartmentCode], s)
	}

	var targets []Department
	for _, d := range a.index {
		if d.Level == level && d.Active {
			targets = append(targets, d)
		}
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].Code < targets[j].Code })

	results := make([]Summary, 0, len(targets))
	for _, dept := range targets {
		var members []attendance.Summary
		for _, code := range a.descendants(dept.Code) {
			members = append(members, byDept[code]...)
		}
		results = append(results, newSummary(dept, members, attendance.Period{}, a.baseline))
	}
	return results, nil
}

// descendants returns the department and everything below it, breadth
// first. The visited set guards revisits even though a validated
// hierarchy cannot produce them.
func (a *Aggregator) descendants(code attendance.DepartmentCode) []attendance.DepartmentCode {
	out := []attendance.DepartmentCode{code}
	visited := map[attendance.DepartmentCode]bool{code: true}
	for i := 0; i < len(out); i++ {
		for _, child := range a.children[out[i]] {
			if visited[child] {
				continue
			}
			visited[child] = true
			out = append(out, child)
		}
	}
	return out
}
