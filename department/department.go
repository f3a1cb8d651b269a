/*
department.go - Organizational hierarchy nodes

PURPOSE:
  A Department is one node of the organizational tree employee summaries
  roll up into. The tree is shallow (at most 10 levels) and loaded once
  per run from the department master list; the aggregator treats it as
  immutable.

INVARIANTS:
  - Codes are unique and non-blank.
  - A parented node sits exactly one level below its parent.
  - A parentless node is a root at level 0.
  - The parent graph is acyclic.

  None of these hold by construction of the struct; NewAggregator checks
  all of them and refuses to exist otherwise.

SEE ALSO:
  - aggregator.go: validation and rollup
  - summary.go: the per-department result value
*/
package department

import "github.com/warp/attendance-engine/attendance"

// MaxLevels bounds the hierarchy depth. Levels run 0 (root) through 9.
const MaxLevels = 10

// Department is one node of the organizational tree.
type Department struct {
	Code   attendance.DepartmentCode
	Name   string
	Parent attendance.DepartmentCode // blank for roots
	Level  int                       // root = 0
	Active bool
}

// IsRoot reports whether the department has no parent.
func (d Department) IsRoot() bool { return d.Parent == "" }
