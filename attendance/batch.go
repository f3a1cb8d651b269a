package attendance

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
)

// =============================================================================
// BATCH CALCULATION - One summary per employee, computed in parallel
// =============================================================================

// CalculateBatch groups records by employee and computes every summary
// concurrently. Results are ordered by employee ID so a batch is
// deterministic regardless of input order or scheduling. The first
// structural error cancels the remaining work.
func (c *Calculator) CalculateBatch(ctx context.Context, records []Record, period Period) ([]Summary, error) {
	if len(records) == 0 {
		return nil, &CalculationError{Reason: "no records supplied"}
	}

	groups := make(map[EmployeeID][]Record)
	for _, rec := range records {
		groups[rec.EmployeeID] = append(groups[rec.EmployeeID], rec)
	}
	ids := make([]EmployeeID, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	summaries := make([]Summary, len(ids))
	g, gCtx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			summary, err := c.Calculate(groups[id], period)
			if err != nil {
				return err
			}
			summaries[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}
