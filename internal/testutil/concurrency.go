package testutil

import (
	"sort"
	"time"
)

// ExecutionRecord holds the start and end times of one invocation.
type ExecutionRecord struct {
	Start time.Time
	End   time.Time
}

// MaxConcurrent returns the largest number of records whose intervals
// overlap at any instant. Touching intervals do not overlap.
func MaxConcurrent(records []ExecutionRecord) int {
	type edge struct {
		at    time.Time
		delta int
	}
	edges := make([]edge, 0, 2*len(records))
	for _, r := range records {
		edges = append(edges, edge{r.Start, +1}, edge{r.End, -1})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].at.Equal(edges[j].at) {
			return edges[i].delta < edges[j].delta
		}
		return edges[i].at.Before(edges[j].at)
	})

	cur, peak := 0, 0
	for _, e := range edges {
		cur += e.delta
		if cur > peak {
			peak = cur
		}
	}
	return peak
}
