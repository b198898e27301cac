package order

import (
	"sort"

	"label-server/core"
)

// NewestFirst orders jobs by creation time, newest first, and trims the
// result to limit entries when limit is positive.
func NewestFirst(jobs []*core.PrintJob, limit int) []*core.PrintJob {
	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].ID > jobs[j].ID
		}
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs
}
