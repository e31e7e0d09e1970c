package model

import "errors"

// FeedPage is one page of GET /report.
type FeedPage struct {
	Reports    []Report `json:"reports"`
	TotalPages int      `json:"totalPages"`
}

// MergeReports appends next to current, keeping each id once in the order it was
// first seen across both slices. The inputs are not modified.
func MergeReports(current, next []Report) []Report {
	seen := make(map[string]struct{}, len(current)+len(next))
	merged := make([]Report, 0, len(current)+len(next))

	for _, list := range [][]Report{current, next} {
		for _, r := range list {
			if _, ok := seen[r.ID]; ok {
				continue
			}
			seen[r.ID] = struct{}{}
			merged = append(merged, r)
		}
	}
	return merged
}

// Feed errors
var (
	ErrFetchInProgress = errors.New("a feed fetch is already in progress")
	ErrInvalidPage     = errors.New("page must be 1 or greater")
)
