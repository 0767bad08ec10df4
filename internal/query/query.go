// Package query derives the task list the UI renders: text search,
// completion filter and sort, recomputed in full on every view
// request.
package query

import (
	"sort"
	"strings"

	"github.com/dmitrijs2005/foxlist/internal/models"
)

// CompletionFilter selects tasks by completion state.
type CompletionFilter string

const (
	FilterAll       CompletionFilter = "all"
	FilterPending   CompletionFilter = "pending"
	FilterCompleted CompletionFilter = "completed"
)

// SortKey selects the list ordering.
type SortKey string

const (
	// SortRecency orders by creation time, newest first.
	SortRecency SortKey = "recency"
	// SortPriority orders by priority rank (alta, media, baixa),
	// stable within equal ranks.
	SortPriority SortKey = "priority"
)

// Params are the UI-selected view parameters. Zero values mean: no
// text filter, all tasks, recency order.
type Params struct {
	Search     string
	Completion CompletionFilter
	Sort       SortKey
}

// Apply filters and sorts items per p, returning a new slice. The
// input is not modified.
func Apply(items []models.Task, p Params) []models.Task {
	result := make([]models.Task, 0, len(items))

	needle := strings.ToLower(p.Search)
	for i := range items {
		t := &items[i]

		if needle != "" &&
			!strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			continue
		}

		switch p.Completion {
		case FilterPending:
			if t.Completed {
				continue
			}
		case FilterCompleted:
			if !t.Completed {
				continue
			}
		}

		result = append(result, *t)
	}

	switch p.Sort {
	case SortPriority:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Priority.Rank() > result[j].Priority.Rank()
		})
	default:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		})
	}

	return result
}
