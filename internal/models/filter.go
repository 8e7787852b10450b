package models

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// TaskFilter is a parsed filter specification for task listings.
// Zero values and nil pointers mean the filter is not applied.
type TaskFilter struct {
	// Search matches case-insensitively against title, description, or any tag.
	Search string
	// CategoryID filters by exact category match when non-nil.
	CategoryID *int64
	// Priority filters by exact priority match when non-empty.
	Priority string
	// Completed is tri-state: nil includes both completed and incomplete tasks.
	Completed *bool
	// Overdue, when true, restricts to incomplete tasks whose due date has passed.
	Overdue bool
}

// ParseTaskFilter builds a TaskFilter from request query parameters.
// An absent or empty parameter leaves the corresponding filter inactive.
func ParseTaskFilter(values url.Values) (*TaskFilter, error) {
	f := &TaskFilter{
		Search: values.Get("search"),
	}

	if raw := values.Get("category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid category id %q", raw)
		}
		f.CategoryID = &id
	}

	if raw := values.Get("priority"); raw != "" {
		if raw != PriorityLow && raw != PriorityMedium && raw != PriorityHigh {
			return nil, fmt.Errorf("invalid priority %q", raw)
		}
		f.Priority = raw
	}

	// "completed" is tri-state: absent means both, "true"/"false" narrow the set.
	// An empty value is treated as absent, never as false.
	if raw := values.Get("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid completed value %q", raw)
		}
		f.Completed = &completed
	}

	f.Overdue = values.Get("overdue") == "true"

	return f, nil
}

// Match reports whether the task satisfies every active filter condition.
func (f *TaskFilter) Match(t *Task, now time.Time) bool {
	if !f.MatchSearch(t) {
		return false
	}

	if f.CategoryID != nil {
		if t.CategoryID == nil || *t.CategoryID != *f.CategoryID {
			return false
		}
	}

	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}

	if f.Completed != nil && t.IsCompleted != *f.Completed {
		return false
	}

	if f.Overdue && !t.IsOverdue(now) {
		return false
	}

	return true
}

// MatchSearch reports whether the task matches the search term: a
// case-insensitive substring of the title, description, or any tag.
// An empty search term matches everything.
func (f *TaskFilter) MatchSearch(t *Task) bool {
	if f.Search == "" {
		return true
	}

	term := strings.ToLower(f.Search)
	if strings.Contains(strings.ToLower(t.Title), term) {
		return true
	}
	if strings.Contains(strings.ToLower(t.Description), term) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}

	return false
}

// SortTasks orders tasks by order_index ascending, breaking ties by
// created_at descending.
func SortTasks(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].OrderIndex != tasks[j].OrderIndex {
			return tasks[i].OrderIndex < tasks[j].OrderIndex
		}
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
}
