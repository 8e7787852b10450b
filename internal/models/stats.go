package models

// TaskPosition is one entry of a reorder batch.
type TaskPosition struct {
	ID         int64 `json:"id"`
	OrderIndex int   `json:"order_index"`
}

// Stats is the aggregated task-count view.
type Stats struct {
	Total        int             `json:"total"`
	Completed    int             `json:"completed"`
	Pending      int             `json:"pending"`
	HighPriority int             `json:"high_priority"`
	Overdue      int             `json:"overdue"`
	ByPriority   []PriorityCount `json:"by_priority"`
	ByCategory   []CategoryCount `json:"by_category"`
}

// PriorityCount is the number of tasks at one priority level.
type PriorityCount struct {
	Priority string `json:"priority"`
	Count    int    `json:"count"`
}

// CategoryCount is the number of tasks assigned to one category.
type CategoryCount struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	TaskCount int    `json:"task_count"`
}
