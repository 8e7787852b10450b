package models

import (
	"errors"
	"strings"
	"time"
)

// Valid task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task represents a single to-do item.
type Task struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Priority    string           `json:"priority"` // "low", "medium", "high"
	IsCompleted bool             `json:"is_completed"`
	DueDate     *time.Time       `json:"due_date,omitempty"`
	Tags        []string         `json:"tags"`
	CategoryID  *int64           `json:"category_id,omitempty"`
	Category    *CategorySummary `json:"category,omitempty"`
	OrderIndex  int              `json:"order_index"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// Validate checks that the task has valid field values.
func (t *Task) Validate() error {
	title := strings.TrimSpace(t.Title)
	if title == "" {
		return errors.New("title is required")
	}

	if len(title) > 255 {
		return errors.New("title must be 255 characters or fewer")
	}

	if t.Priority != PriorityLow && t.Priority != PriorityMedium && t.Priority != PriorityHigh {
		return errors.New("priority must be 'low', 'medium', or 'high'")
	}

	return nil
}

// IsOverdue returns true if the task has a due date before now and is not completed.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.IsCompleted || t.DueDate == nil {
		return false
	}
	return t.DueDate.Before(now)
}

// NormalizeTags removes empty strings and duplicates while preserving
// first-seen order. The result is never nil.
func NormalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))

	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		normalized = append(normalized, tag)
	}

	return normalized
}
