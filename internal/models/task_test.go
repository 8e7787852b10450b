package models

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestTaskValidation_Title(t *testing.T) {
	tests := []struct {
		name    string
		task    Task
		wantErr bool
		errMsg  string
	}{
		{
			name:    "empty title should fail",
			task:    Task{Title: "", Priority: "medium"},
			wantErr: true,
			errMsg:  "title is required",
		},
		{
			name:    "whitespace title should fail",
			task:    Task{Title: "   ", Priority: "medium"},
			wantErr: true,
			errMsg:  "title is required",
		},
		{
			name:    "255-char title is valid",
			task:    Task{Title: strings.Repeat("a", 255), Priority: "medium"},
			wantErr: false,
		},
		{
			name:    "256-char title should fail",
			task:    Task{Title: strings.Repeat("a", 256), Priority: "medium"},
			wantErr: true,
			errMsg:  "title must be 255 characters or fewer",
		},
		{
			name:    "valid task should pass",
			task:    Task{Title: "Buy milk", Priority: "medium"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.task.Validate()
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				} else if err.Error() != tt.errMsg {
					t.Errorf("expected error %q, got %q", tt.errMsg, err.Error())
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		})
	}
}

func TestTaskValidation_PriorityValues(t *testing.T) {
	tests := []struct {
		name    string
		task    Task
		wantErr bool
	}{
		{name: "high priority is valid", task: Task{Title: "Test", Priority: "high"}},
		{name: "medium priority is valid", task: Task{Title: "Test", Priority: "medium"}},
		{name: "low priority is valid", task: Task{Title: "Test", Priority: "low"}},
		{name: "empty priority should fail", task: Task{Title: "Test", Priority: ""}, wantErr: true},
		{name: "invalid priority should fail", task: Task{Title: "Test", Priority: "urgent"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.task.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestTask_IsOverdue(t *testing.T) {
	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	tests := []struct {
		name     string
		task     Task
		expected bool
	}{
		{
			name:     "past due date and not completed is overdue",
			task:     Task{DueDate: &yesterday, IsCompleted: false},
			expected: true,
		},
		{
			name:     "past due date but completed is not overdue",
			task:     Task{DueDate: &yesterday, IsCompleted: true},
			expected: false,
		},
		{
			name:     "future due date is not overdue",
			task:     Task{DueDate: &tomorrow, IsCompleted: false},
			expected: false,
		},
		{
			name:     "no due date is not overdue",
			task:     Task{DueDate: nil, IsCompleted: false},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.task.IsOverdue(now)
			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name     string
		tags     []string
		expected []string
	}{
		{
			name:     "nil input yields empty slice",
			tags:     nil,
			expected: []string{},
		},
		{
			name:     "empty strings are dropped",
			tags:     []string{"work", "", "  ", "home"},
			expected: []string{"work", "home"},
		},
		{
			name:     "duplicates are dropped keeping first occurrence",
			tags:     []string{"work", "home", "work"},
			expected: []string{"work", "home"},
		},
		{
			name:     "surrounding whitespace is trimmed",
			tags:     []string{" urgent ", "urgent"},
			expected: []string{"urgent"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTags(tt.tags)
			if got == nil {
				t.Fatal("expected non-nil slice")
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestCategoryValidation(t *testing.T) {
	valid := Category{Name: "Work"}
	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	invalid := Category{Name: "  "}
	if err := invalid.Validate(); err == nil {
		t.Error("expected error for blank name")
	}
}
