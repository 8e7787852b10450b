package handlers

import (
	"encoding/json"
	"net/http"

	"todoapp/internal/models"
)

type createTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	DueDate     *string  `json:"due_date"`
	CategoryID  *int64   `json:"category_id"`
	Tags        []string `json:"tags"`
}

type updateTaskRequest struct {
	Title       models.Optional[string]   `json:"title"`
	Description models.Optional[string]   `json:"description"`
	Priority    models.Optional[string]   `json:"priority"`
	DueDate     models.Optional[string]   `json:"due_date"`
	CategoryID  models.Optional[int64]    `json:"category_id"`
	Tags        models.Optional[[]string] `json:"tags"`
	IsCompleted models.Optional[bool]     `json:"is_completed"`
}

// ListTasks returns tasks matching the query-parameter filter specification.
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	filter, err := models.ParseTaskFilter(r.URL.Query())
	if err != nil {
		respondValidationError(w, err.Error())
		return
	}

	tasks, err := h.store.ListTasks(r.Context(), filter)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tasks)
}

// CreateTask creates a new task.
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidationError(w, "invalid json body")
		return
	}

	task := &models.Task{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		CategoryID:  req.CategoryID,
		Tags:        models.NormalizeTags(req.Tags),
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}

	if req.DueDate != nil && *req.DueDate != "" {
		due, err := parseDate(*req.DueDate)
		if err != nil {
			respondValidationError(w, "due_date must be in YYYY-MM-DD format")
			return
		}
		task.DueDate = due
	}

	if err := task.Validate(); err != nil {
		respondValidationError(w, err.Error())
		return
	}

	if err := h.store.CreateTask(r.Context(), task); err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, task)
}

// UpdateTask applies a partial update: fields absent from the body keep their
// stored values, null clears nullable fields, and concrete values overwrite.
func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r, "id")
	if err != nil {
		respondValidationError(w, "invalid task id")
		return
	}

	task, err := h.store.GetTask(ctx, id)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidationError(w, "invalid json body")
		return
	}

	if req.Title.Set {
		if !req.Title.Valid {
			respondValidationError(w, "title cannot be null")
			return
		}
		task.Title = req.Title.Value
	}

	if req.Description.Set {
		if req.Description.Valid {
			task.Description = req.Description.Value
		} else {
			task.Description = ""
		}
	}

	if req.Priority.Set {
		if !req.Priority.Valid {
			respondValidationError(w, "priority cannot be null")
			return
		}
		task.Priority = req.Priority.Value
	}

	if req.DueDate.Set {
		if req.DueDate.Valid && req.DueDate.Value != "" {
			due, err := parseDate(req.DueDate.Value)
			if err != nil {
				respondValidationError(w, "due_date must be in YYYY-MM-DD format")
				return
			}
			task.DueDate = due
		} else {
			task.DueDate = nil
		}
	}

	if req.CategoryID.Set {
		if req.CategoryID.Valid {
			id := req.CategoryID.Value
			task.CategoryID = &id
		} else {
			task.CategoryID = nil
		}
	}

	if req.Tags.Set {
		if req.Tags.Valid {
			task.Tags = models.NormalizeTags(req.Tags.Value)
		} else {
			task.Tags = []string{}
		}
	}

	if req.IsCompleted.Set {
		if !req.IsCompleted.Valid {
			respondValidationError(w, "is_completed cannot be null")
			return
		}
		task.IsCompleted = req.IsCompleted.Value
	}

	if err := task.Validate(); err != nil {
		respondValidationError(w, err.Error())
		return
	}

	if err := h.store.UpdateTask(ctx, task); err != nil {
		respondStoreError(w, err)
		return
	}

	// Re-read so the embedded category summary reflects the new assignment.
	updated, err := h.store.GetTask(ctx, id)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// DeleteTask deletes a task permanently.
func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondValidationError(w, "invalid task id")
		return
	}

	if err := h.store.DeleteTask(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "task deleted"})
}

// ToggleTask sets the completion state to the explicit value in the request
// body. It is not a blind flip: repeating the same request is idempotent.
func (h *Handlers) ToggleTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r, "id")
	if err != nil {
		respondValidationError(w, "invalid task id")
		return
	}

	var req struct {
		IsCompleted *bool `json:"is_completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidationError(w, "invalid json body")
		return
	}
	if req.IsCompleted == nil {
		respondValidationError(w, "is_completed is required")
		return
	}

	if err := h.store.SetTaskCompletion(ctx, id, *req.IsCompleted); err != nil {
		respondStoreError(w, err)
		return
	}

	task, err := h.store.GetTask(ctx, id)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// ReorderTasks applies a batch of (id, order_index) pairs atomically and
// returns the affected tasks sorted by their new order.
func (h *Handlers) ReorderTasks(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tasks []models.TaskPosition `json:"tasks"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidationError(w, "invalid json body")
		return
	}
	if req.Tasks == nil {
		respondValidationError(w, "tasks must be an array")
		return
	}

	tasks, err := h.store.ReorderTasks(r.Context(), req.Tasks)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tasks)
}
