package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taskforge/taskforge/internal/api/respond"
	"github.com/taskforge/taskforge/internal/apperr"
	"github.com/taskforge/taskforge/internal/services"
	"github.com/taskforge/taskforge/internal/validation"
)

// TaskHandler handles HTTP requests for task management.
type TaskHandler struct {
	service services.TaskServiceProvider
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service services.TaskServiceProvider) *TaskHandler {
	return &TaskHandler{service: service}
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeBody(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	clean, fieldErrs := validation.TaskCreate.Validate(raw)
	if fieldErrs != nil {
		respond.Error(w, r, apperr.Validation(fieldErrs))
		return
	}

	input := services.TaskCreateInput{
		Title:       clean["title"].(string),
		Description: clean["description"].(string),
		Completed:   clean["completed"].(bool),
		Priority:    clean["priority"].(string),
	}
	if v, ok := clean["dueDate"]; ok && v != nil {
		due := v.(time.Time)
		input.DueDate = &due
	}

	task, err := h.service.CreateTask(r.Context(), input)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, map[string]any{"data": task})
}

// List handles GET /api/tasks with optional filter and sort parameters.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	clean, fieldErrs := validation.TaskQuery.Validate(queryMap(r))
	if fieldErrs != nil {
		respond.Error(w, r, apperr.Validation(fieldErrs))
		return
	}

	filter := services.TaskFilter{}
	if v, ok := clean["completed"]; ok {
		completed := v.(bool)
		filter.Completed = &completed
	}
	if v, ok := clean["priority"]; ok {
		filter.Priority = v.(string)
	}
	if v, ok := clean["sortBy"]; ok {
		filter.SortBy = v.(string)
	}
	if v, ok := clean["order"]; ok {
		filter.Order = v.(string)
	}

	tasks, err := h.service.ListTasks(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"count": len(tasks),
		"data":  tasks,
	})
}

// Stats handles GET /api/tasks/stats.
func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.TaskStats(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{"data": stats})
}

// Get handles GET /api/tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	task, err := h.service.GetTaskByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{"data": task})
}

// Update handles PUT /api/tasks/{id}. At least one recognized field must be
// present in the body.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeBody(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	clean, fieldErrs := validation.TaskUpdate.Validate(raw)
	if fieldErrs != nil {
		respond.Error(w, r, apperr.Validation(fieldErrs))
		return
	}

	input := services.TaskUpdateInput{}
	if v, ok := clean["title"]; ok {
		title := v.(string)
		input.Title = &title
	}
	if v, ok := clean["description"]; ok {
		description := v.(string)
		input.Description = &description
	}
	if v, ok := clean["completed"]; ok {
		completed := v.(bool)
		input.Completed = &completed
	}
	if v, ok := clean["priority"]; ok {
		priority := v.(string)
		input.Priority = &priority
	}
	if v, ok := clean["dueDate"]; ok {
		input.DueDateSet = true
		if v != nil {
			due := v.(time.Time)
			input.DueDate = &due
		}
	}

	task, err := h.service.UpdateTask(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{"data": task})
}

// Delete handles DELETE /api/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteTask(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}
