package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/taskforge/taskforge/internal/models"
	"github.com/taskforge/taskforge/internal/services"
)

// fakeTaskService records which operations were reached so tests can assert
// that invalid requests never touch persistence.
type fakeTaskService struct {
	createCalled bool
	updateCalled bool
	listFilter   *services.TaskFilter
	tasks        []models.Task
}

func (f *fakeTaskService) CreateTask(_ context.Context, input services.TaskCreateInput) (models.Task, error) {
	f.createCalled = true
	return models.Task{Title: input.Title, Description: input.Description, Completed: input.Completed, Priority: input.Priority, DueDate: input.DueDate}, nil
}

func (f *fakeTaskService) ListTasks(_ context.Context, filter services.TaskFilter) ([]models.Task, error) {
	f.listFilter = &filter
	return f.tasks, nil
}

func (f *fakeTaskService) GetTaskByID(context.Context, string) (models.Task, error) {
	return models.Task{}, nil
}

func (f *fakeTaskService) UpdateTask(_ context.Context, _ string, _ services.TaskUpdateInput) (models.Task, error) {
	f.updateCalled = true
	return models.Task{}, nil
}

func (f *fakeTaskService) DeleteTask(context.Context, string) error { return nil }

func (f *fakeTaskService) TaskStats(context.Context) (models.TaskStats, error) {
	return models.TaskStats{}, nil
}

func TestTaskHandler_CreateRejectsBadTitle(t *testing.T) {
	fake := &fakeTaskService{}
	handler := NewTaskHandler(fake)

	body := `{"title": "", "priority": "high"}`
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	if fake.createCalled {
		t.Error("service must not be reached when validation fails")
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	var resp struct {
		Error   string `json:"error"`
		Details []struct {
			Field string `json:"field"`
		} `json:"details"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if resp.Error != "validation_error" {
		t.Errorf("error = %q, want validation_error", resp.Error)
	}
	if len(resp.Details) != 1 || resp.Details[0].Field != "title" {
		t.Errorf("details = %v, want a single title error", resp.Details)
	}
}

func TestTaskHandler_CreateAppliesDefaults(t *testing.T) {
	fake := &fakeTaskService{}
	handler := NewTaskHandler(fake)

	req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(`{"title":"buy milk"}`))
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data models.Task `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if resp.Data.Priority != models.PriorityMedium {
		t.Errorf("priority = %q, want default medium", resp.Data.Priority)
	}
	if resp.Data.Completed {
		t.Error("completed should default to false")
	}
	if resp.Data.DueDate != nil {
		t.Errorf("dueDate = %v, want nil", resp.Data.DueDate)
	}
}

func TestTaskHandler_UpdateRejectsEmptyBody(t *testing.T) {
	fake := &fakeTaskService{}
	handler := NewTaskHandler(fake)

	req := httptest.NewRequest(http.MethodPut, "/api/tasks/64a0c0ffee0badc0ffee0bad", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler.Update(rec, req)

	if fake.updateCalled {
		t.Error("service must not be reached for an empty update")
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestTaskHandler_ListRejectsUnknownQueryKey(t *testing.T) {
	fake := &fakeTaskService{}
	handler := NewTaskHandler(fake)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks?status=open", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	if fake.listFilter != nil {
		t.Error("service must not be reached for an unrecognized query key")
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestTaskHandler_ListBuildsFilterAndCount(t *testing.T) {
	fake := &fakeTaskService{tasks: []models.Task{{Title: "a"}, {Title: "b"}}}
	handler := NewTaskHandler(fake)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks?completed=false&priority=high&sortBy=dueDate&order=asc", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if fake.listFilter == nil {
		t.Fatal("service was not called")
	}
	if fake.listFilter.Completed == nil || *fake.listFilter.Completed {
		t.Errorf("Completed = %v, want pointer to false", fake.listFilter.Completed)
	}
	if fake.listFilter.Priority != "high" || fake.listFilter.SortBy != "dueDate" || fake.listFilter.Order != "asc" {
		t.Errorf("filter = %+v, want priority/sortBy/order carried through", fake.listFilter)
	}

	var resp struct {
		Count int           `json:"count"`
		Data  []models.Task `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if resp.Count != 2 || len(resp.Data) != 2 {
		t.Errorf("count = %d, data = %d items, want 2 and 2", resp.Count, len(resp.Data))
	}
}

func TestTaskHandler_CreateRejectsNonObjectBody(t *testing.T) {
	fake := &fakeTaskService{}
	handler := NewTaskHandler(fake)

	req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(`[1,2,3]`))
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	if fake.createCalled {
		t.Error("service must not be reached for a malformed body")
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
