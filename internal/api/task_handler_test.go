package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskmanagement-api/internal/api/shared"
	"github.com/phrazzld/taskmanagement-api/internal/domain"
	"github.com/phrazzld/taskmanagement-api/internal/service"
	"github.com/phrazzld/taskmanagement-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTaskService implements service.TaskService with overridable functions.
type mockTaskService struct {
	ListTasksFn  func(ctx context.Context, filter store.TaskFilter) (*store.TaskPage, error)
	GetTaskFn    func(ctx context.Context, id int64) (*domain.TaskItem, error)
	CreateTaskFn func(ctx context.Context, task *domain.TaskItem) error
	UpdateTaskFn func(ctx context.Context, id int64, task *domain.TaskItem) error
	DeleteTaskFn func(ctx context.Context, id int64) error
}

func (m *mockTaskService) ListTasks(ctx context.Context, filter store.TaskFilter) (*store.TaskPage, error) {
	if m.ListTasksFn != nil {
		return m.ListTasksFn(ctx, filter)
	}
	return &store.TaskPage{}, nil
}

func (m *mockTaskService) GetTask(ctx context.Context, id int64) (*domain.TaskItem, error) {
	if m.GetTaskFn != nil {
		return m.GetTaskFn(ctx, id)
	}
	return nil, service.ErrTaskNotFound
}

func (m *mockTaskService) CreateTask(ctx context.Context, task *domain.TaskItem) error {
	if m.CreateTaskFn != nil {
		return m.CreateTaskFn(ctx, task)
	}
	return nil
}

func (m *mockTaskService) UpdateTask(ctx context.Context, id int64, task *domain.TaskItem) error {
	if m.UpdateTaskFn != nil {
		return m.UpdateTaskFn(ctx, id, task)
	}
	return nil
}

func (m *mockTaskService) DeleteTask(ctx context.Context, id int64) error {
	if m.DeleteTaskFn != nil {
		return m.DeleteTaskFn(ctx, id)
	}
	return nil
}

func newTestRouter(svc service.TaskService) http.Handler {
	r := chi.NewRouter()
	r.Mount("/Tasks", NewTaskHandler(svc, nil).Routes())
	return r
}

func serve(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req = req.WithContext(shared.WithTraceID(req.Context(), "test-trace"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()

	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "test-trace", resp.TraceID)
	return resp
}

func TestListTasks(t *testing.T) {
	t.Run("defaults and pagination header", func(t *testing.T) {
		var got store.TaskFilter
		svc := &mockTaskService{
			ListTasksFn: func(ctx context.Context, filter store.TaskFilter) (*store.TaskPage, error) {
				got = filter
				return &store.TaskPage{
					Items:      []*domain.TaskItem{{ID: 1, Title: "a"}},
					TotalCount: 25,
				}, nil
			},
		}

		rec := serve(t, newTestRouter(svc), http.MethodGet, "/Tasks", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, got.IsCompleted)
		assert.Equal(t, DefaultPageNumber, got.PageNumber)
		assert.Equal(t, DefaultPageSize, got.PageSize)

		var meta PaginationMetadata
		require.NoError(t, json.Unmarshal([]byte(rec.Header().Get(PaginationHeader)), &meta))
		assert.Equal(t, PaginationMetadata{TotalCount: 25, PageSize: 10, CurrentPage: 1, TotalPages: 3}, meta)
		assert.JSONEq(t, `[{"id":1,"title":"a","description":"","isDone":false}]`, rec.Body.String())
	})

	t.Run("query values are passed through", func(t *testing.T) {
		var got store.TaskFilter
		svc := &mockTaskService{
			ListTasksFn: func(ctx context.Context, filter store.TaskFilter) (*store.TaskPage, error) {
				got = filter
				return &store.TaskPage{TotalCount: 4}, nil
			},
		}

		rec := serve(t, newTestRouter(svc), http.MethodGet, "/Tasks?isCompleted=true&pageNumber=0&pageSize=-5", "")

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got.IsCompleted)
		assert.True(t, *got.IsCompleted)
		assert.Equal(t, 0, got.PageNumber)
		assert.Equal(t, -5, got.PageSize)
		assert.Equal(t, "[]\n", rec.Body.String(), "empty page should serialize as an array")

		var meta PaginationMetadata
		require.NoError(t, json.Unmarshal([]byte(rec.Header().Get(PaginationHeader)), &meta))
		assert.Zero(t, meta.TotalPages)
	})

	t.Run("unparsable query values", func(t *testing.T) {
		for _, query := range []string{"isCompleted=maybe", "pageNumber=two", "pageSize=1.5"} {
			rec := serve(t, newTestRouter(&mockTaskService{}), http.MethodGet, "/Tasks?"+query, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code, query)
			decodeError(t, rec)
		}
	})

	t.Run("service failure", func(t *testing.T) {
		svc := &mockTaskService{
			ListTasksFn: func(ctx context.Context, filter store.TaskFilter) (*store.TaskPage, error) {
				return nil, errors.New("no such table: tasks")
			},
		}

		rec := serve(t, newTestRouter(svc), http.MethodGet, "/Tasks", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Failed to list tasks", decodeError(t, rec).Error)
		assert.Empty(t, rec.Header().Get(PaginationHeader))
	})
}

func TestGetTask(t *testing.T) {
	svc := &mockTaskService{
		GetTaskFn: func(ctx context.Context, id int64) (*domain.TaskItem, error) {
			if id == 7 {
				return &domain.TaskItem{ID: 7, Title: "Seven", IsDone: true}, nil
			}
			return nil, service.ErrTaskNotFound
		},
	}
	h := newTestRouter(svc)

	rec := serve(t, h, http.MethodGet, "/Tasks/7", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":7,"title":"Seven","description":"","isDone":true}`, rec.Body.String())

	rec = serve(t, h, http.MethodGet, "/Tasks/8", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Task not found", decodeError(t, rec).Error)

	rec = serve(t, h, http.MethodGet, "/Tasks/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid task ID", decodeError(t, rec).Error)
}

func TestCreateTask(t *testing.T) {
	t.Run("created with location", func(t *testing.T) {
		var got *domain.TaskItem
		svc := &mockTaskService{
			CreateTaskFn: func(ctx context.Context, task *domain.TaskItem) error {
				got = task
				task.ID = 12
				return nil
			},
		}

		rec := serve(t, newTestRouter(svc), http.MethodPost, "/Tasks",
			`{"id":99,"title":"Plan","description":"sprint","isDone":false}`)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "/Tasks/12", rec.Header().Get("Location"))
		assert.JSONEq(t, `{"id":12,"title":"Plan","description":"sprint","isDone":false}`, rec.Body.String())
		require.NotNil(t, got)
		assert.Equal(t, "Plan", got.Title)
	})

	t.Run("bad bodies", func(t *testing.T) {
		called := false
		svc := &mockTaskService{
			CreateTaskFn: func(ctx context.Context, task *domain.TaskItem) error {
				called = true
				return nil
			},
		}

		tests := []struct {
			name    string
			body    string
			message string
		}{
			{name: "null", body: "null", message: "Request body is required"},
			{name: "empty", body: "", message: "Request body is required"},
			{name: "malformed", body: `{"title":`, message: "Invalid request format"},
			{name: "wrong type", body: `{"isDone":"yes"}`, message: "Invalid request format"},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				rec := serve(t, newTestRouter(svc), http.MethodPost, "/Tasks", tc.body)
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Equal(t, tc.message, decodeError(t, rec).Error)
			})
		}
		assert.False(t, called, "service must not be called for a rejected body")
	})

	t.Run("long text is accepted", func(t *testing.T) {
		title := strings.Repeat("x", 201)
		description := strings.Repeat("d", 5000)
		var got *domain.TaskItem
		svc := &mockTaskService{
			CreateTaskFn: func(ctx context.Context, task *domain.TaskItem) error {
				got = task
				task.ID = 1
				return nil
			},
		}

		rec := serve(t, newTestRouter(svc), http.MethodPost, "/Tasks",
			`{"title":"`+title+`","description":"`+description+`"}`)

		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, got)
		assert.Equal(t, title, got.Title)
		assert.Equal(t, description, got.Description)
	})

	t.Run("store rejects entity", func(t *testing.T) {
		svc := &mockTaskService{
			CreateTaskFn: func(ctx context.Context, task *domain.TaskItem) error {
				return store.NewStoreError("task", "create", "failed to insert task", store.ErrInvalidEntity)
			},
		}

		rec := serve(t, newTestRouter(svc), http.MethodPost, "/Tasks", `{"title":"x"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid entity data", decodeError(t, rec).Error)
	})
}

func TestUpdateTask(t *testing.T) {
	t.Run("no content on success", func(t *testing.T) {
		var gotID int64
		var got *domain.TaskItem
		svc := &mockTaskService{
			UpdateTaskFn: func(ctx context.Context, id int64, task *domain.TaskItem) error {
				gotID, got = id, task
				return nil
			},
		}

		rec := serve(t, newTestRouter(svc), http.MethodPut, "/Tasks/3",
			`{"id":3,"title":"Done","description":"","isDone":true}`)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
		assert.Equal(t, int64(3), gotID)
		assert.Equal(t, &domain.TaskItem{ID: 3, Title: "Done", IsDone: true}, got)
	})

	t.Run("status by service error", func(t *testing.T) {
		tests := []struct {
			name   string
			err    error
			status int
		}{
			{name: "id mismatch", err: domain.ErrIDMismatch, status: http.StatusBadRequest},
			{name: "vanished row", err: service.ErrTaskNotFound, status: http.StatusNotFound},
			{
				name:   "conflict on existing row",
				err:    &service.TaskServiceError{Operation: "update_task", Message: "update conflict", Err: store.ErrConcurrencyConflict},
				status: http.StatusInternalServerError,
			},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				svc := &mockTaskService{
					UpdateTaskFn: func(ctx context.Context, id int64, task *domain.TaskItem) error {
						return tc.err
					},
				}

				rec := serve(t, newTestRouter(svc), http.MethodPut, "/Tasks/3", `{"id":3,"title":"x"}`)
				assert.Equal(t, tc.status, rec.Code)
				resp := decodeError(t, rec)
				assert.NotContains(t, resp.Error, "conflict")
			})
		}
	})

	t.Run("null body", func(t *testing.T) {
		rec := serve(t, newTestRouter(&mockTaskService{}), http.MethodPut, "/Tasks/3", "null")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeleteTask(t *testing.T) {
	deleted := map[int64]bool{}
	svc := &mockTaskService{
		DeleteTaskFn: func(ctx context.Context, id int64) error {
			if id != 5 || deleted[id] {
				return service.ErrTaskNotFound
			}
			deleted[id] = true
			return nil
		},
	}
	h := newTestRouter(svc)

	rec := serve(t, h, http.MethodDelete, "/Tasks/5", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(t, h, http.MethodDelete, "/Tasks/5", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(t, h, http.MethodDelete, "/Tasks/x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNewTaskHandlerRequiresService(t *testing.T) {
	assert.Panics(t, func() { NewTaskHandler(nil, nil) })
}
