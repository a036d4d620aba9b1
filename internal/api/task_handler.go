package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskmanagement-api/internal/api/shared"
	"github.com/phrazzld/taskmanagement-api/internal/domain"
	"github.com/phrazzld/taskmanagement-api/internal/platform/logger"
	"github.com/phrazzld/taskmanagement-api/internal/service"
	"github.com/phrazzld/taskmanagement-api/internal/store"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if taskService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("taskService cannot be nil for TaskHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// Routes returns a router serving the task endpoints relative to its
// mount point.
func (h *TaskHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListTasks)
	r.Post("/", h.CreateTask)
	r.Get("/{id}", h.GetTask)
	r.Put("/{id}", h.UpdateTask)
	r.Delete("/{id}", h.DeleteTask)
	return r
}

// ListTasks handles GET /Tasks requests.
// Paging values are passed to the store as given; the page metadata is
// returned in the X-Pagination header.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	isCompleted, err := queryBool(r, "isCompleted")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	pageNumber, err := queryInt(r, "pageNumber", DefaultPageNumber)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	pageSize, err := queryInt(r, "pageSize", DefaultPageSize)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	page, err := h.taskService.ListTasks(r.Context(), store.TaskFilter{
		IsCompleted: isCompleted,
		PageNumber:  pageNumber,
		PageSize:    pageSize,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	metadata, err := json.Marshal(NewPaginationMetadata(page.TotalCount, pageSize, pageNumber))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}
	w.Header().Set(PaginationHeader, string(metadata))

	items := page.Items
	if items == nil {
		items = []*domain.TaskItem{}
	}

	log.Debug("listed tasks",
		slog.Int("count", len(items)),
		slog.Int("total_count", page.TotalCount),
		slog.Int("page_number", pageNumber),
		slog.Int("page_size", pageSize))
	shared.RespondWithJSON(w, r, http.StatusOK, items)
}

// GetTask handles GET /Tasks/{id} requests
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskService.GetTask(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// CreateTask handles POST /Tasks requests.
// A null or empty body is rejected; any id in the body is ignored.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	req, ok := h.decodeTaskRequest(w, r)
	if !ok {
		return
	}

	task := req.ToDomain()
	if err := h.taskService.CreateTask(r.Context(), task); err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	log.Debug("task created", slog.Int64("task_id", task.ID))
	w.Header().Set("Location", fmt.Sprintf("/Tasks/%d", task.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, task)
}

// UpdateTask handles PUT /Tasks/{id} requests.
// The body replaces the stored task; its id must equal the path id.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	req, ok := h.decodeTaskRequest(w, r)
	if !ok {
		return
	}

	if err := h.taskService.UpdateTask(r.Context(), id, req.ToDomain()); err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteTask handles DELETE /Tasks/{id} requests
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeTaskRequest reads the request body. It writes the
// error response itself and returns false when the body is unusable.
func (h *TaskHandler) decodeTaskRequest(w http.ResponseWriter, r *http.Request) (*TaskRequest, bool) {
	var req *TaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return nil, false
	}
	if req == nil {
		HandleAPIError(w, r, domain.ErrEmptyPayload, "")
		return nil, false
	}

	return req, true
}
