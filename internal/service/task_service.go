package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskmanagement-api/internal/domain"
	"github.com/phrazzld/taskmanagement-api/internal/platform/logger"
	"github.com/phrazzld/taskmanagement-api/internal/store"
)

// TaskService provides task-related operations
type TaskService interface {
	// ListTasks returns one page of tasks matching filter, with the total
	// number of matching tasks.
	ListTasks(ctx context.Context, filter store.TaskFilter) (*store.TaskPage, error)

	// GetTask retrieves a task by its ID.
	GetTask(ctx context.Context, id int64) (*domain.TaskItem, error)

	// CreateTask stores a new task and sets task.ID to the assigned
	// identifier. Any ID supplied by the caller is discarded.
	CreateTask(ctx context.Context, task *domain.TaskItem) error

	// UpdateTask replaces the task identified by id with task. task.ID must
	// equal id.
	UpdateTask(ctx context.Context, id int64, task *domain.TaskItem) error

	// DeleteTask removes the task identified by id.
	DeleteTask(ctx context.Context, id int64) error
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	taskStore store.TaskStore
	db        store.TxBeginner
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(taskStore store.TaskStore, db store.TxBeginner, logger *slog.Logger) (TaskService, error) {
	if taskStore == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "taskStore cannot be nil",
		}
	}
	if db == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "db cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		taskStore: taskStore,
		db:        db,
		logger:    logger.With("component", "task_service"),
	}, nil
}

// log returns the request-scoped logger when one is attached to ctx.
func (s *taskServiceImpl) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(ctx context.Context, filter store.TaskFilter) (*store.TaskPage, error) {
	page, err := s.taskStore.List(ctx, filter)
	if err != nil {
		s.log(ctx).Error("failed to list tasks",
			"error", err,
			"page_number", filter.PageNumber,
			"page_size", filter.PageSize)
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}

	return page, nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(ctx context.Context, id int64) (*domain.TaskItem, error) {
	task, err := s.taskStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.log(ctx).Debug("task not found", "task_id", id)
			return nil, ErrTaskNotFound
		}
		s.log(ctx).Error("failed to retrieve task",
			"error", err,
			"task_id", id)
		return nil, NewTaskServiceError("get_task", "failed to retrieve task", err)
	}

	return task, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(ctx context.Context, task *domain.TaskItem) error {
	task.ID = 0

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.taskStore.WithTx(tx).Create(ctx, task); err != nil {
			return NewTaskServiceError("create_task", "failed to save task", err)
		}
		return nil
	})
	if err != nil {
		s.log(ctx).Error("failed to create task", "error", err)
		task.ID = 0
		return err
	}

	s.log(ctx).Info("task created", "task_id", task.ID)
	return nil
}

// UpdateTask implements TaskService.UpdateTask.
// A conflict means the row was not there to update. If the task is gone
// that is reported as ErrTaskNotFound; otherwise the conflict is returned
// wrapped, as an unexpected failure.
func (s *taskServiceImpl) UpdateTask(ctx context.Context, id int64, task *domain.TaskItem) error {
	if task.ID != id {
		return fmt.Errorf("%w: path id %d, body id %d", domain.ErrIDMismatch, id, task.ID)
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.taskStore.WithTx(tx).Update(ctx, task)
	})
	if err == nil {
		s.log(ctx).Info("task updated", "task_id", id)
		return nil
	}

	if !store.IsConcurrencyConflict(err) {
		s.log(ctx).Error("failed to update task",
			"error", err,
			"task_id", id)
		return NewTaskServiceError("update_task", "failed to update task", err)
	}

	exists, existsErr := s.taskStore.Exists(ctx, id)
	if existsErr != nil {
		s.log(ctx).Error("failed to check task after update conflict",
			"error", existsErr,
			"task_id", id)
		return NewTaskServiceError("update_task", "failed to check task after conflict", existsErr)
	}
	if !exists {
		s.log(ctx).Debug("task vanished before update", "task_id", id)
		return ErrTaskNotFound
	}

	s.log(ctx).Error("task update conflict",
		"error", err,
		"task_id", id)
	return NewTaskServiceError("update_task", "update conflict", err)
}

// DeleteTask implements TaskService.DeleteTask.
// The lookup and the removal share a transaction; a row removed between
// the two surfaces as a conflict, not as not-found.
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id int64) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.taskStore.WithTx(tx)

		if _, err := txStore.GetByID(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrTaskNotFound
			}
			return NewTaskServiceError("delete_task", "failed to retrieve task", err)
		}

		if err := txStore.Delete(ctx, id); err != nil {
			return &TaskServiceError{
				Operation: "delete_task",
				Message:   "failed to delete task",
				Err:       err,
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			s.log(ctx).Debug("task not found for delete", "task_id", id)
			return ErrTaskNotFound
		}
		s.log(ctx).Error("failed to delete task",
			"error", err,
			"task_id", id)
		return err
	}

	s.log(ctx).Info("task deleted", "task_id", id)
	return nil
}
