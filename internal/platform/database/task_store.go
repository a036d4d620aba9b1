package database

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

const taskColumns = "id, title, description, is_done"

// SQLTaskStore implements store.TaskStore over database/sql for every
// supported dialect.
type SQLTaskStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

// NewSQLTaskStore creates a task store on db, which may be a *sql.DB or a
// *sql.Tx. If logger is nil, a default logger will be used.
func NewSQLTaskStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *SQLTaskStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SQLTaskStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "task_store")),
	}
}

// Ensure SQLTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*SQLTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx.
func (s *SQLTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &SQLTaskStore{
		db:      tx,
		dialect: s.dialect,
		logger:  s.logger,
	}
}

// List implements store.TaskStore.List.
// The count and the page are read with separate statements, so under
// concurrent writes TotalCount may disagree with the page by a few rows.
func (s *SQLTaskStore) List(ctx context.Context, filter store.TaskFilter) (*store.TaskPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var where string
	var args []any
	if filter.IsCompleted != nil {
		where = " WHERE is_done = ?"
		args = append(args, *filter.IsCompleted)
	}

	var total int
	countQuery := s.dialect.Rebind("SELECT COUNT(*) FROM tasks" + where)
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count tasks", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "list", "failed to count tasks", MapError(err))
	}

	pageQuery := s.dialect.Rebind(
		"SELECT " + taskColumns + " FROM tasks" + where + " ORDER BY id LIMIT ? OFFSET ?",
	)
	pageArgs := append(args, filter.PageSize, filter.Offset())

	rows, err := s.db.QueryContext(ctx, pageQuery, pageArgs...)
	if err != nil {
		log.Error("failed to query tasks",
			slog.String("error", err.Error()),
			slog.Int("page_number", filter.PageNumber),
			slog.Int("page_size", filter.PageSize))
		return nil, store.NewStoreError("task", "list", "failed to query tasks", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	items := make([]*domain.TaskItem, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, store.NewStoreError("task", "list", "failed to scan task", err)
		}
		items = append(items, task)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task", "list", "failed to iterate tasks", MapError(err))
	}

	return &store.TaskPage{Items: items, TotalCount: total}, nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *SQLTaskStore) GetByID(ctx context.Context, id int64) (*domain.TaskItem, error) {
	query := s.dialect.Rebind("SELECT " + taskColumns + " FROM tasks WHERE id = ?")

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrTaskNotFound
	}
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get task",
			slog.Int64("task_id", id),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "get", "failed to load task", MapError(err))
	}

	return task, nil
}

// Exists implements store.TaskStore.Exists.
func (s *SQLTaskStore) Exists(ctx context.Context, id int64) (bool, error) {
	query := s.dialect.Rebind("SELECT COUNT(*) FROM tasks WHERE id = ?")

	var count int
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&count); err != nil {
		return false, store.NewStoreError("task", "exists", "failed to check task", MapError(err))
	}
	return count > 0, nil
}

// Create implements store.TaskStore.Create.
func (s *SQLTaskStore) Create(ctx context.Context, task *domain.TaskItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := "INSERT INTO tasks (title, description, is_done) VALUES (?, ?, ?)"
	args := []any{task.Title, task.Description, task.IsDone}

	var id int64
	if s.dialect.ReturningID {
		err := s.db.QueryRowContext(ctx, s.dialect.Rebind(query+" RETURNING id"), args...).Scan(&id)
		if err != nil {
			log.Error("failed to insert task", slog.String("error", err.Error()))
			return store.NewStoreError("task", "create", "failed to insert task", MapError(err))
		}
	} else {
		result, err := s.db.ExecContext(ctx, s.dialect.Rebind(query), args...)
		if err != nil {
			log.Error("failed to insert task", slog.String("error", err.Error()))
			return store.NewStoreError("task", "create", "failed to insert task", MapError(err))
		}
		if id, err = result.LastInsertId(); err != nil {
			return store.NewStoreError("task", "create", "failed to read assigned id", err)
		}
	}

	task.ID = id
	log.Debug("task created", slog.Int64("task_id", id))
	return nil
}

// Update implements store.TaskStore.Update.
func (s *SQLTaskStore) Update(ctx context.Context, task *domain.TaskItem) error {
	query := s.dialect.Rebind(
		"UPDATE tasks SET title = ?, description = ?, is_done = ? WHERE id = ?",
	)

	result, err := s.db.ExecContext(ctx, query, task.Title, task.Description, task.IsDone, task.ID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update task",
			slog.Int64("task_id", task.ID),
			slog.String("error", err.Error()))
		return store.NewStoreError("task", "update", "failed to update task", MapError(err))
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		return fmt.Errorf("update task %d: %w", task.ID, err)
	}
	return nil
}

// Delete implements store.TaskStore.Delete.
func (s *SQLTaskStore) Delete(ctx context.Context, id int64) error {
	query := s.dialect.Rebind("DELETE FROM tasks WHERE id = ?")

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete task",
			slog.Int64("task_id", id),
			slog.String("error", err.Error()))
		return store.NewStoreError("task", "delete", "failed to delete task", MapError(err))
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.TaskItem, error) {
	var task domain.TaskItem
	if err := row.Scan(&task.ID, &task.Title, &task.Description, &task.IsDone); err != nil {
		return nil, err
	}
	return &task, nil
}
