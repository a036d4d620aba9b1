package store

import (
	"context"
	"database/sql"
	"math"

	"github.com/phrazzld/taskmanagement-api/internal/domain"
)

// TaskFilter selects one page of tasks. PageNumber is 1-based.
// Neither page value is range-checked here; implementations pass them
// through to the engine as given.
type TaskFilter struct {
	IsCompleted *bool
	PageNumber  int
	PageSize    int
}

// Offset returns the number of rows skipped before the page starts.
// The product saturates at math.MaxInt or math.MinInt instead of wrapping.
func (f TaskFilter) Offset() int {
	pages := f.PageNumber - 1
	if f.PageNumber == math.MinInt {
		pages = math.MinInt
	}
	return saturatingMul(pages, f.PageSize)
}

func saturatingMul(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	c := a * b
	if c/b == a && !(b == -1 && a == math.MinInt) {
		return c
	}
	if (a > 0) == (b > 0) {
		return math.MaxInt
	}
	return math.MinInt
}

// TaskPage is one window of a filtered task listing.
type TaskPage struct {
	Items []*domain.TaskItem

	// TotalCount counts every task matching the filter, not just this page.
	TotalCount int
}

// TaskStore defines the interface for task persistence.
type TaskStore interface {
	// List returns the tasks matching filter.IsCompleted (all tasks when nil),
	// windowed by PageNumber/PageSize, in insertion order, along with the
	// total number of matches.
	List(ctx context.Context, filter TaskFilter) (*TaskPage, error)

	// GetByID retrieves a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.TaskItem, error)

	// Exists reports whether a task with the given ID is stored.
	Exists(ctx context.Context, id int64) (bool, error)

	// Create inserts the task and sets task.ID to the identifier assigned
	// by the store. Any ID already on the task is ignored.
	Create(ctx context.Context, task *domain.TaskItem) error

	// Update replaces every column of the row identified by task.ID.
	// Returns ErrConcurrencyConflict if no row was affected.
	Update(ctx context.Context, task *domain.TaskItem) error

	// Delete removes the task with the given ID.
	// Returns ErrConcurrencyConflict if no row was affected.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a TaskStore bound to tx. Use it with RunInTransaction
	// when several operations must commit together.
	WithTx(tx *sql.Tx) TaskStore
}
