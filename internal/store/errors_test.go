package store

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "generic error",
			err:      errors.New("some error"),
			expected: false,
		},
		{
			name:     "ErrNotFound",
			err:      ErrNotFound,
			expected: true,
		},
		{
			name:     "ErrTaskNotFound",
			err:      ErrTaskNotFound,
			expected: true,
		},
		{
			name:     "wrapped ErrTaskNotFound",
			err:      fmt.Errorf("failed to find task: %w", ErrTaskNotFound),
			expected: true,
		},
		{
			name:     "StoreError wrapping ErrTaskNotFound",
			err:      NewStoreError("task", "get", "lookup failed", ErrTaskNotFound),
			expected: true,
		},
		{
			name:     "concurrency conflict is not not-found",
			err:      ErrConcurrencyConflict,
			expected: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsNotFoundError(tc.err))
		})
	}
}

func TestIsConcurrencyConflict(t *testing.T) {
	assert.True(t, IsConcurrencyConflict(ErrConcurrencyConflict))
	assert.True(t, IsConcurrencyConflict(fmt.Errorf("update task 3: %w", ErrConcurrencyConflict)))
	assert.False(t, IsConcurrencyConflict(ErrTaskNotFound))
	assert.False(t, IsConcurrencyConflict(nil))
}

func TestStoreError(t *testing.T) {
	cause := errors.New("disk I/O error")

	tests := []struct {
		name     string
		err      *StoreError
		expected string
	}{
		{
			name:     "with wrapped error",
			err:      NewStoreError("task", "create", "insert failed", cause),
			expected: "create operation on task failed: insert failed: disk I/O error",
		},
		{
			name:     "without wrapped error",
			err:      NewStoreError("task", "list", "count failed", nil),
			expected: "list operation on task failed: count failed",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.err.Error())
		})
	}

	assert.ErrorIs(t, NewStoreError("task", "create", "insert failed", cause), cause)
}

func TestTaskFilterOffset(t *testing.T) {
	tests := []struct {
		name   string
		filter TaskFilter
		want   int
	}{
		{name: "first page", filter: TaskFilter{PageNumber: 1, PageSize: 10}, want: 0},
		{name: "second page", filter: TaskFilter{PageNumber: 2, PageSize: 10}, want: 10},
		{name: "page zero passes through", filter: TaskFilter{PageNumber: 0, PageSize: 10}, want: -10},
		{name: "zero size", filter: TaskFilter{PageNumber: 3, PageSize: 0}, want: 0},
		{name: "negative size", filter: TaskFilter{PageNumber: 3, PageSize: -1}, want: -2},
		{name: "max page saturates", filter: TaskFilter{PageNumber: math.MaxInt, PageSize: 10}, want: math.MaxInt},
		{name: "max size saturates", filter: TaskFilter{PageNumber: 3, PageSize: math.MaxInt}, want: math.MaxInt},
		{name: "second page of max size", filter: TaskFilter{PageNumber: 2, PageSize: math.MaxInt}, want: math.MaxInt},
		{name: "min page saturates low", filter: TaskFilter{PageNumber: math.MinInt, PageSize: 10}, want: math.MinInt},
		{name: "page zero of min size", filter: TaskFilter{PageNumber: 0, PageSize: math.MinInt}, want: math.MaxInt},
		{name: "min page of negative size", filter: TaskFilter{PageNumber: math.MinInt, PageSize: -1}, want: math.MaxInt},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.filter.Offset())
		})
	}
}
