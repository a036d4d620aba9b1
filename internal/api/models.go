package api

import (
	"math"

	"github.com/phrazzld/taskmanagement-api/internal/domain"
)

// Default paging applied when the query string omits a value.
const (
	DefaultPageNumber = 1
	DefaultPageSize   = 10
)

// PaginationHeader names the response header carrying PaginationMetadata.
const PaginationHeader = "X-Pagination"

// TaskRequest defines the payload for the create and update endpoints.
// The id is ignored on create and must match the path on update.
type TaskRequest struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsDone      bool   `json:"isDone"`
}

// ToDomain converts the request into a TaskItem.
func (r *TaskRequest) ToDomain() *domain.TaskItem {
	task := domain.NewTaskItem(r.Title, r.Description, r.IsDone)
	task.ID = r.ID
	return task
}

// PaginationMetadata is serialized into the X-Pagination header of list
// responses.
type PaginationMetadata struct {
	TotalCount  int `json:"totalCount"`
	PageSize    int `json:"pageSize"`
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
}

// NewPaginationMetadata computes the page count for totalCount items.
// A non-positive pageSize yields zero pages.
func NewPaginationMetadata(totalCount, pageSize, pageNumber int) PaginationMetadata {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(math.Ceil(float64(totalCount) / float64(pageSize)))
	}

	return PaginationMetadata{
		TotalCount:  totalCount,
		PageSize:    pageSize,
		CurrentPage: pageNumber,
		TotalPages:  totalPages,
	}
}
