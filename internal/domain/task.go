package domain

// TaskItem is the single persisted entity: a unit of work with a done flag.
// ID is assigned by the store on creation and never changes afterwards.
// Title and Description are opaque text of any length.
type TaskItem struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsDone      bool   `json:"isDone"`
}

// NewTaskItem creates an unsaved TaskItem. The ID stays zero until the
// store assigns one.
func NewTaskItem(title, description string, isDone bool) *TaskItem {
	return &TaskItem{
		Title:       title,
		Description: description,
		IsDone:      isDone,
	}
}
