package store

import (
	"strings"
	"time"

	"task-manager.com/task-manager/internal/constants"
	model "task-manager.com/task-manager/internal/models"
)

func WithStatus(status constants.TaskStatus) Filter {
	return func(t model.Task) bool { return t.Status == status }
}

func WithPriority(priority constants.TaskPriority) Filter {
	return func(t model.Task) bool { return t.Priority == priority }
}

func Completed() Filter {
	return func(t model.Task) bool { return t.IsCompleted() }
}

func Pending() Filter {
	return func(t model.Task) bool { return !t.IsCompleted() }
}

// Matching does a case-insensitive substring search over title and description.
func Matching(term string) Filter {
	term = strings.ToLower(strings.TrimSpace(term))
	return func(t model.Task) bool {
		if term == "" {
			return true
		}
		return strings.Contains(strings.ToLower(t.Title), term) ||
			strings.Contains(strings.ToLower(t.Description), term)
	}
}

func Overdue(now time.Time) Filter {
	return func(t model.Task) bool { return t.IsOverdue(now) }
}
