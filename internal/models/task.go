package model

import (
	"fmt"
	"math"
	"strings"
	"time"

	"task-manager.com/task-manager/internal/constants"
	apperrors "task-manager.com/task-manager/internal/errors"
)

const dueDateLayout = "2006-01-02"

type Task struct {
	ID          int                    `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Status      constants.TaskStatus   `json:"status"`
	Priority    constants.TaskPriority `json:"priority"`
	CreatedDate time.Time              `json:"createdDate"`
	DueDate     *time.Time             `json:"dueDate"`
}

// Validate checks the invariants every stored task must satisfy.
// MaxID is the largest assignable id. One value is held back so the
// store's next-id counter never overflows.
const MaxID = math.MaxInt - 1

func (t *Task) Validate() error {
	if t.ID <= 0 || t.ID > MaxID {
		return apperrors.ErrInvalidTaskID
	}
	if strings.TrimSpace(t.Title) == "" {
		return apperrors.ErrTitleRequired
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("%q: %w", string(t.Priority), apperrors.ErrInvalidPriority)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%q: %w", string(t.Status), apperrors.ErrInvalidStatus)
	}
	return nil
}

func (t *Task) IsCompleted() bool {
	return t.Status == constants.StatusCompleted
}

// IsOverdue is true for open tasks whose due date has passed.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	switch t.Status {
	case constants.StatusCompleted, constants.StatusCancelled:
		return false
	}
	return t.DueDate.Before(now)
}

// ParseDueDate accepts a calendar date or an RFC 3339 timestamp. Blank input
// and "none" clear the due date.
func ParseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return nil, nil
	}

	if d, err := time.Parse(dueDateLayout, s); err == nil {
		return &d, nil
	}
	if d, err := time.Parse(time.RFC3339, s); err == nil {
		d = d.UTC()
		return &d, nil
	}
	return nil, fmt.Errorf("%q: %w", s, apperrors.ErrInvalidDueDate)
}

// FormatDueDate renders a due date the way ParseDueDate reads it back.
func FormatDueDate(d *time.Time) string {
	if d == nil {
		return "none"
	}
	if d.Hour() == 0 && d.Minute() == 0 && d.Second() == 0 && d.Nanosecond() == 0 {
		return d.Format(dueDateLayout)
	}
	return d.Format(time.RFC3339)
}
