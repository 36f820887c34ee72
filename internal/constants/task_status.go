package constants

import (
	"fmt"

	apperrors "task-manager.com/task-manager/internal/errors"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "Pending"
	StatusInProgress TaskStatus = "InProgress"
	StatusCompleted  TaskStatus = "Completed"
	StatusCancelled  TaskStatus = "Cancelled"
	StatusOnHold     TaskStatus = "OnHold"
)

var Statuses = []TaskStatus{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled, StatusOnHold}

func (s TaskStatus) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s TaskStatus) String() string {
	return string(s)
}

func ParseStatus(s string) (TaskStatus, error) {
	key := normalize(s)
	for _, status := range Statuses {
		if normalize(string(status)) == key {
			return status, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, apperrors.ErrInvalidStatus)
}

func (s TaskStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%q: %w", string(s), apperrors.ErrInvalidStatus)
	}
	return []byte(s), nil
}

func (s *TaskStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
