package constants

import (
	"fmt"

	apperrors "task-manager.com/task-manager/internal/errors"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
	PriorityUrgent TaskPriority = "Urgent"
)

// Priorities lists every priority from least to most severe.
var Priorities = []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// Rank orders priorities by severity. Unknown values rank 0.
func (p TaskPriority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityUrgent:
		return 4
	default:
		return 0
	}
}

func (p TaskPriority) Valid() bool {
	return p.Rank() > 0
}

func (p TaskPriority) String() string {
	return string(p)
}

func ParsePriority(s string) (TaskPriority, error) {
	key := normalize(s)
	for _, p := range Priorities {
		if normalize(string(p)) == key {
			return p, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, apperrors.ErrInvalidPriority)
}

func (p TaskPriority) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%q: %w", string(p), apperrors.ErrInvalidPriority)
	}
	return []byte(p), nil
}

func (p *TaskPriority) UnmarshalText(text []byte) error {
	parsed, err := ParsePriority(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
