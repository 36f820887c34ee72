package repository

import (
	"bytes"
	"encoding/json"
	"fmt"

	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
)

func encodeTasks(tasks []model.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tasks); err != nil {
		return nil, fmt.Errorf("encode tasks: %w", err)
	}
	return buf.Bytes(), nil
}

// decodeTasks is all-or-nothing: one bad record rejects the whole document.
func decodeTasks(data []byte) ([]model.Task, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", apperrors.ErrMalformedData)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var tasks []model.Task
	if err := dec.Decode(&tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedData, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after task array", apperrors.ErrMalformedData)
	}
	if tasks == nil {
		return nil, fmt.Errorf("%w: root must be an array", apperrors.ErrMalformedData)
	}

	if err := validateTasks(tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func validateTasks(tasks []model.Task) error {
	seen := make(map[int]struct{}, len(tasks))
	for i := range tasks {
		if err := tasks[i].Validate(); err != nil {
			return fmt.Errorf("%w: task at index %d: %v", apperrors.ErrMalformedData, i, err)
		}
		if _, dup := seen[tasks[i].ID]; dup {
			return fmt.Errorf("%w: duplicate task id %d", apperrors.ErrMalformedData, tasks[i].ID)
		}
		seen[tasks[i].ID] = struct{}{}
	}
	return nil
}
