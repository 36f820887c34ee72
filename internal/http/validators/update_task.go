package validators

import (
	"strings"

	"task-manager.com/task-manager/internal/constants"
	dto "task-manager.com/task-manager/internal/data_models"
	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
	"task-manager.com/task-manager/internal/store"
)

func ValidateUpdateTaskRequest(r *dto.UpdateTaskRequest) (store.Patch, error) {
	var patch store.Patch

	if r.Title != nil {
		if strings.TrimSpace(*r.Title) == "" {
			return store.Patch{}, apperrors.ErrTitleRequired
		}
		patch.Title = r.Title
	}
	patch.Description = r.Description

	if r.Priority != nil {
		p, err := constants.ParsePriority(*r.Priority)
		if err != nil {
			return store.Patch{}, err
		}
		patch.Priority = &p
	}

	if r.DueDate != nil {
		due, err := model.ParseDueDate(*r.DueDate)
		if err != nil {
			return store.Patch{}, err
		}
		patch.DueDate = &due
	}

	return patch, nil
}

func ValidateUpdateStatusRequest(r *dto.UpdateStatusRequest) (constants.TaskStatus, error) {
	return constants.ParseStatus(r.Status)
}
