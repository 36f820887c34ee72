package validators

import (
	"strings"

	"task-manager.com/task-manager/internal/constants"
	dto "task-manager.com/task-manager/internal/data_models"
	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
	"task-manager.com/task-manager/internal/services"
)

func ValidateCreateTaskRequest(r *dto.CreateTaskRequest) (services.CreateTaskInput, error) {
	in := services.CreateTaskInput{
		Title:       strings.TrimSpace(r.Title),
		Description: r.Description,
		Priority:    constants.PriorityMedium,
	}
	if in.Title == "" {
		return services.CreateTaskInput{}, apperrors.ErrTitleRequired
	}

	if strings.TrimSpace(r.Priority) != "" {
		p, err := constants.ParsePriority(r.Priority)
		if err != nil {
			return services.CreateTaskInput{}, err
		}
		in.Priority = p
	}

	due, err := model.ParseDueDate(r.DueDate)
	if err != nil {
		return services.CreateTaskInput{}, err
	}
	in.DueDate = due

	return in, nil
}
