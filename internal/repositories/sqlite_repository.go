package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"task-manager.com/task-manager/internal/constants"
	model "task-manager.com/task-manager/internal/models"
)

// taskRecord is the row shape of the tasks table. Position keeps the
// collection's insertion order across saves.
type taskRecord struct {
	ID          int                    `gorm:"primaryKey;autoIncrement:false"`
	Position    int                    `gorm:"not null;index"`
	Title       string                 `gorm:"not null"`
	Description string                 `gorm:"not null;default:''"`
	Status      constants.TaskStatus   `gorm:"type:varchar(20);not null"`
	Priority    constants.TaskPriority `gorm:"type:varchar(10);not null"`
	CreatedDate time.Time              `gorm:"not null"`
	DueDate     *time.Time
}

func (taskRecord) TableName() string {
	return "tasks"
}

type SQLiteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Migrate creates or updates the tasks table.
func (r *SQLiteRepository) Migrate() error {
	return r.db.AutoMigrate(&taskRecord{})
}

func (r *SQLiteRepository) Save(ctx context.Context, tasks []model.Task) error {
	records := make([]taskRecord, len(tasks))
	for i, task := range tasks {
		records[i] = toRecord(i, task)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&taskRecord{}).Error; err != nil {
			return fmt.Errorf("clear tasks: %w", err)
		}
		if len(records) == 0 {
			return nil
		}
		if err := tx.Create(&records).Error; err != nil {
			return fmt.Errorf("insert tasks: %w", err)
		}
		return nil
	})
}

func (r *SQLiteRepository) Load(ctx context.Context) ([]model.Task, error) {
	var records []taskRecord
	if err := r.db.WithContext(ctx).Order("position asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}

	tasks := make([]model.Task, len(records))
	for i, rec := range records {
		tasks[i] = fromRecord(rec)
	}

	if err := validateTasks(tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func toRecord(position int, task model.Task) taskRecord {
	return taskRecord{
		ID:          task.ID,
		Position:    position,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		CreatedDate: task.CreatedDate.UTC(),
		DueDate:     utcPtr(task.DueDate),
	}
}

func fromRecord(rec taskRecord) model.Task {
	return model.Task{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		Status:      rec.Status,
		Priority:    rec.Priority,
		CreatedDate: rec.CreatedDate.UTC(),
		DueDate:     utcPtr(rec.DueDate),
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
