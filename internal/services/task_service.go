package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"task-manager.com/task-manager/internal/constants"
	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
	repository "task-manager.com/task-manager/internal/repositories"
	"task-manager.com/task-manager/internal/store"
)

type TaskService struct {
	mu       sync.Mutex
	store    *store.TaskStore
	repo     repository.Persister
	autoSave bool
	now      func() time.Time
}

type CreateTaskInput struct {
	Title       string
	Description string
	Priority    constants.TaskPriority
	DueDate     *time.Time
}

type ListQuery struct {
	Status   *constants.TaskStatus
	Priority *constants.TaskPriority
	Search   string
	// Completed narrows to finished (true) or unfinished (false) tasks.
	Completed      *bool
	OverdueOnly    bool
	SortByPriority bool
}

type Option func(*TaskService)

// WithAutoSave persists the collection after every successful mutation.
func WithAutoSave() Option {
	return func(s *TaskService) {
		s.autoSave = true
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *TaskService) {
		s.now = now
		s.store.WithClock(now)
	}
}

func NewTaskService(repo repository.Persister, opts ...Option) *TaskService {
	s := &TaskService{
		store: store.NewTaskStore(),
		repo:  repo,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory collection with the persisted one. On error
// the current collection is left untouched.
func (s *TaskService) Load(ctx context.Context) error {
	tasks, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Replace(tasks)
	log.Printf("loaded %d tasks", len(tasks))
	return nil
}

func (s *TaskService) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saveLocked(ctx)
}

func (s *TaskService) CreateTask(ctx context.Context, in CreateTaskInput) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.store.Add(in.Title, in.Description, in.Priority, in.DueDate)
	if err != nil {
		return model.Task{}, err
	}
	return task, s.afterMutation(ctx)
}

func (s *TaskService) GetTask(id int) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.store.Find(id)
	if !ok {
		return model.Task{}, apperrors.ErrTaskNotFound
	}
	return task, nil
}

func (s *TaskService) ListTasks(q ListQuery) []model.Task {
	var filters []store.Filter
	if q.Status != nil {
		filters = append(filters, store.WithStatus(*q.Status))
	}
	if q.Priority != nil {
		filters = append(filters, store.WithPriority(*q.Priority))
	}
	if q.Completed != nil {
		if *q.Completed {
			filters = append(filters, store.Completed())
		} else {
			filters = append(filters, store.Pending())
		}
	}
	if q.Search != "" {
		filters = append(filters, store.Matching(q.Search))
	}
	if q.OverdueOnly {
		filters = append(filters, store.Overdue(s.now()))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.List(store.ListOptions{Filters: filters, SortByPriority: q.SortByPriority})
}

// RemoveTask reports whether the task existed. A missing id is not an error.
func (s *TaskService) RemoveTask(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.Remove(id) {
		return false, nil
	}
	return true, s.afterMutation(ctx)
}

func (s *TaskService) ToggleTask(ctx context.Context, id int) (model.Task, error) {
	return s.update(ctx, func(st *store.TaskStore) (model.Task, error) {
		return st.Toggle(id)
	})
}

func (s *TaskService) SetStatus(ctx context.Context, id int, status constants.TaskStatus) (model.Task, error) {
	return s.update(ctx, func(st *store.TaskStore) (model.Task, error) {
		return st.SetStatus(id, status)
	})
}

func (s *TaskService) UpdateTask(ctx context.Context, id int, patch store.Patch) (model.Task, error) {
	return s.update(ctx, func(st *store.TaskStore) (model.Task, error) {
		return st.Edit(id, patch)
	})
}

func (s *TaskService) Stats() store.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.Stats(s.now())
}

func (s *TaskService) NextID() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.NextID()
}

func (s *TaskService) update(ctx context.Context, fn func(*store.TaskStore) (model.Task, error)) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := fn(s.store)
	if err != nil {
		return model.Task{}, err
	}
	return task, s.afterMutation(ctx)
}

// afterMutation keeps the in-memory change even when the autosave fails.
// The error then wraps ErrChangeNotSaved so callers can tell the change
// happened and retry with Save.
func (s *TaskService) afterMutation(ctx context.Context) error {
	if !s.autoSave {
		return nil
	}
	if err := s.saveLocked(ctx); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrChangeNotSaved, err)
	}
	return nil
}

func (s *TaskService) saveLocked(ctx context.Context) error {
	tasks := s.store.Snapshot()
	if err := s.repo.Save(ctx, tasks); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}
