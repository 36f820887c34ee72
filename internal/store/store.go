package store

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"task-manager.com/task-manager/internal/constants"
	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
)

// TaskStore keeps the task collection in insertion order. It is not safe for
// concurrent use; callers that share it must serialise access.
type TaskStore struct {
	tasks  []model.Task
	nextID int
	now    func() time.Time
}

type Patch struct {
	Title       *string
	Description *string
	Priority    *constants.TaskPriority
	DueDate     **time.Time
}

type Filter func(model.Task) bool

type ListOptions struct {
	Filters []Filter
	// SortByPriority orders by priority descending, then due date ascending
	// with undated tasks last, then id.
	SortByPriority bool
}

type Stats struct {
	Total      int
	ByStatus   map[constants.TaskStatus]int
	ByPriority map[constants.TaskPriority]int
	Overdue    int
}

func NewTaskStore() *TaskStore {
	return &TaskStore{
		nextID: 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source used to stamp new tasks.
func (s *TaskStore) WithClock(now func() time.Time) *TaskStore {
	s.now = now
	return s
}

func (s *TaskStore) Add(title, description string, priority constants.TaskPriority, dueDate *time.Time) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, apperrors.ErrTitleRequired
	}
	if priority == "" {
		priority = constants.PriorityMedium
	}
	if !priority.Valid() {
		return model.Task{}, apperrors.ErrInvalidPriority
	}
	if s.nextID > model.MaxID {
		return model.Task{}, apperrors.ErrTaskIDsExhausted
	}

	task := model.Task{
		ID:          s.nextID,
		Title:       title,
		Description: strings.TrimSpace(description),
		Status:      constants.StatusPending,
		Priority:    priority,
		CreatedDate: s.now(),
		DueDate:     cloneTime(dueDate),
	}
	s.nextID++
	s.tasks = append(s.tasks, task)

	return cloneTask(task), nil
}

// Remove reports whether a task with id existed.
func (s *TaskStore) Remove(id int) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	return true
}

func (s *TaskStore) Find(id int) (model.Task, bool) {
	i := s.index(id)
	if i < 0 {
		return model.Task{}, false
	}
	return cloneTask(s.tasks[i]), true
}

func (s *TaskStore) List(opts ListOptions) []model.Task {
	out := make([]model.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if matchesAll(task, opts.Filters) {
			out = append(out, cloneTask(task))
		}
	}

	if opts.SortByPriority {
		slices.SortStableFunc(out, compareByPriority)
	}
	return out
}

// Toggle flips completion: Completed goes back to Pending, every other
// status becomes Completed.
func (s *TaskStore) Toggle(id int) (model.Task, error) {
	return s.mutate(id, func(task *model.Task) error {
		if task.IsCompleted() {
			task.Status = constants.StatusPending
		} else {
			task.Status = constants.StatusCompleted
		}
		return nil
	})
}

func (s *TaskStore) SetStatus(id int, status constants.TaskStatus) (model.Task, error) {
	if !status.Valid() {
		return model.Task{}, apperrors.ErrInvalidStatus
	}
	return s.mutate(id, func(task *model.Task) error {
		task.Status = status
		return nil
	})
}

func (s *TaskStore) Edit(id int, patch Patch) (model.Task, error) {
	var title string
	if patch.Title != nil {
		title = strings.TrimSpace(*patch.Title)
		if title == "" {
			return model.Task{}, apperrors.ErrTitleRequired
		}
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return model.Task{}, apperrors.ErrInvalidPriority
	}

	return s.mutate(id, func(task *model.Task) error {
		if patch.Title != nil {
			task.Title = title
		}
		if patch.Description != nil {
			task.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.Priority != nil {
			task.Priority = *patch.Priority
		}
		if patch.DueDate != nil {
			task.DueDate = cloneTime(*patch.DueDate)
		}
		return nil
	})
}

// Replace swaps in a freshly loaded collection. The id counter never moves
// backwards, so ids handed out earlier in the session stay retired.
func (s *TaskStore) Replace(tasks []model.Task) {
	s.tasks = make([]model.Task, 0, len(tasks))
	maxID := 0
	for _, task := range tasks {
		s.tasks = append(s.tasks, cloneTask(task))
		maxID = max(maxID, task.ID)
	}
	s.nextID = max(s.nextID, min(maxID, model.MaxID)+1)
}

// Snapshot returns every task in insertion order.
func (s *TaskStore) Snapshot() []model.Task {
	return s.List(ListOptions{})
}

func (s *TaskStore) NextID() int {
	return s.nextID
}

func (s *TaskStore) Len() int {
	return len(s.tasks)
}

func (s *TaskStore) Stats(now time.Time) Stats {
	stats := Stats{
		Total:      len(s.tasks),
		ByStatus:   make(map[constants.TaskStatus]int, len(constants.Statuses)),
		ByPriority: make(map[constants.TaskPriority]int, len(constants.Priorities)),
	}
	for _, task := range s.tasks {
		stats.ByStatus[task.Status]++
		stats.ByPriority[task.Priority]++
		if task.IsOverdue(now) {
			stats.Overdue++
		}
	}
	return stats
}

func (s *TaskStore) mutate(id int, fn func(*model.Task) error) (model.Task, error) {
	i := s.index(id)
	if i < 0 {
		return model.Task{}, apperrors.ErrTaskNotFound
	}

	updated := cloneTask(s.tasks[i])
	if err := fn(&updated); err != nil {
		return model.Task{}, err
	}
	s.tasks[i] = updated

	return cloneTask(updated), nil
}

func (s *TaskStore) index(id int) int {
	return slices.IndexFunc(s.tasks, func(t model.Task) bool { return t.ID == id })
}

func matchesAll(task model.Task, filters []Filter) bool {
	for _, f := range filters {
		if f != nil && !f(task) {
			return false
		}
	}
	return true
}

func compareByPriority(a, b model.Task) int {
	if c := cmp.Compare(b.Priority.Rank(), a.Priority.Rank()); c != 0 {
		return c
	}
	switch {
	case a.DueDate == nil && b.DueDate != nil:
		return 1
	case a.DueDate != nil && b.DueDate == nil:
		return -1
	case a.DueDate != nil && b.DueDate != nil:
		if c := a.DueDate.Compare(*b.DueDate); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.ID, b.ID)
}

func cloneTask(t model.Task) model.Task {
	t.DueDate = cloneTime(t.DueDate)
	return t
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
