package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"task-manager.com/task-manager/internal/constants"
	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
	repository "task-manager.com/task-manager/internal/repositories"
	"task-manager.com/task-manager/internal/store"
)

// memoryPersister is an in-memory Persister for testing
type memoryPersister struct {
	mu      sync.Mutex
	tasks   []model.Task
	saves   int
	saveErr error
	loadErr error
}

func (m *memoryPersister) Save(ctx context.Context, tasks []model.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return m.saveErr
	}
	m.tasks = append([]model.Task(nil), tasks...)
	m.saves++
	return nil
}

func (m *memoryPersister) Load(ctx context.Context) ([]model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]model.Task(nil), m.tasks...), nil
}

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService(repo repository.Persister, opts ...Option) *TaskService {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewTaskService(repo, opts...)
}

func TestTaskService_AddToggleSaveLoad(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewJSONFileRepository(filepath.Join(t.TempDir(), "tasks.json"))

	service := newTestService(repo)
	if err := service.Load(ctx); err != nil {
		t.Fatalf("initial load failed: %v", err)
	}

	task, err := service.CreateTask(ctx, CreateTaskInput{Title: "X"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if task.ID != 1 {
		t.Fatalf("expected id 1, got %d", task.ID)
	}
	if _, err := service.ToggleTask(ctx, 1); err != nil {
		t.Fatalf("ToggleTask failed: %v", err)
	}
	if err := service.Save(ctx); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded := newTestService(repo)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	got, err := reloaded.GetTask(1)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if !got.IsCompleted() {
		t.Errorf("expected reloaded task to be completed, got %s", got.Status)
	}
	if reloaded.NextID() != 2 {
		t.Errorf("expected next id 2 after reload, got %d", reloaded.NextID())
	}
}

func TestTaskService_MutationsDoNotPersistWithoutSave(t *testing.T) {
	ctx := context.Background()
	repo := &memoryPersister{}
	service := newTestService(repo)

	if _, err := service.CreateTask(ctx, CreateTaskInput{Title: "draft"}); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if repo.saves != 0 {
		t.Errorf("expected no saves, got %d", repo.saves)
	}
}

func TestTaskService_AutoSave(t *testing.T) {
	ctx := context.Background()
	repo := &memoryPersister{}
	service := newTestService(repo, WithAutoSave())

	if _, err := service.CreateTask(ctx, CreateTaskInput{Title: "a", Priority: constants.PriorityHigh}); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if _, err := service.SetStatus(ctx, 1, constants.StatusOnHold); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if removed, err := service.RemoveTask(ctx, 99); err != nil || removed {
		t.Fatalf("RemoveTask(99) = %v, %v; want false, nil", removed, err)
	}

	if repo.saves != 2 {
		t.Errorf("expected 2 saves (missing-id removal saves nothing), got %d", repo.saves)
	}
	if len(repo.tasks) != 1 || repo.tasks[0].Status != constants.StatusOnHold {
		t.Errorf("unexpected persisted tasks: %+v", repo.tasks)
	}
}

func TestTaskService_AutoSaveFailureKeepsChange(t *testing.T) {
	ctx := context.Background()
	repo := &memoryPersister{saveErr: errors.New("disk full")}
	service := newTestService(repo, WithAutoSave())

	task, err := service.CreateTask(ctx, CreateTaskInput{Title: "a"})
	if !errors.Is(err, apperrors.ErrChangeNotSaved) {
		t.Fatalf("expected ErrChangeNotSaved, got %v", err)
	}
	if task.ID != 1 {
		t.Errorf("expected created task to be returned alongside the error, got %+v", task)
	}
	if _, err := service.GetTask(1); err != nil {
		t.Errorf("in-memory change should survive a failed save: %v", err)
	}

	removed, err := service.RemoveTask(ctx, 1)
	if !removed || !errors.Is(err, apperrors.ErrChangeNotSaved) {
		t.Errorf("expected removal with ErrChangeNotSaved, got %v, %v", removed, err)
	}
	if _, err := service.GetTask(99); errors.Is(err, apperrors.ErrChangeNotSaved) {
		t.Errorf("failed lookups must not report an unsaved change")
	}
	if err := service.Save(ctx); err == nil || errors.Is(err, apperrors.ErrChangeNotSaved) {
		t.Errorf("explicit save should fail without claiming a change, got %v", err)
	}
}

func TestTaskService_LoadFailureKeepsCollection(t *testing.T) {
	ctx := context.Background()
	repo := &memoryPersister{}
	service := newTestService(repo)
	service.CreateTask(ctx, CreateTaskInput{Title: "keep me"})

	repo.loadErr = apperrors.ErrMalformedData
	if err := service.Load(ctx); !errors.Is(err, apperrors.ErrMalformedData) {
		t.Fatalf("expected ErrMalformedData, got %v", err)
	}
	if tasks := service.ListTasks(ListQuery{}); len(tasks) != 1 {
		t.Errorf("failed load must not replace the collection, got %d tasks", len(tasks))
	}
}

func TestTaskService_ValidationAndNotFound(t *testing.T) {
	ctx := context.Background()
	service := newTestService(&memoryPersister{})

	if _, err := service.CreateTask(ctx, CreateTaskInput{Title: " "}); !errors.Is(err, apperrors.ErrTitleRequired) {
		t.Errorf("expected ErrTitleRequired, got %v", err)
	}
	if _, err := service.GetTask(3); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
	if _, err := service.ToggleTask(ctx, 3); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
	title := "renamed"
	if _, err := service.UpdateTask(ctx, 3, store.Patch{Title: &title}); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestTaskService_ListQuery(t *testing.T) {
	ctx := context.Background()
	service := newTestService(&memoryPersister{})
	past := fixedNow.AddDate(0, 0, -1)

	service.CreateTask(ctx, CreateTaskInput{Title: "pay rent", Priority: constants.PriorityUrgent, DueDate: &past})
	service.CreateTask(ctx, CreateTaskInput{Title: "read book", Priority: constants.PriorityLow})
	service.CreateTask(ctx, CreateTaskInput{Title: "pay taxes", Priority: constants.PriorityHigh})
	service.ToggleTask(ctx, 2)

	done := true
	notDone := false
	high := constants.PriorityHigh
	completed := constants.StatusCompleted

	tests := []struct {
		name  string
		query ListQuery
		want  []int
	}{
		{name: "all", query: ListQuery{}, want: []int{1, 2, 3}},
		{name: "completed", query: ListQuery{Completed: &done}, want: []int{2}},
		{name: "pending", query: ListQuery{Completed: &notDone}, want: []int{1, 3}},
		{name: "status", query: ListQuery{Status: &completed}, want: []int{2}},
		{name: "priority", query: ListQuery{Priority: &high}, want: []int{3}},
		{name: "search", query: ListQuery{Search: "pay"}, want: []int{1, 3}},
		{name: "overdue", query: ListQuery{OverdueOnly: true}, want: []int{1}},
		{name: "sorted", query: ListQuery{SortByPriority: true}, want: []int{1, 3, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := service.ListTasks(tt.query)
			if len(tasks) != len(tt.want) {
				t.Fatalf("got %d tasks, want %v", len(tasks), tt.want)
			}
			for i, task := range tasks {
				if task.ID != tt.want[i] {
					t.Errorf("position %d: got id %d, want %d", i, task.ID, tt.want[i])
				}
			}
		})
	}

	stats := service.Stats()
	if stats.Total != 3 || stats.Overdue != 1 || stats.ByStatus[constants.StatusCompleted] != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestTaskService_ConcurrentCreates(t *testing.T) {
	service := newTestService(&memoryPersister{}, WithAutoSave())

	const concurrentCount = 50
	var wg sync.WaitGroup
	wg.Add(concurrentCount)

	errs := make(chan error, concurrentCount)

	for i := 0; i < concurrentCount; i++ {
		go func() {
			defer wg.Done()
			if _, err := service.CreateTask(context.Background(), CreateTaskInput{Title: "Title"}); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent creation failed: %v", err)
	}

	tasks := service.ListTasks(ListQuery{})
	if len(tasks) != concurrentCount {
		t.Errorf("expected %d tasks, got %d", concurrentCount, len(tasks))
	}
	seen := make(map[int]bool)
	for _, task := range tasks {
		if seen[task.ID] {
			t.Errorf("duplicate id %d", task.ID)
		}
		seen[task.ID] = true
	}
}
