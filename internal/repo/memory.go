package repo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/BuzzLyutic/task-tracker-api/internal/model"
)

// MemoryTaskRepo хранит задачи в памяти процесса. Используется для разработки и тестов.
type MemoryTaskRepo struct {
	mu     sync.RWMutex
	tasks  map[int64]model.Task
	nextID int64
}

func NewMemoryTaskRepo() *MemoryTaskRepo {
	return &MemoryTaskRepo{
		tasks: make(map[int64]model.Task),
	}
}

func (r *MemoryTaskRepo) Insert(_ context.Context, t model.Task) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	t.ID = r.nextID
	t = cloneTask(t)
	r.tasks[t.ID] = t
	return cloneTask(t), nil
}

func (r *MemoryTaskRepo) GetByID(_ context.Context, id int64) (model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return model.Task{}, ErrorNotFound
	}
	return cloneTask(t), nil
}

func (r *MemoryTaskRepo) GetAll(_ context.Context) ([]model.Task, error) {
	return r.filter(func(model.Task) bool { return true }), nil
}

func (r *MemoryTaskRepo) GetByCompleted(_ context.Context, completed bool) ([]model.Task, error) {
	return r.filter(func(t model.Task) bool { return t.Completed == completed }), nil
}

func (r *MemoryTaskRepo) GetByTitleContains(_ context.Context, term string) ([]model.Task, error) {
	term = strings.ToLower(term)
	return r.filter(func(t model.Task) bool {
		return strings.Contains(strings.ToLower(t.Title), term)
	}), nil
}

func (r *MemoryTaskRepo) GetPendingOrderedByCreatedDesc(_ context.Context) ([]model.Task, error) {
	tasks := r.filter(func(t model.Task) bool { return !t.Completed })
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID > tasks[j].ID
		}
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (r *MemoryTaskRepo) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.tasks)), nil
}

func (r *MemoryTaskRepo) CountByCompleted(_ context.Context, completed bool) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, t := range r.tasks {
		if t.Completed == completed {
			n++
		}
	}
	return n, nil
}

func (r *MemoryTaskRepo) Update(_ context.Context, t model.Task) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.tasks[t.ID]
	if !ok {
		return t, ErrorNotFound
	}
	t.CreatedAt = existing.CreatedAt
	t = cloneTask(t)
	r.tasks[t.ID] = t
	return cloneTask(t), nil
}

func (r *MemoryTaskRepo) DeleteByID(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return false, nil
	}
	delete(r.tasks, id)
	return true, nil
}

func (r *MemoryTaskRepo) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tasks[id]
	return ok, nil
}

// filter возвращает копии подходящих задач в порядке id
func (r *MemoryTaskRepo) filter(match func(model.Task) bool) []model.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]model.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		if match(t) {
			tasks = append(tasks, cloneTask(t))
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks
}

// cloneTask разрывает общие указатели, чтобы вызывающий не мог менять хранилище
func cloneTask(t model.Task) model.Task {
	if t.Description != nil {
		d := *t.Description
		t.Description = &d
	}
	if t.UpdatedAt != nil {
		u := *t.UpdatedAt
		t.UpdatedAt = &u
	}
	return t
}
