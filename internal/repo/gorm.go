package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BuzzLyutic/task-tracker-api/internal/model"
)

// GormTaskRepo реализация TaskRepository поверх GORM, использует тот же пул pgx
type GormTaskRepo struct {
	db *gorm.DB
}

func NewGormTaskRepo(pool *pgxpool.Pool) (*GormTaskRepo, error) {
	db, err := gorm.Open(gormpg.New(gormpg.Config{Conn: stdlib.OpenDBFromPool(pool)}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	return &GormTaskRepo{db: db}, nil
}

func (r *GormTaskRepo) Insert(ctx context.Context, t model.Task) (model.Task, error) {
	t.ID = 0
	if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
		return t, fmt.Errorf("insert task: %w", mapError(err))
	}
	return r.GetByID(ctx, t.ID)
}

func (r *GormTaskRepo) GetByID(ctx context.Context, id int64) (model.Task, error) {
	var t model.Task
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return t, ErrorNotFound
	}
	if err != nil {
		return t, fmt.Errorf("get task %d: %w", id, err)
	}
	return normalizeTimes(t), nil
}

func (r *GormTaskRepo) GetAll(ctx context.Context) ([]model.Task, error) {
	return r.find(r.db.WithContext(ctx).Order("id"))
}

func (r *GormTaskRepo) GetByCompleted(ctx context.Context, completed bool) ([]model.Task, error) {
	return r.find(r.db.WithContext(ctx).Where("completed = ?", completed).Order("id"))
}

func (r *GormTaskRepo) GetByTitleContains(ctx context.Context, term string) ([]model.Task, error) {
	return r.find(r.db.WithContext(ctx).Where("title ILIKE ?", likePattern(term)).Order("id"))
}

func (r *GormTaskRepo) GetPendingOrderedByCreatedDesc(ctx context.Context) ([]model.Task, error) {
	return r.find(r.db.WithContext(ctx).Where("completed = ?", false).Order("created_at DESC, id DESC"))
}

func (r *GormTaskRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

func (r *GormTaskRepo) CountByCompleted(ctx context.Context, completed bool) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).Where("completed = ?", completed).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count tasks by completed: %w", err)
	}
	return n, nil
}

func (r *GormTaskRepo) Update(ctx context.Context, t model.Task) (model.Task, error) {
	res := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", t.ID).Updates(map[string]any{
		"title":       t.Title,
		"description": t.Description,
		"completed":   t.Completed,
		"updated_at":  t.UpdatedAt,
	})
	if res.Error != nil {
		return t, fmt.Errorf("update task %d: %w", t.ID, mapError(res.Error))
	}
	if res.RowsAffected == 0 {
		return t, ErrorNotFound
	}
	return r.GetByID(ctx, t.ID)
}

func (r *GormTaskRepo) DeleteByID(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Task{})
	if res.Error != nil {
		return false, fmt.Errorf("delete task %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *GormTaskRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check task %d: %w", id, err)
	}
	return n > 0, nil
}

func (r *GormTaskRepo) find(q *gorm.DB) ([]model.Task, error) {
	tasks := make([]model.Task, 0)
	if err := q.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	for i := range tasks {
		tasks[i] = normalizeTimes(tasks[i])
	}
	return tasks, nil
}

func normalizeTimes(t model.Task) model.Task {
	t.CreatedAt = t.CreatedAt.UTC()
	if t.UpdatedAt != nil {
		u := t.UpdatedAt.UTC()
		t.UpdatedAt = &u
	}
	return t
}
