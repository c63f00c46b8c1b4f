package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/BuzzLyutic/task-tracker-api/internal/model"
	"github.com/BuzzLyutic/task-tracker-api/internal/repo"
)

var (
	ErrValidation = errors.New("validation error")
)

var validate = validator.New()

// createInput входные данные создания после обрезки пробелов
type createInput struct {
	Title       string  `validate:"required,max=200"`
	Description *string `validate:"omitempty,max=1000"`
}

type TaskService struct {
	repo repo.TaskRepository
	now  func() time.Time
}

func NewTaskService(repo repo.TaskRepository) *TaskService {
	return &TaskService{repo: repo, now: now}
}

// now время в UTC с точностью до микросекунд, как хранит PostgreSQL
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (s *TaskService) ListAll(ctx context.Context) ([]model.Task, error) {
	return s.repo.GetAll(ctx)
}

// GetByID возвращает found=false, если задачи нет
func (s *TaskService) GetByID(ctx context.Context, id int64) (model.Task, bool, error) {
	t, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrorNotFound) {
		return model.Task{}, false, nil
	}
	if err != nil {
		return model.Task{}, false, err
	}
	return t, true, nil
}

func (s *TaskService) Create(ctx context.Context, title string, description *string) (model.Task, error) {
	in := createInput{
		Title:       strings.TrimSpace(title),
		Description: trimPtr(description),
	}
	if err := s.validate(in); err != nil {
		return model.Task{}, err
	}

	t := model.Task{
		Title:       in.Title,
		Description: in.Description,
		Completed:   false,
		CreatedAt:   s.now(),
	}
	return s.repo.Insert(ctx, t)
}

// Update частичное обновление: nil-поля патча не меняются, UpdatedAt проставляется всегда
func (s *TaskService) Update(ctx context.Context, id int64, patch model.TaskPatch) (model.Task, bool, error) {
	patch.Title = trimPtr(patch.Title)
	patch.Description = trimPtr(patch.Description)
	if patch.Title != nil && *patch.Title == "" {
		return model.Task{}, false, fmt.Errorf("%w: title must not be blank", ErrValidation)
	}
	if err := s.validate(patch); err != nil {
		return model.Task{}, false, err
	}

	existing, found, err := s.GetByID(ctx, id)
	if err != nil || !found {
		return model.Task{}, found, err
	}

	updated, err := s.repo.Update(ctx, existing.Apply(patch, s.now()))
	if errors.Is(err, repo.ErrorNotFound) { // удалена между чтением и записью
		return model.Task{}, false, nil
	}
	if err != nil {
		return model.Task{}, false, err
	}
	return updated, true, nil
}

func (s *TaskService) ToggleCompletion(ctx context.Context, id int64) (model.Task, bool, error) {
	existing, found, err := s.GetByID(ctx, id)
	if err != nil || !found {
		return model.Task{}, found, err
	}
	completed := !existing.Completed
	return s.Update(ctx, id, model.TaskPatch{Completed: &completed})
}

func (s *TaskService) Delete(ctx context.Context, id int64) (bool, error) {
	return s.repo.DeleteByID(ctx, id)
}

func (s *TaskService) ListByStatus(ctx context.Context, completed bool) ([]model.Task, error) {
	return s.repo.GetByCompleted(ctx, completed)
}

// ListPending незавершенные задачи, новые первыми
func (s *TaskService) ListPending(ctx context.Context) ([]model.Task, error) {
	return s.repo.GetPendingOrderedByCreatedDesc(ctx)
}

// Search по пустой строке возвращает все задачи, а не пустой список.
// Непустой term передается в хранилище как есть, вместе с пробелами.
func (s *TaskService) Search(ctx context.Context, term string) ([]model.Task, error) {
	if strings.TrimSpace(term) == "" {
		return s.repo.GetAll(ctx)
	}
	return s.repo.GetByTitleContains(ctx, term)
}

func (s *TaskService) Stats(ctx context.Context) (model.TaskStats, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return model.TaskStats{}, err
	}
	completed, err := s.repo.CountByCompleted(ctx, true)
	if err != nil {
		return model.TaskStats{}, err
	}
	return model.NewTaskStats(total, completed), nil
}

func (s *TaskService) validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "required" {
			return fmt.Errorf("%w: %s must not be blank", ErrValidation, strings.ToLower(fe.Field()))
		}
		return fmt.Errorf("%w: %s exceeds %s characters", ErrValidation, strings.ToLower(fe.Field()), fe.Param())
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
