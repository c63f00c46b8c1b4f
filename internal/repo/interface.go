package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/BuzzLyutic/task-tracker-api/internal/model"
)

var (
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("conflict")
	ErrorInvalid  = errors.New("invalid entity")
)

// TaskRepository определяет интерфейс для работы с задачами
type TaskRepository interface {
	Insert(ctx context.Context, t model.Task) (model.Task, error)
	GetByID(ctx context.Context, id int64) (model.Task, error)
	GetAll(ctx context.Context) ([]model.Task, error)
	GetByCompleted(ctx context.Context, completed bool) ([]model.Task, error)
	GetByTitleContains(ctx context.Context, term string) ([]model.Task, error)
	GetPendingOrderedByCreatedDesc(ctx context.Context) ([]model.Task, error)
	Count(ctx context.Context) (int64, error)
	CountByCompleted(ctx context.Context, completed bool) (int64, error)
	Update(ctx context.Context, t model.Task) (model.Task, error)
	DeleteByID(ctx context.Context, id int64) (bool, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern строит шаблон для ILIKE, спецсимволы ищутся буквально
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
