package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/task-tracker-api/internal/model"
)

const taskColumns = `id, title, description, completed, created_at, updated_at`

type TaskRepo struct { // Репозиторий для работы непосредственно с БД
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo { // Конструктор
	return &TaskRepo{
		pool: pool,
	}
}

func (r *TaskRepo) Insert(ctx context.Context, t model.Task) (model.Task, error) {
	created, err := scanTask(r.pool.QueryRow(ctx, `
		INSERT INTO tasks (title, description, completed, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING `+taskColumns,
		t.Title, t.Description, t.Completed, t.CreatedAt,
	))
	if err != nil {
		return t, fmt.Errorf("insert task: %w", mapError(err))
	}
	return created, nil
}

func (r *TaskRepo) GetByID(ctx context.Context, id int64) (model.Task, error) {
	t, err := scanTask(r.pool.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = $1
	`, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrorNotFound
	}
	if err != nil {
		return t, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

func (r *TaskRepo) GetAll(ctx context.Context) ([]model.Task, error) {
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY id`)
}

func (r *TaskRepo) GetByCompleted(ctx context.Context, completed bool) ([]model.Task, error) {
	return r.list(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE completed = $1
		ORDER BY id
	`, completed)
}

func (r *TaskRepo) GetByTitleContains(ctx context.Context, term string) ([]model.Task, error) {
	return r.list(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE title ILIKE $1
		ORDER BY id
	`, likePattern(term))
}

func (r *TaskRepo) GetPendingOrderedByCreatedDesc(ctx context.Context) ([]model.Task, error) {
	return r.list(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE completed = false
		ORDER BY created_at DESC, id DESC
	`)
}

func (r *TaskRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

func (r *TaskRepo) CountByCompleted(ctx context.Context, completed bool) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE completed = $1`, completed).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count tasks by completed: %w", err)
	}
	return n, nil
}

// Update перезаписывает изменяемые поля, created_at не трогаем
func (r *TaskRepo) Update(ctx context.Context, t model.Task) (model.Task, error) {
	updated, err := scanTask(r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET title = $2, description = $3, completed = $4, updated_at = $5
		WHERE id = $1
		RETURNING `+taskColumns,
		t.ID, t.Title, t.Description, t.Completed, t.UpdatedAt,
	))

	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrorNotFound
	}
	if err != nil {
		return t, fmt.Errorf("update task %d: %w", t.ID, mapError(err))
	}
	return updated, nil
}

func (r *TaskRepo) DeleteByID(ctx context.Context, id int64) (bool, error) {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete task %d: %w", id, err)
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *TaskRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM tasks WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check task %d: %w", id, err)
	}
	return exists, nil
}

func (r *TaskRepo) list(ctx context.Context, query string, args ...any) ([]model.Task, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// scanTask читает строку taskColumns, время приводим к UTC
func scanTask(row pgx.Row) (model.Task, error) {
	var t model.Task
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return t, err
	}
	return normalizeTimes(t), nil
}

// mapError переводит коды PostgreSQL в ошибки репозитория
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%w: %s", ErrorConflict, pgErr.ConstraintName)
		case "23502", "23514", "22001":
			return fmt.Errorf("%w: %s", ErrorInvalid, pgErr.Message)
		}
	}
	return err
}
