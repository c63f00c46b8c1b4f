package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/task-tracker-api/internal/model"
)

// runRepositoryContract проверяет поведение, общее для всех реализаций TaskRepository.
// newRepo должен возвращать пустое хранилище.
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) TaskRepository) {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	seed := func(t *testing.T, r TaskRepository, title string, completed bool, createdAt time.Time) model.Task {
		t.Helper()
		created, err := r.Insert(ctx, model.Task{Title: title, Completed: completed, CreatedAt: createdAt})
		require.NoError(t, err)
		return created
	}

	t.Run("insert assigns increasing ids", func(t *testing.T) {
		r := newRepo(t)
		desc := "two liters"

		first, err := r.Insert(ctx, model.Task{Title: "Buy milk", Description: &desc, CreatedAt: base})
		require.NoError(t, err)
		second, err := r.Insert(ctx, model.Task{Title: "Buy bread", CreatedAt: base})
		require.NoError(t, err)

		assert.NotZero(t, first.ID)
		assert.Greater(t, second.ID, first.ID)
		assert.Equal(t, "Buy milk", first.Title)
		require.NotNil(t, first.Description)
		assert.Equal(t, "two liters", *first.Description)
		assert.Nil(t, second.Description)
		assert.False(t, first.Completed)
		assert.Nil(t, first.UpdatedAt)
		assert.True(t, base.Equal(first.CreatedAt))
	})

	t.Run("get by id round trips", func(t *testing.T) {
		r := newRepo(t)
		created := seed(t, r, "Round trip", false, base)

		got, err := r.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, got)

		_, err = r.GetByID(ctx, created.ID+1000)
		assert.ErrorIs(t, err, ErrorNotFound)
	})

	t.Run("get all in insertion order", func(t *testing.T) {
		r := newRepo(t)

		empty, err := r.GetAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)

		a := seed(t, r, "A", false, base)
		b := seed(t, r, "B", true, base)
		c := seed(t, r, "C", false, base)

		all, err := r.GetAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{a.ID, b.ID, c.ID}, ids(all))
	})

	t.Run("filter by completed and count", func(t *testing.T) {
		r := newRepo(t)
		a := seed(t, r, "A", false, base)
		b := seed(t, r, "B", true, base)
		c := seed(t, r, "C", false, base)

		done, err := r.GetByCompleted(ctx, true)
		require.NoError(t, err)
		assert.Equal(t, []int64{b.ID}, ids(done))

		pending, err := r.GetByCompleted(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, []int64{a.ID, c.ID}, ids(pending))

		total, err := r.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)

		completed, err := r.CountByCompleted(ctx, true)
		require.NoError(t, err)
		assert.EqualValues(t, 1, completed)
	})

	t.Run("title search is case insensitive and literal", func(t *testing.T) {
		r := newRepo(t)
		milk := seed(t, r, "Buy MILK", false, base)
		seed(t, r, "Walk the dog", false, base)
		pct := seed(t, r, "Raise 100% coverage", false, base)
		under := seed(t, r, "snake_case rename", false, base)

		got, err := r.GetByTitleContains(ctx, "milk")
		require.NoError(t, err)
		assert.Equal(t, []int64{milk.ID}, ids(got))

		got, err = r.GetByTitleContains(ctx, "%")
		require.NoError(t, err)
		assert.Equal(t, []int64{pct.ID}, ids(got))

		got, err = r.GetByTitleContains(ctx, "_")
		require.NoError(t, err)
		assert.Equal(t, []int64{under.ID}, ids(got))

		got, err = r.GetByTitleContains(ctx, "nothing like this")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("pending ordered by created desc", func(t *testing.T) {
		r := newRepo(t)
		old := seed(t, r, "old", false, base)
		seed(t, r, "done", true, base.Add(2*time.Hour))
		newest := seed(t, r, "newest", false, base.Add(3*time.Hour))
		middle := seed(t, r, "middle", false, base.Add(time.Hour))

		got, err := r.GetPendingOrderedByCreatedDesc(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{newest.ID, middle.ID, old.ID}, ids(got))
	})

	t.Run("update persists mutable fields", func(t *testing.T) {
		r := newRepo(t)
		created := seed(t, r, "Before", false, base)
		desc := "now with details"
		now := base.Add(time.Minute)

		changed := created
		changed.Title = "After"
		changed.Description = &desc
		changed.Completed = true
		changed.UpdatedAt = &now

		updated, err := r.Update(ctx, changed)
		require.NoError(t, err)
		assert.Equal(t, "After", updated.Title)
		require.NotNil(t, updated.Description)
		assert.Equal(t, desc, *updated.Description)
		assert.True(t, updated.Completed)
		require.NotNil(t, updated.UpdatedAt)
		assert.True(t, now.Equal(*updated.UpdatedAt))
		assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

		got, err := r.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, got)
	})

	t.Run("update missing id", func(t *testing.T) {
		r := newRepo(t)
		now := base
		_, err := r.Update(ctx, model.Task{ID: 4242, Title: "ghost", CreatedAt: base, UpdatedAt: &now})
		assert.ErrorIs(t, err, ErrorNotFound)
	})

	t.Run("delete and exists", func(t *testing.T) {
		r := newRepo(t)
		created := seed(t, r, "Doomed", false, base)

		exists, err := r.ExistsByID(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		deleted, err := r.DeleteByID(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		exists, err = r.ExistsByID(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, exists)

		deleted, err = r.DeleteByID(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, deleted)

		_, err = r.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, ErrorNotFound)
	})
}

func ids(tasks []model.Task) []int64 {
	out := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}
