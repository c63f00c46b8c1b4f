package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestTask_Apply(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	now := created.Add(time.Hour)
	base := Task{
		ID:          7,
		Title:       "Buy milk",
		Description: strPtr("two liters"),
		Completed:   false,
		CreatedAt:   created,
	}

	tests := []struct {
		name  string
		patch TaskPatch
		want  Task
	}{
		{
			name:  "empty patch only stamps updatedAt",
			patch: TaskPatch{},
			want: Task{
				ID: 7, Title: "Buy milk", Description: strPtr("two liters"),
				CreatedAt: created, UpdatedAt: &now,
			},
		},
		{
			name:  "title only",
			patch: TaskPatch{Title: strPtr("Buy bread")},
			want: Task{
				ID: 7, Title: "Buy bread", Description: strPtr("two liters"),
				CreatedAt: created, UpdatedAt: &now,
			},
		},
		{
			name: "all fields",
			patch: TaskPatch{
				Title:       strPtr("Buy bread"),
				Description: strPtr(""),
				Completed:   boolPtr(true),
			},
			want: Task{
				ID: 7, Title: "Buy bread", Description: strPtr(""), Completed: true,
				CreatedAt: created, UpdatedAt: &now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := base.Apply(tt.patch, now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTask_ApplyDoesNotMutateOriginal(t *testing.T) {
	base := Task{ID: 1, Title: "Original", Description: strPtr("desc")}
	desc := "changed"

	got := base.Apply(TaskPatch{Title: strPtr("New"), Description: &desc}, time.Now())
	desc = "mutated later"

	assert.Equal(t, "changed", *got.Description)
	assert.Equal(t, "Original", base.Title)
	assert.Equal(t, "desc", *base.Description)
	assert.Nil(t, base.UpdatedAt)
}

func TestNewTaskStats(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		completed int64
		want      TaskStats
	}{
		{name: "empty store", want: TaskStats{}},
		{
			name: "one of three", total: 3, completed: 1,
			want: TaskStats{Total: 3, Completed: 1, Pending: 2, CompletionRate: 100.0 / 3},
		},
		{
			name: "all done", total: 4, completed: 4,
			want: TaskStats{Total: 4, Completed: 4, Pending: 0, CompletionRate: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewTaskStats(tt.total, tt.completed)
			assert.Equal(t, tt.want.Total, got.Total)
			assert.Equal(t, tt.want.Completed, got.Completed)
			assert.Equal(t, tt.want.Pending, got.Pending)
			assert.InDelta(t, tt.want.CompletionRate, got.CompletionRate, 1e-9)
		})
	}
}
