package model

import "time"

const (
	TitleMaxLen       = 200
	DescriptionMaxLen = 1000
)

// Task задача трекера. ID = 0 пока запись не сохранена.
type Task struct {
	ID          int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string     `json:"title" gorm:"type:varchar(200);not null"`
	Description *string    `json:"description" gorm:"type:varchar(1000)"`
	Completed   bool       `json:"completed" gorm:"not null;default:false"`
	CreatedAt   time.Time  `json:"createdAt" gorm:"not null;autoCreateTime:false"`
	UpdatedAt   *time.Time `json:"updatedAt" gorm:"autoUpdateTime:false"`
}

func (Task) TableName() string { return "tasks" }

// TaskPatch набор необязательных изменений. nil означает "оставить как есть".
type TaskPatch struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Completed   *bool   `json:"completed"`
}

// Apply возвращает копию задачи с примененными изменениями и проставленным UpdatedAt.
func (t Task) Apply(p TaskPatch, now time.Time) Task {
	out := t
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		d := *p.Description
		out.Description = &d
	}
	if p.Completed != nil {
		out.Completed = *p.Completed
	}
	out.UpdatedAt = &now
	return out
}

// TaskStats агрегированная статистика, не хранится.
type TaskStats struct {
	Total          int64   `json:"total"`
	Completed      int64   `json:"completed"`
	Pending        int64   `json:"pending"`
	CompletionRate float64 `json:"completionRate"`
}

func NewTaskStats(total, completed int64) TaskStats {
	stats := TaskStats{
		Total:     total,
		Completed: completed,
		Pending:   total - completed,
	}
	if total > 0 {
		stats.CompletionRate = float64(completed) / float64(total) * 100
	}
	return stats
}
