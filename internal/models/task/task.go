package task

import (
	"strings"
	"taskBoard/internal/textnorm"
	"time"
)

// Task - запись задачи в том виде, в котором она хранится в репозитории.
// Даты DueDate и CompletedDate хранятся строками ISO-8601 без изменений,
// nil означает отсутствие даты.
type Task struct {
	ID            int64     `json:"id" db:"id"`
	UserID        int64     `json:"userId" db:"user_id"`
	Name          string    `json:"name" db:"name"`
	Status        Status    `json:"status" db:"status"`
	Priority      string    `json:"priority" db:"priority"`
	DueDate       *string   `json:"dueDate" db:"due_date"`
	CompletedDate *string   `json:"completedDate,omitempty" db:"completed_date"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

type Status string

const StatusPending Status = "Pending"
const StatusInProgress Status = "In Progress"
const StatusCompleted Status = "Completed"
const StatusCancelled Status = "Cancelled"

// Statuses в порядке отображения
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}

// Приоритет не ограничен перечислением: любые значения сохраняются как есть,
// ниже только рекомендуемый набор.
const PriorityHigh = "High"
const PriorityMedium = "Medium"
const PriorityLow = "Low"
const PriorityNone = "none"

// ParseStatus находит каноническое написание статуса без учёта регистра.
// "inprogress", "in_progress" и "in-progress" тоже распознаются как In Progress.
func ParseStatus(raw string) (Status, bool) {
	folded := textnorm.Fold(raw)
	folded = strings.NewReplacer("_", " ", "-", " ").Replace(folded)
	if folded == "inprogress" {
		folded = "in progress"
	}

	for _, s := range Statuses {
		if textnorm.Fold(string(s)) == folded {
			return s, true
		}
	}
	return "", false
}

// Is сравнивает статус с эталоном без учёта регистра
func (s Status) Is(other Status) bool {
	return textnorm.Equal(string(s), string(other))
}

func (s Status) IsCompleted() bool {
	return s.Is(StatusCompleted)
}

func (t *Task) IsCancelled() bool {
	return t.Status.Is(StatusCancelled)
}

// Clone возвращает копию задачи, не разделяющую указатели на даты с оригиналом.
func (t Task) Clone() Task {
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	if t.CompletedDate != nil {
		d := *t.CompletedDate
		t.CompletedDate = &d
	}
	return t
}
