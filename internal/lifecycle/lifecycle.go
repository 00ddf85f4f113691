// Package lifecycle проверяет запись задачи перед сохранением и вычисляет
// поля, которые сервис проставляет сам (дата завершения при переключении статуса).
//
// Пакет не читает системные часы: текущее время всегда передаёт вызывающий.
package lifecycle

import (
	"strings"
	"taskBoard/internal/models/task"
	"time"
)

// MinLeadTime - насколько срок незавершённой задачи должен опережать момент записи
const MinLeadTime = 60 * time.Second

// Input - данные создания или полного редактирования задачи.
// Пустая строка означает, что поле не передано.
type Input struct {
	Name          string
	Status        string
	DueDate       string
	CompletedDate string
	Priority      string
}

// Normalized - проверенная запись, готовая к сохранению
type Normalized struct {
	Name          string
	Status        task.Status
	Priority      string
	DueDate       *string
	CompletedDate *string
}

// Validate применяет правила записи по порядку и возвращает первую нарушенную.
// Смещение в строке срока без зоны берётся из now.Location().
func Validate(input Input, now time.Time) (Normalized, error) {
	name := strings.TrimSpace(input.Name)
	rawStatus := strings.TrimSpace(input.Status)
	if name == "" {
		return Normalized{}, newError(KindMissingFields, "name", "")
	}
	if rawStatus == "" {
		return Normalized{}, newError(KindMissingFields, "status", "")
	}

	status, ok := task.ParseStatus(rawStatus)
	if !ok {
		return Normalized{}, newError(KindInvalidStatus, "status", rawStatus)
	}

	dueDate := optional(input.DueDate)
	completedDate := optional(input.CompletedDate)

	if status.IsCompleted() {
		// срок не сверяется с датой завершения
		if completedDate == nil {
			return Normalized{}, newError(KindMissingCompletionDate, "completedDate", "")
		}
	} else {
		if dueDate != nil {
			due, err := task.ParseTimestamp(*dueDate, now.Location())
			if err != nil {
				return Normalized{}, newError(KindInvalidDueDate, "dueDate", *dueDate)
			}
			if due.UnixMilli() < now.UnixMilli()+MinLeadTime.Milliseconds() {
				return Normalized{}, newError(KindDueDateTooSoon, "dueDate", *dueDate)
			}
		}
		completedDate = nil
	}

	priority := strings.TrimSpace(input.Priority)
	if priority == "" {
		priority = task.PriorityNone
	}

	return Normalized{
		Name:          name,
		Status:        status,
		Priority:      priority,
		DueDate:       dueDate,
		CompletedDate: completedDate,
	}, nil
}

// Options переводит запись в набор изменений для репозитория
func (n Normalized) Options() []task.TaskOption {
	return []task.TaskOption{
		task.WithName(n.Name),
		task.WithStatus(n.Status),
		task.WithPriority(n.Priority),
		task.WithDueDate(n.DueDate),
		task.WithCompletedDate(n.CompletedDate),
	}
}

// Apply заполняет новую задачу проверенными полями
func (n Normalized) Apply(t *task.Task) {
	t.Apply(n.Options()...)
}

// Toggle - переключатель "выполнено": только Completed и Pending.
// Срок при этом повторно не проверяется.
func Toggle(completed bool, now time.Time) []task.TaskOption {
	if completed {
		stamp := task.FormatTimestamp(now)
		return []task.TaskOption{
			task.WithStatus(task.StatusCompleted),
			task.WithCompletedDate(&stamp),
		}
	}
	return []task.TaskOption{
		task.WithStatus(task.StatusPending),
		task.WithCompletedDate(nil),
	}
}

// Cancel переводит задачу в Cancelled из любого статуса, даты не трогает
func Cancel() []task.TaskOption {
	return []task.TaskOption{task.WithStatus(task.StatusCancelled)}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
