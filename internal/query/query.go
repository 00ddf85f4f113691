// Package query строит отображаемый список задач пользователя:
// фильтры, поиск и сортировка поверх полного снимка задач.
//
// Все функции чистые: входной срез не изменяется, текущее время и зона передаются явно.
package query

import (
	"cmp"
	"slices"
	"taskBoard/internal/models/task"
	"taskBoard/internal/textnorm"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type filter func(t task.Task) bool

// Run применяет шаги строго по порядку: отмена в обычном виде, статус,
// приоритет, корзина срока, поиск, сортировка.
func Run(tasks []task.Task, params Params, now time.Time, loc *time.Location) []task.Task {
	params = params.WithDefaults()
	cal := newCalendar(now, loc)

	result := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		result = append(result, t.Clone())
	}

	result = keep(result, viewGate(params.View))
	result = keep(result, statusFilter(params.Status))
	result = keep(result, priorityFilter(params.Priority))
	result = keep(result, dueFilter(params.Due, params.SpecificDue, cal))
	result = keep(result, searchFilter(params.Search))

	sortTasks(result, params.Sort, cal)
	return result
}

func keep(tasks []task.Task, f filter) []task.Task {
	if f == nil {
		return tasks
	}
	out := tasks[:0]
	for _, t := range tasks {
		if f(t) {
			out = append(out, t)
		}
	}
	return out
}

// viewGate скрывает отменённые задачи в обычном виде, до фильтра статуса
func viewGate(view string) filter {
	if !textnorm.Equal(view, ViewDefault) {
		return nil
	}
	return func(t task.Task) bool {
		return !t.IsCancelled()
	}
}

func statusFilter(status string) filter {
	if isAll(status) {
		return nil
	}
	return func(t task.Task) bool {
		return textnorm.Equal(string(t.Status), status)
	}
}

func priorityFilter(priority string) filter {
	if isAll(priority) {
		return nil
	}
	return func(t task.Task) bool {
		return textnorm.Equal(t.Priority, priority)
	}
}

func dueFilter(due, specificDue string, cal calendar) filter {
	if isAll(due) {
		return nil
	}

	var match func(day string) bool
	switch due {
	case string(BucketPastDue), string(BucketDueToday), string(BucketDueTomorrow), string(BucketDueNextWeek):
		match = func(day string) bool { return cal.classify(day) == Bucket(due) }
	case DueSpecific:
		match = func(day string) bool { return isDay(specificDue) && day == specificDue }
	default:
		match = func(string) bool { return true }
	}

	return func(t task.Task) bool {
		day, ok := cal.day(t.DueDate)
		if !ok {
			return false
		}
		return match(day)
	}
}

func searchFilter(search string) filter {
	needle := textnorm.Fold(search)
	if needle == "" {
		return nil
	}
	return func(t task.Task) bool {
		return textnorm.Contains(t.Name, needle)
	}
}

func isDay(s string) bool {
	if len(s) != len(task.DayLayout) {
		return false
	}
	_, err := time.Parse(task.DayLayout, s)
	return err == nil
}

var statusOrder = map[string]int{
	textnorm.Fold(string(task.StatusPending)):    1,
	textnorm.Fold(string(task.StatusInProgress)): 2,
	textnorm.Fold(string(task.StatusCompleted)):  3,
	textnorm.Fold(string(task.StatusCancelled)):  4,
}

const unknownRank = 99

func statusRank(s task.Status) int {
	if rank, ok := statusOrder[textnorm.Fold(string(s))]; ok {
		return rank
	}
	return unknownRank
}

// sortTasks сортирует на месте и устойчиво; неизвестный ключ оставляет порядок хранилища
func sortTasks(tasks []task.Task, key string, cal calendar) {
	switch key {
	case SortName:
		collator := collate.New(language.Und)
		slices.SortStableFunc(tasks, func(a, b task.Task) int {
			return collator.CompareString(a.Name, b.Name)
		})
	case SortStatus:
		slices.SortStableFunc(tasks, func(a, b task.Task) int {
			return cmp.Compare(statusRank(a.Status), statusRank(b.Status))
		})
	case SortDueDate:
		type keyed struct {
			task  task.Task
			due   time.Time
			dated bool
		}
		items := make([]keyed, len(tasks))
		for i, t := range tasks {
			items[i].task = t
			if t.DueDate != nil {
				if due, err := task.ParseTimestamp(*t.DueDate, cal.loc); err == nil {
					items[i].due, items[i].dated = due, true
				}
			}
		}
		slices.SortStableFunc(items, func(a, b keyed) int {
			switch {
			case a.dated && b.dated:
				return a.due.Compare(b.due)
			case a.dated:
				return -1
			case b.dated:
				return 1
			default:
				return 0
			}
		})
		for i := range items {
			tasks[i] = items[i].task
		}
	}
}
