package query

import (
	"taskBoard/internal/models/task"
	"time"
)

// Bucket - положение срока задачи относительно сегодняшнего дня
type Bucket string

const (
	BucketPastDue     Bucket = "pastDue"
	BucketDueToday    Bucket = "dueToday"
	BucketDueTomorrow Bucket = "dueTomorrow"
	BucketDueNextWeek Bucket = "dueNextWeek"
	BucketLater       Bucket = "later"
	BucketNone        Bucket = "none"
)

// calendar хранит границы дней одного вызова в виде строк YYYY-MM-DD.
// Сравнение идёт по строкам, поэтому время суток в сроке не влияет на корзину.
type calendar struct {
	loc      *time.Location
	today    string
	tomorrow string
	weekEnd  string
}

func newCalendar(now time.Time, loc *time.Location) calendar {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	return calendar{
		loc:      loc,
		today:    midnight.Format(task.DayLayout),
		tomorrow: midnight.AddDate(0, 0, 1).Format(task.DayLayout),
		weekEnd:  midnight.AddDate(0, 0, 7).Format(task.DayLayout),
	}
}

// day переводит срок в строку дня. ok=false, если срока нет или он не разбирается.
func (c calendar) day(dueDate *string) (string, bool) {
	if dueDate == nil || *dueDate == "" {
		return "", false
	}
	t, err := task.ParseTimestamp(*dueDate, c.loc)
	if err != nil {
		return "", false
	}
	return t.In(c.loc).Format(task.DayLayout), true
}

func (c calendar) classify(day string) Bucket {
	switch {
	case day < c.today:
		return BucketPastDue
	case day == c.today:
		return BucketDueToday
	case day == c.tomorrow:
		return BucketDueTomorrow
	case day <= c.weekEnd:
		return BucketDueNextWeek
	default:
		return BucketLater
	}
}

// Classify возвращает корзину срока одной задачи
func Classify(dueDate *string, now time.Time, loc *time.Location) Bucket {
	c := newCalendar(now, loc)
	day, ok := c.day(dueDate)
	if !ok {
		return BucketNone
	}
	return c.classify(day)
}

// Today - строка сегодняшнего дня в выбранной зоне
func Today(now time.Time, loc *time.Location) string {
	return newCalendar(now, loc).today
}
