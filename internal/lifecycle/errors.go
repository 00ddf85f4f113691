package lifecycle

import "fmt"

// Kind - вид ошибки валидации записи задачи
type Kind string

const (
	KindMissingFields         Kind = "MissingFields"
	KindInvalidStatus         Kind = "InvalidStatus"
	KindDueDateTooSoon        Kind = "DueDateTooSoon"
	KindMissingCompletionDate Kind = "MissingCompletionDate"
	KindInvalidDueDate        Kind = "InvalidDueDate"
)

type ValidationError struct {
	Kind  Kind
	Field string
	Value string
}

var (
	ErrMissingFields         = &ValidationError{Kind: KindMissingFields}
	ErrInvalidStatus         = &ValidationError{Kind: KindInvalidStatus}
	ErrDueDateTooSoon        = &ValidationError{Kind: KindDueDateTooSoon}
	ErrMissingCompletionDate = &ValidationError{Kind: KindMissingCompletionDate}
	ErrInvalidDueDate        = &ValidationError{Kind: KindInvalidDueDate}
)

func (e *ValidationError) Error() string {
	msg := messages[e.Kind]
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s (поле %s)", msg, e.Field)
	}
	return msg
}

// Is сравнивает только вид ошибки, поэтому errors.Is(err, ErrDueDateTooSoon)
// срабатывает для любой ошибки этого вида.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var messages = map[Kind]string{
	KindMissingFields:         "название и статус обязательны",
	KindInvalidStatus:         "неизвестный статус задачи",
	KindDueDateTooSoon:        "срок должен быть хотя бы на минуту позже текущего времени",
	KindMissingCompletionDate: "для завершённой задачи нужна дата завершения",
	KindInvalidDueDate:        "не удалось разобрать срок задачи",
}

func newError(kind Kind, field, value string) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Value: value}
}
