package task

import (
	"errors"
	"strings"
	"time"
)

var ErrBadTimestamp = errors.New("не удалось разобрать дату")

// ISOLayout - формат, в котором сервис сам проставляет даты (UTC, миллисекунды)
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

// DayLayout - каноническая строка календарного дня
const DayLayout = "2006-01-02"

// форматы без смещения интерпретируются в переданной зоне
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	DayLayout,
}

// ParseTimestamp разбирает дату в одном из принятых форматов ISO-8601.
func ParseTimestamp(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrBadTimestamp
	}
	if loc == nil {
		loc = time.UTC
	}

	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}

	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, ErrBadTimestamp
}

// FormatTimestamp выдаёт строку в формате ISOLayout
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}
