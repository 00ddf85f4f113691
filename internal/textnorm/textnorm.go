// Package textnorm содержит единое правило сравнения строк без учёта регистра.
// Им пользуются фильтры статуса, приоритета, поиска и разбор статуса при записи,
// чтобы все этапы сравнивали значения одинаково.
package textnorm

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold обрезает пробелы по краям и приводит строку к форме для сравнения.
func Fold(s string) string {
	// cases.Caser хранит состояние, поэтому создаётся на каждый вызов
	return cases.Fold().String(strings.TrimSpace(s))
}

// Equal сравнивает две строки после Fold.
func Equal(a, b string) bool {
	return Fold(a) == Fold(b)
}

// Contains проверяет, что needle после Fold входит в haystack после Fold.
// Пустой needle входит в любую строку.
func Contains(haystack, needle string) bool {
	return strings.Contains(Fold(haystack), Fold(needle))
}
