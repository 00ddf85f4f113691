package query

import (
	"net/url"
	"strings"
	"taskBoard/internal/textnorm"
)

const All = "all"

const (
	ViewDefault = "default"
	ViewAll     = "all"
)

const (
	SortName    = "name"
	SortStatus  = "status"
	SortDueDate = "dueDate"
)

// DueSpecific - фильтр по конкретному дню из SpecificDue
const DueSpecific = "specific"

// Params - параметры домашней страницы. Пустое поле равносильно значению по умолчанию.
type Params struct {
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	Due         string `json:"due"`
	SpecificDue string `json:"specificDue"`
	Sort        string `json:"sort"`
	Search      string `json:"search"`
	View        string `json:"view"`
}

func DefaultParams() Params {
	return Params{
		Status:   All,
		Priority: All,
		Due:      All,
		View:     ViewDefault,
	}
}

// ParamsFromValues читает параметры из строки запроса
func ParamsFromValues(values url.Values) Params {
	p := Params{
		Status:      values.Get("status"),
		Priority:    values.Get("priority"),
		Due:         values.Get("due"),
		SpecificDue: strings.TrimSpace(values.Get("specificDue")),
		Sort:        values.Get("sort"),
		Search:      values.Get("search"),
		View:        values.Get("view"),
	}
	return p.WithDefaults()
}

// WithDefaults подставляет значения по умолчанию в пустые поля
func (p Params) WithDefaults() Params {
	d := DefaultParams()
	if p.Status == "" {
		p.Status = d.Status
	}
	if p.Priority == "" {
		p.Priority = d.Priority
	}
	if p.Due == "" {
		p.Due = d.Due
	}
	if p.View == "" {
		p.View = d.View
	}
	return p
}

func isAll(value string) bool {
	return textnorm.Equal(value, All)
}
