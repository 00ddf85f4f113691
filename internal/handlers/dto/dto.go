package dto

import (
	"taskBoard/internal/lifecycle"
	"taskBoard/internal/models/task"
	"taskBoard/internal/query"
	"taskBoard/internal/service"
	"time"
)

// TaskRequest - тело создания и полного редактирования задачи
type TaskRequest struct {
	Name          string `json:"name"`
	Status        string `json:"status"`
	DueDate       string `json:"dueDate"`
	CompletedDate string `json:"completedDate"`
	Priority      string `json:"priority"`
}

func (r TaskRequest) ToInput() lifecycle.Input {
	return lifecycle.Input{
		Name:          r.Name,
		Status:        r.Status,
		DueDate:       r.DueDate,
		CompletedDate: r.CompletedDate,
		Priority:      r.Priority,
	}
}

// StatusRequest - переключатель выполнения: Completed отмечает задачу, любое другое значение снимает отметку
type StatusRequest struct {
	Status string `json:"status"`
}

func (r StatusRequest) Completed() bool {
	status, ok := task.ParseStatus(r.Status)
	return ok && status.IsCompleted()
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TaskResponse struct {
	ID            int64        `json:"id"`
	UserID        int64        `json:"userId"`
	Name          string       `json:"name"`
	Status        string       `json:"status"`
	Priority      string       `json:"priority"`
	DueDate       *string      `json:"dueDate"`
	CompletedDate *string      `json:"completedDate"`
	DueBucket     query.Bucket `json:"dueBucket,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

func FromTask(t *task.Task) TaskResponse {
	return TaskResponse{
		ID:            t.ID,
		UserID:        t.UserID,
		Name:          t.Name,
		Status:        string(t.Status),
		Priority:      t.Priority,
		DueDate:       t.DueDate,
		CompletedDate: t.CompletedDate,
		CreatedAt:     t.CreatedAt,
	}
}

type TaskListResponse struct {
	Tasks   []TaskResponse `json:"tasks"`
	Today   string         `json:"today"`
	Filters query.Params   `json:"filters"`
}

func FromTaskList(list *service.TaskList) TaskListResponse {
	result := make([]TaskResponse, len(list.Tasks))
	for i := range list.Tasks {
		result[i] = FromTask(&list.Tasks[i])
		result[i].DueBucket = list.Buckets[list.Tasks[i].ID]
	}
	return TaskListResponse{
		Tasks:   result,
		Today:   list.Today,
		Filters: list.Filters,
	}
}
