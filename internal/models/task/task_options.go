package task

type TaskOption func(*Task)

// Apply применяет изменения по порядку, nil-опции пропускаются
func (t *Task) Apply(options ...TaskOption) {
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(t)
	}
}

func WithName(name string) TaskOption {
	return func(task *Task) {
		task.Name = name
	}
}

func WithStatus(status Status) TaskOption {
	return func(task *Task) {
		task.Status = status
	}
}

func WithPriority(priority string) TaskOption {
	return func(task *Task) {
		task.Priority = priority
	}
}

// WithDueDate заменяет срок; nil очищает его
func WithDueDate(dueDate *string) TaskOption {
	return func(task *Task) {
		task.DueDate = copyString(dueDate)
	}
}

// WithCompletedDate заменяет дату завершения; nil очищает её
func WithCompletedDate(completedDate *string) TaskOption {
	return func(task *Task) {
		task.CompletedDate = copyString(completedDate)
	}
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
