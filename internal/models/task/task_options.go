package task

type TaskOption func(*Task)

func WithDescription(description string) TaskOption {
	if description == "" {
		return nil
	}
	return func(task *Task) {
		task.Description = description
	}
}

func WithStatus(status Status) TaskOption {
	if !status.Valid() {
		return nil
	}
	return func(task *Task) {
		task.Status = status
	}
}
