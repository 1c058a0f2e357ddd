package service

import (
	"strings"
	"taskAPI/internal/models/task"
	"unicode/utf8"
)

// слой валидации: чистые проверки без побочных эффектов,
// на выходе либо нормализованные значения, либо типизированная ошибка

// TaskPatch — разреженное обновление: nil означает "поле не передано".
// Неизвестные поля JSON отбрасываются ещё при декодировании.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
}

func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil
}

// createInput — нормализованный результат validateCreate
type createInput struct {
	Title       string
	Description string
	Status      task.Status
}

func validateTitle(title string) (string, *BusinessError) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", NewValidationError("title", "не может быть пустым")
	}
	if utf8.RuneCountInString(title) > task.MaxTitleLen {
		return "", NewValidationError("title", "слишком длинное значение")
	}
	return title, nil
}

func validateDescription(description string) (string, *BusinessError) {
	if utf8.RuneCountInString(description) > task.MaxDescriptionLen {
		return "", NewValidationError("description", "слишком длинное значение")
	}
	return description, nil
}

func validateStatus(raw string) (task.Status, *BusinessError) {
	status, err := task.ParseStatus(raw)
	if err != nil {
		return "", NewValidationError("status", "допустимы только pending, in_progress, completed")
	}
	return status, nil
}

// validateCreate: title обязателен, description по умолчанию пустой,
// status по умолчанию pending
func validateCreate(title, description, status string) (createInput, *BusinessError) {
	in := createInput{}

	normTitle, vErr := validateTitle(title)
	if vErr != nil {
		return in, vErr
	}
	in.Title = normTitle

	normDescription, vErr := validateDescription(description)
	if vErr != nil {
		return in, vErr
	}
	in.Description = normDescription

	in.Status = task.StatusPending
	if status != "" {
		normStatus, vErr := validateStatus(status)
		if vErr != nil {
			return in, vErr
		}
		in.Status = normStatus
	}

	return in, nil
}

// normalizedPatch — проверенный TaskPatch со статусом уже как enum
type normalizedPatch struct {
	Title       *string
	Description *string
	Status      *task.Status
}

// validateUpdate: все поля опциональны, но хотя бы одно известное
// поле должно присутствовать; присутствующие проверяются по правилам create
func validateUpdate(patch TaskPatch) (normalizedPatch, *BusinessError) {
	norm := normalizedPatch{}

	if patch.Empty() {
		return norm, NewEmptyPatch()
	}

	if patch.Title != nil {
		title, vErr := validateTitle(*patch.Title)
		if vErr != nil {
			return norm, vErr
		}
		norm.Title = &title
	}

	if patch.Description != nil {
		description, vErr := validateDescription(*patch.Description)
		if vErr != nil {
			return norm, vErr
		}
		norm.Description = &description
	}

	if patch.Status != nil {
		status, vErr := validateStatus(*patch.Status)
		if vErr != nil {
			return norm, vErr
		}
		norm.Status = &status
	}

	return norm, nil
}
