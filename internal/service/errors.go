package service

import "fmt"

// коды бизнес-ошибок: по ним handlers выбирают HTTP-статус
const (
	CodeNotFound         = "NOT_FOUND"
	CodeValidation       = "VALIDATION_ERROR"
	CodeEmptyPatch       = "EMPTY_PATCH"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func NewNotFound(id string) *BusinessError {
	return &BusinessError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("задача %s не найдена", id),
		Details: map[string]any{
			"id": id,
		},
	}
}

func NewValidationError(field, reason string) *BusinessError {
	return &BusinessError{
		Code:    CodeValidation,
		Message: fmt.Sprintf("неверное значение поля '%s': %s", field, reason),
		Details: map[string]any{
			"field":  field,
			"reason": reason,
		},
	}
}

func NewEmptyPatch() *BusinessError {
	return &BusinessError{
		Code:    CodeEmptyPatch,
		Message: "обновление не содержит ни одного известного поля",
		Details: map[string]any{
			"known_fields": []string{"title", "description", "status"},
		},
	}
}

func NewStoreUnavailable(operation string, err error) *BusinessError {
	return &BusinessError{
		Code:    CodeStoreUnavailable,
		Message: "хранилище недоступно",
		Details: map[string]any{
			"operation": operation,
		},
		Err: err,
	}
}
