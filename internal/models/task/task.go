package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MaxTitleLen       = 255
	MaxDescriptionLen = 1000
)

type Task struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Status      Status    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
	Version     int       `json:"version" db:"version"`
}

type Status string

const StatusPending Status = "pending"
const StatusInProgress Status = "in_progress"
const StatusCompleted Status = "completed"

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ParseStatus разбирает строковое значение статуса
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("неизвестный статус %q", raw)
	}
	return s, nil
}

// таблица переходов статусов: сейчас разрешены любые переходы,
// таблица оставлена явной, чтобы политику можно было ужесточить точечно
var transitions = map[Status]map[Status]bool{
	StatusPending:    {StatusPending: true, StatusInProgress: true, StatusCompleted: true},
	StatusInProgress: {StatusPending: true, StatusInProgress: true, StatusCompleted: true},
	StatusCompleted:  {StatusPending: true, StatusInProgress: true, StatusCompleted: true},
}

func CanTransition(from, to Status) bool {
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	return allowed[to]
}

// New создаёт задачу: id и временные метки назначаются здесь,
// статус по умолчанию pending, пустой title недопустим
func New(title string, opts ...TaskOption) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("title не может быть пустым")
	}

	now := time.Now().UTC()
	t := &Task{
		ID:          uuid.New(),
		Title:       title,
		Description: "",
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     1,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(t)
	}

	return t, nil
}
