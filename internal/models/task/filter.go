package task

import "strings"

// Filter — критерии выборки для списка задач.
// nil-указатель / пустая строка означает "критерий не задан".
// Критерии комбинируются через логическое И.
type Filter struct {
	Status *Status
	// Owner зарезервирован под будущую модель владения:
	// у задачи пока нет владельца, поэтому заданный Owner не совпадает ни с чем
	Owner  *string
	Search string
}

func (f Filter) Empty() bool {
	return f.Status == nil && f.Owner == nil && f.Search == ""
}

func (f Filter) Matches(t *Task) bool {
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Owner != nil {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			return false
		}
	}
	return true
}
