// Package tasks keeps the ordered set of named tasks time can be logged
// against.
package tasks

import (
	"strings"
	"time"

	"github.com/Tiliavir/timelog/internal/model"
)

// IDSource hands out fresh task ids.
type IDSource interface {
	Next(t time.Time) int64
}

// Registry holds tasks in insertion order.
type Registry struct {
	ids   IDSource
	tasks []model.Task
}

// NewRegistry creates a registry seeded with existing tasks.
func NewRegistry(ids IDSource, existing []model.Task) *Registry {
	r := &Registry{ids: ids, tasks: make([]model.Task, 0, len(existing))}
	r.tasks = append(r.tasks, existing...)
	return r
}

// Add creates a task named name (trimmed). It is a no-op returning false when
// the trimmed name is empty.
func (r *Registry) Add(name string, now time.Time) (model.Task, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Task{}, false
	}
	t := model.Task{
		ID:        r.ids.Next(now),
		Name:      name,
		CreatedAt: now,
	}
	r.tasks = append(r.tasks, t)
	return t, true
}

// Delete removes the task with id and reports whether it existed.
func (r *Registry) Delete(id int64) bool {
	for i, t := range r.tasks {
		if t.ID == id {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the task with id.
func (r *Registry) Get(id int64) (model.Task, bool) {
	for _, t := range r.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// FindByName returns the first task whose name equals name, ignoring case
// and surrounding whitespace.
func (r *Registry) FindByName(name string) (model.Task, bool) {
	name = strings.TrimSpace(name)
	for _, t := range r.tasks {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return model.Task{}, false
}

// List returns the tasks in insertion order. The slice is a copy.
func (r *Registry) List() []model.Task {
	out := make([]model.Task, len(r.tasks))
	copy(out, r.tasks)
	return out
}
