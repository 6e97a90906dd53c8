package repository

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"todo-web/internal/models"
)

// TodoStore holds the ordered todo sequence in process memory.
// All methods are safe for concurrent use.
type TodoStore struct {
	mu      sync.RWMutex
	todos   []models.Todo
	version uint64
	now     func() time.Time
}

// Option configures a TodoStore.
type Option func(*TodoStore)

// WithClock overrides the clock used to stamp new todos.
func WithClock(now func() time.Time) Option {
	return func(s *TodoStore) {
		s.now = now
	}
}

// NewTodoStore returns an empty store.
func NewTodoStore(opts ...Option) *TodoStore {
	s := &TodoStore{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns a deep copy of all todos in insertion order.
func (s *TodoStore) List() []models.Todo {
	todos, _ := s.Snapshot()
	return todos
}

// Snapshot returns a copy of all todos together with the version it reflects.
func (s *TodoStore) Snapshot() ([]models.Todo, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Todo, len(s.todos))
	for i, todo := range s.todos {
		todo.Text = slices.Clone(todo.Text)
		out[i] = todo
	}
	return out, s.version
}

// Len returns the number of stored todos.
func (s *TodoStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.todos)
}

// Version is bumped on every successful mutation.
func (s *TodoStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Change describes one successful mutation, captured under the store lock.
type Change struct {
	Todo    models.Todo
	Index   int    // position the todo was given or held
	Version uint64 // store version after the mutation
	Len     int    // number of todos after the mutation
}

// Append stamps a new todo with the current local time and adds it to the
// end. text is copied.
func (s *TodoStore) Append(text models.Text) Change {
	todo := models.Todo{
		ID:   uuid.New().String(),
		Text: slices.Clone(text),
		Date: s.now().Local().Format(models.DateLayout),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.todos = append(s.todos, todo)
	s.version++
	return s.changeLocked(todo, len(s.todos)-1)
}

// RemoveAt deletes the todo at index, shifting later todos down by one.
// Out-of-range indexes leave the store untouched and report false.
func (s *TodoStore) RemoveAt(index int) (Change, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.todos) {
		return Change{Index: -1, Version: s.version, Len: len(s.todos)}, false
	}
	removed := s.removeLocked(index)
	return s.changeLocked(removed, index), true
}

// RemoveByID deletes the todo with the given ID.
func (s *TodoStore) RemoveByID(id string) (Change, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.todos {
		if s.todos[i].ID == id {
			removed := s.removeLocked(i)
			return s.changeLocked(removed, i), true
		}
	}
	return Change{Index: -1, Version: s.version, Len: len(s.todos)}, false
}

func (s *TodoStore) removeLocked(i int) models.Todo {
	removed := s.todos[i]
	s.todos = slices.Delete(s.todos, i, i+1)
	s.version++
	return removed
}

func (s *TodoStore) changeLocked(todo models.Todo, index int) Change {
	todo.Text = slices.Clone(todo.Text)
	return Change{Todo: todo, Index: index, Version: s.version, Len: len(s.todos)}
}
