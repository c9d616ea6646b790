package tasks

import (
	"errors"
	"sync"
)

var ErrTaskNotFound = errors.New("task not found")

// Repository is the task store contract consumed by the HTTP layer.
type Repository interface {
	List() []Task
	Detail(id int64) (Task, error)
	Create(t Task) Task
	Update(id int64, t Task) (Task, error)
	Patch(id int64, t Task) (Task, error)
	Delete(id int64) error
}

// InMemoryRepo keeps tasks in insertion order. IDs come from a counter that
// only moves forward, so a deleted ID is never handed out again.
type InMemoryRepo struct {
	mu    sync.Mutex
	seq   int64
	order []int64
	store map[int64]Task
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		store: make(map[int64]Task),
	}
}

func (r *InMemoryRepo) List() []Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Task, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.store[id])
	}
	return out
}

func (r *InMemoryRepo) Detail(id int64) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.store[id]
	if !ok {
		return Task{}, ErrTaskNotFound
	}
	return t, nil
}

// Create ignores t.ID and assigns the next one.
func (r *InMemoryRepo) Create(t Task) Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	t.ID = r.seq
	r.store[t.ID] = t
	r.order = append(r.order, t.ID)
	return t
}

func (r *InMemoryRepo) Update(id int64, t Task) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.store[id]
	if !ok {
		return Task{}, ErrTaskNotFound
	}
	cur.Title = t.Title
	r.store[id] = cur
	return cur, nil
}

// Patch replaces the title exactly like Update; there is no field-level merge.
func (r *InMemoryRepo) Patch(id int64, t Task) (Task, error) {
	return r.Update(id, t)
}

func (r *InMemoryRepo) Delete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return ErrTaskNotFound
	}
	delete(r.store, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Count returns the number of stored tasks.
func (r *InMemoryRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.store)
}
