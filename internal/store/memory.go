package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbind/internal/people"
)

// Memory is a Repository held in process memory. It is safe for concurrent
// use.
type Memory struct {
	mu     sync.RWMutex
	byID   map[string]people.Person
	order  []string
	emails map[string]string
}

// NewMemory returns an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{
		byID:   make(map[string]people.Person),
		emails: make(map[string]string),
	}
}

func (m *Memory) Save(ctx context.Context, p people.Person) (people.Person, error) {
	if err := ctx.Err(); err != nil {
		return people.Person{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := emailKey(p.Email)
	if owner, taken := m.emails[key]; taken && owner != p.ID {
		return people.Person{}, duplicateEmail()
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
		p.Version = 1
		m.order = append(m.order, p.ID)
	} else {
		current, ok := m.byID[p.ID]
		if !ok {
			return people.Person{}, fmt.Errorf("%w: %s", ErrNotFound, p.ID)
		}
		if current.Version != p.Version {
			return people.Person{}, fmt.Errorf("%w: %s is at version %d, got %d", ErrStale, p.ID, current.Version, p.Version)
		}
		delete(m.emails, emailKey(current.Email))
		p.Version++
	}

	m.emails[key] = p.ID
	m.byID[p.ID] = clonePerson(p)
	return clonePerson(p), nil
}

func (m *Memory) FindByID(ctx context.Context, id string) (people.Person, bool, error) {
	if err := ctx.Err(); err != nil {
		return people.Person{}, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.byID[id]
	if !ok {
		return people.Person{}, false, nil
	}
	return clonePerson(p), true, nil
}

func (m *Memory) List(ctx context.Context) ([]people.Person, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]people.Person, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, clonePerson(m.byID[id]))
	}
	return out, nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
