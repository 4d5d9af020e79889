package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"
)

// Memory keeps designs in process. Used when no database is configured.
type Memory struct {
	mu      sync.RWMutex
	designs map[string]Design
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		designs: make(map[string]Design),
		now:     time.Now,
	}
}

func (m *Memory) Create(_ context.Context, d *Design) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	d.CreatedAt, d.UpdatedAt = now, now
	m.designs[d.ID] = copyDesign(*d)
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (*Design, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.designs[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := copyDesign(d)
	return &out, nil
}

func (m *Memory) List(_ context.Context) ([]Design, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Design, 0, len(m.designs))
	for _, d := range m.designs {
		d.Snapshot = nil
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (m *Memory) Save(_ context.Context, d *Design) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.designs[d.ID]
	if !ok {
		return ErrNotFound
	}
	d.CreatedAt = existing.CreatedAt
	d.UpdatedAt = m.now().UTC()
	m.designs[d.ID] = copyDesign(*d)
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.designs[id]; !ok {
		return ErrNotFound
	}
	delete(m.designs, id)
	return nil
}

func copyDesign(d Design) Design {
	d.Snapshot = append(json.RawMessage(nil), d.Snapshot...)
	return d
}
