package memory

import (
	"context"
	"sync"

	"github.com/Apurer/dineflow/internal/domains/menu/domain"
	"github.com/Apurer/dineflow/internal/domains/menu/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps the last saved catalog snapshot in memory.
type Repository struct {
	mu    sync.RWMutex
	items []*domain.Item
	saves int
	err   error
}

func NewRepository(seed ...*domain.Item) *Repository {
	return &Repository{items: cloneAll(seed)}
}

// FailWith makes every subsequent Load and Save return err. Pass nil to recover.
func (r *Repository) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Saves reports how many snapshots were written.
func (r *Repository) Saves() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saves
}

func (r *Repository) Load(_ context.Context) ([]*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return nil, r.err
	}
	return cloneAll(r.items), nil
}

func (r *Repository) Save(_ context.Context, items []*domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.items = cloneAll(items)
	r.saves++
	return nil
}

func cloneAll(items []*domain.Item) []*domain.Item {
	out := make([]*domain.Item, 0, len(items))
	for _, item := range items {
		if item != nil {
			out = append(out, item.Clone())
		}
	}
	return out
}
