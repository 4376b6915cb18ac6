package memory

import (
	"context"
	"sync"

	"github.com/Apurer/dineflow/internal/domains/orders/domain"
	"github.com/Apurer/dineflow/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps the last saved order history in memory.
type Repository struct {
	mu      sync.RWMutex
	tickets []*domain.Ticket
	saves   int
	err     error
}

func NewRepository(seed ...*domain.Ticket) *Repository {
	return &Repository{tickets: cloneAll(seed)}
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

func (r *Repository) Load(_ context.Context) ([]*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return nil, r.err
	}
	return cloneAll(r.tickets), nil
}

func (r *Repository) Save(_ context.Context, tickets []*domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.tickets = cloneAll(tickets)
	r.saves++
	return nil
}

func cloneAll(tickets []*domain.Ticket) []*domain.Ticket {
	out := make([]*domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t != nil {
			out = append(out, t.Clone())
		}
	}
	return out
}
