// Package file persists the order history as a JSON snapshot on local disk.
package file

import (
	"context"
	"fmt"

	"github.com/Apurer/dineflow/internal/domains/orders/adapters/codec"
	"github.com/Apurer/dineflow/internal/domains/orders/domain"
	"github.com/Apurer/dineflow/internal/domains/orders/ports"
	"github.com/Apurer/dineflow/internal/platform/filestore"
)

// FormatVersion is written into every snapshot.
const FormatVersion = 1

var _ ports.Repository = (*Repository)(nil)

type snapshot struct {
	Version int                  `json:"version"`
	Orders  []codec.TicketRecord `json:"orders"`
}

// Repository overwrites a single file with the full order history on each save.
type Repository struct {
	path string
}

func NewRepository(path string) *Repository {
	return &Repository{path: path}
}

// Path returns the snapshot location.
func (r *Repository) Path() string { return r.path }

// Load reads the snapshot. A missing file is an empty history.
func (r *Repository) Load(_ context.Context) ([]*domain.Ticket, error) {
	var snap snapshot
	found, err := filestore.ReadJSON(r.path, &snap)
	if err != nil {
		return nil, err
	}
	if !found {
		return []*domain.Ticket{}, nil
	}
	if snap.Version > FormatVersion {
		return nil, fmt.Errorf("%w: order snapshot %s is version %d", filestore.ErrUnsupportedVersion, r.path, snap.Version)
	}
	return codec.ToDomainList(snap.Orders)
}

// Save replaces the snapshot with tickets.
func (r *Repository) Save(_ context.Context, tickets []*domain.Ticket) error {
	return filestore.WriteJSON(r.path, snapshot{Version: FormatVersion, Orders: codec.FromDomainList(tickets)})
}
