// Package file persists the catalog as a JSON snapshot on local disk.
package file

import (
	"context"
	"fmt"

	"github.com/Apurer/dineflow/internal/domains/menu/adapters/codec"
	"github.com/Apurer/dineflow/internal/domains/menu/domain"
	"github.com/Apurer/dineflow/internal/domains/menu/ports"
	"github.com/Apurer/dineflow/internal/platform/filestore"
)

// FormatVersion is written into every snapshot.
const FormatVersion = 1

var _ ports.Repository = (*Repository)(nil)

type snapshot struct {
	Version int            `json:"version"`
	Items   []codec.Record `json:"items"`
}

// Repository overwrites a single file with the full catalog on each save.
type Repository struct {
	path string
}

func NewRepository(path string) *Repository {
	return &Repository{path: path}
}

// Path returns the snapshot location.
func (r *Repository) Path() string { return r.path }

// Load reads the snapshot. A missing file is an empty catalog.
func (r *Repository) Load(_ context.Context) ([]*domain.Item, error) {
	var snap snapshot
	found, err := filestore.ReadJSON(r.path, &snap)
	if err != nil {
		return nil, err
	}
	if !found {
		return []*domain.Item{}, nil
	}
	if snap.Version > FormatVersion {
		return nil, fmt.Errorf("%w: menu snapshot %s is version %d", filestore.ErrUnsupportedVersion, r.path, snap.Version)
	}
	return codec.ToDomainList(snap.Items)
}

// Save replaces the snapshot with items.
func (r *Repository) Save(_ context.Context, items []*domain.Item) error {
	return filestore.WriteJSON(r.path, snapshot{Version: FormatVersion, Items: codec.FromDomainList(items)})
}
