package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Apurer/dineflow/internal/domains/menu/domain"
	"github.com/Apurer/dineflow/internal/domains/menu/ports"
)

// Service is the catalog. It owns every menu item and writes the whole
// catalog through to the repository after each mutation.
type Service struct {
	mu     sync.RWMutex
	items  []*domain.Item
	repo   ports.Repository
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService wires the catalog with its snapshot repository.
func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Load replaces the in-memory catalog with the persisted snapshot. A failed
// read leaves the catalog empty; the returned error wraps ErrPersistence and
// is a warning, the catalog stays usable.
func (s *Service) Load(ctx context.Context) error {
	items, loadErr := s.repo.Load(ctx)
	if loadErr != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to load menu, starting empty", slog.String("error", loadErr.Error()))
		items = nil
	}
	loaded := make([]*domain.Item, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		loaded = append(loaded, item.Clone())
	}
	s.mu.Lock()
	s.items = loaded
	s.mu.Unlock()
	if loadErr != nil {
		return errors.Join(ErrPersistence, loadErr)
	}
	s.logger.LogAttrs(ctx, slog.LevelDebug, "menu loaded", slog.Int("items", len(loaded)))
	return nil
}

// Add appends a well-formed item to the catalog.
func (s *Service) Add(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	if item == nil {
		return nil, mapError(domain.ErrMissingVariant)
	}
	if err := item.Validate(); err != nil {
		return nil, mapError(err)
	}
	stored := item.Clone()
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, stored)
	return stored.Clone(), s.persistLocked(ctx)
}

// FindByName returns the first item whose name matches case-insensitively.
func (s *Service) FindByName(_ context.Context, name string) (*domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexLocked(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ports.ErrNotFound, name)
	}
	return s.items[idx].Clone(), nil
}

// UpdatePrice sets a new base price. A negative price is rejected and the
// stored price is kept.
func (s *Service) UpdatePrice(ctx context.Context, name string, price decimal.Decimal) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ports.ErrNotFound, name)
	}
	item := s.items[idx]
	if err := item.SetBasePrice(price); err != nil {
		return item.Clone(), mapError(err)
	}
	return item.Clone(), s.persistLocked(ctx)
}

// ToggleAvailability flips the first matching item's availability.
func (s *Service) ToggleAvailability(ctx context.Context, name string) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ports.ErrNotFound, name)
	}
	item := s.items[idx]
	item.ToggleAvailability()
	return item.Clone(), s.persistLocked(ctx)
}

// Remove deletes the first matching item.
func (s *Service) Remove(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(name)
	if idx < 0 {
		return fmt.Errorf("%w: %q", ports.ErrNotFound, name)
	}
	s.items = append(s.items[:idx:idx], s.items[idx+1:]...)
	return s.persistLocked(ctx)
}

// List returns the catalog in insertion order.
func (s *Service) List(_ context.Context) ([]*domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.items), nil
}

// ListByCategory filters the catalog, keeping insertion order.
func (s *Service) ListByCategory(_ context.Context, category domain.Category) ([]*domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Item
	for _, item := range s.items {
		if item.Category() == category {
			out = append(out, item.Clone())
		}
	}
	return out, nil
}

// MostPopular ranks items by popularity, keeping insertion order among ties.
func (s *Service) MostPopular(_ context.Context, n int) ([]*domain.Item, error) {
	if n <= 0 {
		return []*domain.Item{}, nil
	}
	s.mu.RLock()
	ranked := cloneAll(s.items)
	s.mu.RUnlock()
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Popularity > ranked[b].Popularity
	})
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked, nil
}

// RecordOrdered increments the popularity of the item with the given id.
func (s *Service) RecordOrdered(ctx context.Context, id string) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ID == id {
			item.RecordOrdered()
			return item.Clone(), s.persistLocked(ctx)
		}
	}
	return nil, fmt.Errorf("%w: id %s", ports.ErrNotFound, id)
}

// Resolve looks an item up by its stable identifier.
func (s *Service) Resolve(id string) (*domain.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.ID == id {
			return item.Clone(), true
		}
	}
	return nil, false
}

func (s *Service) indexLocked(name string) int {
	for i, item := range s.items {
		if item.MatchesName(name) {
			return i
		}
	}
	return -1
}

// persistLocked writes the snapshot. The in-memory change is kept either way.
func (s *Service) persistLocked(ctx context.Context) error {
	if err := s.repo.Save(ctx, cloneAll(s.items)); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to persist menu, change kept in memory",
			slog.Int("items", len(s.items)), slog.String("error", err.Error()))
		return errors.Join(ErrPersistence, err)
	}
	return nil
}

func cloneAll(items []*domain.Item) []*domain.Item {
	out := make([]*domain.Item, 0, len(items))
	for _, item := range items {
		out = append(out, item.Clone())
	}
	return out
}

var _ ports.Service = (*Service)(nil)
