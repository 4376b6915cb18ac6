package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/dineflow/internal/domains/menu/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid menu input")
	// ErrPersistence signals the catalog changed in memory but the snapshot was not written.
	ErrPersistence = errors.New("menu snapshot not persisted")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrInvalidPrice) ||
		errors.Is(err, domain.ErrMissingVariant) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
