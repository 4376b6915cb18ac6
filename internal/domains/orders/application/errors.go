package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/dineflow/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrPersistence signals the order history changed in memory but was not written.
	ErrPersistence = errors.New("order snapshot not persisted")
	// ErrDuplicateOrder signals a ticket with the same ID is already stored.
	ErrDuplicateOrder = errors.New("order already placed")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidDiscount) ||
		errors.Is(err, domain.ErrInvalidStatus) ||
		errors.Is(err, domain.ErrItemUnavailable) ||
		errors.Is(err, domain.ErrEmptyOrder) ||
		errors.Is(err, domain.ErrInvalidOrderID) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
