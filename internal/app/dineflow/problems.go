package dineflow

import (
	"io"

	menuapp "github.com/Apurer/dineflow/internal/domains/menu/application"
	menuports "github.com/Apurer/dineflow/internal/domains/menu/ports"
	ordersapp "github.com/Apurer/dineflow/internal/domains/orders/application"
	ordersports "github.com/Apurer/dineflow/internal/domains/orders/ports"
	sharederrors "github.com/Apurer/dineflow/internal/shared/errors"
)

// NewResponder maps catalog and order errors to problems written to out.
func NewResponder(out io.Writer, format sharederrors.Format) *sharederrors.ChainedResponder {
	return sharederrors.NewChainedResponder(out, format,
		sharederrors.MapSentinel(menuports.ErrNotFound, sharederrors.ErrNotFound),
		sharederrors.MapSentinel(ordersports.ErrNotFound, sharederrors.ErrNotFound),
		sharederrors.MapSentinel(menuapp.ErrInvalidInput, sharederrors.ErrValidation),
		sharederrors.MapSentinel(ordersapp.ErrInvalidInput, sharederrors.ErrValidation),
		sharederrors.MapSentinel(ordersapp.ErrDuplicateOrder, sharederrors.ErrConflict),
		sharederrors.MapSentinel(menuapp.ErrPersistence, sharederrors.ErrPersistence),
		sharederrors.MapSentinel(ordersapp.ErrPersistence, sharederrors.ErrPersistence),
	)
}
