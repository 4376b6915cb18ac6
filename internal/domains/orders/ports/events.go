package ports

import (
	"context"

	"github.com/Apurer/dineflow/internal/domains/orders/domain"
)

// EventPublisher forwards order events to interested parties such as the kitchen.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.Event) error { return nil }
