// Package messaging publishes catalog events to RabbitMQ.
package messaging

import (
	"context"
	"fmt"

	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
)

// JSONPublisher is satisfied by helpers.RabbitPublisher.
type JSONPublisher interface {
	PublishJSON(ctx context.Context, routingKey string, body any) error
}

// CatalogEvents routes each event by its type, e.g. "product.created".
type CatalogEvents struct {
	Pub JSONPublisher
}

func NewCatalogEvents(pub JSONPublisher) *CatalogEvents {
	return &CatalogEvents{Pub: pub}
}

func (e *CatalogEvents) PublishEvent(ctx context.Context, ev entity.CatalogEvent) error {
	if ev.Type == "" {
		return fmt.Errorf("catalog event without type")
	}
	return e.Pub.PublishJSON(ctx, ev.Type, ev)
}
