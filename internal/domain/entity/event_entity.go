package entity

import "time"

const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
	EventVariantCreated = "variant.created"
	EventVariantUpdated = "variant.updated"
	EventVariantDeleted = "variant.deleted"
)

// CatalogEvent is published after a catalog mutation has been committed.
type CatalogEvent struct {
	Type       string    `json:"type"`
	EntityID   int64     `json:"entity_id"`
	ProductID  int64     `json:"product_id"`
	ActorID    int64     `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
