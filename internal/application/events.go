package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
)

const sideEffectTimeout = 3 * time.Second

// publish sends ev after the write has committed. Failures are logged only.
func publish(ctx context.Context, events EventPublisher, logger *logrus.Logger, ev entity.CatalogEvent) {
	if events == nil {
		return
	}
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()
	if err := events.PublishEvent(c, ev); err != nil {
		loggerOrDiscard(logger).WithError(err).WithFields(logrus.Fields{
			"event":     ev.Type,
			"entity_id": ev.EntityID,
		}).Warn("publish catalog event failed")
	}
}
