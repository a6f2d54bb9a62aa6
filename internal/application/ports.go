package application

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
)

// PasswordHasher is satisfied by helpers.BcryptHasher.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// TokenService is satisfied by helpers.JWTManager.
type TokenService interface {
	Issue(userID int64) (string, time.Time, error)
	Verify(token string) (int64, error)
}

// ProductIndexer keeps a full-text copy of the catalog.
type ProductIndexer interface {
	IndexProduct(ctx context.Context, p *entity.Product) error
	RemoveProduct(ctx context.Context, id int64) error
	SearchProducts(ctx context.Context, q string, size int) ([]entity.ProductSearchHit, error)
}

// EventPublisher announces committed catalog mutations.
type EventPublisher interface {
	PublishEvent(ctx context.Context, ev entity.CatalogEvent) error
}

var discard = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

func loggerOrDiscard(l *logrus.Logger) *logrus.Logger {
	if l == nil {
		return discard
	}
	return l
}
