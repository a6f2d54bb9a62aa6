package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
)

// Storage-level sentinel errors returned by every repository implementation.
var (
	ErrNotFound         = errors.New("not found")
	ErrDuplicate        = errors.New("duplicate key")
	ErrInvalidReference = errors.New("referenced row does not exist")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	// Create inserts u and fills ID and timestamps. ErrDuplicate on email reuse.
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
