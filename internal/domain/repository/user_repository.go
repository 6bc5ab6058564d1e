package repository

import (
	"context"
	"errors"

	"github.com/telecare/telecare-api/internal/domain/entity"
)

// Store outcomes. Implementations translate driver-specific failures into
// these sentinels once, at the boundary; callers discriminate with errors.Is
// and never inspect vendor error codes.
var (
	// ErrDuplicate signals a uniqueness violation on email or phone.
	ErrDuplicate = errors.New("duplicate user")
	// ErrNotFound signals that no row matched the lookup.
	ErrNotFound = errors.New("user not found")
)

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	// Create inserts u and fills in the store-assigned ID, CreatedAt and
	// UpdatedAt. Returns ErrDuplicate when email or phone already exists.
	Create(ctx context.Context, u *entity.User) error
	// List returns all users ordered by creation time, newest first.
	List(ctx context.Context) ([]entity.User, error)
	// GetByID returns the user with the given id or ErrNotFound.
	GetByID(ctx context.Context, id string) (*entity.User, error)
}
