package ports

import (
	"context"

	"github.com/unisga/academic-service/internal/core/domain"
)

// IdentityCache is the short-lived cache consulted by the authentication
// gate before hitting the users table. A miss returns (nil, nil).
type IdentityCache interface {
	Get(ctx context.Context, userID int64) (*domain.User, error)
	Set(ctx context.Context, user *domain.User) error
	Invalidate(ctx context.Context, userID int64) error
}
