package ports

import (
	"context"

	"github.com/pagefeed/social-system/internal/core/access"
	"github.com/pagefeed/social-system/internal/core/domain"
)

// AuthService implements registration, login, and user moderation.
type AuthService interface {
	Register(ctx context.Context, username, password, email string, role domain.Role) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)

	// BlockOrUnblockUser toggles the blocked flag on a user account.
	// Restricted to staff actors.
	BlockOrUnblockUser(ctx context.Context, actor access.Actor, targetUserID string) (blocked bool, err error)
	ListUsers(ctx context.Context, actor access.Actor) ([]*domain.User, error)
	GetUser(ctx context.Context, actor access.Actor, userID string) (*domain.User, error)
}
