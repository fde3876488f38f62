package ports

import (
	"context"

	"github.com/farmgate/livestock-market/internal/core/domain"
)

// AuthRepository defines the persistence operations backing registration and
// login.
type AuthRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)

	// CreateWithProfile persists the user and its role profile inside a
	// single unit of work: either both rows exist afterwards or neither
	// does. A duplicate email must surface as domain.ErrEmailTaken even
	// when the conflict is only detected at commit time.
	CreateWithProfile(ctx context.Context, user *domain.User, profile domain.Profile) error

	// FindProfile loads the role profile owned by the given user.
	FindProfile(ctx context.Context, userID string, role domain.Role) (domain.Profile, error)
}
