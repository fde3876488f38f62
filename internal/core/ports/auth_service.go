package ports

import (
	"context"

	"github.com/farmgate/livestock-market/internal/core/domain"
)

// RegisterInput carries the registration payload after JSON binding. Role is
// normalized by the service; role-specific fields are only consulted for the
// matching role.
type RegisterInput struct {
	Email    string
	Password string
	Role     string

	// Farmer fields (all required when Role is "farmer").
	FarmName    string
	Location    string
	PhoneNumber string

	// Buyer fields (optional, stored as NULL when nil).
	DeliveryAddress  *string
	PreferredContact *string
}

// RegisterResult is returned after a successful registration transaction.
type RegisterResult struct {
	UserID string
	Role   domain.Role
}

// LoginResult carries the minted bearer token and the authenticated user.
type LoginResult struct {
	AccessToken string
	User        *domain.User
}

// AuthService defines the registration and login use cases.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*RegisterResult, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// CurrentUser loads the user and its role profile for the /me endpoint.
	CurrentUser(ctx context.Context, userID string) (*domain.User, domain.Profile, error)
}
