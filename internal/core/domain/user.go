package domain

import "time"

// Role determines which profile record is attached to a user.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleFarmer Role = "farmer"
	RoleBuyer  Role = "buyer"
)

// SelfRegistrable reports whether the role can be chosen at registration.
// Admin is a valid stored role but has no self-service registration path.
func (r Role) SelfRegistrable() bool {
	return r == RoleFarmer || r == RoleBuyer
}

// User is the identity record shared by all roles.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile is the role-specific record owned by exactly one user.
// It is a closed union: Farmer and Buyer are the only implementations,
// keyed off the stored role.
type Profile interface {
	ProfileRole() Role
}

// Farmer is the profile attached to users with role "farmer".
type Farmer struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	FarmName    string    `json:"farm_name"`
	Location    string    `json:"location"`
	PhoneNumber string    `json:"phone_number"`
	Verified    bool      `json:"verified"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Farmer) ProfileRole() Role { return RoleFarmer }

// Buyer is the profile attached to users with role "buyer".
// Both fields are optional and stored as NULL when absent.
type Buyer struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	DeliveryAddress  *string   `json:"delivery_address"`
	PreferredContact *string   `json:"preferred_contact"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Buyer) ProfileRole() Role { return RoleBuyer }
