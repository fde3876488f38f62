package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// registerRequest carries the registration payload. Base-field and
// role-specific validation is owned by the service so the error messages can
// name exactly what is missing.
type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`

	// Farmer fields.
	FarmName    string `json:"farm_name"`
	Location    string `json:"location"`
	PhoneNumber string `json:"phone_number"`

	// Buyer fields (optional).
	DeliveryAddress  *string `json:"delivery_address"`
	PreferredContact *string `json:"preferred_contact"`
}

type registerResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type loginResponse struct {
	Message     string    `json:"message"`
	AccessToken string    `json:"access_token"`
	User        loginUser `json:"user"`
}

// meResponse returns the authenticated user plus its role profile. Exactly
// one of Farmer/Buyer is set, keyed off the user role; admins carry neither.
type meResponse struct {
	User   loginUser `json:"user"`
	Farmer any       `json:"farmer,omitempty"`
	Buyer  any       `json:"buyer,omitempty"`
}
