package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/farmgate/livestock-market/internal/core/domain"
	"github.com/farmgate/livestock-market/internal/core/ports"
)

// AuthHandler handles registration, login, and the current-identity endpoint.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account with its role profile.
//
// @Summary      Register a new farmer or buyer account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:            req.Email,
		Password:         req.Password,
		Role:             req.Role,
		FarmName:         req.FarmName,
		Location:         req.Location,
		PhoneNumber:      req.PhoneNumber,
		DeliveryAddress:  req.DeliveryAddress,
		PreferredContact: req.PreferredContact,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		Message: roleLabel(result.Role) + " registered successfully",
		UserID:  result.UserID,
	})
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Message:     "Login successful",
		AccessToken: result.AccessToken,
		User: loginUser{
			ID:    result.User.ID,
			Email: result.User.Email,
			Role:  string(result.User.Role),
		},
	})
}

// Me returns the authenticated user and its role profile.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	user, profile, err := h.authService.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	resp := meResponse{
		User: loginUser{ID: user.ID, Email: user.Email, Role: string(user.Role)},
	}
	switch p := profile.(type) {
	case domain.Farmer:
		resp.Farmer = p
	case domain.Buyer:
		resp.Buyer = p
	}
	return c.JSON(http.StatusOK, resp)
}

// roleLabel capitalizes the role for the registration success message.
func roleLabel(role domain.Role) string {
	switch role {
	case domain.RoleFarmer:
		return "Farmer"
	case domain.RoleBuyer:
		return "Buyer"
	}
	return "User"
}
