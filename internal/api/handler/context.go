package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/farmgate/livestock-market/internal/core/domain"
)

// ctxClaims extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call: both the subject and
// the role must be present, otherwise the token is structurally valid but
// operationally unusable.
func ctxClaims(c echo.Context) (userID string, role domain.Role, err error) {
	userID, _ = c.Get("user_id").(string)
	if userID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	roleStr, _ := c.Get("role").(string)
	if roleStr == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "token missing role claim")
	}

	return userID, domain.Role(roleStr), nil
}
