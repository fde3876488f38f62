package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/farmgate/livestock-market/internal/core/domain"
	"github.com/farmgate/livestock-market/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*ports.RegisterResult, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	currentFn  func(ctx context.Context, userID string) (*domain.User, domain.Profile, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.RegisterResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, domain.Profile, error) {
	return s.currentFn(ctx, userID)
}

func newJSONContext(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Buyer(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*ports.RegisterResult, error) {
			if in.Email != "a@b.com" || in.Password != "pw123" || in.Role != "buyer" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.RegisterResult{UserID: "uid-1", Role: domain.RoleBuyer}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newJSONContext(e, http.MethodPost, "/register", `{"email":"a@b.com","password":"pw123","role":"buyer"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] != "Buyer registered successfully" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
	if resp["user_id"] != "uid-1" {
		t.Fatalf("unexpected user_id: %v", resp["user_id"])
	}
}

func TestAuthHandler_Register_FarmerMessage(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*ports.RegisterResult, error) {
			if in.FarmName != "Green Acres" {
				t.Fatalf("farmer fields not forwarded: %+v", in)
			}
			return &ports.RegisterResult{UserID: "uid-2", Role: domain.RoleFarmer}, nil
		},
	}
	h := NewAuthHandler(stub)

	body := `{"email":"f@b.com","password":"pw","role":"farmer","farm_name":"Green Acres","location":"Nakuru","phone_number":"+254700000000"}`
	c, rec := newJSONContext(e, http.MethodPost, "/register", body)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["message"] != "Farmer registered successfully" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
}

func TestAuthHandler_Register_ServiceErrorPassthrough(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*ports.RegisterResult, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newJSONContext(e, http.MethodPost, "/register", `{"email":"a@b.com","password":"pw","role":"buyer"}`)
	if err := h.Register(c); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken passthrough, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*ports.RegisterResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newJSONContext(e, http.MethodPost, "/register", "not-json")
	err := h.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (*ports.LoginResult, error) {
			if email != "a@b.com" || password != "pw123" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.LoginResult{
				AccessToken: "token123",
				User:        &domain.User{ID: "uid-1", Email: email, Role: domain.RoleBuyer},
			}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newJSONContext(e, http.MethodPost, "/login", `{"email":"a@b.com","password":"pw123"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] != "Login successful" || resp["access_token"] != "token123" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["id"] != "uid-1" || user["email"] != "a@b.com" || user["role"] != "buyer" {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
}

func TestAuthHandler_Login_InvalidCredentialsPassthrough(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newJSONContext(e, http.MethodPost, "/login", `{"email":"a@b.com","password":"wrong"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials passthrough, got %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		currentFn: func(_ context.Context, userID string) (*domain.User, domain.Profile, error) {
			if userID != "uid-1" {
				t.Fatalf("unexpected user id: %s", userID)
			}
			user := &domain.User{ID: userID, Email: "f@b.com", Role: domain.RoleFarmer}
			return user, domain.Farmer{ID: "farmer-1", UserID: userID, FarmName: "Green Acres"}, nil
		},
	}
	h := NewAuthHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "uid-1")
	c.Set("role", "farmer")

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	farmer, ok := resp["farmer"].(map[string]any)
	if !ok || farmer["farm_name"] != "Green Acres" {
		t.Fatalf("expected farmer profile, got %+v", resp)
	}
	if _, hasBuyer := resp["buyer"]; hasBuyer {
		t.Fatalf("buyer must be omitted for farmers")
	}
}

func TestAuthHandler_Me_MissingClaims(t *testing.T) {
	e := echo.New()
	h := NewAuthHandler(&stubAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Me(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
