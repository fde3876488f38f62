package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/farmgate/livestock-market/internal/api/metrics"
	"github.com/farmgate/livestock-market/internal/core/domain"
	"github.com/farmgate/livestock-market/internal/core/ports"
)

// AuthService implements registration and login with JWT issuance.
type AuthService struct {
	repo      ports.AuthRepository
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(repo ports.AuthRepository, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

// Register creates a user and its role profile in one unit of work. Either
// both rows exist afterwards or neither does.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.RegisterResult, error) {
	if in.Email == "" || in.Password == "" || in.Role == "" {
		metrics.RegistrationFailuresTotal.WithLabelValues("validation").Inc()
		return nil, domain.NewValidationError("Missing email, password, or role")
	}

	role := domain.Role(strings.ToLower(strings.TrimSpace(in.Role)))
	if !role.SelfRegistrable() {
		metrics.RegistrationFailuresTotal.WithLabelValues("validation").Inc()
		return nil, domain.NewValidationError("Invalid role. Must be 'farmer' or 'buyer'")
	}

	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		metrics.RegistrationFailuresTotal.WithLabelValues("conflict").Inc()
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		metrics.RegistrationFailuresTotal.WithLabelValues("internal").Inc()
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		metrics.RegistrationFailuresTotal.WithLabelValues("internal").Inc()
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	profile, err := buildProfile(role, user.ID, in, now)
	if err != nil {
		metrics.RegistrationFailuresTotal.WithLabelValues("validation").Inc()
		return nil, err
	}

	if err := s.repo.CreateWithProfile(ctx, user, profile); err != nil {
		// Two concurrent registrations with the same email race on the
		// store's unique constraint; the loser surfaces as a conflict,
		// not a generic failure.
		if errors.Is(err, domain.ErrEmailTaken) {
			metrics.RegistrationFailuresTotal.WithLabelValues("conflict").Inc()
			return nil, domain.ErrEmailTaken
		}
		metrics.RegistrationFailuresTotal.WithLabelValues("internal").Inc()
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(role)).Inc()
	s.log.Info().Str("user_id", user.ID).Str("role", string(role)).Msg("user registered")

	return &ports.RegisterResult{UserID: user.ID, Role: role}, nil
}

// buildProfile validates role-specific fields and assembles the profile row.
func buildProfile(role domain.Role, userID string, in ports.RegisterInput, now time.Time) (domain.Profile, error) {
	switch role {
	case domain.RoleFarmer:
		var missing []string
		if in.FarmName == "" {
			missing = append(missing, "farm_name")
		}
		if in.Location == "" {
			missing = append(missing, "location")
		}
		if in.PhoneNumber == "" {
			missing = append(missing, "phone_number")
		}
		if len(missing) > 0 {
			return nil, domain.NewValidationError("Missing required farmer fields", missing...)
		}
		return domain.Farmer{
			ID:          uuid.NewString(),
			UserID:      userID,
			FarmName:    in.FarmName,
			Location:    in.Location,
			PhoneNumber: in.PhoneNumber,
			CreatedAt:   now,
			UpdatedAt:   now,
		}, nil
	case domain.RoleBuyer:
		return domain.Buyer{
			ID:               uuid.NewString(),
			UserID:           userID,
			DeliveryAddress:  in.DeliveryAddress,
			PreferredContact: in.PreferredContact,
			CreatedAt:        now,
			UpdatedAt:        now,
		}, nil
	}
	return nil, domain.NewValidationError("Invalid role. Must be 'farmer' or 'buyer'")
}

// Login verifies credentials and mints a bearer token. An unknown email and a
// wrong password both return domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("user_id", user.ID).Msg("login successful")

	return &ports.LoginResult{AccessToken: token, User: user}, nil
}

// CurrentUser loads the authenticated user and its role profile. Admin users
// carry no profile.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, domain.Profile, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if !user.Role.SelfRegistrable() {
		return user, nil, nil
	}
	profile, err := s.repo.FindProfile(ctx, user.ID, user.Role)
	if err != nil {
		return nil, nil, err
	}
	return user, profile, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
