package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bruinplace/internal/auth"
	apperrors "bruinplace/internal/errors"
	"bruinplace/internal/model"
	"bruinplace/internal/repository"
)

// AuthService handles the login flow: redirect, callback, session validation,
// and logout. The OAuth exchange itself stays behind auth.IdentityProvider.
type AuthService interface {
	// LoginURL returns the provider authorization URL and the state nonce the
	// handler should pin in a cookie.
	LoginURL() (url string, state string)
	// HandleCallback completes the login: state check, code exchange, identity
	// verification, JIT user provisioning, and session token issue.
	HandleCallback(ctx context.Context, code, state, cookieState string) (token string, user *model.User, err error)
	// ValidateSession checks a session token and its revocation status.
	ValidateSession(ctx context.Context, token string) (*auth.Claims, error)
	// Logout revokes the session until the token would have expired.
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, userID string) (*model.User, error)
}

type authService struct {
	users          repository.UserRepository
	provider       auth.IdentityProvider
	jwtService     *auth.JWTService
	tokenStore     auth.TokenStoreInterface
	allowedDomains []string
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	users repository.UserRepository,
	provider auth.IdentityProvider,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	allowedDomains []string,
) AuthService {
	return &authService{
		users:          users,
		provider:       provider,
		jwtService:     jwtService,
		tokenStore:     tokenStore,
		allowedDomains: allowedDomains,
	}
}

// LoginURL builds the provider redirect with a fresh state nonce.
func (s *authService) LoginURL() (string, string) {
	state := uuid.New().String()
	return s.provider.AuthCodeURL(state), state
}

// HandleCallback verifies the state against the cookie copy, exchanges the
// code, and trusts the identity only when the email is verified and its domain
// is allow-listed. The user row is provisioned or refreshed on every login.
func (s *authService) HandleCallback(ctx context.Context, code, state, cookieState string) (string, *model.User, error) {
	if code == "" || state == "" || cookieState == "" || state != cookieState {
		return "", nil, apperrors.ErrInvalidOAuthState
	}

	identity, err := s.provider.Exchange(ctx, code)
	if err != nil {
		slog.Warn("oauth code exchange failed", "error", err)
		return "", nil, apperrors.ErrInvalidOAuthState
	}

	if identity.Email == "" || !identity.EmailVerified {
		return "", nil, apperrors.ErrUnauthorized
	}
	if !s.domainAllowed(identity.Email) {
		return "", nil, apperrors.ErrEmailNotAllowed
	}

	user, err := s.users.UpsertFromIdentity(ctx, &model.User{
		ID:      identity.Subject,
		Email:   identity.Email,
		Name:    optional(identity.Name),
		Picture: optional(identity.Picture),
	})
	if err != nil {
		return "", nil, err
	}

	token, err := s.jwtService.GenerateSessionToken(
		user.ID, user.Email, deref(user.Name), deref(user.Picture))
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ValidateSession rejects expired, malformed, and revoked tokens.
func (s *authService) ValidateSession(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	revoked, err := s.tokenStore.IsSessionRevoked(ctx, claims.ID)
	if err != nil || revoked {
		return nil, apperrors.ErrUnauthorized
	}
	return claims, nil
}

// Logout revokes the token's session id for its remaining lifetime.
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return apperrors.ErrUnauthorized
	}

	ttl := s.jwtService.Lifetime()
	if claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
			ttl = remaining
		}
	}
	return s.tokenStore.RevokeSession(ctx, claims.ID, ttl)
}

// CurrentUser looks up the session's user record.
func (s *authService) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) domainAllowed(email string) bool {
	for _, domain := range s.allowedDomains {
		if strings.HasSuffix(email, "@"+domain) {
			return true
		}
	}
	return false
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
