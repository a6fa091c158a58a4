package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/planoraa/planoraa-api/internal/auth"
	"github.com/planoraa/planoraa-api/internal/domain"
	"github.com/planoraa/planoraa-api/internal/repo"
)

// PasswordHasher hashes and checks passwords. *auth.BcryptHasher satisfies it.
type PasswordHasher interface {
	HashPassword(ctx context.Context, password string) (string, error)
	VerifyPassword(ctx context.Context, password, hash string) (bool, error)
}

// TokenIssuer signs and verifies session tokens. *auth.TokenIssuer satisfies it.
type TokenIssuer interface {
	IssuePair(s auth.Subject) (auth.TokenPair, error)
	IssueAccess(s auth.Subject) (string, error)
	VerifyAccess(token string) (auth.Subject, error)
	VerifyRefresh(token string) (auth.Subject, error)
}

// Registration is the input to AuthService.Register.
type Registration struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Session is a user together with freshly issued tokens.
type Session struct {
	User   domain.User
	Tokens auth.TokenPair
}

// AuthService implements registration, login, token refresh and profile
// management.
type AuthService struct {
	users  repo.UserRepo
	hasher PasswordHasher
	tokens TokenIssuer
}

// NewAuthService constructs an AuthService.
func NewAuthService(users repo.UserRepo, hasher PasswordHasher, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

// Register creates an account and signs the user in.
// Returns domain.ErrConflict if the email is already registered.
func (s *AuthService) Register(ctx context.Context, reg Registration) (Session, error) {
	reg.Email = domain.NormalizeEmail(reg.Email)
	reg.FirstName = strings.TrimSpace(reg.FirstName)
	reg.LastName = strings.TrimSpace(reg.LastName)
	if err := validateRegistration(reg); err != nil {
		return Session{}, err
	}

	_, err := s.users.GetByEmail(ctx, reg.Email)
	switch {
	case err == nil:
		return Session{}, fmt.Errorf("%w: user already exists with this email", domain.ErrConflict)
	case !errors.Is(err, domain.ErrNotFound):
		return Session{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}

	hash, err := s.hasher.HashPassword(ctx, reg.Password)
	if err != nil {
		return Session{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		Email:        reg.Email,
		PasswordHash: hash,
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
	})
	if err != nil {
		return Session{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}

	return s.session(user)
}

// Login checks credentials and issues tokens. Unknown emails and wrong
// passwords both return domain.ErrUnauthorized with the same message.
func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return Session{}, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}
	if err != nil {
		return Session{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}

	ok, err := s.hasher.VerifyPassword(ctx, password, user.PasswordHash)
	if err != nil {
		return Session{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}
	if !ok {
		return Session{}, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	return s.session(user)
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	subject, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", err
	}

	user, err := s.users.GetByID(ctx, subject.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return "", fmt.Errorf("%w: user no longer exists", domain.ErrUnauthorized)
	}
	if err != nil {
		return "", fmt.Errorf("service.AuthService.Refresh: %w", err)
	}

	token, err := s.tokens.IssueAccess(auth.Subject{UserID: user.ID, Email: user.Email})
	if err != nil {
		return "", fmt.Errorf("service.AuthService.Refresh: %w", err)
	}
	return token, nil
}

// Authenticate resolves an access token to the user it was issued for.
// Tokens for deleted users are rejected.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (domain.User, error) {
	subject, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		return domain.User{}, err
	}

	user, err := s.users.GetByID(ctx, subject.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, fmt.Errorf("%w: user not found", domain.ErrUnauthorized)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Authenticate: %w", err)
	}
	return user, nil
}

// Profile returns the caller's account.
func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Profile: %w", err)
	}
	return user, nil
}

// UpdateProfile applies patch to the caller's account.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, patch domain.ProfilePatch) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.UpdateProfile: %w", err)
	}

	patch.Apply(&user)
	if user.FirstName == "" || user.LastName == "" {
		return domain.User{}, fmt.Errorf("%w: first and last name must not be empty", domain.ErrValidation)
	}

	result, err := s.users.Update(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.UpdateProfile: %w", err)
	}
	return result, nil
}

func (s *AuthService) session(user domain.User) (Session, error) {
	pair, err := s.tokens.IssuePair(auth.Subject{UserID: user.ID, Email: user.Email})
	if err != nil {
		return Session{}, fmt.Errorf("service.AuthService: issue tokens: %w", err)
	}
	return Session{User: user, Tokens: pair}, nil
}

func validateRegistration(reg Registration) error {
	if reg.Email == "" || !strings.Contains(reg.Email, "@") {
		return fmt.Errorf("%w: a valid email is required", domain.ErrValidation)
	}
	if len(reg.Password) < auth.MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, auth.MinPasswordLength)
	}
	if reg.FirstName == "" || reg.LastName == "" {
		return fmt.Errorf("%w: first and last name are required", domain.ErrValidation)
	}
	return nil
}
