package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/planoraa/planoraa-api/internal/domain"
)

const (
	kindAccess  = "access"
	kindRefresh = "refresh"
)

// TokenConfig holds the signing secrets and lifetimes for issued tokens.
// Access and refresh tokens use different secrets so one can never be
// presented as the other.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// Claims is the payload carried by both token kinds.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Kind   string `json:"kind"`
	jwt.RegisteredClaims
}

// Subject is the identity extracted from a verified token.
type Subject struct {
	UserID uuid.UUID
	Email  string
}

// TokenPair is what login and registration hand back to the client.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenIssuer signs and verifies JWTs.
type TokenIssuer struct {
	cfg TokenConfig
	now func() time.Time
}

// NewTokenIssuer validates cfg and returns an issuer.
func NewTokenIssuer(cfg TokenConfig) (*TokenIssuer, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("auth.NewTokenIssuer: access and refresh secrets are required")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("auth.NewTokenIssuer: access and refresh secrets must differ")
	}
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	return &TokenIssuer{cfg: cfg, now: time.Now}, nil
}

// IssuePair signs a fresh access and refresh token for subject.
func (i *TokenIssuer) IssuePair(s Subject) (TokenPair, error) {
	access, err := i.IssueAccess(s)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := i.sign(s, kindRefresh, i.cfg.RefreshSecret, i.cfg.RefreshTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth.TokenIssuer.IssuePair: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// IssueAccess signs a new access token for subject.
func (i *TokenIssuer) IssueAccess(s Subject) (string, error) {
	tok, err := i.sign(s, kindAccess, i.cfg.AccessSecret, i.cfg.AccessTTL)
	if err != nil {
		return "", fmt.Errorf("auth.TokenIssuer.IssueAccess: %w", err)
	}
	return tok, nil
}

// VerifyAccess parses an access token. Any failure wraps domain.ErrUnauthorized.
func (i *TokenIssuer) VerifyAccess(token string) (Subject, error) {
	return i.verify(token, kindAccess, i.cfg.AccessSecret)
}

// VerifyRefresh parses a refresh token. Any failure wraps domain.ErrUnauthorized.
func (i *TokenIssuer) VerifyRefresh(token string) (Subject, error) {
	return i.verify(token, kindRefresh, i.cfg.RefreshSecret)
}

func (i *TokenIssuer) sign(s Subject, kind, secret string, ttl time.Duration) (string, error) {
	now := i.now()
	claims := Claims{
		UserID: s.UserID.String(),
		Email:  s.Email,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.UserID.String(),
			Issuer:    i.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func (i *TokenIssuer) verify(token, kind, secret string) (Subject, error) {
	if token == "" {
		return Subject{}, fmt.Errorf("%w: no token provided", domain.ErrUnauthorized)
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Subject{}, fmt.Errorf("%w: token expired", domain.ErrUnauthorized)
		}
		return Subject{}, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Kind != kind {
		return Subject{}, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return Subject{}, fmt.Errorf("%w: invalid token subject", domain.ErrUnauthorized)
	}
	return Subject{UserID: id, Email: claims.Email}, nil
}
