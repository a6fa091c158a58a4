package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planoraa/planoraa-api/internal/auth"
	"github.com/planoraa/planoraa-api/internal/domain"
	"github.com/planoraa/planoraa-api/internal/service"
)

func validRegistration() service.Registration {
	return service.Registration{
		Email:     "  Ana@Example.COM ",
		Password:  "secret1",
		FirstName: "Ana",
		LastName:  "Silva",
	}
}

// ---- Register --------------------------------------------------------------

func TestAuthService_Register_OK(t *testing.T) {
	var stored domain.User
	users := &mockUserRepo{
		getByEmail: func(_ context.Context, _ string) (domain.User, error) {
			return domain.User{}, domain.ErrNotFound
		},
		create: func(_ context.Context, u domain.User) (domain.User, error) {
			u.ID = uuid.New()
			stored = u
			return u, nil
		},
	}
	svc := service.NewAuthService(users, plainHasher{}, &mockTokens{})

	got, err := svc.Register(context.Background(), validRegistration())

	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", stored.Email)
	assert.Equal(t, "hashed:secret1", stored.PasswordHash)
	assert.Equal(t, stored.ID, got.User.ID)
	assert.Equal(t, "access-"+stored.ID.String(), got.Tokens.AccessToken)
	assert.Equal(t, "refresh-"+stored.ID.String(), got.Tokens.RefreshToken)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	users := &mockUserRepo{
		getByEmail: func(_ context.Context, _ string) (domain.User, error) {
			return domain.User{ID: uuid.New()}, nil
		},
	}
	svc := service.NewAuthService(users, plainHasher{}, &mockTokens{})

	_, err := svc.Register(context.Background(), validRegistration())

	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), "user already exists with this email")
}

func TestAuthService_Register_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *service.Registration)
	}{
		{"missing email", func(r *service.Registration) { r.Email = "" }},
		{"email without at", func(r *service.Registration) { r.Email = "ana.example.com" }},
		{"short password", func(r *service.Registration) { r.Password = "12345" }},
		{"blank first name", func(r *service.Registration) { r.FirstName = "   " }},
		{"missing last name", func(r *service.Registration) { r.LastName = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := validRegistration()
			tt.mutate(&reg)
			svc := service.NewAuthService(&mockUserRepo{}, plainHasher{}, &mockTokens{})

			_, err := svc.Register(context.Background(), reg)

			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

// ---- Login -----------------------------------------------------------------

func TestAuthService_Login(t *testing.T) {
	user := domain.User{ID: uuid.New(), Email: "ana@example.com", PasswordHash: "hashed:secret1"}
	users := &mockUserRepo{
		getByEmail: func(_ context.Context, email string) (domain.User, error) {
			if email == user.Email {
				return user, nil
			}
			return domain.User{}, domain.ErrNotFound
		},
	}
	svc := service.NewAuthService(users, plainHasher{}, &mockTokens{})

	t.Run("correct credentials", func(t *testing.T) {
		got, err := svc.Login(context.Background(), "ANA@example.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.User.ID)
		assert.NotEmpty(t, got.Tokens.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "ana@example.com", "nope")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Contains(t, err.Error(), "invalid credentials")
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "bob@example.com", "secret1")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Contains(t, err.Error(), "invalid credentials")
	})
}

// ---- Refresh / Authenticate ------------------------------------------------

func TestAuthService_Refresh_OK(t *testing.T) {
	user := domain.User{ID: uuid.New(), Email: "ana@example.com"}
	users := &mockUserRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.User, error) { return user, nil },
	}
	tokens := &mockTokens{
		verifyRefresh: func(string) (auth.Subject, error) {
			return auth.Subject{UserID: user.ID, Email: user.Email}, nil
		},
	}
	svc := service.NewAuthService(users, plainHasher{}, tokens)

	got, err := svc.Refresh(context.Background(), "refresh-token")

	require.NoError(t, err)
	assert.Equal(t, "access-"+user.ID.String(), got)
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	tokens := &mockTokens{
		verifyRefresh: func(string) (auth.Subject, error) {
			return auth.Subject{}, errors.Join(domain.ErrUnauthorized, errors.New("invalid token"))
		},
	}
	svc := service.NewAuthService(&mockUserRepo{}, plainHasher{}, tokens)

	_, err := svc.Refresh(context.Background(), "garbage")

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthService_Authenticate_DeletedUser(t *testing.T) {
	users := &mockUserRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.User, error) {
			return domain.User{}, domain.ErrNotFound
		},
	}
	tokens := &mockTokens{
		verifyAccess: func(string) (auth.Subject, error) {
			return auth.Subject{UserID: uuid.New()}, nil
		},
	}
	svc := service.NewAuthService(users, plainHasher{}, tokens)

	_, err := svc.Authenticate(context.Background(), "access")

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ---- UpdateProfile ---------------------------------------------------------

func TestAuthService_UpdateProfile(t *testing.T) {
	user := domain.User{ID: uuid.New(), Email: "ana@example.com", FirstName: "Ana", LastName: "Silva"}
	users := &mockUserRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.User, error) { return user, nil },
		update:  func(_ context.Context, u domain.User) (domain.User, error) { return u, nil },
	}
	svc := service.NewAuthService(users, plainHasher{}, &mockTokens{})

	bio := "Loves trains"
	got, err := svc.UpdateProfile(context.Background(), user.ID, domain.ProfilePatch{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Loves trains", got.Bio)
	assert.Equal(t, "Ana", got.FirstName)

	empty := ""
	_, err = svc.UpdateProfile(context.Background(), user.ID, domain.ProfilePatch{FirstName: &empty})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
