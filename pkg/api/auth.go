package api

import (
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email     openapi_types.Email `json:"email" validate:"required,email"`
	Password  string              `json:"password" validate:"required,min=6"`
	FirstName string              `json:"firstName" validate:"required"`
	LastName  string              `json:"lastName" validate:"required"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    openapi_types.Email `json:"email" validate:"required,email"`
	Password string              `json:"password" validate:"required"`
}

// RefreshRequest is the body of POST /auth/refresh-token.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// UpdateProfileRequest is the body of PUT /auth/profile. Omitted fields are
// left unchanged.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,min=1"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,min=1"`
	Bio       *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Avatar    *string `json:"avatar,omitempty" validate:"omitempty,url"`
}

// User is a full account profile. The password hash is never serialized.
type User struct {
	ID        uuid.UUID           `json:"id"`
	Email     openapi_types.Email `json:"email,omitempty"`
	FirstName string              `json:"firstName"`
	LastName  string              `json:"lastName"`
	Avatar    string              `json:"avatar,omitempty"`
	Bio       string              `json:"bio,omitempty"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// UserSummary is the public slice of a profile embedded in trips, expenses
// and polls.
type UserSummary struct {
	ID        uuid.UUID           `json:"id"`
	Email     openapi_types.Email `json:"email,omitempty"`
	FirstName string              `json:"firstName"`
	LastName  string              `json:"lastName"`
	Avatar    string              `json:"avatar,omitempty"`
}

// AuthData is returned by register and login.
type AuthData struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RefreshData is returned by POST /auth/refresh-token.
type RefreshData struct {
	AccessToken string `json:"accessToken"`
}

// UserData wraps a single profile.
type UserData struct {
	User User `json:"user"`
}
