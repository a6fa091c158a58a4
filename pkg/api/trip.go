package api

import (
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// CreateTripRequest is the body of POST /trips.
type CreateTripRequest struct {
	Title       string             `json:"title" validate:"required"`
	Description string             `json:"description,omitempty"`
	Destination string             `json:"destination" validate:"required"`
	StartDate   openapi_types.Date `json:"startDate"`
	EndDate     openapi_types.Date `json:"endDate"`
	CoverImage  string             `json:"coverImage,omitempty"`
	Budget      *float64           `json:"budget,omitempty" validate:"omitempty,gte=0"`
	Currency    string             `json:"currency,omitempty" validate:"omitempty,len=3"`
	Status      string             `json:"status,omitempty" validate:"omitempty,oneof=PLANNING CONFIRMED ONGOING COMPLETED CANCELLED"`
}

// UpdateTripRequest is the body of PUT /trips/{id}. Omitted fields are left
// unchanged.
type UpdateTripRequest struct {
	Title       *string             `json:"title,omitempty" validate:"omitempty,min=1"`
	Description *string             `json:"description,omitempty"`
	Destination *string             `json:"destination,omitempty" validate:"omitempty,min=1"`
	StartDate   *openapi_types.Date `json:"startDate,omitempty"`
	EndDate     *openapi_types.Date `json:"endDate,omitempty"`
	CoverImage  *string             `json:"coverImage,omitempty"`
	Budget      *float64            `json:"budget,omitempty" validate:"omitempty,gte=0"`
	Currency    *string             `json:"currency,omitempty" validate:"omitempty,len=3"`
	Status      *string             `json:"status,omitempty" validate:"omitempty,oneof=PLANNING CONFIRMED ONGOING COMPLETED CANCELLED"`
}

// AddMemberRequest is the body of POST /trips/{id}/members. One of UserID or
// Email is required.
type AddMemberRequest struct {
	UserID *uuid.UUID          `json:"userId,omitempty"`
	Email  openapi_types.Email `json:"email,omitempty" validate:"omitempty,email"`
	Role   string              `json:"role,omitempty" validate:"omitempty,oneof=ADMIN EDITOR MEMBER VIEWER"`
}

// RespondInviteRequest is the body of PUT /trips/{id}/members/me.
type RespondInviteRequest struct {
	Accept *bool `json:"accept" validate:"required"`
}

// Member is one roster entry.
type Member struct {
	UserID   uuid.UUID    `json:"userId"`
	User     *UserSummary `json:"user,omitempty"`
	Role     string       `json:"role"`
	Status   string       `json:"status"`
	JoinedAt time.Time    `json:"joinedAt"`
}

// Trip is the wire form of a trip with its roster.
type Trip struct {
	ID          uuid.UUID          `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Destination string             `json:"destination"`
	StartDate   openapi_types.Date `json:"startDate"`
	EndDate     openapi_types.Date `json:"endDate"`
	CoverImage  string             `json:"coverImage,omitempty"`
	Budget      *float64           `json:"budget,omitempty"`
	Currency    string             `json:"currency"`
	Status      string             `json:"status"`
	OwnerID     uuid.UUID          `json:"ownerId"`
	Owner       *UserSummary       `json:"owner,omitempty"`
	Members     []Member           `json:"members"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// TripData wraps a single trip.
type TripData struct {
	Trip Trip `json:"trip"`
}

// TripList is returned by GET /trips.
type TripList struct {
	Trips []Trip `json:"trips"`
	Count int    `json:"count"`
}
