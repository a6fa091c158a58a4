package api

import (
	"time"

	"github.com/google/uuid"
)

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// CreateActivityRequest is the body of POST /trips/{id}/activities.
type CreateActivityRequest struct {
	Title       string       `json:"title" validate:"required"`
	Description string       `json:"description,omitempty"`
	Location    string       `json:"location,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	StartTime   time.Time    `json:"startTime" validate:"required"`
	EndTime     *time.Time   `json:"endTime,omitempty"`
	Category    string       `json:"category,omitempty" validate:"omitempty,oneof=ACCOMMODATION TRANSPORTATION DINING ATTRACTION ENTERTAINMENT SHOPPING OTHER"`
	Priority    string       `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	Status      string       `json:"status,omitempty" validate:"omitempty,oneof=PLANNED CONFIRMED COMPLETED CANCELLED"`
	Notes       string       `json:"notes,omitempty"`
	Cost        *float64     `json:"cost,omitempty" validate:"omitempty,gte=0"`
	BookingURL  string       `json:"bookingUrl,omitempty" validate:"omitempty,url"`
	SortOrder   int          `json:"sortOrder,omitempty"`
}

// UpdateActivityRequest is the body of PUT /activities/{id}. Omitted fields
// are left unchanged.
type UpdateActivityRequest struct {
	Title       *string      `json:"title,omitempty" validate:"omitempty,min=1"`
	Description *string      `json:"description,omitempty"`
	Location    *string      `json:"location,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	StartTime   *time.Time   `json:"startTime,omitempty"`
	EndTime     *time.Time   `json:"endTime,omitempty"`
	Category    *string      `json:"category,omitempty" validate:"omitempty,oneof=ACCOMMODATION TRANSPORTATION DINING ATTRACTION ENTERTAINMENT SHOPPING OTHER"`
	Priority    *string      `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	Status      *string      `json:"status,omitempty" validate:"omitempty,oneof=PLANNED CONFIRMED COMPLETED CANCELLED"`
	Notes       *string      `json:"notes,omitempty"`
	Cost        *float64     `json:"cost,omitempty" validate:"omitempty,gte=0"`
	BookingURL  *string      `json:"bookingUrl,omitempty" validate:"omitempty,url"`
	SortOrder   *int         `json:"sortOrder,omitempty"`
}

// Activity is one itinerary item.
type Activity struct {
	ID          uuid.UUID    `json:"id"`
	TripID      uuid.UUID    `json:"tripId"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Location    string       `json:"location,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	StartTime   time.Time    `json:"startTime"`
	EndTime     *time.Time   `json:"endTime,omitempty"`
	Category    string       `json:"category"`
	Priority    string       `json:"priority"`
	Status      string       `json:"status"`
	Notes       string       `json:"notes,omitempty"`
	Cost        *float64     `json:"cost,omitempty"`
	BookingURL  string       `json:"bookingUrl,omitempty"`
	SortOrder   int          `json:"sortOrder"`
	CreatedBy   uuid.UUID    `json:"createdBy"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// ActivityData wraps a single activity.
type ActivityData struct {
	Activity Activity `json:"activity"`
}

// ActivityList is returned by GET /trips/{id}/activities.
type ActivityList struct {
	Activities []Activity `json:"activities"`
	Count      int        `json:"count"`
}
