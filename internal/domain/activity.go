package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityCategory classifies an itinerary item.
type ActivityCategory string

const (
	ActivityAccommodation  ActivityCategory = "ACCOMMODATION"
	ActivityTransportation ActivityCategory = "TRANSPORTATION"
	ActivityDining         ActivityCategory = "DINING"
	ActivityAttraction     ActivityCategory = "ATTRACTION"
	ActivityEntertainment  ActivityCategory = "ENTERTAINMENT"
	ActivityShopping       ActivityCategory = "SHOPPING"
	ActivityOther          ActivityCategory = "OTHER"
)

// Valid reports whether c is a known activity category.
func (c ActivityCategory) Valid() bool {
	switch c {
	case ActivityAccommodation, ActivityTransportation, ActivityDining, ActivityAttraction,
		ActivityEntertainment, ActivityShopping, ActivityOther:
		return true
	}
	return false
}

// Priority ranks an itinerary item.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// ActivityStatus is the booking state of an itinerary item.
type ActivityStatus string

const (
	ActivityPlanned   ActivityStatus = "PLANNED"
	ActivityConfirmed ActivityStatus = "CONFIRMED"
	ActivityCompleted ActivityStatus = "COMPLETED"
	ActivityCancelled ActivityStatus = "CANCELLED"
)

// Valid reports whether s is a known activity status.
func (s ActivityStatus) Valid() bool {
	switch s {
	case ActivityPlanned, ActivityConfirmed, ActivityCompleted, ActivityCancelled:
		return true
	}
	return false
}

// Coordinates is a WGS84 position.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Activity is a single itinerary item scheduled within a trip.
// EndTime is nil for open-ended items.
type Activity struct {
	ID          uuid.UUID
	TripID      uuid.UUID
	Title       string
	Description string
	Location    string
	Coordinates *Coordinates
	StartTime   time.Time
	EndTime     *time.Time
	Category    ActivityCategory
	Priority    Priority
	Status      ActivityStatus
	Notes       string
	Cost        *float64
	BookingURL  string
	SortOrder   int
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ApplyDefaults fills zero-valued enums with their defaults.
func (a *Activity) ApplyDefaults() {
	if a.Category == "" {
		a.Category = ActivityOther
	}
	if a.Priority == "" {
		a.Priority = PriorityMedium
	}
	if a.Status == "" {
		a.Status = ActivityPlanned
	}
}

// ActivityPatch carries the optional fields of an activity update.
type ActivityPatch struct {
	Title       *string
	Description *string
	Location    *string
	Coordinates *Coordinates
	StartTime   *time.Time
	EndTime     *time.Time
	Category    *ActivityCategory
	Priority    *Priority
	Status      *ActivityStatus
	Notes       *string
	Cost        *float64
	BookingURL  *string
	SortOrder   *int
}

// Apply copies every non-nil field of p onto a.
func (p ActivityPatch) Apply(a *Activity) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.Location != nil {
		a.Location = *p.Location
	}
	if p.Coordinates != nil {
		c := *p.Coordinates
		a.Coordinates = &c
	}
	if p.StartTime != nil {
		a.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		et := *p.EndTime
		a.EndTime = &et
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.Priority != nil {
		a.Priority = *p.Priority
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.Notes != nil {
		a.Notes = *p.Notes
	}
	if p.Cost != nil {
		c := *p.Cost
		a.Cost = &c
	}
	if p.BookingURL != nil {
		a.BookingURL = *p.BookingURL
	}
	if p.SortOrder != nil {
		a.SortOrder = *p.SortOrder
	}
}
