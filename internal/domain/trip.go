// Package domain contains the core data types for the Planoraa API.
// This package depends only on uuid and is imported by every other
// internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripStatus is the lifecycle state of a trip.
type TripStatus string

const (
	TripPlanning  TripStatus = "PLANNING"
	TripConfirmed TripStatus = "CONFIRMED"
	TripOngoing   TripStatus = "ONGOING"
	TripCompleted TripStatus = "COMPLETED"
	TripCancelled TripStatus = "CANCELLED"
)

// Valid reports whether s is one of the known trip statuses.
func (s TripStatus) Valid() bool {
	switch s {
	case TripPlanning, TripConfirmed, TripOngoing, TripCompleted, TripCancelled:
		return true
	}
	return false
}

// MemberRole is a user's role on one trip.
type MemberRole string

const (
	RoleOwner  MemberRole = "OWNER"
	RoleAdmin  MemberRole = "ADMIN"
	RoleEditor MemberRole = "EDITOR"
	RoleMember MemberRole = "MEMBER"
	RoleViewer MemberRole = "VIEWER"
)

// Valid reports whether r is one of the known member roles.
func (r MemberRole) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleEditor, RoleMember, RoleViewer:
		return true
	}
	return false
}

// MemberStatus tracks whether an invitation has been answered.
type MemberStatus string

const (
	MemberPending  MemberStatus = "PENDING"
	MemberAccepted MemberStatus = "ACCEPTED"
	MemberDeclined MemberStatus = "DECLINED"
)

// DefaultCurrency is applied to trips and expenses created without one.
const DefaultCurrency = "USD"

// Member is one entry of a trip roster.
// User is populated only when the service expands the roster to profiles.
type Member struct {
	UserID   uuid.UUID
	Role     MemberRole
	Status   MemberStatus
	JoinedAt time.Time
	User     *UserSummary
}

// Trip represents a planned group journey.
// A trip is the aggregation root; activities, expenses and polls belong to it.
type Trip struct {
	ID          uuid.UUID
	Title       string
	Description string
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	CoverImage  string
	Budget      *float64 // nil when no budget has been set
	Currency    string
	Status      TripStatus
	OwnerID     uuid.UUID
	Owner       *UserSummary
	Members     []Member
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FindMember returns the roster entry for userID, if any.
func (t Trip) FindMember(userID uuid.UUID) (Member, bool) {
	for _, m := range t.Members {
		if m.UserID == userID {
			return m, true
		}
	}
	return Member{}, false
}

// MemberIDs returns the owner followed by every roster user id, without
// duplicates, in roster order.
func (t Trip) MemberIDs() []uuid.UUID {
	seen := map[uuid.UUID]bool{t.OwnerID: true}
	ids := []uuid.UUID{t.OwnerID}
	for _, m := range t.Members {
		if !seen[m.UserID] {
			seen[m.UserID] = true
			ids = append(ids, m.UserID)
		}
	}
	return ids
}

// TripPatch carries the optional fields of a trip update.
// Nil fields are left unchanged.
type TripPatch struct {
	Title       *string
	Description *string
	Destination *string
	StartDate   *time.Time
	EndDate     *time.Time
	CoverImage  *string
	Budget      *float64
	Currency    *string
	Status      *TripStatus
}

// Apply copies every non-nil field of p onto t.
func (p TripPatch) Apply(t *Trip) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Destination != nil {
		t.Destination = *p.Destination
	}
	if p.StartDate != nil {
		t.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		t.EndDate = *p.EndDate
	}
	if p.CoverImage != nil {
		t.CoverImage = *p.CoverImage
	}
	if p.Budget != nil {
		b := *p.Budget
		t.Budget = &b
	}
	if p.Currency != nil {
		t.Currency = *p.Currency
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
}

// NewMember describes an invitation: either UserID or Email identifies the
// invitee. Role defaults to MEMBER when empty.
type NewMember struct {
	UserID *uuid.UUID
	Email  string
	Role   MemberRole
}
