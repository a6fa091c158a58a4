package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a registered account. PasswordHash never leaves the service layer.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Avatar       string
	Bio          string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserSummary is the public profile embedded wherever a user is referenced:
// trip owner and members, expense payer and participants, poll creator and
// voters.
type UserSummary struct {
	ID        uuid.UUID
	Email     string
	FirstName string
	LastName  string
	Avatar    string
}

// Summary returns the public profile of u.
func (u User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Avatar:    u.Avatar,
	}
}

// ProfilePatch carries the optional fields of a profile update.
// Nil fields are left unchanged.
type ProfilePatch struct {
	FirstName *string
	LastName  *string
	Bio       *string
	Avatar    *string
}

// Apply copies every non-nil field of p onto u.
func (p ProfilePatch) Apply(u *User) {
	if p.FirstName != nil {
		u.FirstName = strings.TrimSpace(*p.FirstName)
	}
	if p.LastName != nil {
		u.LastName = strings.TrimSpace(*p.LastName)
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
}

// NormalizeEmail lowercases and trims an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
