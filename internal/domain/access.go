package domain

import "github.com/google/uuid"

// HasAccess reports whether userID may read the trip: the owner, or anyone
// on the roster regardless of invitation status.
func HasAccess(t Trip, userID uuid.UUID) bool {
	if t.OwnerID == userID {
		return true
	}
	_, ok := t.FindMember(userID)
	return ok
}

// IsOwnerOrAdmin reports whether userID may manage the trip: the owner, or a
// roster entry with role OWNER or ADMIN.
func IsOwnerOrAdmin(t Trip, userID uuid.UUID) bool {
	if t.OwnerID == userID {
		return true
	}
	m, ok := t.FindMember(userID)
	return ok && (m.Role == RoleOwner || m.Role == RoleAdmin)
}

// IsOwner reports whether userID is exactly the trip owner.
func IsOwner(t Trip, userID uuid.UUID) bool {
	return t.OwnerID == userID
}
