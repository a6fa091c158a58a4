// Package events publishes domain events for other services to consume.
// Publishing is best effort: callers log failures and carry on.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Routing keys used on the topic exchange.
const (
	KeyMemberAdded = "trip.member_added"
	KeyTripDeleted = "trip.deleted"
	KeyPollClosed  = "poll.closed"
)

// Publisher sends v, encoded as JSON, under routing key.
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// MemberAdded is emitted when a user is invited to a trip.
type MemberAdded struct {
	TripID    uuid.UUID `json:"tripId"`
	UserID    uuid.UUID `json:"userId"`
	Role      string    `json:"role"`
	InvitedBy uuid.UUID `json:"invitedBy"`
	At        time.Time `json:"at"`
}

// TripDeleted is emitted after a trip and everything under it is removed.
type TripDeleted struct {
	TripID    uuid.UUID `json:"tripId"`
	DeletedBy uuid.UUID `json:"deletedBy"`
	At        time.Time `json:"at"`
}

// PollClosed is emitted when a poll's creator closes it, with the final tally.
type PollClosed struct {
	PollID    uuid.UUID `json:"pollId"`
	TripID    uuid.UUID `json:"tripId"`
	Upvotes   int       `json:"upvotes"`
	Downvotes int       `json:"downvotes"`
	At        time.Time `json:"at"`
}

// Noop discards every event. It is used when no broker is configured.
type Noop struct{}

// PublishJSON implements Publisher.
func (Noop) PublishJSON(context.Context, string, any) error { return nil }
