package api

import (
	"time"

	"github.com/google/uuid"
)

// CreatePollRequest is the body of POST /trips/{id}/polls.
type CreatePollRequest struct {
	Question    string     `json:"question" validate:"required"`
	Description string     `json:"description,omitempty"`
	Type        string     `json:"type,omitempty" validate:"omitempty,oneof=YES_NO RATING"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// VoteRequest is the body of POST /polls/{id}/vote. The vote type is
// checked by the service so an unknown value reads "invalid vote type".
type VoteRequest struct {
	VoteType string `json:"voteType" validate:"required"`
}

// Vote is one user's ballot.
type Vote struct {
	UserID   uuid.UUID    `json:"userId"`
	VoteType string       `json:"voteType"`
	VotedAt  time.Time    `json:"votedAt"`
	User     *UserSummary `json:"user,omitempty"`
}

// Poll is a trip proposal with its votes and tally.
type Poll struct {
	ID          uuid.UUID    `json:"id"`
	TripID      uuid.UUID    `json:"tripId"`
	Question    string       `json:"question"`
	Description string       `json:"description,omitempty"`
	Type        string       `json:"type"`
	Deadline    *time.Time   `json:"deadline,omitempty"`
	IsActive    bool         `json:"isActive"`
	CreatedBy   uuid.UUID    `json:"createdBy"`
	Creator     *UserSummary `json:"creator,omitempty"`
	Votes       []Vote       `json:"votes"`
	Upvotes     int          `json:"upvotes"`
	Downvotes   int          `json:"downvotes"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// PollData wraps a single poll.
type PollData struct {
	Poll Poll `json:"poll"`
}

// PollList is returned by GET /trips/{id}/polls.
type PollList struct {
	Polls []Poll `json:"polls"`
	Count int    `json:"count"`
}
