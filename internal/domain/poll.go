package domain

import (
	"time"

	"github.com/google/uuid"
)

// PollType is the kind of question a poll asks.
type PollType string

const (
	PollYesNo  PollType = "YES_NO"
	PollRating PollType = "RATING"
)

// Valid reports whether t is a known poll type.
func (t PollType) Valid() bool {
	return t == PollYesNo || t == PollRating
}

// VoteType is a binary vote.
type VoteType string

const (
	Upvote   VoteType = "upvote"
	Downvote VoteType = "downvote"
)

// Valid reports whether v is upvote or downvote.
func (v VoteType) Valid() bool {
	return v == Upvote || v == Downvote
}

// Vote is one user's ballot on a poll.
type Vote struct {
	UserID   uuid.UUID
	VoteType VoteType
	VotedAt  time.Time
	User     *UserSummary
}

// Poll is a binary proposal scoped to a trip. Votes holds at most one entry
// per user.
type Poll struct {
	ID          uuid.UUID
	TripID      uuid.UUID
	Question    string
	Description string
	Type        PollType
	Deadline    *time.Time
	IsActive    bool
	CreatedBy   uuid.UUID
	Creator     *UserSummary
	Votes       []Vote
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AcceptsVotes reports whether the poll is active and its deadline, if any,
// has not passed at now.
func (p Poll) AcceptsVotes(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	return p.Deadline == nil || now.Before(*p.Deadline)
}

// CastVote records userID's vote. An existing entry for the same user is
// overwritten in place; otherwise the vote is appended. It returns the
// resulting entry.
func (p *Poll) CastVote(userID uuid.UUID, vt VoteType, at time.Time) Vote {
	for i := range p.Votes {
		if p.Votes[i].UserID == userID {
			p.Votes[i].VoteType = vt
			p.Votes[i].VotedAt = at
			return p.Votes[i]
		}
	}
	v := Vote{UserID: userID, VoteType: vt, VotedAt: at}
	p.Votes = append(p.Votes, v)
	return v
}

// Tally is the vote count of a poll.
type Tally struct {
	Upvotes   int
	Downvotes int
}

// Tally counts the poll's votes by type.
func (p Poll) Tally() Tally {
	var t Tally
	for _, v := range p.Votes {
		switch v.VoteType {
		case Upvote:
			t.Upvotes++
		case Downvote:
			t.Downvotes++
		}
	}
	return t
}
