package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/planoraa/planoraa-api/internal/domain"
	"github.com/planoraa/planoraa-api/internal/events"
	"github.com/planoraa/planoraa-api/internal/repo"
)

// PollService implements group polls.
type PollService struct {
	trips  repo.TripRepo
	polls  repo.PollRepo
	users  repo.UserRepo
	events events.Publisher
	now    func() time.Time
}

// NewPollService constructs a PollService. A nil publisher disables events.
func NewPollService(trips repo.TripRepo, polls repo.PollRepo, users repo.UserRepo, pub events.Publisher) *PollService {
	if pub == nil {
		pub = events.Noop{}
	}
	return &PollService{trips: trips, polls: polls, users: users, events: pub, now: time.Now}
}

// Create opens a poll on the trip with the caller as creator.
func (s *PollService) Create(ctx context.Context, tripID, callerID uuid.UUID, p domain.Poll) (domain.Poll, error) {
	if _, err := tripAccess(ctx, s.trips, tripID, callerID); err != nil {
		return domain.Poll{}, fmt.Errorf("service.PollService.Create: %w", err)
	}

	p.TripID = tripID
	p.CreatedBy = callerID
	p.IsActive = true
	p.Votes = []domain.Vote{}
	p.Question = strings.TrimSpace(p.Question)
	if p.Type == "" {
		p.Type = domain.PollYesNo
	}
	if err := s.validatePoll(p); err != nil {
		return domain.Poll{}, err
	}

	result, err := s.polls.Create(ctx, p)
	if err != nil {
		return domain.Poll{}, fmt.Errorf("service.PollService.Create: %w", err)
	}
	if err := s.expand(ctx, &result); err != nil {
		return domain.Poll{}, fmt.Errorf("service.PollService.Create: %w", err)
	}
	return result, nil
}

// List returns the trip's polls, newest first. Always returns a non-nil slice.
func (s *PollService) List(ctx context.Context, tripID, callerID uuid.UUID) ([]domain.Poll, error) {
	if _, err := tripAccess(ctx, s.trips, tripID, callerID); err != nil {
		return nil, fmt.Errorf("service.PollService.List: %w", err)
	}

	polls, err := s.polls.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.PollService.List: %w", err)
	}
	if polls == nil {
		return []domain.Poll{}, nil
	}
	ptrs := make([]*domain.Poll, len(polls))
	for i := range polls {
		ptrs[i] = &polls[i]
	}
	if err := s.expand(ctx, ptrs...); err != nil {
		return nil, fmt.Errorf("service.PollService.List: %w", err)
	}
	return polls, nil
}

// Vote records the caller's vote, replacing any earlier one.
func (s *PollService) Vote(ctx context.Context, pollID, userID uuid.UUID, vt domain.VoteType) (domain.Poll, error) {
	if !vt.Valid() {
		return domain.Poll{}, fmt.Errorf("%w: invalid vote type", domain.ErrValidation)
	}

	poll, err := s.polls.GetByID(ctx, pollID)
	if err != nil {
		return domain.Poll{}, fmt.Errorf("service.PollService.Vote: %w", err)
	}
	if _, err := tripAccess(ctx, s.trips, poll.TripID, userID); err != nil {
		return domain.Poll{}, fmt.Errorf("service.PollService.Vote: %w", err)
	}

	now := s.now().UTC()
	if !poll.AcceptsVotes(now) {
		return domain.Poll{}, fmt.Errorf("%w: poll is closed", domain.ErrValidation)
	}

	vote := poll.CastVote(userID, vt, now)
	if err := s.polls.UpsertVote(ctx, pollID, vote); err != nil {
		return domain.Poll{}, fmt.Errorf("service.PollService.Vote: %w", err)
	}

	result, err := s.polls.GetByID(ctx, pollID)
	if err != nil {
		return domain.Poll{}, fmt.Errorf("service.PollService.Vote: %w", err)
	}
	if err := s.expand(ctx, &result); err != nil {
		return domain.Poll{}, fmt.Errorf("service.PollService.Vote: %w", err)
	}
	return result, nil
}

// Close deactivates the poll. Only its creator may close it.
func (s *PollService) Close(ctx context.Context, pollID, callerID uuid.UUID) (domain.Poll, error) {
	poll, err := s.polls.GetByID(ctx, pollID)
	if err != nil {
		return domain.Poll{}, fmt.Errorf("service.PollService.Close: %w", err)
	}
	if poll.CreatedBy != callerID {
		return domain.Poll{}, fmt.Errorf("%w: only the poll creator can close this poll", domain.ErrForbidden)
	}

	result, err := s.polls.Close(ctx, pollID)
	if err != nil {
		return domain.Poll{}, fmt.Errorf("service.PollService.Close: %w", err)
	}

	tally := result.Tally()
	evt := events.PollClosed{
		PollID:    result.ID,
		TripID:    result.TripID,
		Upvotes:   tally.Upvotes,
		Downvotes: tally.Downvotes,
		At:        s.now().UTC(),
	}
	if err := s.events.PublishJSON(ctx, events.KeyPollClosed, evt); err != nil {
		slog.WarnContext(ctx, "publish event failed", "key", events.KeyPollClosed, "error", err)
	}
	if err := s.expand(ctx, &result); err != nil {
		return domain.Poll{}, fmt.Errorf("service.PollService.Close: %w", err)
	}
	return result, nil
}

// expand fills Creator and Vote.User with one user lookup.
func (s *PollService) expand(ctx context.Context, polls ...*domain.Poll) error {
	var ids []uuid.UUID
	for _, p := range polls {
		ids = append(ids, p.CreatedBy)
		for _, v := range p.Votes {
			ids = append(ids, v.UserID)
		}
	}
	byID, err := userSummaries(ctx, s.users, ids)
	if err != nil {
		return err
	}

	for _, p := range polls {
		p.Creator = lookup(byID, p.CreatedBy)
		for i := range p.Votes {
			p.Votes[i].User = lookup(byID, p.Votes[i].UserID)
		}
	}
	return nil
}

func (s *PollService) validatePoll(p domain.Poll) error {
	if p.Question == "" {
		return fmt.Errorf("%w: question is required", domain.ErrValidation)
	}
	if !p.Type.Valid() {
		return fmt.Errorf("%w: invalid poll type %q", domain.ErrValidation, p.Type)
	}
	if p.Deadline != nil && !p.Deadline.After(s.now()) {
		return fmt.Errorf("%w: deadline must be in the future", domain.ErrValidation)
	}
	return nil
}
