package handler

import (
	"net/http"

	"github.com/planoraa/planoraa-api/internal/domain"
	"github.com/planoraa/planoraa-api/pkg/api"
)

// CreatePoll handles POST /trips/{tripID}/polls.
func (s *Server) CreatePoll(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "tripID")
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	var req api.CreatePollRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err, "")
		return
	}

	created, err := s.polls.Create(r.Context(), tripID, caller(r), domain.Poll{
		Question:    req.Question,
		Description: req.Description,
		Type:        domain.PollType(req.Type),
		Deadline:    req.Deadline,
	})
	if err != nil {
		s.fail(w, r, err, "Trip not found")
		return
	}
	ok(w, http.StatusCreated, "Poll created successfully", api.PollData{Poll: pollToResponse(created)})
}

// ListPolls handles GET /trips/{tripID}/polls.
func (s *Server) ListPolls(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "tripID")
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	polls, err := s.polls.List(r.Context(), tripID, caller(r))
	if err != nil {
		s.fail(w, r, err, "Trip not found")
		return
	}
	data := make([]api.Poll, len(polls))
	for i, p := range polls {
		data[i] = pollToResponse(p)
	}
	ok(w, http.StatusOK, "", api.PollList{Polls: data, Count: len(data)})
}

// Vote handles POST /polls/{pollID}/vote.
func (s *Server) Vote(w http.ResponseWriter, r *http.Request) {
	pollID, err := pathID(r, "pollID")
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	var req api.VoteRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err, "")
		return
	}

	poll, err := s.polls.Vote(r.Context(), pollID, caller(r), domain.VoteType(req.VoteType))
	if err != nil {
		s.fail(w, r, err, "Poll not found")
		return
	}
	ok(w, http.StatusOK, "Vote recorded successfully", api.PollData{Poll: pollToResponse(poll)})
}

// ClosePoll handles PUT /polls/{pollID}/close.
func (s *Server) ClosePoll(w http.ResponseWriter, r *http.Request) {
	pollID, err := pathID(r, "pollID")
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	poll, err := s.polls.Close(r.Context(), pollID, caller(r))
	if err != nil {
		s.fail(w, r, err, "Poll not found")
		return
	}
	ok(w, http.StatusOK, "Poll closed successfully", api.PollData{Poll: pollToResponse(poll)})
}

// pollToResponse converts a poll and attaches its tally.
func pollToResponse(p domain.Poll) api.Poll {
	votes := make([]api.Vote, len(p.Votes))
	for i, v := range p.Votes {
		votes[i] = api.Vote{UserID: v.UserID, VoteType: string(v.VoteType), VotedAt: v.VotedAt, User: summaryToResponse(v.User)}
	}
	tally := p.Tally()
	return api.Poll{
		ID:          p.ID,
		TripID:      p.TripID,
		Question:    p.Question,
		Description: p.Description,
		Type:        string(p.Type),
		Deadline:    p.Deadline,
		IsActive:    p.IsActive,
		CreatedBy:   p.CreatedBy,
		Creator:     summaryToResponse(p.Creator),
		Votes:       votes,
		Upvotes:     tally.Upvotes,
		Downvotes:   tally.Downvotes,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
