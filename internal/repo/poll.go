package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/planoraa/planoraa-api/internal/domain"
)

// PollRepo defines the persistence operations for polls and their votes.
// Every poll returned carries its Votes in first-cast order.
type PollRepo interface {
	Create(ctx context.Context, p domain.Poll) (domain.Poll, error)

	// GetByID returns domain.ErrNotFound if no poll with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Poll, error)

	// ListByTrip returns the trip's polls, newest first.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Poll, error)

	// UpsertVote records v on the poll, overwriting any earlier vote by the
	// same user in a single statement.
	UpsertVote(ctx context.Context, pollID uuid.UUID, v domain.Vote) error

	// Close marks the poll inactive and returns it.
	Close(ctx context.Context, id uuid.UUID) (domain.Poll, error)
}

type pgPollRepo struct {
	db db
}

// NewPollRepo constructs a PollRepo backed by the provided db connection.
func NewPollRepo(db db) PollRepo {
	return &pgPollRepo{db: db}
}

const pollColumns = `id, trip_id, question, description, type, deadline, is_active,
	created_by, created_at, updated_at`

func (r *pgPollRepo) Create(ctx context.Context, p domain.Poll) (domain.Poll, error) {
	const q = `
		INSERT INTO polls (trip_id, question, description, type, deadline, is_active, created_by)
		VALUES (@trip_id, @question, @description, @type, @deadline, @is_active, @created_by)
		RETURNING ` + pollColumns

	args := pgx.NamedArgs{
		"trip_id":     p.TripID,
		"question":    p.Question,
		"description": p.Description,
		"type":        string(p.Type),
		"deadline":    p.Deadline,
		"is_active":   p.IsActive,
		"created_by":  p.CreatedBy,
	}

	result, err := scanPoll(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Poll{}, fmt.Errorf("repo.PollRepo.Create: %w", translate(err))
	}
	result.Votes = []domain.Vote{}
	return result, nil
}

func (r *pgPollRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Poll, error) {
	q := `SELECT ` + pollColumns + ` FROM polls WHERE id = @id`

	p, err := scanPoll(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Poll{}, fmt.Errorf("repo.PollRepo.GetByID: %w", translate(err))
	}

	votes, err := r.loadVotes(ctx, []uuid.UUID{p.ID})
	if err != nil {
		return domain.Poll{}, fmt.Errorf("repo.PollRepo.GetByID: %w", err)
	}
	p.Votes = votesOrEmpty(votes[p.ID])
	return p, nil
}

func (r *pgPollRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Poll, error) {
	q := `
		SELECT ` + pollColumns + `
		FROM polls
		WHERE trip_id = @trip_id
		ORDER BY created_at DESC, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.PollRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	polls := []domain.Poll{}
	for rows.Next() {
		p, err := scanPoll(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.PollRepo.ListByTrip: scan: %w", err)
		}
		polls = append(polls, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PollRepo.ListByTrip: rows: %w", err)
	}

	ids := make([]uuid.UUID, len(polls))
	for i, p := range polls {
		ids[i] = p.ID
	}
	votes, err := r.loadVotes(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("repo.PollRepo.ListByTrip: %w", err)
	}
	for i := range polls {
		polls[i].Votes = votesOrEmpty(votes[polls[i].ID])
	}
	return polls, nil
}

func (r *pgPollRepo) UpsertVote(ctx context.Context, pollID uuid.UUID, v domain.Vote) error {
	const q = `
		INSERT INTO poll_votes (poll_id, user_id, vote_type, voted_at)
		VALUES (@poll_id, @user_id, @vote_type, @voted_at)
		ON CONFLICT (poll_id, user_id) DO UPDATE
		SET vote_type = EXCLUDED.vote_type,
		    voted_at  = EXCLUDED.voted_at`

	args := pgx.NamedArgs{
		"poll_id":   pollID,
		"user_id":   v.UserID,
		"vote_type": string(v.VoteType),
		"voted_at":  v.VotedAt,
	}

	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.PollRepo.UpsertVote: %w", translate(err))
	}
	return nil
}

func (r *pgPollRepo) Close(ctx context.Context, id uuid.UUID) (domain.Poll, error) {
	const q = `
		UPDATE polls
		SET is_active = false, updated_at = now()
		WHERE id = @id
		RETURNING ` + pollColumns

	p, err := scanPoll(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Poll{}, fmt.Errorf("repo.PollRepo.Close: %w", translate(err))
	}

	votes, err := r.loadVotes(ctx, []uuid.UUID{p.ID})
	if err != nil {
		return domain.Poll{}, fmt.Errorf("repo.PollRepo.Close: %w", err)
	}
	p.Votes = votesOrEmpty(votes[p.ID])
	return p, nil
}

func (r *pgPollRepo) loadVotes(ctx context.Context, pollIDs []uuid.UUID) (map[uuid.UUID][]domain.Vote, error) {
	out := make(map[uuid.UUID][]domain.Vote, len(pollIDs))
	if len(pollIDs) == 0 {
		return out, nil
	}

	const q = `
		SELECT poll_id, user_id, vote_type, voted_at
		FROM poll_votes
		WHERE poll_id = ANY(@ids::uuid[])
		ORDER BY seq`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"ids": pollIDs})
	if err != nil {
		return nil, fmt.Errorf("load votes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			pollID uuid.UUID
			v      domain.Vote
		)
		if err := rows.Scan(&pollID, &v.UserID, &v.VoteType, &v.VotedAt); err != nil {
			return nil, fmt.Errorf("load votes: scan: %w", err)
		}
		out[pollID] = append(out[pollID], v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load votes: rows: %w", err)
	}
	return out, nil
}

func votesOrEmpty(v []domain.Vote) []domain.Vote {
	if v == nil {
		return []domain.Vote{}
	}
	return v
}

func scanPoll(s scanner) (domain.Poll, error) {
	var p domain.Poll
	err := s.Scan(&p.ID, &p.TripID, &p.Question, &p.Description, &p.Type, &p.Deadline,
		&p.IsActive, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
