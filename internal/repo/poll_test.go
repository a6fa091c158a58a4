package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planoraa/planoraa-api/internal/domain"
)

func mustCreatePoll(t *testing.T, r repos, tripID, creator uuid.UUID) domain.Poll {
	t.Helper()
	p, err := r.polls.Create(context.Background(), domain.Poll{
		TripID:    tripID,
		Question:  "Day trip to Sintra?",
		Type:      domain.PollYesNo,
		IsActive:  true,
		CreatedBy: creator,
	})
	require.NoError(t, err, "create poll")
	return p
}

func TestPollRepo_Create(t *testing.T) {
	r := newTestRepos(t)
	owner := mustCreateUser(t, r.users)
	trip := mustCreateTrip(t, r, owner.ID)

	got := mustCreatePoll(t, r, trip.ID, owner.ID)

	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.True(t, got.IsActive)
	assert.Nil(t, got.Deadline)
	assert.NotNil(t, got.Votes)
	assert.Empty(t, got.Votes)
}

func TestPollRepo_UpsertVote_OneVotePerUser(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	u1 := mustCreateUser(t, r.users)
	u2 := mustCreateUser(t, r.users)
	trip := mustCreateTrip(t, r, u1.ID)
	p := mustCreatePoll(t, r, trip.ID, u1.ID)
	at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, r.polls.UpsertVote(ctx, p.ID, domain.Vote{UserID: u1.ID, VoteType: domain.Upvote, VotedAt: at}))
	require.NoError(t, r.polls.UpsertVote(ctx, p.ID, domain.Vote{UserID: u2.ID, VoteType: domain.Downvote, VotedAt: at}))
	require.NoError(t, r.polls.UpsertVote(ctx, p.ID, domain.Vote{UserID: u1.ID, VoteType: domain.Downvote, VotedAt: at.Add(time.Hour)}))

	got, err := r.polls.GetByID(ctx, p.ID)

	require.NoError(t, err)
	require.Len(t, got.Votes, 2)
	assert.Equal(t, u1.ID, got.Votes[0].UserID, "overwrite keeps first-cast order")
	assert.Equal(t, domain.Downvote, got.Votes[0].VoteType)
	assert.Equal(t, domain.Tally{Upvotes: 0, Downvotes: 2}, got.Tally())
}

func TestPollRepo_Close(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	owner := mustCreateUser(t, r.users)
	trip := mustCreateTrip(t, r, owner.ID)
	p := mustCreatePoll(t, r, trip.ID, owner.ID)

	got, err := r.polls.Close(ctx, p.ID)

	require.NoError(t, err)
	assert.False(t, got.IsActive)

	_, err = r.polls.Close(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPollRepo_ListByTrip_NewestFirst(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	owner := mustCreateUser(t, r.users)
	trip := mustCreateTrip(t, r, owner.ID)
	mustCreatePoll(t, r, trip.ID, owner.ID)
	mustCreatePoll(t, r, trip.ID, owner.ID)

	got, err := r.polls.ListByTrip(ctx, trip.ID)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.False(t, got[0].CreatedAt.Before(got[1].CreatedAt))
}
