package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/planoraa/planoraa-api/internal/domain"
	"github.com/planoraa/planoraa-api/internal/repo"
)

type voteDoc struct {
	UserID   string    `bson:"userId"`
	VoteType string    `bson:"voteType"`
	VotedAt  time.Time `bson:"votedAt"`
}

type pollDoc struct {
	ID          string     `bson:"_id"`
	TripID      string     `bson:"tripId"`
	Question    string     `bson:"question"`
	Description string     `bson:"description"`
	Type        string     `bson:"type"`
	Deadline    *time.Time `bson:"deadline"`
	IsActive    bool       `bson:"isActive"`
	CreatedBy   string     `bson:"createdBy"`
	Votes       []voteDoc  `bson:"votes"`
	CreatedAt   time.Time  `bson:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt"`
}

func (d pollDoc) toDomain() domain.Poll {
	votes := make([]domain.Vote, len(d.Votes))
	for i, v := range d.Votes {
		votes[i] = domain.Vote{UserID: fromID(v.UserID), VoteType: domain.VoteType(v.VoteType), VotedAt: v.VotedAt}
	}
	return domain.Poll{
		ID:          fromID(d.ID),
		TripID:      fromID(d.TripID),
		Question:    d.Question,
		Description: d.Description,
		Type:        domain.PollType(d.Type),
		Deadline:    d.Deadline,
		IsActive:    d.IsActive,
		CreatedBy:   fromID(d.CreatedBy),
		Votes:       votes,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type pollRepo struct {
	col *mongo.Collection
}

var _ repo.PollRepo = (*pollRepo)(nil)

// NewPollRepo constructs a PollRepo over the polls collection of db.
func NewPollRepo(db *mongo.Database) repo.PollRepo {
	return &pollRepo{col: db.Collection(colPolls)}
}

func (r *pollRepo) Create(ctx context.Context, p domain.Poll) (domain.Poll, error) {
	ts := now()
	d := pollDoc{
		ID:          toID(uuid.New()),
		TripID:      toID(p.TripID),
		Question:    p.Question,
		Description: p.Description,
		Type:        string(p.Type),
		Deadline:    p.Deadline,
		IsActive:    p.IsActive,
		CreatedBy:   toID(p.CreatedBy),
		Votes:       []voteDoc{},
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if _, err := r.col.InsertOne(ctx, d); err != nil {
		return domain.Poll{}, fmt.Errorf("mongostore.PollRepo.Create: %w", translate(err))
	}
	return d.toDomain(), nil
}

func (r *pollRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Poll, error) {
	var d pollDoc
	if err := r.col.FindOne(ctx, byID(id)).Decode(&d); err != nil {
		return domain.Poll{}, fmt.Errorf("mongostore.PollRepo.GetByID: %w", translate(err))
	}
	return d.toDomain(), nil
}

func (r *pollRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Poll, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}})

	cur, err := r.col.Find(ctx, bson.M{"tripId": toID(tripID)}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongostore.PollRepo.ListByTrip: %w", err)
	}
	polls, err := decodeAll(ctx, cur, pollDoc.toDomain)
	if err != nil {
		return nil, fmt.Errorf("mongostore.PollRepo.ListByTrip: %w", err)
	}
	return polls, nil
}

// UpsertVote overwrites the user's existing vote in place with a positional
// $set, or appends one guarded by $ne. If both miss, another request appended
// the user's vote in between and the $set is retried once.
func (r *pollRepo) UpsertVote(ctx context.Context, pollID uuid.UUID, v domain.Vote) error {
	uid := toID(v.UserID)
	ts := v.VotedAt.UTC().Truncate(time.Millisecond)

	overwrite := func() (bool, error) {
		res, err := r.col.UpdateOne(ctx,
			bson.M{"_id": toID(pollID), "votes.userId": uid},
			bson.M{"$set": bson.M{
				"votes.$.voteType": string(v.VoteType),
				"votes.$.votedAt":  ts,
				"updatedAt":        now(),
			}},
		)
		if err != nil {
			return false, err
		}
		return res.MatchedCount > 0, nil
	}

	ok, err := overwrite()
	if err != nil {
		return fmt.Errorf("mongostore.PollRepo.UpsertVote: %w", err)
	}
	if ok {
		return nil
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": toID(pollID), "votes.userId": bson.M{"$ne": uid}},
		bson.M{
			"$push": bson.M{"votes": voteDoc{UserID: uid, VoteType: string(v.VoteType), VotedAt: ts}},
			"$set":  bson.M{"updatedAt": now()},
		},
	)
	if err != nil {
		return fmt.Errorf("mongostore.PollRepo.UpsertVote: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	if ok, err = overwrite(); err != nil {
		return fmt.Errorf("mongostore.PollRepo.UpsertVote: %w", err)
	}
	if !ok {
		return fmt.Errorf("mongostore.PollRepo.UpsertVote: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pollRepo) Close(ctx context.Context, id uuid.UUID) (domain.Poll, error) {
	update := bson.M{"$set": bson.M{"isActive": false, "updatedAt": now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d pollDoc
	if err := r.col.FindOneAndUpdate(ctx, byID(id), update, opts).Decode(&d); err != nil {
		return domain.Poll{}, fmt.Errorf("mongostore.PollRepo.Close: %w", translate(err))
	}
	return d.toDomain(), nil
}
