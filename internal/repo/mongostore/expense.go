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

type participantDoc struct {
	UserID string  `bson:"userId"`
	Share  float64 `bson:"share"`
	IsPaid bool    `bson:"isPaid"`
}

type expenseDoc struct {
	ID           string           `bson:"_id"`
	TripID       string           `bson:"tripId"`
	Title        string           `bson:"title"`
	Description  string           `bson:"description"`
	Amount       float64          `bson:"amount"`
	Currency     string           `bson:"currency"`
	Category     string           `bson:"category"`
	Date         time.Time        `bson:"date"`
	Receipt      string           `bson:"receipt"`
	PaidBy       string           `bson:"paidBy"`
	Participants []participantDoc `bson:"participants"`
	CreatedAt    time.Time        `bson:"createdAt"`
	UpdatedAt    time.Time        `bson:"updatedAt"`
}

func participantDocs(parts []domain.Participant) []participantDoc {
	out := make([]participantDoc, len(parts))
	for i, p := range parts {
		out[i] = participantDoc{UserID: toID(p.UserID), Share: p.Share, IsPaid: p.IsPaid}
	}
	return out
}

func (d expenseDoc) toDomain() domain.Expense {
	parts := make([]domain.Participant, len(d.Participants))
	for i, p := range d.Participants {
		parts[i] = domain.Participant{UserID: fromID(p.UserID), Share: p.Share, IsPaid: p.IsPaid}
	}
	return domain.Expense{
		ID:           fromID(d.ID),
		TripID:       fromID(d.TripID),
		Title:        d.Title,
		Description:  d.Description,
		Amount:       d.Amount,
		Currency:     d.Currency,
		Category:     domain.ExpenseCategory(d.Category),
		Date:         d.Date.UTC(),
		Receipt:      d.Receipt,
		PaidBy:       fromID(d.PaidBy),
		Participants: parts,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type expenseRepo struct {
	col *mongo.Collection
}

var _ repo.ExpenseRepo = (*expenseRepo)(nil)

// NewExpenseRepo constructs an ExpenseRepo over the expenses collection of db.
func NewExpenseRepo(db *mongo.Database) repo.ExpenseRepo {
	return &expenseRepo{col: db.Collection(colExpenses)}
}

func (r *expenseRepo) Create(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	ts := now()
	d := expenseDoc{
		ID:           toID(uuid.New()),
		TripID:       toID(e.TripID),
		Title:        e.Title,
		Description:  e.Description,
		Amount:       e.Amount,
		Currency:     e.Currency,
		Category:     string(e.Category),
		Date:         e.Date.UTC(),
		Receipt:      e.Receipt,
		PaidBy:       toID(e.PaidBy),
		Participants: participantDocs(e.Participants),
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	if _, err := r.col.InsertOne(ctx, d); err != nil {
		return domain.Expense{}, fmt.Errorf("mongostore.ExpenseRepo.Create: %w", translate(err))
	}
	return d.toDomain(), nil
}

func (r *expenseRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Expense, error) {
	var d expenseDoc
	if err := r.col.FindOne(ctx, byID(id)).Decode(&d); err != nil {
		return domain.Expense{}, fmt.Errorf("mongostore.ExpenseRepo.GetByID: %w", translate(err))
	}
	return d.toDomain(), nil
}

func (r *expenseRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}})

	cur, err := r.col.Find(ctx, bson.M{"tripId": toID(tripID)}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongostore.ExpenseRepo.ListByTrip: %w", err)
	}
	expenses, err := decodeAll(ctx, cur, expenseDoc.toDomain)
	if err != nil {
		return nil, fmt.Errorf("mongostore.ExpenseRepo.ListByTrip: %w", err)
	}
	return expenses, nil
}

func (r *expenseRepo) Update(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	update := bson.M{"$set": bson.M{
		"title":        e.Title,
		"description":  e.Description,
		"amount":       e.Amount,
		"currency":     e.Currency,
		"category":     string(e.Category),
		"date":         e.Date.UTC(),
		"receipt":      e.Receipt,
		"participants": participantDocs(e.Participants),
		"updatedAt":    now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d expenseDoc
	if err := r.col.FindOneAndUpdate(ctx, byID(e.ID), update, opts).Decode(&d); err != nil {
		return domain.Expense{}, fmt.Errorf("mongostore.ExpenseRepo.Update: %w", translate(err))
	}
	return d.toDomain(), nil
}

func (r *expenseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.col.DeleteOne(ctx, byID(id))
	if err != nil {
		return fmt.Errorf("mongostore.ExpenseRepo.Delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("mongostore.ExpenseRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}
