package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/planoraa/planoraa-api/internal/domain"
)

// ExpenseRepo defines the persistence operations for expenses and their
// participant shares. Every expense returned carries its Participants.
type ExpenseRepo interface {
	// Create inserts the expense and its participants atomically.
	Create(ctx context.Context, e domain.Expense) (domain.Expense, error)

	// GetByID returns domain.ErrNotFound if no expense with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Expense, error)

	// ListByTrip returns the trip's expenses, most recent date first.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error)

	// Update overwrites the expense fields and replaces its participant list.
	Update(ctx context.Context, e domain.Expense) (domain.Expense, error)

	Delete(ctx context.Context, id uuid.UUID) error
}

type pgExpenseRepo struct {
	db db
}

// NewExpenseRepo constructs an ExpenseRepo backed by the provided db connection.
func NewExpenseRepo(db db) ExpenseRepo {
	return &pgExpenseRepo{db: db}
}

const expenseColumns = `id, trip_id, title, description, amount, currency, category,
	expense_date, receipt, paid_by, created_at, updated_at`

func (r *pgExpenseRepo) Create(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	const q = `
		INSERT INTO expenses (trip_id, title, description, amount, currency, category,
		                      expense_date, receipt, paid_by)
		VALUES (@trip_id, @title, @description, @amount, @currency, @category,
		        @expense_date, @receipt, @paid_by)
		RETURNING ` + expenseColumns

	args := expenseArgs(e)
	args["trip_id"] = e.TripID
	args["paid_by"] = e.PaidBy

	var result domain.Expense
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		if result, err = scanExpense(tx.QueryRow(ctx, q, args)); err != nil {
			return err
		}
		if err = insertParticipants(ctx, tx, result.ID, e.Participants); err != nil {
			return err
		}
		result.Participants = participantsOrEmpty(e.Participants)
		return nil
	})
	if err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.Create: %w", translate(err))
	}
	return result, nil
}

func (r *pgExpenseRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Expense, error) {
	q := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = @id`

	e, err := scanExpense(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.GetByID: %w", translate(err))
	}

	parts, err := r.loadParticipants(ctx, []uuid.UUID{e.ID})
	if err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.GetByID: %w", err)
	}
	e.Participants = participantsOrEmpty(parts[e.ID])
	return e, nil
}

func (r *pgExpenseRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error) {
	q := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE trip_id = @trip_id
		ORDER BY expense_date DESC, created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ExpenseRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ExpenseRepo.ListByTrip: scan: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ExpenseRepo.ListByTrip: rows: %w", err)
	}

	ids := make([]uuid.UUID, len(expenses))
	for i, e := range expenses {
		ids[i] = e.ID
	}
	parts, err := r.loadParticipants(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("repo.ExpenseRepo.ListByTrip: %w", err)
	}
	for i := range expenses {
		expenses[i].Participants = participantsOrEmpty(parts[expenses[i].ID])
	}
	return expenses, nil
}

func (r *pgExpenseRepo) Update(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	const q = `
		UPDATE expenses
		SET title        = @title,
		    description  = @description,
		    amount       = @amount,
		    currency     = @currency,
		    category     = @category,
		    expense_date = @expense_date,
		    receipt      = @receipt,
		    updated_at   = now()
		WHERE id = @id
		RETURNING ` + expenseColumns

	const clear = `DELETE FROM expense_participants WHERE expense_id = @id`

	args := expenseArgs(e)
	args["id"] = e.ID

	var result domain.Expense
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		if result, err = scanExpense(tx.QueryRow(ctx, q, args)); err != nil {
			return err
		}
		if _, err = tx.Exec(ctx, clear, pgx.NamedArgs{"id": e.ID}); err != nil {
			return err
		}
		if err = insertParticipants(ctx, tx, e.ID, e.Participants); err != nil {
			return err
		}
		result.Participants = participantsOrEmpty(e.Participants)
		return nil
	})
	if err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.Update: %w", translate(err))
	}
	return result, nil
}

func (r *pgExpenseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM expenses WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.ExpenseRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ExpenseRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// insertParticipants writes the participant rows in one batch round trip.
func insertParticipants(ctx context.Context, tx pgx.Tx, expenseID uuid.UUID, parts []domain.Participant) error {
	if len(parts) == 0 {
		return nil
	}

	const q = `
		INSERT INTO expense_participants (expense_id, user_id, share, is_paid, position)
		VALUES (@expense_id, @user_id, @share, @is_paid, @position)`

	batch := &pgx.Batch{}
	for i, p := range parts {
		batch.Queue(q, pgx.NamedArgs{
			"expense_id": expenseID,
			"user_id":    p.UserID,
			"share":      p.Share,
			"is_paid":    p.IsPaid,
			"position":   i,
		})
	}
	return tx.SendBatch(ctx, batch).Close()
}

func (r *pgExpenseRepo) loadParticipants(ctx context.Context, expenseIDs []uuid.UUID) (map[uuid.UUID][]domain.Participant, error) {
	out := make(map[uuid.UUID][]domain.Participant, len(expenseIDs))
	if len(expenseIDs) == 0 {
		return out, nil
	}

	const q = `
		SELECT expense_id, user_id, share, is_paid
		FROM expense_participants
		WHERE expense_id = ANY(@ids::uuid[])
		ORDER BY position`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"ids": expenseIDs})
	if err != nil {
		return nil, fmt.Errorf("load participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			expenseID uuid.UUID
			p         domain.Participant
		)
		if err := rows.Scan(&expenseID, &p.UserID, &p.Share, &p.IsPaid); err != nil {
			return nil, fmt.Errorf("load participants: scan: %w", err)
		}
		out[expenseID] = append(out[expenseID], p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load participants: rows: %w", err)
	}
	return out, nil
}

func participantsOrEmpty(parts []domain.Participant) []domain.Participant {
	if parts == nil {
		return []domain.Participant{}
	}
	return parts
}

func expenseArgs(e domain.Expense) pgx.NamedArgs {
	return pgx.NamedArgs{
		"title":        e.Title,
		"description":  e.Description,
		"amount":       e.Amount,
		"currency":     e.Currency,
		"category":     string(e.Category),
		"expense_date": e.Date,
		"receipt":      e.Receipt,
	}
}

func scanExpense(s scanner) (domain.Expense, error) {
	var e domain.Expense
	err := s.Scan(&e.ID, &e.TripID, &e.Title, &e.Description, &e.Amount, &e.Currency,
		&e.Category, &e.Date, &e.Receipt, &e.PaidBy, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}
