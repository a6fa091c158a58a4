package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/planoraa/planoraa-api/internal/domain"
	"github.com/planoraa/planoraa-api/internal/repo"
)

// shareToleranceCents is how many cents the sum of shares may drift from
// the amount.
const shareToleranceCents = 1

// ExpenseService implements shared-expense operations and the balance views
// derived from them.
type ExpenseService struct {
	trips    repo.TripRepo
	expenses repo.ExpenseRepo
	users    repo.UserRepo
}

// NewExpenseService constructs an ExpenseService backed by the provided repos.
func NewExpenseService(trips repo.TripRepo, expenses repo.ExpenseRepo, users repo.UserRepo) *ExpenseService {
	return &ExpenseService{trips: trips, expenses: expenses, users: users}
}

// Create records an expense paid by payerID.
func (s *ExpenseService) Create(ctx context.Context, tripID, payerID uuid.UUID, e domain.Expense) (domain.Expense, error) {
	if _, err := tripAccess(ctx, s.trips, tripID, payerID); err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Create: %w", err)
	}

	e.TripID = tripID
	e.PaidBy = payerID
	e.Title = strings.TrimSpace(e.Title)
	if e.Currency == "" {
		e.Currency = domain.DefaultCurrency
	}
	if e.Category == "" {
		e.Category = domain.ExpenseOther
	}
	if e.Date.IsZero() {
		e.Date = time.Now().UTC()
	}
	if e.Participants == nil {
		e.Participants = []domain.Participant{}
	}
	if err := validateExpense(e); err != nil {
		return domain.Expense{}, err
	}

	result, err := s.expenses.Create(ctx, e)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Create: %w", err)
	}
	if err := s.expand(ctx, &result); err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Create: %w", err)
	}
	return result, nil
}

// List returns the trip's expenses newest first, their total, and every
// member's balance.
func (s *ExpenseService) List(ctx context.Context, tripID, callerID uuid.UUID) (domain.ExpenseSummary, error) {
	trip, expenses, err := s.load(ctx, tripID, callerID)
	if err != nil {
		return domain.ExpenseSummary{}, fmt.Errorf("service.ExpenseService.List: %w", err)
	}

	var total float64
	ptrs := make([]*domain.Expense, len(expenses))
	for i := range expenses {
		total += expenses[i].Amount
		ptrs[i] = &expenses[i]
	}
	if err := s.expand(ctx, ptrs...); err != nil {
		return domain.ExpenseSummary{}, fmt.Errorf("service.ExpenseService.List: %w", err)
	}
	return domain.ExpenseSummary{
		Expenses: expenses,
		Total:    math.Round(total*100) / 100,
		Balances: domain.MemberBalances(trip.MemberIDs(), expenses),
	}, nil
}

// Balances returns every member's balance and the payments that would settle
// them.
func (s *ExpenseService) Balances(ctx context.Context, tripID, callerID uuid.UUID) (domain.BalanceSheet, error) {
	trip, expenses, err := s.load(ctx, tripID, callerID)
	if err != nil {
		return domain.BalanceSheet{}, fmt.Errorf("service.ExpenseService.Balances: %w", err)
	}

	balances := domain.MemberBalances(trip.MemberIDs(), expenses)
	return domain.BalanceSheet{
		Balances:    balances,
		Settlements: domain.SuggestSettlements(balances),
	}, nil
}

// Export flattens the trip's expenses into one row per participant.
func (s *ExpenseService) Export(ctx context.Context, tripID, callerID uuid.UUID) ([]domain.ExportRow, error) {
	_, expenses, err := s.load(ctx, tripID, callerID)
	if err != nil {
		return nil, fmt.Errorf("service.ExpenseService.Export: %w", err)
	}
	return domain.ExportRows(expenses), nil
}

// Update applies patch. Only the payer or a trip owner/admin may change an
// expense.
func (s *ExpenseService) Update(ctx context.Context, expenseID, callerID uuid.UUID, patch domain.ExpensePatch) (domain.Expense, error) {
	e, err := s.editable(ctx, expenseID, callerID)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Update: %w", err)
	}

	patch.Apply(&e)
	e.Title = strings.TrimSpace(e.Title)
	if err := validateExpense(e); err != nil {
		return domain.Expense{}, err
	}

	result, err := s.expenses.Update(ctx, e)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Update: %w", err)
	}
	if err := s.expand(ctx, &result); err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Update: %w", err)
	}
	return result, nil
}

// Delete removes an expense under the same policy as Update.
func (s *ExpenseService) Delete(ctx context.Context, expenseID, callerID uuid.UUID) error {
	if _, err := s.editable(ctx, expenseID, callerID); err != nil {
		return fmt.Errorf("service.ExpenseService.Delete: %w", err)
	}
	if err := s.expenses.Delete(ctx, expenseID); err != nil {
		return fmt.Errorf("service.ExpenseService.Delete: %w", err)
	}
	return nil
}

func (s *ExpenseService) load(ctx context.Context, tripID, callerID uuid.UUID) (domain.Trip, []domain.Expense, error) {
	trip, err := tripAccess(ctx, s.trips, tripID, callerID)
	if err != nil {
		return domain.Trip{}, nil, err
	}
	expenses, err := s.expenses.ListByTrip(ctx, tripID)
	if err != nil {
		return domain.Trip{}, nil, err
	}
	if expenses == nil {
		expenses = []domain.Expense{}
	}
	return trip, expenses, nil
}

func (s *ExpenseService) editable(ctx context.Context, expenseID, callerID uuid.UUID) (domain.Expense, error) {
	e, err := s.expenses.GetByID(ctx, expenseID)
	if err != nil {
		return domain.Expense{}, err
	}
	trip, err := s.trips.GetByID(ctx, e.TripID)
	if err != nil {
		return domain.Expense{}, err
	}
	if e.PaidBy != callerID && !domain.IsOwnerOrAdmin(trip, callerID) {
		return domain.Expense{}, fmt.Errorf("%w: only the payer or a trip admin can modify this expense", domain.ErrForbidden)
	}
	return e, nil
}

// expand fills Payer and Participant.User with one user lookup.
func (s *ExpenseService) expand(ctx context.Context, expenses ...*domain.Expense) error {
	var ids []uuid.UUID
	for _, e := range expenses {
		ids = append(ids, e.PaidBy)
		for _, p := range e.Participants {
			ids = append(ids, p.UserID)
		}
	}
	byID, err := userSummaries(ctx, s.users, ids)
	if err != nil {
		return err
	}

	for _, e := range expenses {
		e.Payer = lookup(byID, e.PaidBy)
		for i := range e.Participants {
			e.Participants[i].User = lookup(byID, e.Participants[i].UserID)
		}
	}
	return nil
}

// validateExpense enforces business rules common to both Create and Update.
// When participants are listed their shares must add up to the amount.
func validateExpense(e domain.Expense) error {
	if e.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if e.Amount < 0 {
		return fmt.Errorf("%w: amount must not be negative", domain.ErrValidation)
	}
	if !e.Category.Valid() {
		return fmt.Errorf("%w: invalid category %q", domain.ErrValidation, e.Category)
	}

	seen := make(map[uuid.UUID]bool, len(e.Participants))
	for _, p := range e.Participants {
		if p.Share < 0 {
			return fmt.Errorf("%w: shares must not be negative", domain.ErrValidation)
		}
		if seen[p.UserID] {
			return fmt.Errorf("%w: participant %s listed twice", domain.ErrValidation, p.UserID)
		}
		seen[p.UserID] = true
	}
	if len(e.Participants) > 0 && math.Abs(toCents(e.ShareTotal())-toCents(e.Amount)) > shareToleranceCents {
		return fmt.Errorf("%w: shares add up to %.2f but amount is %.2f", domain.ErrValidation, e.ShareTotal(), e.Amount)
	}
	return nil
}

func toCents(v float64) float64 {
	return math.Round(v * 100)
}
