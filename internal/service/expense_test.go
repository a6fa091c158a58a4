package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planoraa/planoraa-api/internal/domain"
	"github.com/planoraa/planoraa-api/internal/service"
)

func splitExpense(amount float64, ids ...uuid.UUID) domain.Expense {
	parts := make([]domain.Participant, len(ids))
	for i, id := range ids {
		parts[i] = domain.Participant{UserID: id, Share: amount / float64(len(ids))}
	}
	return domain.Expense{Title: "Dinner", Amount: amount, Participants: parts}
}

// ---- Create ----------------------------------------------------------------

func TestExpenseService_Create_AppliesDefaults(t *testing.T) {
	owner, friend := uuid.New(), uuid.New()
	trip := tripWithRoster(owner, domain.Member{UserID: friend, Role: domain.RoleMember, Status: domain.MemberAccepted})
	expenses := &mockExpenseRepo{
		create: func(_ context.Context, e domain.Expense) (domain.Expense, error) { return e, nil },
	}
	svc := service.NewExpenseService(tripsReturning(trip), expenses, &mockUserRepo{})

	got, err := svc.Create(context.Background(), trip.ID, friend, splitExpense(90, owner, friend))

	require.NoError(t, err)
	assert.Equal(t, friend, got.PaidBy)
	assert.Equal(t, domain.DefaultCurrency, got.Currency)
	assert.Equal(t, domain.ExpenseOther, got.Category)
	assert.False(t, got.Date.IsZero())
}

func TestExpenseService_Create_Validation(t *testing.T) {
	owner, friend := uuid.New(), uuid.New()
	trip := tripWithRoster(owner)
	tests := []struct {
		name string
		in   domain.Expense
	}{
		{"blank title", domain.Expense{Title: " ", Amount: 10}},
		{"negative amount", domain.Expense{Title: "Taxi", Amount: -1}},
		{"unknown category", domain.Expense{Title: "Taxi", Amount: 10, Category: "BRIBES"}},
		{"shares do not add up", domain.Expense{Title: "Taxi", Amount: 10, Participants: []domain.Participant{
			{UserID: owner, Share: 4}, {UserID: friend, Share: 4},
		}}},
		{"negative share", domain.Expense{Title: "Taxi", Amount: 10, Participants: []domain.Participant{
			{UserID: owner, Share: 12}, {UserID: friend, Share: -2},
		}}},
		{"duplicate participant", domain.Expense{Title: "Taxi", Amount: 10, Participants: []domain.Participant{
			{UserID: owner, Share: 5}, {UserID: owner, Share: 5},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := service.NewExpenseService(tripsReturning(trip), &mockExpenseRepo{}, &mockUserRepo{})

			_, err := svc.Create(context.Background(), trip.ID, owner, tt.in)

			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestExpenseService_Create_ShareRounding(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	trip := tripWithRoster(a)
	split := func(amount float64, shares ...float64) domain.Expense {
		ids := []uuid.UUID{a, b, c}
		e := domain.Expense{Title: "Museum", Amount: amount}
		for i, sh := range shares {
			e.Participants = append(e.Participants, domain.Participant{UserID: ids[i], Share: sh})
		}
		return e
	}

	tests := []struct {
		name    string
		in      domain.Expense
		wantErr bool
	}{
		{"three way split of 100", split(100, 33.33, 33.33, 33.33), false},
		{"three way split of 1", split(1, 0.33, 0.33, 0.33), false},
		{"three way split of 10", split(10, 3.33, 3.33, 3.33), false},
		{"one cent over", split(20, 10.01, 10), false},
		{"two cents short", split(100, 33.33, 33.33, 33.32), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expenses := &mockExpenseRepo{
				create: func(_ context.Context, e domain.Expense) (domain.Expense, error) { return e, nil },
			}
			svc := service.NewExpenseService(tripsReturning(trip), expenses, &mockUserRepo{})

			_, err := svc.Create(context.Background(), trip.ID, a, tt.in)

			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestExpenseService_Create_ExpandsUsers(t *testing.T) {
	payer, friend := uuid.New(), uuid.New()
	trip := tripWithRoster(payer, domain.Member{UserID: friend, Role: domain.RoleMember, Status: domain.MemberAccepted})
	expenses := &mockExpenseRepo{
		create: func(_ context.Context, e domain.Expense) (domain.Expense, error) { return e, nil },
	}
	var asked []uuid.UUID
	users := &mockUserRepo{
		listByIDs: func(_ context.Context, ids []uuid.UUID) ([]domain.User, error) {
			asked = ids
			return []domain.User{
				{ID: payer, Email: "ana@example.com", FirstName: "Ana"},
				{ID: friend, Email: "rui@example.com", FirstName: "Rui"},
			}, nil
		},
	}
	svc := service.NewExpenseService(tripsReturning(trip), expenses, users)

	got, err := svc.Create(context.Background(), trip.ID, payer, splitExpense(40, payer, friend))

	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{payer, payer, friend}, asked)
	require.NotNil(t, got.Payer)
	assert.Equal(t, "Ana", got.Payer.FirstName)
	require.Len(t, got.Participants, 2)
	require.NotNil(t, got.Participants[1].User)
	assert.Equal(t, "rui@example.com", got.Participants[1].User.Email)
}

func TestExpenseService_List_UnknownUserLeftBare(t *testing.T) {
	owner, ghost := uuid.New(), uuid.New()
	trip := tripWithRoster(owner)
	taxi := splitExpense(10, owner, ghost)
	taxi.PaidBy = owner
	expenses := &mockExpenseRepo{
		listByTrip: func(context.Context, uuid.UUID) ([]domain.Expense, error) {
			return []domain.Expense{taxi}, nil
		},
	}
	users := &mockUserRepo{
		listByIDs: func(context.Context, []uuid.UUID) ([]domain.User, error) {
			return []domain.User{{ID: owner, FirstName: "Ana"}}, nil
		},
	}
	svc := service.NewExpenseService(tripsReturning(trip), expenses, users)

	got, err := svc.List(context.Background(), trip.ID, owner)

	require.NoError(t, err)
	require.Len(t, got.Expenses, 1)
	require.NotNil(t, got.Expenses[0].Payer)
	assert.Equal(t, "Ana", got.Expenses[0].Payer.FirstName)
	assert.Nil(t, got.Expenses[0].Participants[1].User)
}

// ---- List / Balances / Export ----------------------------------------------

func TestExpenseService_List_TotalsAndBalances(t *testing.T) {
	u1, u2, u3 := uuid.New(), uuid.New(), uuid.New()
	trip := tripWithRoster(u1,
		domain.Member{UserID: u2, Role: domain.RoleMember, Status: domain.MemberAccepted},
		domain.Member{UserID: u3, Role: domain.RoleMember, Status: domain.MemberPending},
	)
	dinner := splitExpense(90, u1, u2, u3)
	dinner.PaidBy = u1
	expenses := &mockExpenseRepo{
		listByTrip: func(context.Context, uuid.UUID) ([]domain.Expense, error) {
			return []domain.Expense{dinner}, nil
		},
	}
	svc := service.NewExpenseService(tripsReturning(trip), expenses, &mockUserRepo{})

	got, err := svc.List(context.Background(), trip.ID, u2)

	require.NoError(t, err)
	assert.Equal(t, 90.0, got.Total)
	require.Len(t, got.Balances, 3)
	assert.Equal(t, domain.Balance{UserID: u1, Amount: 60}, got.Balances[0])
	assert.Equal(t, domain.Balance{UserID: u2, Amount: -30}, got.Balances[1])
	assert.Equal(t, domain.Balance{UserID: u3, Amount: -30}, got.Balances[2])
}

func TestExpenseService_List_NoExpenses(t *testing.T) {
	owner := uuid.New()
	trip := tripWithRoster(owner)
	expenses := &mockExpenseRepo{
		listByTrip: func(context.Context, uuid.UUID) ([]domain.Expense, error) { return nil, nil },
	}
	svc := service.NewExpenseService(tripsReturning(trip), expenses, &mockUserRepo{})

	got, err := svc.List(context.Background(), trip.ID, owner)

	require.NoError(t, err)
	assert.NotNil(t, got.Expenses)
	assert.Zero(t, got.Total)
	require.Len(t, got.Balances, 1)
	assert.Zero(t, got.Balances[0].Amount)
}

func TestExpenseService_Balances_SuggestsSettlements(t *testing.T) {
	u1, u2 := uuid.New(), uuid.New()
	trip := tripWithRoster(u1, domain.Member{UserID: u2, Role: domain.RoleMember, Status: domain.MemberAccepted})
	hotel := splitExpense(200, u1, u2)
	hotel.PaidBy = u1
	expenses := &mockExpenseRepo{
		listByTrip: func(context.Context, uuid.UUID) ([]domain.Expense, error) {
			return []domain.Expense{hotel}, nil
		},
	}
	svc := service.NewExpenseService(tripsReturning(trip), expenses, &mockUserRepo{})

	got, err := svc.Balances(context.Background(), trip.ID, u1)

	require.NoError(t, err)
	require.Len(t, got.Settlements, 1)
	assert.Equal(t, domain.Settlement{From: u2, To: u1, Amount: 100}, got.Settlements[0])
}

func TestExpenseService_Export_Forbidden(t *testing.T) {
	trip := tripWithRoster(uuid.New())
	svc := service.NewExpenseService(tripsReturning(trip), &mockExpenseRepo{}, &mockUserRepo{})

	_, err := svc.Export(context.Background(), trip.ID, uuid.New())

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ---- Update / Delete -------------------------------------------------------

func TestExpenseService_Update_Policy(t *testing.T) {
	owner, payer, other := uuid.New(), uuid.New(), uuid.New()
	trip := tripWithRoster(owner,
		domain.Member{UserID: payer, Role: domain.RoleMember, Status: domain.MemberAccepted},
		domain.Member{UserID: other, Role: domain.RoleMember, Status: domain.MemberAccepted},
	)
	stored := splitExpense(50, payer, other)
	stored.ID = uuid.New()
	stored.TripID = trip.ID
	stored.PaidBy = payer
	stored.Category = domain.ExpenseFood
	stored.Date = time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC)

	expenses := &mockExpenseRepo{
		getByID: func(context.Context, uuid.UUID) (domain.Expense, error) { return stored, nil },
		update:  func(_ context.Context, e domain.Expense) (domain.Expense, error) { return e, nil },
		delete:  func(context.Context, uuid.UUID) error { return nil },
	}
	svc := service.NewExpenseService(tripsReturning(trip), expenses, &mockUserRepo{})

	parts := []domain.Participant{{UserID: payer, Share: 60}}
	amount := 60.0
	got, err := svc.Update(context.Background(), stored.ID, payer, domain.ExpensePatch{Amount: &amount, Participants: &parts})
	require.NoError(t, err)
	assert.Equal(t, 60.0, got.Amount)
	assert.Len(t, got.Participants, 1)

	// Changing the amount alone breaks the share sum.
	_, err = svc.Update(context.Background(), stored.ID, owner, domain.ExpensePatch{Amount: &amount})
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = svc.Delete(context.Background(), stored.ID, other)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.NoError(t, svc.Delete(context.Background(), stored.ID, owner))
}
