package api

import (
	"time"

	"github.com/google/uuid"
)

// Participant is one user's share of an expense. User is set on responses
// only.
type Participant struct {
	UserID uuid.UUID    `json:"userId" validate:"required"`
	Share  float64      `json:"share" validate:"gte=0"`
	IsPaid bool         `json:"isPaid"`
	User   *UserSummary `json:"user,omitempty"`
}

// CreateExpenseRequest is the body of POST /trips/{id}/expenses. When
// participants are given their shares must add up to amount.
type CreateExpenseRequest struct {
	Title        string        `json:"title" validate:"required"`
	Description  string        `json:"description,omitempty"`
	Amount       float64       `json:"amount" validate:"gte=0"`
	Currency     string        `json:"currency,omitempty" validate:"omitempty,len=3"`
	Category     string        `json:"category,omitempty" validate:"omitempty,oneof=ACCOMMODATION TRANSPORTATION FOOD ACTIVITIES SHOPPING OTHER"`
	Date         *time.Time    `json:"date,omitempty"`
	Receipt      string        `json:"receipt,omitempty"`
	Participants []Participant `json:"participants,omitempty" validate:"dive"`
}

// UpdateExpenseRequest is the body of PUT /expenses/{id}. Omitted fields are
// left unchanged; a present participants list replaces the old one.
type UpdateExpenseRequest struct {
	Title        *string        `json:"title,omitempty" validate:"omitempty,min=1"`
	Description  *string        `json:"description,omitempty"`
	Amount       *float64       `json:"amount,omitempty" validate:"omitempty,gte=0"`
	Currency     *string        `json:"currency,omitempty" validate:"omitempty,len=3"`
	Category     *string        `json:"category,omitempty" validate:"omitempty,oneof=ACCOMMODATION TRANSPORTATION FOOD ACTIVITIES SHOPPING OTHER"`
	Date         *time.Time     `json:"date,omitempty"`
	Receipt      *string        `json:"receipt,omitempty"`
	Participants *[]Participant `json:"participants,omitempty" validate:"omitempty,dive"`
}

// Expense is a shared cost.
type Expense struct {
	ID           uuid.UUID     `json:"id"`
	TripID       uuid.UUID     `json:"tripId"`
	Title        string        `json:"title"`
	Description  string        `json:"description,omitempty"`
	Amount       float64       `json:"amount"`
	Currency     string        `json:"currency"`
	Category     string        `json:"category"`
	Date         time.Time     `json:"date"`
	Receipt      string        `json:"receipt,omitempty"`
	PaidBy       uuid.UUID     `json:"paidBy"`
	Payer        *UserSummary  `json:"payer,omitempty"`
	Participants []Participant `json:"participants"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// Balance is what a user is owed (positive) or owes (negative).
type Balance struct {
	UserID uuid.UUID `json:"userId"`
	Amount float64   `json:"amount"`
}

// Settlement is a suggested payment between two members.
type Settlement struct {
	From   uuid.UUID `json:"from"`
	To     uuid.UUID `json:"to"`
	Amount float64   `json:"amount"`
}

// ExpenseData wraps a single expense.
type ExpenseData struct {
	Expense Expense `json:"expense"`
}

// ExpenseList is returned by GET /trips/{id}/expenses.
type ExpenseList struct {
	Expenses []Expense `json:"expenses"`
	Count    int       `json:"count"`
	Total    float64   `json:"total"`
	Balances []Balance `json:"balances"`
}

// BalanceSheet is returned by GET /trips/{id}/balances.
type BalanceSheet struct {
	Balances    []Balance    `json:"balances"`
	Settlements []Settlement `json:"settlements"`
}

// ExportRow is one line of GET /trips/{id}/expenses/export.
type ExportRow struct {
	ExpenseID     uuid.UUID  `json:"expenseId"`
	Title         string     `json:"title"`
	Category      string     `json:"category"`
	Date          time.Time  `json:"date"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	PaidBy        uuid.UUID  `json:"paidBy"`
	ParticipantID *uuid.UUID `json:"participantId,omitempty"`
	Share         float64    `json:"share"`
	IsPaid        bool       `json:"isPaid"`
}
