package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExpenseCategory classifies a cost record.
type ExpenseCategory string

const (
	ExpenseAccommodation  ExpenseCategory = "ACCOMMODATION"
	ExpenseTransportation ExpenseCategory = "TRANSPORTATION"
	ExpenseFood           ExpenseCategory = "FOOD"
	ExpenseActivities     ExpenseCategory = "ACTIVITIES"
	ExpenseShopping       ExpenseCategory = "SHOPPING"
	ExpenseOther          ExpenseCategory = "OTHER"
)

// Valid reports whether c is a known expense category.
func (c ExpenseCategory) Valid() bool {
	switch c {
	case ExpenseAccommodation, ExpenseTransportation, ExpenseFood, ExpenseActivities,
		ExpenseShopping, ExpenseOther:
		return true
	}
	return false
}

// Participant is one user's share of an expense. User is populated only
// when the service expands participants to profiles.
type Participant struct {
	UserID uuid.UUID
	Share  float64
	IsPaid bool
	User   *UserSummary
}

// Expense is a cost paid by one member and shared among participants.
type Expense struct {
	ID           uuid.UUID
	TripID       uuid.UUID
	Title        string
	Description  string
	Amount       float64
	Currency     string
	Category     ExpenseCategory
	Date         time.Time
	Receipt      string
	PaidBy       uuid.UUID
	Payer        *UserSummary
	Participants []Participant
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ShareTotal returns the sum of all participant shares.
func (e Expense) ShareTotal() float64 {
	var total float64
	for _, p := range e.Participants {
		total += p.Share
	}
	return total
}

// ExpensePatch carries the optional fields of an expense update.
// A non-nil Participants replaces the whole participant list.
type ExpensePatch struct {
	Title        *string
	Description  *string
	Amount       *float64
	Currency     *string
	Category     *ExpenseCategory
	Date         *time.Time
	Receipt      *string
	Participants *[]Participant
}

// Apply copies every non-nil field of p onto e.
func (p ExpensePatch) Apply(e *Expense) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Currency != nil {
		e.Currency = *p.Currency
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Receipt != nil {
		e.Receipt = *p.Receipt
	}
	if p.Participants != nil {
		e.Participants = append([]Participant(nil), (*p.Participants)...)
	}
}

// ExpenseSummary is the list view of a trip's expenses: the records, their
// total, and the balances derived from them.
type ExpenseSummary struct {
	Expenses []Expense
	Total    float64
	Balances []Balance
}

// ExportRow is one row of the flat expense export: one row per participant,
// with expense fields repeated. Expenses without participants yield one row
// with a zero ParticipantID.
type ExportRow struct {
	ExpenseID     uuid.UUID
	Title         string
	Category      ExpenseCategory
	Date          time.Time
	Amount        float64
	Currency      string
	PaidBy        uuid.UUID
	ParticipantID uuid.UUID
	Share         float64
	IsPaid        bool
}

// ExportRows flattens expenses into export rows in the order given.
func ExportRows(expenses []Expense) []ExportRow {
	rows := []ExportRow{}
	for _, e := range expenses {
		base := ExportRow{
			ExpenseID: e.ID,
			Title:     e.Title,
			Category:  e.Category,
			Date:      e.Date,
			Amount:    e.Amount,
			Currency:  e.Currency,
			PaidBy:    e.PaidBy,
		}
		if len(e.Participants) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, p := range e.Participants {
			r := base
			r.ParticipantID = p.UserID
			r.Share = p.Share
			r.IsPaid = p.IsPaid
			rows = append(rows, r)
		}
	}
	return rows
}
