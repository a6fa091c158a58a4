package domain

import (
	"math"
	"sort"

	"github.com/google/uuid"
)

// settleEpsilon is the smallest amount treated as a real debt.
const settleEpsilon = 0.01

// Balance is the net amount a user is owed (positive) or owes (negative)
// across a set of expenses.
type Balance struct {
	UserID uuid.UUID
	Amount float64
}

// Settlement is a suggested payment that clears part of a debt.
type Settlement struct {
	From   uuid.UUID
	To     uuid.UUID
	Amount float64
}

// ComputeBalances credits each payer with the expense amount and debits each
// participant with their share. The result is recomputed from scratch on
// every call; users that never appear are absent from the map.
func ComputeBalances(expenses []Expense) map[uuid.UUID]float64 {
	balances := make(map[uuid.UUID]float64)
	for _, e := range expenses {
		balances[e.PaidBy] += e.Amount
		for _, p := range e.Participants {
			balances[p.UserID] -= p.Share
		}
	}
	return balances
}

// MemberBalances returns one Balance per member id (zero when the member has
// no expenses), followed by any other user that appears in expenses, sorted
// by id. Amounts are rounded to cents.
func MemberBalances(memberIDs []uuid.UUID, expenses []Expense) []Balance {
	raw := ComputeBalances(expenses)

	out := make([]Balance, 0, len(raw)+len(memberIDs))
	seen := make(map[uuid.UUID]bool, len(memberIDs))
	for _, id := range memberIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, Balance{UserID: id, Amount: roundCents(raw[id])})
	}

	var extra []Balance
	for id, amt := range raw {
		if !seen[id] {
			extra = append(extra, Balance{UserID: id, Amount: roundCents(amt)})
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i].UserID.String() < extra[j].UserID.String() })

	return append(out, extra...)
}

// SuggestSettlements pairs the largest debtor with the largest creditor until
// every balance is within a cent of zero. Ties are broken by user id so the
// output is deterministic.
func SuggestSettlements(balances []Balance) []Settlement {
	type party struct {
		id     uuid.UUID
		amount float64
	}
	var debtors, creditors []party
	for _, b := range balances {
		switch {
		case b.Amount < -settleEpsilon:
			debtors = append(debtors, party{b.UserID, -b.Amount})
		case b.Amount > settleEpsilon:
			creditors = append(creditors, party{b.UserID, b.Amount})
		}
	}
	byAmount := func(ps []party) func(i, j int) bool {
		return func(i, j int) bool {
			if ps[i].amount != ps[j].amount {
				return ps[i].amount > ps[j].amount
			}
			return ps[i].id.String() < ps[j].id.String()
		}
	}
	sort.Slice(debtors, byAmount(debtors))
	sort.Slice(creditors, byAmount(creditors))

	settlements := []Settlement{}
	d, c := 0, 0
	for d < len(debtors) && c < len(creditors) {
		amount := math.Min(debtors[d].amount, creditors[c].amount)
		if amount > settleEpsilon {
			settlements = append(settlements, Settlement{
				From:   debtors[d].id,
				To:     creditors[c].id,
				Amount: roundCents(amount),
			})
		}
		debtors[d].amount -= amount
		creditors[c].amount -= amount
		if debtors[d].amount < settleEpsilon {
			d++
		}
		if creditors[c].amount < settleEpsilon {
			c++
		}
	}
	return settlements
}

func roundCents(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0 // normalise -0
	}
	return r
}

// BalanceSheet is the per-trip view of who owes whom.
type BalanceSheet struct {
	Balances    []Balance
	Settlements []Settlement
}
