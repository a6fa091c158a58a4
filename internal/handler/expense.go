package handler

import (
	"net/http"

	"github.com/planoraa/planoraa-api/internal/domain"
	"github.com/planoraa/planoraa-api/pkg/api"
)

// CreateExpense handles POST /trips/{tripID}/expenses. The caller is
// recorded as payer.
func (s *Server) CreateExpense(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "tripID")
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	var req api.CreateExpenseRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err, "")
		return
	}

	created, err := s.expenses.Create(r.Context(), tripID, caller(r), requestToExpense(req))
	if err != nil {
		s.fail(w, r, err, "Trip not found")
		return
	}
	ok(w, http.StatusCreated, "Expense created successfully", api.ExpenseData{Expense: expenseToResponse(created)})
}

// ListExpenses handles GET /trips/{tripID}/expenses.
func (s *Server) ListExpenses(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "tripID")
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	summary, err := s.expenses.List(r.Context(), tripID, caller(r))
	if err != nil {
		s.fail(w, r, err, "Trip not found")
		return
	}
	data := make([]api.Expense, len(summary.Expenses))
	for i, e := range summary.Expenses {
		data[i] = expenseToResponse(e)
	}
	ok(w, http.StatusOK, "", api.ExpenseList{
		Expenses: data,
		Count:    len(data),
		Total:    summary.Total,
		Balances: balancesToResponse(summary.Balances),
	})
}

// GetBalances handles GET /trips/{tripID}/balances.
func (s *Server) GetBalances(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "tripID")
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	sheet, err := s.expenses.Balances(r.Context(), tripID, caller(r))
	if err != nil {
		s.fail(w, r, err, "Trip not found")
		return
	}
	settlements := make([]api.Settlement, len(sheet.Settlements))
	for i, st := range sheet.Settlements {
		settlements[i] = api.Settlement{From: st.From, To: st.To, Amount: st.Amount}
	}
	ok(w, http.StatusOK, "", api.BalanceSheet{
		Balances:    balancesToResponse(sheet.Balances),
		Settlements: settlements,
	})
}

// UpdateExpense handles PUT /expenses/{expenseID}.
func (s *Server) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	expenseID, err := pathID(r, "expenseID")
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	var req api.UpdateExpenseRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err, "")
		return
	}

	updated, err := s.expenses.Update(r.Context(), expenseID, caller(r), requestToExpensePatch(req))
	if err != nil {
		s.fail(w, r, err, "Expense not found")
		return
	}
	ok(w, http.StatusOK, "Expense updated successfully", api.ExpenseData{Expense: expenseToResponse(updated)})
}

// DeleteExpense handles DELETE /expenses/{expenseID}.
func (s *Server) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	expenseID, err := pathID(r, "expenseID")
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	if err := s.expenses.Delete(r.Context(), expenseID, caller(r)); err != nil {
		s.fail(w, r, err, "Expense not found")
		return
	}
	ok(w, http.StatusOK, "Expense deleted successfully", nil)
}

// --- mapping helpers --------------------------------------------------------

func requestToExpense(req api.CreateExpenseRequest) domain.Expense {
	e := domain.Expense{
		Title:        req.Title,
		Description:  req.Description,
		Amount:       req.Amount,
		Currency:     req.Currency,
		Category:     domain.ExpenseCategory(req.Category),
		Receipt:      req.Receipt,
		Participants: participantsToDomain(req.Participants),
	}
	if req.Date != nil {
		e.Date = *req.Date
	}
	return e
}

func requestToExpensePatch(req api.UpdateExpenseRequest) domain.ExpensePatch {
	p := domain.ExpensePatch{
		Title:       req.Title,
		Description: req.Description,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Date:        req.Date,
		Receipt:     req.Receipt,
	}
	if req.Category != nil {
		c := domain.ExpenseCategory(*req.Category)
		p.Category = &c
	}
	if req.Participants != nil {
		parts := participantsToDomain(*req.Participants)
		p.Participants = &parts
	}
	return p
}

func participantsToDomain(in []api.Participant) []domain.Participant {
	out := make([]domain.Participant, len(in))
	for i, p := range in {
		out[i] = domain.Participant{UserID: p.UserID, Share: p.Share, IsPaid: p.IsPaid}
	}
	return out
}

func expenseToResponse(e domain.Expense) api.Expense {
	parts := make([]api.Participant, len(e.Participants))
	for i, p := range e.Participants {
		parts[i] = api.Participant{UserID: p.UserID, Share: p.Share, IsPaid: p.IsPaid, User: summaryToResponse(p.User)}
	}
	return api.Expense{
		ID:           e.ID,
		TripID:       e.TripID,
		Title:        e.Title,
		Description:  e.Description,
		Amount:       e.Amount,
		Currency:     e.Currency,
		Category:     string(e.Category),
		Date:         e.Date,
		Receipt:      e.Receipt,
		PaidBy:       e.PaidBy,
		Payer:        summaryToResponse(e.Payer),
		Participants: parts,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func balancesToResponse(in []domain.Balance) []api.Balance {
	out := make([]api.Balance, len(in))
	for i, b := range in {
		out[i] = api.Balance{UserID: b.UserID, Amount: b.Amount}
	}
	return out
}
