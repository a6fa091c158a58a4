package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/planoraa/planoraa-api/internal/domain"
	"github.com/planoraa/planoraa-api/pkg/api"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"expense_id", "title", "category", "date", "amount", "currency",
	"paid_by", "participant_id", "share", "is_paid",
}

// ExportExpenses handles GET /trips/{tripID}/expenses/export.
// It returns one row per expense participant. Use ?format=csv to receive
// CSV; default is a JSON envelope.
func (s *Server) ExportExpenses(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "tripID")
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	rows, err := s.expenses.Export(r.Context(), tripID, caller(r))
	if err != nil {
		s.fail(w, r, err, "Trip not found")
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		body := buildCSV(rows)
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="expenses-`+tripID.String()+`.csv"`)
		w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
		w.WriteHeader(http.StatusOK)
		_, _ = body.WriteTo(w)
		return
	}

	out := make([]api.ExportRow, len(rows))
	for i, row := range rows {
		out[i] = domainRowToAPIRow(row)
	}
	ok(w, http.StatusOK, "", out)
}

// buildCSV encodes domain rows as CSV with a header line.
func buildCSV(rows []domain.ExportRow) *bytes.Buffer {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	// bytes.Buffer writes never fail.
	_ = w.Write(csvHeaders)
	for _, r := range rows {
		_ = w.Write(domainRowToCSVRecord(r))
	}
	w.Flush()
	return &buf
}

// domainRowToAPIRow maps a domain.ExportRow to its wire form. The zero
// participant id of a participant-less expense is omitted.
func domainRowToAPIRow(r domain.ExportRow) api.ExportRow {
	row := api.ExportRow{
		ExpenseID: r.ExpenseID,
		Title:     r.Title,
		Category:  string(r.Category),
		Date:      r.Date,
		Amount:    r.Amount,
		Currency:  r.Currency,
		PaidBy:    r.PaidBy,
		Share:     r.Share,
		IsPaid:    r.IsPaid,
	}
	if r.ParticipantID != uuid.Nil {
		id := r.ParticipantID
		row.ParticipantID = &id
	}
	return row
}

// domainRowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// Amounts use two decimals; a missing participant is an empty column.
func domainRowToCSVRecord(r domain.ExportRow) []string {
	participant := ""
	if r.ParticipantID != uuid.Nil {
		participant = r.ParticipantID.String()
	}
	return []string{
		r.ExpenseID.String(),
		r.Title,
		string(r.Category),
		r.Date.UTC().Format(time.RFC3339),
		strconv.FormatFloat(r.Amount, 'f', 2, 64),
		r.Currency,
		r.PaidBy.String(),
		participant,
		strconv.FormatFloat(r.Share, 'f', 2, 64),
		strconv.FormatBool(r.IsPaid),
	}
}
