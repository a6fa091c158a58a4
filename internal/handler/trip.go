package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/planoraa/planoraa-api/internal/domain"
	"github.com/planoraa/planoraa-api/pkg/api"
)

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req api.CreateTripRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err, "")
		return
	}

	created, err := s.trips.Create(r.Context(), caller(r), requestToTrip(req))
	if err != nil {
		s.fail(w, r, err, "Trip not found")
		return
	}
	ok(w, http.StatusCreated, "Trip created successfully", api.TripData{Trip: tripToResponse(created)})
}

// ListTrips handles GET /trips.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.ListForUser(r.Context(), caller(r))
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	data := make([]api.Trip, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	ok(w, http.StatusOK, "", api.TripList{Trips: data, Count: len(data)})
}

// GetTrip handles GET /trips/{tripID}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "tripID")
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	trip, err := s.trips.Get(r.Context(), tripID, caller(r))
	if err != nil {
		s.fail(w, r, err, "Trip not found")
		return
	}
	ok(w, http.StatusOK, "", api.TripData{Trip: tripToResponse(trip)})
}

// UpdateTrip handles PUT /trips/{tripID}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "tripID")
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	var req api.UpdateTripRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err, "")
		return
	}

	updated, err := s.trips.Update(r.Context(), tripID, caller(r), requestToTripPatch(req))
	if err != nil {
		s.fail(w, r, err, "Trip not found")
		return
	}
	ok(w, http.StatusOK, "Trip updated successfully", api.TripData{Trip: tripToResponse(updated)})
}

// DeleteTrip handles DELETE /trips/{tripID}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "tripID")
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	if err := s.trips.Delete(r.Context(), tripID, caller(r)); err != nil {
		s.fail(w, r, err, "Trip not found")
		return
	}
	ok(w, http.StatusOK, "Trip deleted successfully", nil)
}

// AddMember handles POST /trips/{tripID}/members.
func (s *Server) AddMember(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "tripID")
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	var req api.AddMemberRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err, "")
		return
	}

	trip, err := s.trips.AddMember(r.Context(), tripID, caller(r), domain.NewMember{
		UserID: req.UserID,
		Email:  string(req.Email),
		Role:   domain.MemberRole(req.Role),
	})
	if err != nil {
		s.fail(w, r, err, "Trip not found")
		return
	}
	ok(w, http.StatusOK, "Member added successfully", api.TripData{Trip: tripToResponse(trip)})
}

// RespondToInvite handles PUT /trips/{tripID}/members/me.
func (s *Server) RespondToInvite(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "tripID")
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	var req api.RespondInviteRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err, "")
		return
	}

	trip, err := s.trips.RespondToInvite(r.Context(), tripID, caller(r), *req.Accept)
	if err != nil {
		s.fail(w, r, err, "Trip not found")
		return
	}
	message := "Invitation declined"
	if *req.Accept {
		message = "Invitation accepted"
	}
	ok(w, http.StatusOK, message, api.TripData{Trip: tripToResponse(trip)})
}

// --- mapping helpers --------------------------------------------------------

// requestToTrip converts a CreateTripRequest body into a domain.Trip.
func requestToTrip(req api.CreateTripRequest) domain.Trip {
	return domain.Trip{
		Title:       req.Title,
		Description: req.Description,
		Destination: req.Destination,
		StartDate:   req.StartDate.Time,
		EndDate:     req.EndDate.Time,
		CoverImage:  req.CoverImage,
		Budget:      req.Budget,
		Currency:    req.Currency,
		Status:      domain.TripStatus(req.Status),
	}
}

// requestToTripPatch maps the optional fields of an update body.
func requestToTripPatch(req api.UpdateTripRequest) domain.TripPatch {
	p := domain.TripPatch{
		Title:       req.Title,
		Description: req.Description,
		Destination: req.Destination,
		CoverImage:  req.CoverImage,
		Budget:      req.Budget,
		Currency:    req.Currency,
	}
	if req.StartDate != nil {
		p.StartDate = &req.StartDate.Time
	}
	if req.EndDate != nil {
		p.EndDate = &req.EndDate.Time
	}
	if req.Status != nil {
		st := domain.TripStatus(*req.Status)
		p.Status = &st
	}
	return p
}

// tripToResponse converts a domain.Trip into its wire form.
func tripToResponse(t domain.Trip) api.Trip {
	members := make([]api.Member, len(t.Members))
	for i, m := range t.Members {
		members[i] = api.Member{
			UserID:   m.UserID,
			User:     summaryToResponse(m.User),
			Role:     string(m.Role),
			Status:   string(m.Status),
			JoinedAt: m.JoinedAt,
		}
	}
	return api.Trip{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Destination: t.Destination,
		StartDate:   openapi_types.Date{Time: t.StartDate},
		EndDate:     openapi_types.Date{Time: t.EndDate},
		CoverImage:  t.CoverImage,
		Budget:      t.Budget,
		Currency:    t.Currency,
		Status:      string(t.Status),
		OwnerID:     t.OwnerID,
		Owner:       summaryToResponse(t.Owner),
		Members:     members,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
