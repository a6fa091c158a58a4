package handler

import (
	"net/http"

	"github.com/planoraa/planoraa-api/internal/domain"
	"github.com/planoraa/planoraa-api/pkg/api"
)

// CreateActivity handles POST /trips/{tripID}/activities.
func (s *Server) CreateActivity(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "tripID")
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	var req api.CreateActivityRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err, "")
		return
	}

	created, err := s.activities.Create(r.Context(), tripID, caller(r), requestToActivity(req))
	if err != nil {
		s.fail(w, r, err, "Trip not found")
		return
	}
	ok(w, http.StatusCreated, "Activity created successfully", api.ActivityData{Activity: activityToResponse(created)})
}

// ListActivities handles GET /trips/{tripID}/activities.
func (s *Server) ListActivities(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "tripID")
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	activities, err := s.activities.List(r.Context(), tripID, caller(r))
	if err != nil {
		s.fail(w, r, err, "Trip not found")
		return
	}
	data := make([]api.Activity, len(activities))
	for i, a := range activities {
		data[i] = activityToResponse(a)
	}
	ok(w, http.StatusOK, "", api.ActivityList{Activities: data, Count: len(data)})
}

// UpdateActivity handles PUT /activities/{activityID}.
func (s *Server) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	activityID, err := pathID(r, "activityID")
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	var req api.UpdateActivityRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err, "")
		return
	}

	updated, err := s.activities.Update(r.Context(), activityID, caller(r), requestToActivityPatch(req))
	if err != nil {
		s.fail(w, r, err, "Activity not found")
		return
	}
	ok(w, http.StatusOK, "Activity updated successfully", api.ActivityData{Activity: activityToResponse(updated)})
}

// DeleteActivity handles DELETE /activities/{activityID}.
func (s *Server) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	activityID, err := pathID(r, "activityID")
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	if err := s.activities.Delete(r.Context(), activityID, caller(r)); err != nil {
		s.fail(w, r, err, "Activity not found")
		return
	}
	ok(w, http.StatusOK, "Activity deleted successfully", nil)
}

// --- mapping helpers --------------------------------------------------------

func requestToActivity(req api.CreateActivityRequest) domain.Activity {
	return domain.Activity{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Coordinates: coordinatesToDomain(req.Coordinates),
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Category:    domain.ActivityCategory(req.Category),
		Priority:    domain.Priority(req.Priority),
		Status:      domain.ActivityStatus(req.Status),
		Notes:       req.Notes,
		Cost:        req.Cost,
		BookingURL:  req.BookingURL,
		SortOrder:   req.SortOrder,
	}
}

func requestToActivityPatch(req api.UpdateActivityRequest) domain.ActivityPatch {
	p := domain.ActivityPatch{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Coordinates: coordinatesToDomain(req.Coordinates),
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Notes:       req.Notes,
		Cost:        req.Cost,
		BookingURL:  req.BookingURL,
		SortOrder:   req.SortOrder,
	}
	if req.Category != nil {
		c := domain.ActivityCategory(*req.Category)
		p.Category = &c
	}
	if req.Priority != nil {
		pr := domain.Priority(*req.Priority)
		p.Priority = &pr
	}
	if req.Status != nil {
		st := domain.ActivityStatus(*req.Status)
		p.Status = &st
	}
	return p
}

func coordinatesToDomain(c *api.Coordinates) *domain.Coordinates {
	if c == nil {
		return nil
	}
	return &domain.Coordinates{Latitude: c.Latitude, Longitude: c.Longitude}
}

func activityToResponse(a domain.Activity) api.Activity {
	resp := api.Activity{
		ID:          a.ID,
		TripID:      a.TripID,
		Title:       a.Title,
		Description: a.Description,
		Location:    a.Location,
		StartTime:   a.StartTime,
		EndTime:     a.EndTime,
		Category:    string(a.Category),
		Priority:    string(a.Priority),
		Status:      string(a.Status),
		Notes:       a.Notes,
		Cost:        a.Cost,
		BookingURL:  a.BookingURL,
		SortOrder:   a.SortOrder,
		CreatedBy:   a.CreatedBy,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if a.Coordinates != nil {
		resp.Coordinates = &api.Coordinates{Latitude: a.Coordinates.Latitude, Longitude: a.Coordinates.Longitude}
	}
	return resp
}
