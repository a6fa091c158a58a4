package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/planoraa/planoraa-api/internal/domain"
	"github.com/planoraa/planoraa-api/internal/service"
	"github.com/planoraa/planoraa-api/pkg/api"
)

// Register handles POST /auth/register.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err, "")
		return
	}

	sess, err := s.auth.Register(r.Context(), service.Registration{
		Email:     string(req.Email),
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	ok(w, http.StatusCreated, "User registered successfully", sessionToResponse(sess))
}

// Login handles POST /auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err, "")
		return
	}

	sess, err := s.auth.Login(r.Context(), string(req.Email), req.Password)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	ok(w, http.StatusOK, "Login successful", sessionToResponse(sess))
}

// RefreshToken handles POST /auth/refresh-token.
func (s *Server) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req api.RefreshRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err, "")
		return
	}

	token, err := s.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	ok(w, http.StatusOK, "Token refreshed", api.RefreshData{AccessToken: token})
}

// GetProfile handles GET /auth/profile.
func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.Profile(r.Context(), caller(r))
	if err != nil {
		s.fail(w, r, err, "User not found")
		return
	}
	ok(w, http.StatusOK, "", api.UserData{User: userToResponse(user)})
}

// UpdateProfile handles PUT /auth/profile.
func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateProfileRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err, "")
		return
	}

	user, err := s.auth.UpdateProfile(r.Context(), caller(r), domain.ProfilePatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Avatar:    req.Avatar,
	})
	if err != nil {
		s.fail(w, r, err, "User not found")
		return
	}
	ok(w, http.StatusOK, "Profile updated successfully", api.UserData{User: userToResponse(user)})
}

// --- mapping helpers --------------------------------------------------------

func sessionToResponse(sess service.Session) api.AuthData {
	return api.AuthData{
		User:         userToResponse(sess.User),
		AccessToken:  sess.Tokens.AccessToken,
		RefreshToken: sess.Tokens.RefreshToken,
	}
}

func userToResponse(u domain.User) api.User {
	return api.User{
		ID:        u.ID,
		Email:     openapi_types.Email(u.Email),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Avatar:    u.Avatar,
		Bio:       u.Bio,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func summaryToResponse(u *domain.UserSummary) *api.UserSummary {
	if u == nil {
		return nil
	}
	return &api.UserSummary{
		ID:        u.ID,
		Email:     openapi_types.Email(u.Email),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Avatar:    u.Avatar,
	}
}
