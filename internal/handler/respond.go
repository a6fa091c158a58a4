package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/planoraa/planoraa-api/internal/domain"
	"github.com/planoraa/planoraa-api/pkg/api"
)

// validate is shared by all handlers. Field names in messages use the JSON
// tag so they match what the client sent.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// writeJSON encodes body with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// ok writes a success envelope.
func ok(w http.ResponseWriter, status int, message string, data any) {
	if message == "" {
		message = "Success"
	}
	writeJSON(w, status, api.Envelope{Success: true, Message: message, Data: data})
}

func apiFailure(message string) api.Envelope {
	return api.Envelope{Success: false, Message: message}
}

// fail maps err onto a status code and writes a failure envelope.
// notFound is used as the message when a domain.ErrNotFound carries no detail
// of its own (e.g. "trip not found").
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	status, message := http.StatusInternalServerError, "Internal server error"

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		status, message = http.StatusRequestEntityTooLarge, "Request body too large"
	case errors.Is(err, domain.ErrValidation):
		status, message = http.StatusBadRequest, detail(err, domain.ErrValidation, "Invalid request")
	case errors.Is(err, domain.ErrUnauthorized):
		status, message = http.StatusUnauthorized, detail(err, domain.ErrUnauthorized, "Unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		status, message = http.StatusForbidden, detail(err, domain.ErrForbidden, "Access denied")
	case errors.Is(err, domain.ErrNotFound):
		status, message = http.StatusNotFound, detail(err, domain.ErrNotFound, notFound)
	case errors.Is(err, domain.ErrConflict):
		status, message = http.StatusConflict, detail(err, domain.ErrConflict, "Already exists")
	default:
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}

	body := apiFailure(message)
	if s.development {
		body.Error = err.Error()
	}
	writeJSON(w, status, body)
}

// detail extracts the human-readable part that follows the sentinel in a
// wrapped error.
// e.g. "service.TripService.Get: forbidden: you do not have access" → "you do not have access"
func detail(err, sentinel error, fallback string) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.Index(msg, marker); i >= 0 && len(msg) > i+len(marker) {
		return capitalize(msg[i+len(marker):])
	}
	return fallback
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// decode reads a JSON body into v and runs its validate tags.
// Malformed JSON and tag failures both wrap domain.ErrValidation.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		if errors.Is(err, openapi_types.ErrValidationEmail) {
			return fmt.Errorf("%w: email is not a valid address", domain.ErrValidation)
		}
		return fmt.Errorf("%w: request body must be valid JSON", domain.ErrValidation)
	}

	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed %q validation", domain.ErrValidation, fe.Field(), fe.Tag())
		}
		return fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}
	return nil
}

// pathID parses a UUID path parameter.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", domain.ErrValidation, name)
	}
	return id, nil
}
