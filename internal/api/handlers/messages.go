package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dom/kick-danila/internal/api/flash"
	"github.com/dom/kick-danila/internal/domain"
)

var userMessages = []struct {
	err  error
	text string
}{
	{domain.ErrDanilaNotFound, "Danila not found!"},
	{domain.ErrKickNotFound, "Kick record not found"},
	{domain.ErrKickTypeNotFound, "Kick type not found"},
	{domain.ErrEmptyKickTypeName, "Enter a kick type name"},
	{domain.ErrKickTypeNameLong, "Kick type name is too long"},
	{domain.ErrInvalidDamage, "Damage must be zero or more"},
	{domain.ErrDuplicateKickType, "That kick type already exists"},
	{domain.ErrKickTypeInUse, "That kick type is used by recorded kicks and cannot be deleted"},
}

// userMessage renders err for the person who triggered it. Store failures
// keep the underlying error text, prefixed by the failed operation.
func userMessage(operation string, err error) string {
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.text
		}
	}

	var de *domain.Error
	if errors.As(err, &de) && de.Err != nil {
		return fmt.Sprintf("%s failed: %v", operation, de.Err)
	}
	return fmt.Sprintf("%s failed: %v", operation, err)
}

func failure(operation string, err error) flash.Message {
	return flash.Error(userMessage(operation, err))
}

func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// parseID reads a positive identifier. Anything else yields nil.
func parseID(raw string) *uint {
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		return nil
	}
	v := uint(id)
	return &v
}

func parseIntDefault(raw string, fallback int) int {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func parseFilter(r *http.Request) domain.KickFilter {
	query := r.URL.Query()
	return domain.KickFilter{
		KickTypeID: parseID(query.Get("kick_type_id")),
		Query:      query.Get("q"),
	}
}
