// Package httpapi carries the HTTP plumbing shared by the collaborator
// services: routing, JSON envelopes, request logging, metrics and
// graceful serving.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegsv/finkurs/core/logger"
	"github.com/olegsv/finkurs/internal/domain"
)

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.HTTP.Warn("response encode failed",
			slog.String("event", "http.respond"),
			slog.String("err", err.Error()),
		)
	}
}

// Error writes the {"error": ...} envelope used by every service.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}

// Message writes the {"message": ...} envelope the rate service answers with.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"message": msg})
}

// DomainError maps a classified failure onto its HTTP status.
func DomainError(w http.ResponseWriter, err error) {
	msg := "internal error"
	var de *domain.Error
	if errors.As(err, &de) {
		msg = de.Message
	}
	switch domain.KindOf(err) {
	case domain.KindValidation:
		Error(w, http.StatusBadRequest, msg)
	case domain.KindConflict:
		Error(w, http.StatusConflict, msg)
	case domain.KindNotFound:
		Error(w, http.StatusNotFound, msg)
	case domain.KindUnauthorized:
		Error(w, http.StatusForbidden, msg)
	default:
		Error(w, http.StatusServiceUnavailable, msg)
	}
}

// Decode parses a JSON body into dst, classifying failures as validation.
func Decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.ErrValidation("invalid request body")
	}
	return nil
}
