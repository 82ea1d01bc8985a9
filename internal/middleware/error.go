package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/bako110/backend/internal/domain"
	"github.com/bako110/backend/internal/registry"
	"github.com/bako110/backend/internal/token"
)

// ErrorBody is the JSON error envelope returned to callers
type ErrorBody struct {
	Detail string `json:"detail"`
}

// WriteError translates domain errors to HTTP statuses. Unexpected errors are
// logged with full context and surface as a generic 500; no raw internal
// error text crosses the boundary.
func WriteError(w http.ResponseWriter, err error) {
	status := errorToStatus(err)

	detail := err.Error()
	if status == http.StatusInternalServerError {
		zap.L().Error("internal error", zap.Error(err))
		detail = "internal server error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorBody{Detail: detail})
}

// errorToStatus maps the error taxonomy to fixed statuses
func errorToStatus(err error) int {
	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case domain.IsConflict(err):
		// The register contract admits only 400/500; duplicates are 400.
		return http.StatusBadRequest
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case domain.IsUnauthorized(err):
		return http.StatusUnauthorized
	case domain.IsUpstream(err):
		return http.StatusBadGateway
	case errors.Is(err, registry.ErrCodeNotFound),
		errors.Is(err, registry.ErrCodeExpired),
		errors.Is(err, registry.ErrNoVerifiedAttempt):
		return http.StatusBadRequest
	case errors.Is(err, token.ErrInvalidSignature),
		errors.Is(err, token.ErrTokenExpired),
		errors.Is(err, token.ErrMalformedClaims):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
