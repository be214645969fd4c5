package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/devfolio/portfolio-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// identityMismatchResponse carries both usernames so a client holding a
// stale token can tell what changed.
type identityMismatchResponse struct {
	Error           string `json:"error"`
	ClaimedUsername string `json:"claimed_username"`
	ValidUsername   string `json:"valid_username"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps the domain
// error taxonomy to deterministic HTTP codes, logs unexpected errors
// internally, and renders a consistent JSON envelope.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var mismatch *domain.IdentityMismatchError
		if errors.As(err, &mismatch) {
			_ = c.JSON(http.StatusUnauthorized, identityMismatchResponse{
				Error:           "unauthorized: non-matching usernames",
				ClaimedUsername: mismatch.Claimed,
				ValidUsername:   mismatch.Actual,
			})
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case domain.IsTokenError(err):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrUsernameNotFound):
		return http.StatusUnauthorized, "username not found"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrPermissionDenied):
		return http.StatusForbidden, "you do not have permission to do this"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrEntityNotFound):
		return http.StatusNotFound, "entity not found"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists"
	case errors.Is(err, domain.ErrRoleAlreadyAssigned):
		return http.StatusConflict, "role already assigned"
	case errors.Is(err, domain.ErrReconciliationConflict):
		return http.StatusConflict, "concurrent edit, please retry"
	case errors.Is(err, domain.ErrRoleCatalogCorrupt):
		// configuration-level failure: full detail in the log, nothing
		// leaked to the client
		log.Error().Err(err).Msg("role reference data corrupt")
		return http.StatusInternalServerError, "internal server error"
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
