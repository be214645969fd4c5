package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devfolio/portfolio-api/internal/core/domain"
)

// ctxCaller extracts the caller resolved by the Session middleware. Routes
// that require authentication sit behind the RBAC middleware, so a missing
// caller here means a wiring mistake rather than a client error; it is
// still rejected with 401 instead of allowed through.
func ctxCaller(c echo.Context) (*domain.Caller, error) {
	caller, ok := domain.CallerFrom(c.Request().Context())
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return caller, nil
}

// ctxCallerOrNil is for routes where anonymous access is allowed and the
// service decides what an unauthenticated caller may do.
func ctxCallerOrNil(c echo.Context) *domain.Caller {
	caller, _ := domain.CallerFrom(c.Request().Context())
	return caller
}
