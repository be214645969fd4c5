package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/devfolio/portfolio-api/internal/metrics"
	"github.com/devfolio/portfolio-api/internal/core/domain"
	"github.com/devfolio/portfolio-api/internal/core/ports"
)

// Session resolves the bearer cookie into a request-scoped caller and
// threads it through the request context. Requests without a cookie, or
// with a token that fails verification, proceed anonymously; role-gated
// routes reject them downstream.
//
// Sign-out is exempt from resolution failures so a client can always clear
// a stale credential.
func Session(resolver ports.SessionResolver, cookieName string, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			caller, err := resolver.Resolve(c.Request().Context(), cookie.Value)
			if err != nil {
				if domain.IsTokenError(err) {
					metrics.SessionsResolvedTotal.WithLabelValues("token_invalid").Inc()
					log.Debug().Err(err).Msg("bearer token rejected, proceeding anonymously")
					return next(c)
				}
				if isSignout(c) {
					return next(c)
				}

				var mismatch *domain.IdentityMismatchError
				if errors.As(err, &mismatch) {
					metrics.SessionsResolvedTotal.WithLabelValues("identity_mismatch").Inc()
				} else if errors.Is(err, domain.ErrUsernameNotFound) {
					metrics.SessionsResolvedTotal.WithLabelValues("username_not_found").Inc()
				}
				return err
			}

			metrics.SessionsResolvedTotal.WithLabelValues("ok").Inc()
			ctx := domain.WithCaller(c.Request().Context(), caller)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func isSignout(c echo.Context) bool {
	return strings.HasSuffix(c.Request().URL.Path, "/auth/signout")
}
