package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/devfolio/portfolio-api/internal/core/domain"
)

type stubResolver struct {
	caller *domain.Caller
	err    error
}

func (s *stubResolver) Resolve(_ context.Context, _ string) (*domain.Caller, error) {
	return s.caller, s.err
}

func newSessionContext(path string, cookie *http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSession_NoCookieProceedsAnonymously(t *testing.T) {
	c, _ := newSessionContext("/api/languages", nil)

	mw := Session(&stubResolver{}, "session", zerolog.Nop())
	var seen *domain.Caller
	sawCaller := false
	err := mw(func(c echo.Context) error {
		seen, sawCaller = domain.CallerFrom(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})(c)

	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if sawCaller || seen != nil {
		t.Fatalf("anonymous request must carry no caller")
	}
}

func TestSession_InvalidTokenProceedsAnonymously(t *testing.T) {
	c, _ := newSessionContext("/api/languages", &http.Cookie{Name: "session", Value: "garbage"})

	mw := Session(&stubResolver{err: domain.ErrTokenMalformed}, "session", zerolog.Nop())
	called := false
	err := mw(func(c echo.Context) error {
		if _, ok := domain.CallerFrom(c.Request().Context()); ok {
			t.Fatalf("invalid token must not resolve a caller")
		}
		called = true
		return c.NoContent(http.StatusOK)
	})(c)

	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
}

func TestSession_ResolvedCallerInContext(t *testing.T) {
	want := &domain.Caller{ID: "u1", Username: "alice@example.com", Verified: true}
	c, _ := newSessionContext("/api/projects", &http.Cookie{Name: "session", Value: "tok"})

	mw := Session(&stubResolver{caller: want}, "session", zerolog.Nop())
	err := mw(func(c echo.Context) error {
		got, ok := domain.CallerFrom(c.Request().Context())
		if !ok || got.ID != "u1" {
			t.Fatalf("caller missing from context: %+v", got)
		}
		return c.NoContent(http.StatusOK)
	})(c)

	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestSession_IdentityErrorsReject(t *testing.T) {
	for _, resolverErr := range []error{
		domain.ErrUsernameNotFound,
		&domain.IdentityMismatchError{Claimed: "old@example.com", Actual: "new@example.com"},
	} {
		c, _ := newSessionContext("/api/projects", &http.Cookie{Name: "session", Value: "tok"})

		mw := Session(&stubResolver{err: resolverErr}, "session", zerolog.Nop())
		err := mw(func(c echo.Context) error {
			t.Fatalf("should not reach next handler")
			return nil
		})(c)

		if !errors.Is(err, resolverErr) {
			t.Fatalf("expected %v to propagate, got %v", resolverErr, err)
		}
	}
}

func TestSession_SignoutExemptFromIdentityErrors(t *testing.T) {
	c, _ := newSessionContext("/api/auth/signout", &http.Cookie{Name: "session", Value: "tok"})

	mw := Session(&stubResolver{err: domain.ErrUsernameNotFound}, "session", zerolog.Nop())
	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)

	if err != nil {
		t.Fatalf("signout must proceed despite a stale identity: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
}
