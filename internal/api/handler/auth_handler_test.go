package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/devfolio/portfolio-api/internal/core/domain"
	"github.com/devfolio/portfolio-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, caller *domain.Caller, input ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, username, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, caller *domain.Caller, input ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, caller, input)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Logout() *http.Cookie {
	return &http.Cookie{Name: "session", Value: "", Path: "/api", MaxAge: -1}
}

type stubTokenCodec struct{}

func (stubTokenCodec) Sign(subjectID, username string) (string, error) { return "tok", nil }
func (stubTokenCodec) Verify(token string) (*ports.TokenClaims, error) { return nil, nil }
func (stubTokenCodec) Cookie(token string) *http.Cookie {
	return &http.Cookie{Name: "session", Value: token, Path: "/api", HttpOnly: true}
}
func (stubTokenCodec) ClearedCookie() *http.Cookie {
	return &http.Cookie{Name: "session", Value: "", Path: "/api", MaxAge: -1}
}

func newAuthContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/api/auth", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Signup_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, caller *domain.Caller, input ports.RegisterInput) (*domain.User, error) {
			if caller != nil {
				t.Fatalf("anonymous signup must pass a nil caller")
			}
			if input.Username != "alice@example.com" || input.Name != "Alice" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.User{ID: "user_1", Username: input.Username}, nil
		},
	}
	h := NewAuthHandler(stub, stubTokenCodec{})

	c, rec := newAuthContext(t, `{"name":"Alice","username":"alice@example.com","password":"s3cret"}`)
	if err := h.Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAuthHandler_Signup_ValidationFailure(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, _ *domain.Caller, _ ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("service must not be called on invalid input")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, stubTokenCodec{})

	// username is not an email, password too short
	c, _ := newAuthContext(t, `{"name":"Alice","username":"alice","password":"x"}`)
	err := h.Signup(c)

	var he *echo.HTTPError
	if err == nil || !strings.Contains(err.Error(), "username") {
		t.Fatalf("expected validation error mentioning username, got %v", err)
	}
	if ok := errors.As(err, &he); !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Signin_SetsSessionCookie(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, username, password string) (string, *domain.User, error) {
			return "tok", &domain.User{ID: "user_1", Username: username}, nil
		},
	}
	h := NewAuthHandler(stub, stubTokenCodec{})

	c, rec := newAuthContext(t, `{"username":"alice@example.com","password":"s3cret"}`)
	if err := h.Signin(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != "tok" || !cookies[0].HttpOnly {
		t.Fatalf("session cookie not installed: %+v", cookies)
	}
}

func TestAuthHandler_Signin_BadCredentialsPropagate(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, _, _ string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, stubTokenCodec{})

	c, rec := newAuthContext(t, `{"username":"alice@example.com","password":"wrong"}`)
	err := h.Signin(c)
	if err == nil {
		t.Fatalf("expected error to propagate to the error handler")
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("no cookie may be set on failed login")
	}
}

func TestAuthHandler_Signout_ClearsCookie(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, stubTokenCodec{})

	c, rec := newAuthContext(t, ``)
	if err := h.Signout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != "" || cookies[0].MaxAge != -1 {
		t.Fatalf("cookie not cleared: %+v", cookies)
	}
}
