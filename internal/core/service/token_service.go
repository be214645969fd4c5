package service

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/devfolio/portfolio-api/internal/core/domain"
	"github.com/devfolio/portfolio-api/internal/core/ports"
)

const cookiePath = "/api"

// TokenService implements the bearer credential codec: HS256-signed JWTs
// carrying the subject id and username, delivered as an http-only cookie.
type TokenService struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
}

func NewTokenService(secret, cookieName string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, cookieName: cookieName}
}

func (s *TokenService) Sign(subjectID, username string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		ID:        subjectID,
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

func (s *TokenService) Verify(token string) (*ports.TokenClaims, error) {
	if token == "" {
		return nil, domain.ErrTokenEmptyClaims
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, domain.ErrTokenUnsupported
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenUnsupported):
			return nil, domain.ErrTokenUnsupported
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.ErrTokenExpired
		default:
			// covers tampered signatures and structurally broken tokens
			return nil, domain.ErrTokenMalformed
		}
	}
	if !parsed.Valid {
		return nil, domain.ErrTokenMalformed
	}
	if claims.ID == "" || claims.Subject == "" {
		return nil, domain.ErrTokenEmptyClaims
	}

	return &ports.TokenClaims{SubjectID: claims.ID, Username: claims.Subject}, nil
}

// Cookie wraps a signed token in the session cookie: path-restricted to the
// API root, http-only, expiring with the token.
func (s *TokenService) Cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     cookiePath,
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	}
}

// ClearedCookie returns the zero-lifetime cookie a sign-out must set so the
// client actually drops its credential.
func (s *TokenService) ClearedCookie() *http.Cookie {
	return &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     cookiePath,
		MaxAge:   -1,
		HttpOnly: true,
	}
}
