package ports

import "net/http"

// TokenClaims is the verified payload of a bearer credential.
type TokenClaims struct {
	SubjectID string
	Username  string
}

// TokenCodec signs and verifies the self-contained bearer credential. Pure
// computation over the configured key; no I/O.
type TokenCodec interface {
	Sign(subjectID, username string) (string, error)
	// Verify returns the embedded claims or one of the token errors:
	// domain.ErrTokenMalformed, ErrTokenExpired, ErrTokenUnsupported,
	// ErrTokenEmptyClaims.
	Verify(token string) (*TokenClaims, error)
	// Cookie wraps a signed token in the http-only session cookie.
	Cookie(token string) *http.Cookie
	// ClearedCookie returns the same cookie with an empty value and zero
	// lifetime, so a client can always drop a stale credential.
	ClearedCookie() *http.Cookie
}
