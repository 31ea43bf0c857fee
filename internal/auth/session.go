package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is a snapshot of the external authentication state.
type Session struct {
	Token string
	Valid bool
}

// SessionProvider yields the current session. Implementations must be safe
// for concurrent use.
type SessionProvider interface {
	Session() Session
}

// StaticSession is a fixed session, useful for tests.
type StaticSession Session

func (s StaticSession) Session() Session { return Session(s) }

// TokenSession derives validity from a bearer token.
type TokenSession struct {
	Token string
	Now   func() time.Time
}

// NewTokenSession wraps token using the wall clock.
func NewTokenSession(token string) TokenSession {
	return TokenSession{Token: strings.TrimSpace(token), Now: time.Now}
}

// Session reports the token as valid when present and, for JWTs, not expired.
func (t TokenSession) Session() Session {
	token := strings.TrimSpace(t.Token)
	if token == "" {
		return Session{}
	}
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	if exp, ok := ExpiresAt(token); ok && !exp.After(now()) {
		return Session{Token: token, Valid: false}
	}
	return Session{Token: token, Valid: true}
}

// ExpiresAt reads the exp claim of a JWT without verifying it. Opaque tokens
// and JWTs without exp report false.
func ExpiresAt(token string) (time.Time, bool) {
	if strings.Count(token, ".") != 2 {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// StoreSession reads the session file on every call so logins performed by
// another process are picked up.
type StoreSession struct {
	Store *FileStore
	Now   func() time.Time
}

func (s StoreSession) Session() Session {
	if s.Store == nil {
		return Session{}
	}
	record, err := s.Store.Load()
	if err != nil {
		return Session{}
	}
	return TokenSession{Token: record.Token, Now: s.Now}.Session()
}

// Resolve picks the session source: an explicit flag token, then the
// configured token (which already includes AUTOSHEETIFY_TOKEN), then the
// session file.
func Resolve(flagToken, configToken string, store *FileStore) SessionProvider {
	if token := strings.TrimSpace(flagToken); token != "" {
		return NewTokenSession(token)
	}
	if token := strings.TrimSpace(configToken); token != "" {
		return NewTokenSession(token)
	}
	return StoreSession{Store: store}
}
