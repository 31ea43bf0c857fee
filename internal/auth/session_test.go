package auth_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"autosheetify/internal/auth"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": "user@example.com"}
	if !exp.IsZero() {
		claims["exp"] = exp.Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestTokenSessionValidity(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	tests := []struct {
		name  string
		token string
		valid bool
	}{
		{"empty", "", false},
		{"opaque", "opaque-token", true},
		{"jwt future", signedToken(t, now.Add(time.Hour)), true},
		{"jwt expired", signedToken(t, now.Add(-time.Minute)), false},
		{"jwt without exp", signedToken(t, time.Time{}), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := auth.TokenSession{Token: tc.token, Now: clock}.Session()
			if s.Valid != tc.valid {
				t.Fatalf("Valid = %v want %v", s.Valid, tc.valid)
			}
			if s.Token != tc.token {
				t.Fatalf("Token = %q want %q", s.Token, tc.token)
			}
		})
	}
}

func TestExpiresAt(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	got, ok := auth.ExpiresAt(signedToken(t, exp))
	if !ok {
		t.Fatal("expected exp claim")
	}
	if !got.Equal(exp) {
		t.Fatalf("got %v want %v", got, exp)
	}
	if _, ok := auth.ExpiresAt("not.a.jwt"); ok {
		t.Fatal("expected garbage token to report no expiry")
	}
}

func TestResolveOrder(t *testing.T) {
	store := auth.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	if err := store.Save(auth.Record{Token: "stored"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if got := auth.Resolve("flag", "config", store).Session().Token; got != "flag" {
		t.Fatalf("flag token should win, got %q", got)
	}
	if got := auth.Resolve("", "config", store).Session().Token; got != "config" {
		t.Fatalf("config token should win over store, got %q", got)
	}
	if got := auth.Resolve(" ", "", store).Session().Token; got != "stored" {
		t.Fatalf("store token expected, got %q", got)
	}
}

func TestStoreSessionTracksFile(t *testing.T) {
	store := auth.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	provider := auth.StoreSession{Store: store}
	if provider.Session().Valid {
		t.Fatal("expected invalid session before login")
	}
	if err := store.Save(auth.Record{Token: "fresh"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if s := provider.Session(); !s.Valid || s.Token != "fresh" {
		t.Fatalf("unexpected session after login: %+v", s)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if provider.Session().Valid {
		t.Fatal("expected invalid session after logout")
	}
}
