package auth

import "autosheetify/internal/services"

// Gate permits or denies submissions based on the current session.
type Gate struct {
	provider SessionProvider
}

// NewGate builds a gate over provider. A nil provider never permits submission.
func NewGate(provider SessionProvider) *Gate {
	return &Gate{provider: provider}
}

func (g *Gate) session() Session {
	if g == nil || g.provider == nil {
		return Session{}
	}
	return g.provider.Session()
}

// CanSubmit reports whether the session is valid and carries a token.
func (g *Gate) CanSubmit() bool {
	s := g.session()
	return s.Valid && s.Token != ""
}

// AuthorizationHeaderValue returns "Bearer <token>" or ErrNotAuthenticated.
func (g *Gate) AuthorizationHeaderValue() (string, error) {
	s := g.session()
	if !s.Valid || s.Token == "" {
		return "", services.ErrNotAuthenticated
	}
	return "Bearer " + s.Token, nil
}
