package preflight

import (
	"context"
	"fmt"
	"time"

	"autosheetify/internal/auth"
	"autosheetify/internal/config"
	"autosheetify/internal/library"
)

// CheckSession reports whether provider yields a session that can submit.
func CheckSession(provider auth.SessionProvider) Result {
	const name = "Session"

	if provider == nil {
		return Result{Name: name, Detail: "no session source"}
	}
	session := provider.Session()
	switch {
	case session.Token == "":
		return Result{Name: name, Detail: "not logged in (run: autosheetify auth login)"}
	case !session.Valid:
		if exp, ok := auth.ExpiresAt(session.Token); ok {
			return Result{Name: name, Detail: fmt.Sprintf("token expired %s", exp.Local().Format(time.DateTime))}
		}
		return Result{Name: name, Detail: "token invalid"}
	}
	if exp, ok := auth.ExpiresAt(session.Token); ok {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("token valid until %s", exp.Local().Format(time.DateTime))}
	}
	return Result{Name: name, Passed: true, Detail: "token present"}
}

// CheckLibrary opens the results library and reports its size.
func CheckLibrary(ctx context.Context, cfg *config.Config) Result {
	const name = "Library"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if !cfg.Library.Enabled {
		return Result{Name: name, Passed: true, Detail: "Disabled"}
	}
	store, err := library.Open(cfg)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("open failed (%v)", err)}
	}
	defer store.Close()

	count, err := store.Count(ctx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("query failed (%v)", err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d saved)", store.Path(), count)}
}
