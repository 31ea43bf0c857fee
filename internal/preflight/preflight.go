package preflight

import (
	"context"

	"autosheetify/internal/auth"
	"autosheetify/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config, session auth.SessionProvider) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckService(ctx, cfg.Service.BaseURL),
		CheckSession(session),
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
	}

	// The output directory is created on first download.
	if cfg.Paths.OutputDir != "" {
		if result := CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir); result.Passed || !missing(cfg.Paths.OutputDir) {
			results = append(results, result)
		} else {
			results = append(results, Result{Name: "Output directory", Passed: true, Detail: cfg.Paths.OutputDir + " (created on first download)"})
		}
	}

	results = append(results, CheckLibrary(ctx, cfg))
	return results
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
