// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ventura Contributors

package web

import (
	"net/http"

	"github.com/gobwas/glob"
	"github.com/samber/oops"
)

// Guard redirects anonymous requests for protected paths to the
// landing page. It only checks that a session cookie is present; token
// validity is established later by the auth service inside individual
// operations. The split is deliberate: the edge check costs nothing,
// and an invalid token still fails authoritatively downstream.
type Guard struct {
	protected []glob.Glob
	landing   string
}

// NewGuard compiles the protected path patterns. Patterns use glob
// syntax with '/' as the separator, e.g. "/dashboard/**".
func NewGuard(patterns []string, landing string) (*Guard, error) {
	if landing == "" {
		landing = "/"
	}

	compiled := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, oops.Code("GUARD_INVALID_PATTERN").
				With("pattern", p).
				Wrap(err)
		}
		compiled = append(compiled, g)
	}

	return &Guard{protected: compiled, landing: landing}, nil
}

// Protects reports whether the path falls under a protected pattern.
func (g *Guard) Protects(path string) bool {
	for _, pattern := range g.protected {
		if pattern.Match(path) {
			return true
		}
	}
	return false
}

// Middleware wraps a handler with the guard check.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.Protects(r.URL.Path) && sessionToken(r) == "" {
			http.Redirect(w, r, g.landing, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
