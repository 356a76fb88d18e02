// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ventura Contributors

// Package web is the HTTP surface of Ventura: the JSON API consumed by
// the UI, the session cookie transport, and the route guard.
package web

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "session"

// writeSessionCookie persists the session token on the client with the
// same expiry as the server-side session. HttpOnly keeps it away from
// scripts; SameSite=Lax lets top-level navigations carry it.
func writeSessionCookie(w http.ResponseWriter, token string, expires time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}

// clearSessionCookie removes the session cookie from the client.
func clearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}

// sessionToken extracts the session token from a request's cookies.
// Returns the empty string when the cookie is absent.
func sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
