package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/scholarhub/portal/sessions"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyUserID stores the authenticated user ID
	ContextKeyUserID ContextKey = "user_id"
	// ContextKeyEmail stores the authenticated user's email
	ContextKeyEmail ContextKey = "email"
	// ContextKeySessionToken stores the session token the request authenticated with
	ContextKeySessionToken ContextKey = "session_token"
)

// RequireSessionAuth validates the session cookie on server-rendered and API routes.
// HTML requests are redirected to the login page, API requests get a 401.
func (s *Server) RequireSessionAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				rejectUnauthenticated(w, r, "Please login first.")
				return
			}

			session, err := s.auth.Sessions().RequireAuthenticated(r.Context(), cookie.Value)
			if err != nil {
				if errors.Is(err, sessions.NotAuthenticatedErr) {
					clearCookie(w, SessionCookieName)
					rejectUnauthenticated(w, r, "Your session has expired. Please login again.")
					return
				}
				http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUserID, session.UserID)
			ctx = context.WithValue(ctx, ContextKeyEmail, session.Email)
			ctx = context.WithValue(ctx, ContextKeySessionToken, cookie.Value)
			r = r.WithContext(ctx)

			next(w, r)
		}
	}
}

func rejectUnauthenticated(w http.ResponseWriter, r *http.Request, message string) {
	if isAPIRequest(r) {
		writeJSONError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}
	redirectWithError(w, r, RouteLogin, message)
}

func isAPIRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}
