package server

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/scholarhub/portal/googleauth"
)

// GoogleLoginHandler starts the federated login flow (GET /google_login).
// Nothing is sent to the provider when credentials are not configured.
func (s *Server) GoogleLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := generateRandomString(24)

		authURL, err := s.federator.AuthURL(r.Context(), state)
		if err != nil {
			switch {
			case errors.Is(err, googleauth.NotConfiguredErr):
				redirectWithError(w, r, RouteLogin, "Google login is not available.")
			case errors.Is(err, googleauth.ProviderUnreachableErr):
				log.Err(err).Msg("Google discovery failed")
				redirectWithError(w, r, RouteLogin, "Google login is temporarily unavailable. Please try again.")
			default:
				log.Err(err).Msg("Google login failed")
				http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
			}
			return
		}

		s.SetGoogleStateCookie(w, r, state)
		http.Redirect(w, r, authURL, http.StatusSeeOther)
	}
}

// GoogleCallbackHandler finishes the federated login flow
// (GET /google_login/callback). A verified Google identity lands on the
// same session step as a verified passcode.
func (s *Server) GoogleCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stateCookie, err := r.Cookie(googleStateCookieName)
		if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
			redirectWithError(w, r, RouteLogin, "Login attempt could not be verified. Please try again.")
			return
		}
		clearCookie(w, googleStateCookieName)

		if errMsg := r.URL.Query().Get("error"); errMsg != "" {
			redirectWithError(w, r, RouteLogin, "Google login was cancelled.")
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			redirectWithError(w, r, RouteLogin, "Missing authorization code.")
			return
		}

		sessionToken := generateRandomString(32)

		if _, err := s.federator.Authenticate(r.Context(), sessionToken, code); err != nil {
			switch {
			case errors.Is(err, googleauth.UnverifiedEmailErr):
				redirectWithError(w, r, RouteLogin, "Your Google email address is not verified.")
			case errors.Is(err, googleauth.TokenExchangeFailedErr):
				log.Err(err).Msg("Google token exchange failed")
				redirectWithError(w, r, RouteLogin, "Google login failed. Please try again.")
			default:
				log.Err(err).Msg("Google callback failed")
				http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
			}
			return
		}

		s.SetSessionCookie(w, r, sessionToken, int(s.config.GetSessionLifetime().Seconds()))
		redirectSuccess(w, r, RouteDashboard)
	}
}
