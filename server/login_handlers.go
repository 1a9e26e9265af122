package server

import (
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/scholarhub/portal/auth"
)

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	AppName     string
	Error       string
	Success     string
	Email       string // Preserve email on error
	GoogleLogin bool
}

// LoginPageHandler displays the login page (GET /login)
func (s *Server) LoginPageHandler() http.HandlerFunc {
	loginTmpl, err := ParseTemplate("login.html")
	if err != nil {
		panic("Failed to parse login template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		data := LoginPageData{
			AppName:     s.config.GetAppName(),
			Error:       r.URL.Query().Get("error"),
			Success:     r.URL.Query().Get("success"),
			Email:       r.URL.Query().Get("email"),
			GoogleLogin: s.federator.Configured(),
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := loginTmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render login template")
			http.Error(w, "Failed to render login page", http.StatusInternalServerError)
		}
	}
}

// LoginSubmissionHandler processes the login form submission (POST /login).
// A correct password does not authenticate: it issues a one-time passcode
// and moves the attempt to the verification step.
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		email := r.FormValue("email")
		password := r.FormValue("password")

		if email == "" || password == "" {
			s.renderLoginError(w, r, "Email and password are required", email)
			return
		}

		loginToken := generateRandomString(32)

		if err := s.auth.Login(r.Context(), loginToken, email, password); err != nil {
			switch {
			case errors.Is(err, auth.InvalidCredentialsErr):
				s.renderLoginError(w, r, "Invalid email or password", email)
			case errors.Is(err, auth.CodeDeliveryErr):
				s.renderLoginError(w, r, "Could not send the verification code. Please try again.", email)
			default:
				log.Err(err).Msg("Login failed")
				http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
			}
			return
		}

		s.SetLoginAttemptCookie(w, r, loginToken)
		redirectSuccess(w, r, RouteVerifyOTP)
	}
}

// LogoutHandler tears down the session and any pending login attempt
// (GET /logout). Safe to hit without either cookie.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var loginToken, sessionToken string
		if cookie, err := r.Cookie(loginAttemptCookieName); err == nil {
			loginToken = cookie.Value
		}
		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			sessionToken = cookie.Value
		}

		if err := s.auth.Logout(r.Context(), loginToken, sessionToken); err != nil {
			log.Err(err).Msg("Logout failed")
		}
		if sessionToken != "" {
			s.chatHistory.Reset(sessionToken)
		}

		clearCookie(w, SessionCookieName)
		clearCookie(w, loginAttemptCookieName)
		redirectSuccess(w, r, RouteLogin)
	}
}

// renderLoginError redirects to login page with an error message
func (s *Server) renderLoginError(w http.ResponseWriter, r *http.Request, errorMsg, email string) {
	redirectURL := RouteLogin + "?error=" + url.QueryEscape(errorMsg)
	if email != "" {
		redirectURL += "&email=" + url.QueryEscape(email)
	}
	redirectSuccess(w, r, redirectURL)
}
