package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/scholarhub/portal/auth"
	"github.com/scholarhub/portal/users"
)

// SignupPageData contains data for rendering the signup page
type SignupPageData struct {
	AppName string
	Error   string
	Email   string // Preserve email on error
}

// SignupGetHandler displays the signup page (GET /signup)
func (s *Server) SignupGetHandler() http.HandlerFunc {
	signupTmpl, err := ParseTemplate("signup.html")
	if err != nil {
		panic("Failed to parse signup template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		data := SignupPageData{
			AppName: s.config.GetAppName(),
			Error:   r.URL.Query().Get("error"),
			Email:   r.URL.Query().Get("email"),
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := signupTmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render signup template")
			http.Error(w, "Failed to render signup page", http.StatusInternalServerError)
		}
	}
}

// SignupPostHandler creates a new account (POST /signup). Registration
// never logs the user in; they go through the login flow afterwards.
func (s *Server) SignupPostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		email := strings.TrimSpace(r.FormValue("email"))
		password := r.FormValue("password")
		confirm := r.FormValue("confirm_password")

		if email == "" || password == "" {
			s.renderSignupError(w, r, "Email and password are required", email)
			return
		}

		if _, err := s.auth.Signup(r.Context(), email, password, confirm); err != nil {
			switch {
			case errors.Is(err, auth.PasswordMismatchErr):
				s.renderSignupError(w, r, "Passwords do not match", email)
			case errors.Is(err, auth.WeakPasswordErr):
				s.renderSignupError(w, r, "Password must be at least 6 characters long", email)
			case errors.Is(err, users.DuplicateUserErr):
				s.renderSignupError(w, r, "An account with this email already exists", email)
			default:
				log.Err(err).Msg("Signup failed")
				http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
			}
			return
		}

		redirectWithSuccessMsg(w, r, RouteLogin, "Account created. Please login.")
	}
}

// renderSignupError redirects to the signup page with an error message
func (s *Server) renderSignupError(w http.ResponseWriter, r *http.Request, errorMsg, email string) {
	redirectURL := RouteSignup + "?error=" + url.QueryEscape(errorMsg)
	if email != "" {
		redirectURL += "&email=" + url.QueryEscape(email)
	}
	redirectSuccess(w, r, redirectURL)
}
