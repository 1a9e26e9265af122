package server

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/scholarhub/portal/auth"
)

// VerifyOTPPageData contains data for rendering the passcode entry page
type VerifyOTPPageData struct {
	AppName string
	Error   string
}

// VerifyOTPPageHandler displays the passcode entry page (GET /verify-otp)
func (s *Server) VerifyOTPPageHandler() http.HandlerFunc {
	otpTmpl, err := ParseTemplate("verify_otp.html")
	if err != nil {
		panic("Failed to parse verify_otp template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie(loginAttemptCookieName); err != nil {
			redirectWithError(w, r, RouteLogin, "Please login first.")
			return
		}

		data := VerifyOTPPageData{
			AppName: s.config.GetAppName(),
			Error:   r.URL.Query().Get("error"),
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := otpTmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render verify_otp template")
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
		}
	}
}

// VerifyOTPSubmissionHandler checks the submitted passcode (POST /verify-otp).
// An accepted passcode is the only way the local flow reaches a session.
func (s *Server) VerifyOTPSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(loginAttemptCookieName)
		if err != nil || cookie.Value == "" {
			redirectWithError(w, r, RouteLogin, "Your login attempt has expired. Please login again.")
			return
		}
		loginToken := cookie.Value

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		code := r.FormValue("otp")
		if code == "" {
			redirectWithError(w, r, RouteVerifyOTP, "Please enter the code from your email.")
			return
		}

		sessionToken := generateRandomString(32)

		if _, err := s.auth.VerifyCode(r.Context(), loginToken, sessionToken, code); err != nil {
			switch {
			case errors.Is(err, auth.CodeExpiredErr):
				clearCookie(w, loginAttemptCookieName)
				redirectWithError(w, r, RouteLogin, "The code has expired. Please login again.")
			case errors.Is(err, auth.CodeMismatchErr):
				redirectWithError(w, r, RouteVerifyOTP, "Incorrect code. Please try again.")
			case errors.Is(err, auth.NoPendingCodeErr):
				clearCookie(w, loginAttemptCookieName)
				redirectWithError(w, r, RouteLogin, "No pending verification. Please login again.")
			default:
				log.Err(err).Msg("Passcode verification failed")
				http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
			}
			return
		}

		clearCookie(w, loginAttemptCookieName)
		s.SetSessionCookie(w, r, sessionToken, int(s.config.GetSessionLifetime().Seconds()))
		redirectSuccess(w, r, RouteDashboard)
	}
}
