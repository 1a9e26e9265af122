package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/scholarhub/portal/scholarships"
)

// DashboardPageData contains data for rendering the dashboard
type DashboardPageData struct {
	AppName      string
	Email        string
	Scholarships []*scholarships.Scholarship
	ChatEnabled  bool
}

// DashboardHandler lists scholarships for the logged-in student
// (GET /dashboard, session required)
func (s *Server) DashboardHandler() http.HandlerFunc {
	dashboardTmpl, err := ParseTemplate("dashboard.html")
	if err != nil {
		panic("Failed to parse dashboard template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		email, _ := r.Context().Value(ContextKeyEmail).(string)

		list, err := s.scholarships.List(r.Context())
		if err != nil {
			log.Err(err).Msg("Failed to list scholarships")
			http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
			return
		}

		data := DashboardPageData{
			AppName:      s.config.GetAppName(),
			Email:        email,
			Scholarships: list,
			ChatEnabled:  s.chatConfigured(),
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := dashboardTmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render dashboard template")
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
		}
	}
}
