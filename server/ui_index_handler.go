package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

const contentTypeHTML = "text/html; charset=utf-8"

// IndexHandler displays the landing page (GET /)
func (s *Server) IndexHandler() http.HandlerFunc {
	indexTmpl, err := ParseTemplate("index.html")
	if err != nil {
		panic("Failed to parse index template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != RouteIndex {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}

		data := map[string]interface{}{
			"AppName": s.config.GetAppName(),
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := indexTmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render index template")
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
		}
	}
}
