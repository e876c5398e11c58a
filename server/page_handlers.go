package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

const contentTypeHTML = "text/html; charset=utf-8"

// LandingPageHandler renders the public landing page (GET /).
func (s *Server) LandingPageHandler() http.HandlerFunc {
	landingTmpl, err := ParseTemplate("landing.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse landing template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		data := map[string]any{
			"AppName": s.config.GetAppName(),
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := landingTmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render landing template")
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
		}
	}
}

// DashboardPageData contains data for rendering the dashboard page
type DashboardPageData struct {
	AppName       string
	Username      string
	Discriminator string
	UserID        string
}

// DashboardHandler renders the protected dashboard (GET /dashboard). The
// guard has already admitted the request; the session read here is for
// display data, with a defensive redirect if the profile went missing.
func (s *Server) DashboardHandler() http.HandlerFunc {
	dashboardTmpl, err := ParseTemplate("dashboard.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse dashboard template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.sessions.Codec(w, r)

		user, ok, err := sess.User(r.Context())
		if err != nil || !ok {
			http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
			return
		}

		data := DashboardPageData{
			AppName:       s.config.GetAppName(),
			Username:      user.Username,
			Discriminator: user.Discriminator,
			UserID:        user.ID,
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := dashboardTmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render dashboard template")
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
		}
	}
}
