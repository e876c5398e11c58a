package server

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"dashgate/authflow"
)

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	AppName string
	Next    string
	Error   string
}

// LoginPageHandler displays the login prompt (GET /auth/login). The `next`
// parameter is passed through to the template for display only; it is not
// trusted until validated by the flow controller.
func (s *Server) LoginPageHandler() http.HandlerFunc {
	loginTmpl, err := ParseTemplate("login.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse login template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		data := LoginPageData{
			AppName: s.config.GetAppName(),
			Next:    r.URL.Query().Get("next"),
			Error:   r.URL.Query().Get("error"),
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := loginTmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render login template")
			http.Error(w, "Failed to render login page", http.StatusInternalServerError)
		}
	}
}

// StartHandler begins the login flow (GET /auth/start): it stores the
// validated return path and CSRF state, then redirects to the provider.
func (s *Server) StartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.sessions.Codec(w, r)

		authorizeURL, err := s.flow.StartLogin(r.Context(), sess, r.URL.Query().Get("next"))
		if err != nil {
			log.Err(err).Msg("Failed to start login flow")
			http.Error(w, "Failed to start login", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, authorizeURL, http.StatusSeeOther)
	}
}

// CallbackHandler completes the login flow (GET /auth/callback). Every
// authentication failure maps to a 400 with generic copy; the specific
// reason is only ever logged.
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.sessions.Codec(w, r)

		query := r.URL.Query()
		target, err := s.flow.Callback(r.Context(), sess, authflow.CallbackQuery{
			Code:      query.Get("code"),
			State:     query.Get("state"),
			ErrorCode: query.Get("error"),
			ErrorDesc: query.Get("error_description"),
		})
		if err != nil {
			log.Err(err).Msg("Login callback failed")
			if isAuthFailure(err) {
				http.Error(w, "Authentication failed. Please try logging in again.", http.StatusBadRequest)
				return
			}
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
	}
}

// LogoutHandler clears the session (GET /auth/logout) and always lands the
// user back on the login page, even when the remote revocation failed.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.sessions.Codec(w, r)

		if err := s.flow.Logout(r.Context(), sess); err != nil {
			log.Err(err).Msg("Failed to clear session on logout")
		}
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
	}
}

func isAuthFailure(err error) bool {
	return errors.Is(err, authflow.ErrProviderDenied) ||
		errors.Is(err, authflow.ErrStateMismatch) ||
		errors.Is(err, authflow.ErrMissingCode) ||
		errors.Is(err, authflow.ErrAuthenticationFailed)
}
