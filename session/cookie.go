package session

import (
	"net/http"

	"github.com/google/uuid"
)

const cookieName = "dashgate_session"

// Manager ties browser requests to session storage through an HttpOnly
// cookie holding a random session identifier. The cookie carries no data
// itself; everything lives server-side in the Repo.
type Manager struct {
	repo Repo
}

func NewManager(repo Repo) *Manager {
	return &Manager{repo: repo}
}

// Codec returns the session codec for the request, creating a fresh session
// identifier (and setting the cookie) on first contact.
func (m *Manager) Codec(w http.ResponseWriter, r *http.Request) *Codec {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return NewCodec(m.repo, cookie.Value)
	}

	sessionID := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure(r),
		SameSite: http.SameSiteLaxMode,
	})
	return NewCodec(m.repo, sessionID)
}

func isSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return r.Header.Get("X-Forwarded-Proto") == "https"
}
