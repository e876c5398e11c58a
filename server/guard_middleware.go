package server

import (
	"net/http"
	"net/url"
	"strings"

	"dashgate/authflow"
)

// Public routes form an allow-list: everything not named here is protected
// by default, so forgetting to classify a new route fails closed.
var publicRoutes = map[string]struct{}{
	RouteLanding:  {},
	RouteLogin:    {},
	RouteStart:    {},
	RouteCallback: {},
	RouteLogout:   {},
}

// Only safe (read-only) methods earn a login redirect; anything mutating
// from an anonymous client is answered with 401 instead of being bounced
// through the login flow.
var safeMethods = map[string]struct{}{
	http.MethodGet:  {},
	http.MethodHead: {},
}

func publicRoute(path string) bool {
	if _, ok := publicRoutes[path]; ok {
		return true
	}
	return strings.HasPrefix(path, RouteStaticPrefix)
}

// AccessGuard is the admission filter in front of every handler. Public
// routes always pass. Protected routes pass for authenticated sessions;
// anonymous safe-method requests are redirected to login with a validated
// return path, and anonymous mutating requests are rejected outright.
func (s *Server) AccessGuard(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if publicRoute(r.URL.Path) {
			next(w, r)
			return
		}

		sess := s.sessions.Codec(w, r)
		if sess.Authenticated(r.Context()) {
			next(w, r)
			return
		}

		if _, safe := safeMethods[r.Method]; !safe {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}

		returnPath := authflow.SafeNext(r.URL.RequestURI())
		http.Redirect(w, r, RouteLogin+"?next="+url.QueryEscape(returnPath), http.StatusSeeOther)
	}
}
