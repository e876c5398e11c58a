package server

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFiles embed.FS

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET "+RouteLanding+"{$}", s.LandingPageHandler())
	s.RegisterRouteFunc("GET "+RouteDashboard, s.DashboardHandler())

	// LOGIN
	s.RegisterRouteFunc("GET "+RouteLogin, s.LoginPageHandler())
	s.RegisterRouteFunc("GET "+RouteStart, s.StartHandler())
	s.RegisterRouteFunc("GET "+RouteCallback, s.CallbackHandler())
	s.RegisterRouteFunc("GET "+RouteLogout, s.LogoutHandler())

	s.RegisterRouteFunc("GET "+RouteStaticPrefix, s.staticFileHandler())
}

func (s *Server) staticFileHandler() http.HandlerFunc {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic("failed to create static sub filesystem: " + err.Error())
	}
	fileServer := http.StripPrefix(RouteStaticPrefix, http.FileServerFS(sub))
	return fileServer.ServeHTTP
}
