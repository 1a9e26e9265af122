package server

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET "+RouteIndex, s.IndexHandler())

	// LOGIN
	s.RegisterRouteFunc("GET "+RouteLogin, s.LoginPageHandler())
	s.RegisterRouteFunc("POST "+RouteLogin, s.LoginSubmissionHandler())
	s.RegisterRouteFunc("GET "+RouteVerifyOTP, s.VerifyOTPPageHandler())
	s.RegisterRouteFunc("POST "+RouteVerifyOTP, s.VerifyOTPSubmissionHandler())
	s.RegisterRouteFunc("GET "+RouteLogout, s.LogoutHandler())

	// SIGNUP
	s.RegisterRouteFunc("GET "+RouteSignup, s.SignupGetHandler())
	s.RegisterRouteFunc("POST "+RouteSignup, s.SignupPostHandler())

	// Federated login
	s.RegisterRouteFunc("GET "+RouteGoogleLogin, s.GoogleLoginHandler())
	s.RegisterRouteFunc("GET "+RouteGoogleCallback, s.GoogleCallbackHandler())

	// Authenticated routes
	s.RegisterRouteHandler("GET "+RouteDashboard, ChainMiddleware(s.DashboardHandler(), s.HTMLMiddleware(s.RequireSessionAuth())...))
	s.RegisterRouteHandler("POST "+RouteAPIChat, ChainMiddleware(s.ChatHandler(), s.APIMiddleware(s.RequireSessionAuth())...))
	s.RegisterRouteHandler("POST "+RouteAPIResetChat, ChainMiddleware(s.ResetChatHandler(), s.APIMiddleware(s.RequireSessionAuth())...))
}
