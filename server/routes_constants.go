package server

const (
	RouteIndex          = "/"
	RouteLogin          = "/login"
	RouteVerifyOTP      = "/verify-otp"
	RouteSignup         = "/signup"
	RouteLogout         = "/logout"
	RouteGoogleLogin    = "/google_login"
	RouteGoogleCallback = "/google_login/callback"
	RouteDashboard      = "/dashboard"
	RouteAPIChat        = "/api/chat"
	RouteAPIResetChat   = "/api/reset-chat"
)
