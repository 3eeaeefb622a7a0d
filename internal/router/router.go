package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/hariniis250314-stack/meal-attendance-v2/internal/handler"    // import the handlers that implement business logic
	"github.com/hariniis250314-stack/meal-attendance-v2/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring systems use this to verify the
	// service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAttendance registers the public attendance flow.  None of these
// routes require a token: trainees identify themselves by the last 4 digits
// of their phone, nothing more.
func RegisterAttendance(e *echo.Echo, a *handler.AttendanceHandler) {
	// Submit a fragment; answers with a record, a candidate list, or a
	// rejection.
	e.POST("/v1/attendance", a.Mark)
	// Second leg of an ambiguous match: pick one of the candidates that
	// were just displayed.
	e.POST("/v1/attendance/select", a.Select)
	// Today's records, most recent first-N, for the live log view.
	e.GET("/v1/attendance/today", a.Today)
	// Roster validation metrics for the status badges.
	e.GET("/v1/roster/status", a.Status)
}

// RegisterAdmin registers the admin surface.  Login is open; everything
// else lives in a group behind the JWT middleware and the ADMIN role, so a
// leaked URL without a fresh token gets a 401, not the log.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	// Exchange the shared password for a session token.
	e.POST("/v1/admin/login", a.Login)

	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN"))
	// Preview the first rows of the effective master sheet.
	g.GET("/preview", a.Preview)
	// Full or tail view of the meal log.
	g.GET("/log", a.Log)
	// Verbatim CSV download of the meal log.
	g.GET("/log/export", a.Export)
	// Unconditional full clear; idempotent.
	g.DELETE("/log", a.ClearLog)
	// Session-scoped roster source override.
	g.PUT("/source", a.SetSource)
	g.DELETE("/source", a.ClearSource)
}
