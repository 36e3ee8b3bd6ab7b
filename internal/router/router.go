// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/willowbend/lodge-admin/internal/handler"
	"github.com/willowbend/lodge-admin/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently this is only the health check used by load balancers and
// monitoring systems.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints.  Login, refresh
// and logout are open; registering new staff is restricted to ADMINs
// and therefore lives behind the JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	admin := e.Group("/v1/auth")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole("ADMIN"))
	admin.POST("/register", a.Register)

	me := e.Group("/v1")
	me.Use(middleware.JWTAuth(jwtSecret))
	me.Use(middleware.RequireRole("ADMIN", "STAFF"))
	me.GET("/me", a.Me)
}

// RegisterAdmin registers the dashboard resource endpoints.  All of
// them require an authenticated staff member.  The extra middleware
// (rate limiting and, for reads, response caching) is passed in by the
// caller; both degrade to pass-throughs when Redis is unavailable.
func RegisterAdmin(e *echo.Echo, cabins *handler.CabinHandler, settings *handler.SettingHandler,
	jwtSecret string, rateLimit, cache echo.MiddlewareFunc) {

	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN", "STAFF"))
	g.Use(rateLimit)

	g.GET("/cabins", cabins.ListCabins, cache)
	g.GET("/cabins/:id", cabins.GetCabin, cache)
	g.POST("/cabins", cabins.CreateCabin)
	g.PUT("/cabins/:id", cabins.UpdateCabin)
	g.DELETE("/cabins/:id", cabins.DeleteCabin)

	g.GET("/settings", settings.GetSettings, cache)
	g.PATCH("/settings", settings.UpdateSettings)
}
