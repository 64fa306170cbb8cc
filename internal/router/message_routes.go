package router

import (
	"github.com/labstack/echo/v4"

	"github.com/satyahealth/hospital-booking/internal/config"
	"github.com/satyahealth/hospital-booking/internal/middleware"
)

// registerMessageRoutes wires the contact form under /api/v1/message.
func registerMessageRoutes(api *echo.Group, d Deps) {
	g := api.Group("/message")

	g.POST("/send", d.Messages.Send,
		middleware.NewRateLimiter(config.LoadRateLimitConfig(), d.Redis))
	g.GET("/getall", d.Messages.GetAll,
		middleware.RequireAdmin(d.Users, d.Cfg.JWTSecret))
}
