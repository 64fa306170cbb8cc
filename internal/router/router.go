// Package router wires the API surface onto an Echo instance.  All
// application routes live under the /api/v1 prefix; the health check is
// exposed at the root for load balancers.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/satyahealth/hospital-booking/internal/config"
	"github.com/satyahealth/hospital-booking/internal/handler"
	"github.com/satyahealth/hospital-booking/internal/repository"
)

// Deps bundles everything the routers need.
type Deps struct {
	Cfg          config.Config
	Users        *repository.UserRepo
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Appointments *handler.AppointmentHandler
	Payments     *handler.PaymentHandler
	Messages     *handler.MessageHandler
	Redis        *redis.Client
}

// Register wires every route group.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	api := e.Group("/api/v1")
	registerUserRoutes(api, d)
	registerAppointmentRoutes(api, d)
	registerPaymentRoutes(api, d)
	registerMessageRoutes(api, d)
}
