package router

import (
	"github.com/labstack/echo/v4"

	"github.com/satyahealth/hospital-booking/internal/config"
	"github.com/satyahealth/hospital-booking/internal/middleware"
)

// registerAppointmentRoutes wires the booking and lifecycle endpoints
// under /api/v1/appointment.
func registerAppointmentRoutes(api *echo.Group, d Deps) {
	g := api.Group("/appointment")

	admin := middleware.RequireAdmin(d.Users, d.Cfg.JWTSecret)
	doctor := middleware.RequireDoctor(d.Users, d.Cfg.JWTSecret)
	patient := middleware.RequirePatient(d.Users, d.Cfg.JWTSecret)

	// Anonymous direct booking is the only unauthenticated write, so it
	// carries the rate limiter.
	g.POST("/direct-book", d.Appointments.DirectBook,
		middleware.NewRateLimiter(config.LoadRateLimitConfig(), d.Redis))

	g.POST("/book", d.Appointments.Book, patient)
	g.POST("/book-multiple", d.Appointments.BookMultiple, patient)
	g.GET("/getall", d.Appointments.GetAll, admin)
	g.GET("/patient", d.Appointments.GetForPatient, patient)
	g.GET("/doctor", d.Appointments.GetForDoctor, doctor)
	g.PUT("/update/:id", d.Appointments.UpdateByAdmin, admin)
	g.PUT("/status/:id", d.Appointments.UpdateByDoctor, doctor)
	g.DELETE("/delete/:id", d.Appointments.Delete,
		middleware.RequireAdminOrPatient(d.Users, d.Cfg.JWTSecret))
}
