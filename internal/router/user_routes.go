package router

import (
	"github.com/labstack/echo/v4"

	"github.com/satyahealth/hospital-booking/internal/config"
	"github.com/satyahealth/hospital-booking/internal/middleware"
	"github.com/satyahealth/hospital-booking/internal/model"
)

// registerUserRoutes wires identity and account management under
// /api/v1/user.  Each role has its own me/logout pair because sessions
// travel in role-scoped cookies.
func registerUserRoutes(api *echo.Group, d Deps) {
	g := api.Group("/user")

	admin := middleware.RequireAdmin(d.Users, d.Cfg.JWTSecret)
	doctor := middleware.RequireDoctor(d.Users, d.Cfg.JWTSecret)
	patient := middleware.RequirePatient(d.Users, d.Cfg.JWTSecret)

	g.POST("/patient/register", d.Auth.PatientRegister)
	g.POST("/login", d.Auth.Login)

	g.GET("/admin/me", d.Auth.Me, admin)
	g.GET("/patient/me", d.Auth.Me, patient)
	g.GET("/doctor/me", d.Auth.Me, doctor)

	g.GET("/admin/logout", d.Auth.Logout(model.RoleAdmin), admin)
	g.GET("/patient/logout", d.Auth.Logout(model.RolePatient), patient)
	g.GET("/doctor/logout", d.Auth.Logout(model.RoleDoctor), doctor)

	g.POST("/admin/addnew", d.User.AddNewAdmin, admin)
	g.POST("/doctor/addnew", d.User.AddNewDoctor, admin)
	g.DELETE("/doctor/:id", d.User.DeleteDoctor, admin)

	// Public doctor directory, cached in Redis when available.
	g.GET("/doctors", d.User.GetAllDoctors,
		middleware.NewResponseCache(config.LoadCacheConfig(), d.Redis))
}
