package middleware // reusable HTTP middleware for the booking API

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/satyahealth/hospital-booking/internal/httperr"
	"github.com/satyahealth/hospital-booking/internal/model"
	"github.com/satyahealth/hospital-booking/internal/repository"
	"github.com/satyahealth/hospital-booking/internal/utils"
)

// CurrentUserKey is the context key the auth middlewares store the
// authenticated user under.  Handlers read it via CurrentUser.
const CurrentUserKey = "current_user"

// CurrentUser returns the user loaded by an auth middleware, or nil when
// the request is unauthenticated.
func CurrentUser(c echo.Context) *model.User {
	u, _ := c.Get(CurrentUserKey).(*model.User)
	return u
}

// requireRole builds a middleware that authenticates a request from the
// given role's session cookie and verifies the user still holds that
// role.  The token carries only the user ID; the role is loaded fresh
// from the database so a demoted account loses access immediately.
func requireRole(users *repository.UserRepo, secret, role string) echo.MiddlewareFunc {
	cookieName := utils.CookieNameForRole(role)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ck, err := c.Cookie(cookieName)
			if err != nil || ck.Value == "" {
				return httperr.New(http.StatusBadRequest, "Not Authenticated "+role)
			}
			id, err := utils.ParseAuthToken(secret, ck.Value)
			if err != nil {
				return err // jwt errors map to 400 in the central handler
			}
			user, err := users.GetByID(c.Request().Context(), id)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) || errors.Is(err, repository.ErrNotFound) {
					return httperr.New(http.StatusBadRequest, "Not Authenticated "+role)
				}
				return err
			}
			if user.Role != role {
				return httperr.Newf(http.StatusForbidden, "%s is not authorized for this resource!", user.Role)
			}
			c.Set(CurrentUserKey, &user)
			return next(c)
		}
	}
}

// RequireAdmin authenticates the adminToken cookie.
func RequireAdmin(users *repository.UserRepo, secret string) echo.MiddlewareFunc {
	return requireRole(users, secret, model.RoleAdmin)
}

// RequireDoctor authenticates the doctorToken cookie.
func RequireDoctor(users *repository.UserRepo, secret string) echo.MiddlewareFunc {
	return requireRole(users, secret, model.RoleDoctor)
}

// RequirePatient authenticates the patientToken cookie.
func RequirePatient(users *repository.UserRepo, secret string) echo.MiddlewareFunc {
	return requireRole(users, secret, model.RolePatient)
}

// RequireAdminOrPatient accepts either session cookie, trying the
// patient one first.  Used on endpoints whose behavior branches on the
// caller's role, such as appointment deletion.
func RequireAdminOrPatient(users *repository.UserRepo, secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			patientCk, patientErr := c.Cookie(utils.PatientCookie)
			adminCk, adminErr := c.Cookie(utils.AdminCookie)
			if patientErr != nil && adminErr != nil {
				return httperr.New(http.StatusUnauthorized, "Not Authenticated")
			}

			if patientErr == nil && patientCk.Value != "" {
				if user, ok := userForToken(c, users, secret, patientCk.Value, model.RolePatient); ok {
					c.Set(CurrentUserKey, user)
					return next(c)
				}
			}
			if adminErr == nil && adminCk.Value != "" {
				if user, ok := userForToken(c, users, secret, adminCk.Value, model.RoleAdmin); ok {
					c.Set(CurrentUserKey, user)
					return next(c)
				}
			}
			return httperr.New(http.StatusForbidden, "Not authorized")
		}
	}
}

// userForToken resolves a token to a user and checks the expected role.
func userForToken(c echo.Context, users *repository.UserRepo, secret, raw, role string) (*model.User, bool) {
	id, err := utils.ParseAuthToken(secret, raw)
	if err != nil {
		return nil, false
	}
	user, err := users.GetByID(c.Request().Context(), id)
	if err != nil || user.Role != role {
		return nil, false
	}
	return &user, true
}
