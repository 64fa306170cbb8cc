package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/satyahealth/hospital-booking/internal/config"
	"github.com/satyahealth/hospital-booking/internal/httperr"
	"github.com/satyahealth/hospital-booking/internal/middleware"
	"github.com/satyahealth/hospital-booking/internal/model"
	"github.com/satyahealth/hospital-booking/internal/repository"
	"github.com/satyahealth/hospital-booking/internal/utils"
)

// AuthHandler bundles dependencies for registration, login and session
// endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type registerReq struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	Gender    string `json:"gender"`
	DOB       string `json:"dob"`
	NIC       string `json:"nic"`
	Role      string `json:"role"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// PatientRegister creates a patient account and logs it in immediately
// by setting the patient session cookie.
func (h *AuthHandler) PatientRegister(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return httperr.New(http.StatusBadRequest, "Please fill all the fields!")
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Phone == "" ||
		req.Password == "" || req.Gender == "" || req.DOB == "" || req.NIC == "" || req.Role == "" {
		return httperr.New(http.StatusBadRequest, "Please fill all the fields!")
	}
	if !utils.IsValidAadhaar(req.NIC) {
		return httperr.New(http.StatusBadRequest, "Please provide a valid 12-digit Aadhaar number")
	}
	dob, ok := parseDOB(req.DOB)
	if !ok {
		return httperr.New(http.StatusBadRequest, "Please provide a valid date of birth")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Users.GetByEmail(ctx, req.Email); err == nil {
		return httperr.New(http.StatusBadRequest, "User already exists!")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	user := model.User{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     req.Email,
		Phone:     req.Phone,
		NIC:       req.NIC,
		DOB:       dob,
		Gender:    req.Gender,
		Role:      model.RolePatient,
	}
	if _, err := h.Users.Create(ctx, &user, req.Password, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return httperr.New(http.StatusBadRequest, "User already exists!")
		}
		return err
	}

	return h.issueSession(c, user, http.StatusOK, "User registered successfully!")
}

// Login authenticates any role.  When the request names a role, the
// account must hold it; this keeps a patient from signing in to the
// admin portal with valid credentials.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return httperr.New(http.StatusBadRequest, "Please provide email and password!")
	}
	if req.Email == "" || req.Password == "" {
		return httperr.New(http.StatusBadRequest, "Please provide email and password!")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return httperr.New(http.StatusBadRequest, "User does not exist!")
		}
		return err
	}
	if !utils.VerifyPassword(user.PasswordHash, req.Password) {
		return httperr.New(http.StatusBadRequest, "Invalid email or password!")
	}
	if req.Role != "" && req.Role != user.Role {
		return httperr.New(http.StatusBadRequest, "You don't have permission to access this portal!")
	}

	return h.issueSession(c, user, http.StatusOK, "User Logged in successfully!")
}

// issueSession signs a token, sets the role cookie and writes the
// standard auth response.
func (h *AuthHandler) issueSession(c echo.Context, user model.User, status int, message string) error {
	token, err := utils.NewAuthToken(h.Cfg.JWTSecret, user.ID, h.Cfg.TokenTTLDays)
	if err != nil {
		return err
	}
	setSessionCookie(c, utils.CookieNameForRole(user.Role), token, h.Cfg.CookieTTLDays)
	return c.JSON(status, echo.Map{
		"success": true,
		"message": message,
		"user":    user,
		"token":   token,
	})
}

// Me returns the authenticated user loaded by the auth middleware.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "User details fetched successfully!",
		"user":    middleware.CurrentUser(c),
	})
}

// Logout clears the session cookie of the given role.
func (h *AuthHandler) Logout(role string) echo.HandlerFunc {
	return func(c echo.Context) error {
		clearSessionCookie(c, utils.CookieNameForRole(role))
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"message": role + " logged out successfully!",
		})
	}
}
