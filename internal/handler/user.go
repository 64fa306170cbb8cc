package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/satyahealth/hospital-booking/internal/config"
	"github.com/satyahealth/hospital-booking/internal/httperr"
	"github.com/satyahealth/hospital-booking/internal/model"
	"github.com/satyahealth/hospital-booking/internal/repository"
	"github.com/satyahealth/hospital-booking/internal/storage"
	"github.com/satyahealth/hospital-booking/internal/utils"
)

// UserHandler covers admin-side account management and the public
// doctor directory.
type UserHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Photos *storage.PhotoStore
}

func NewUserHandler(cfg config.Config, u *repository.UserRepo, p *storage.PhotoStore) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: u, Photos: p}
}

// AddNewAdmin registers another admin account.  Unlike patient
// registration no session is issued; the caller is already an admin.
func (h *UserHandler) AddNewAdmin(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return httperr.New(http.StatusBadRequest, "Please fill all the fields!")
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Phone == "" ||
		req.Password == "" || req.Gender == "" || req.DOB == "" || req.NIC == "" {
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

	if existing, err := h.Users.GetByEmail(ctx, req.Email); err == nil {
		return httperr.Newf(http.StatusBadRequest, "%s with this email already exists!", existing.Role)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	admin := model.User{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     req.Email,
		Phone:     req.Phone,
		NIC:       req.NIC,
		DOB:       dob,
		Gender:    req.Gender,
		Role:      model.RoleAdmin,
	}
	if _, err := h.Users.Create(ctx, &admin, req.Password, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return httperr.New(http.StatusBadRequest, "Admin with this email already exists!")
		}
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Admin added successfully!",
		"admin":   admin,
	})
}

// AddNewDoctor registers a doctor from a multipart form carrying the
// profile photo under the docPhoto field.  The NIC field holds the
// doctor's qualifications, not an Aadhaar number.
func (h *UserHandler) AddNewDoctor(c echo.Context) error {
	file, err := c.FormFile("docPhoto")
	if err != nil {
		return httperr.New(http.StatusBadRequest, "Please upload the Doctor's photo!")
	}
	mimetype := file.Header.Get("Content-Type")
	if mimetype == "image/jpg" {
		mimetype = "image/jpeg"
	}
	if !storage.AllowedType(mimetype) {
		return httperr.New(http.StatusBadRequest, "Please upload jpg, jpeg, webp or png format!")
	}

	firstName := c.FormValue("firstName")
	lastName := c.FormValue("lastName")
	email := c.FormValue("email")
	phone := c.FormValue("phone")
	password := c.FormValue("password")
	gender := c.FormValue("gender")
	dobStr := c.FormValue("dob")
	nic := c.FormValue("nic")
	department := c.FormValue("doctorDepartment")

	if firstName == "" || lastName == "" || email == "" || phone == "" ||
		password == "" || gender == "" || dobStr == "" || nic == "" || department == "" {
		return httperr.New(http.StatusBadRequest, "Please fill all the fields!")
	}
	if len(strings.TrimSpace(nic)) < 2 {
		return httperr.New(http.StatusBadRequest, "Qualifications must be at least 2 characters!")
	}
	dob, ok := parseDOB(dobStr)
	if !ok {
		return httperr.New(http.StatusBadRequest, "Please provide a valid date of birth")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if existing, err := h.Users.GetByEmail(ctx, email); err == nil {
		return httperr.Newf(http.StatusBadRequest, "%s with this email already exists!", existing.Role)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	doctor := model.User{
		FirstName:        strings.TrimSpace(firstName),
		LastName:         strings.TrimSpace(lastName),
		Email:            email,
		Phone:            phone,
		NIC:              nic,
		DOB:              dob,
		Gender:           gender,
		Role:             model.RoleDoctor,
		DoctorDepartment: &department,
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	publicID, photoURL, err := h.Photos.Upload(ctx, mimetype, src)
	if err != nil {
		return httperr.New(http.StatusBadRequest, "Please upload jpg, jpeg, webp or png format!")
	}
	if publicID != "" {
		doctor.PhotoPublicID = &publicID
		doctor.PhotoURL = &photoURL
	}

	if _, err := h.Users.Create(ctx, &doctor, password, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return httperr.New(http.StatusBadRequest, "Doctor with this email already exists!")
		}
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "New Doctor added successfully!",
		"doctor":  doctor,
	})
}

// GetAllDoctors returns the public doctor directory.
func (h *UserHandler) GetAllDoctors(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	doctors, err := h.Users.ListDoctors(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Doctors fetched successfully!",
		"doctors": doctors,
	})
}

// DeleteDoctor removes a doctor account along with its stored photo.
func (h *UserHandler) DeleteDoctor(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return httperr.New(http.StatusNotFound, "Doctor not found")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	doctor, err := h.Users.GetDoctorByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return httperr.New(http.StatusNotFound, "Doctor not found")
		}
		return err
	}

	if doctor.PhotoPublicID != nil {
		h.Photos.Delete(ctx, *doctor.PhotoPublicID)
	}
	if err := h.Users.Delete(ctx, doctor.ID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Doctor deleted successfully",
	})
}
