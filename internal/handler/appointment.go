package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/satyahealth/hospital-booking/internal/httperr"
	"github.com/satyahealth/hospital-booking/internal/middleware"
	"github.com/satyahealth/hospital-booking/internal/model"
	"github.com/satyahealth/hospital-booking/internal/notify"
	"github.com/satyahealth/hospital-booking/internal/repository"
	"github.com/satyahealth/hospital-booking/internal/utils"
)

// AppointmentHandler covers the booking flows and appointment listings.
// Notify queues one templated email per call; it defaults to the
// RabbitMQ publisher and exists as a field so tests can count exactly
// which notifications a request produced.
type AppointmentHandler struct {
	Users        *repository.UserRepo
	Appointments *repository.AppointmentRepo
	Notify       func(template, to, toName string, data notify.EmailData)
}

func NewAppointmentHandler(u *repository.UserRepo, a *repository.AppointmentRepo) *AppointmentHandler {
	return &AppointmentHandler{Users: u, Appointments: a, Notify: notifyAsync}
}

// bookingReq is the booking payload shared by all three booking flows.
// Field names follow the public site's form, including the snake_case
// date and doctor fields.
type bookingReq struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	NIC             string `json:"nic"`
	DOB             string `json:"dob"`
	Gender          string `json:"gender"`
	AppointmentDate string `json:"appointment_date"`
	Department      string `json:"department"`
	DoctorFirstName string `json:"doctor_firstName"`
	DoctorLastName  string `json:"doctor_lastName"`
	HasVisited      bool   `json:"hasVisited"`
	Address         string `json:"address"`
}

// validate checks required fields; doctor selection requirements differ
// per flow so the doctor fields are checked by callers.
func (r bookingReq) validate() error {
	if r.FirstName == "" || r.LastName == "" || r.Email == "" || r.Phone == "" ||
		r.NIC == "" || r.DOB == "" || r.Gender == "" || r.AppointmentDate == "" ||
		r.Department == "" || r.Address == "" {
		return httperr.New(http.StatusBadRequest, "Please fill all fields")
	}
	if !utils.IsValidAadhaar(r.NIC) {
		return httperr.New(http.StatusBadRequest, "Please provide a valid 12-digit Aadhaar number")
	}
	return nil
}

// resolveDoctor matches the requested doctor by name within the
// department.  Exactly one match is required; ambiguity is a hard error
// because the booking stores a name snapshot.
func (h *AppointmentHandler) resolveDoctor(c echo.Context, req bookingReq) (model.User, error) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	doctors, err := h.Users.FindDoctorsByNameAndDepartment(ctx, req.DoctorFirstName, req.DoctorLastName, req.Department)
	if err != nil {
		return model.User{}, err
	}
	if len(doctors) == 0 {
		return model.User{}, httperr.New(http.StatusNotFound, "Doctor Not Found")
	}
	if len(doctors) > 1 {
		return model.User{}, httperr.New(http.StatusBadRequest,
			"Multiple doctors found with the same name in the specified department. Please Contact Through Email or Phone !!")
	}
	return doctors[0], nil
}

// buildAppointment assembles the appointment row from a validated
// request.  The patient identity columns are filled by the caller.
func buildAppointment(req bookingReq, dob time.Time) model.Appointment {
	return model.Appointment{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		NIC:             req.NIC,
		DOB:             dob,
		Gender:          req.Gender,
		AppointmentDate: req.AppointmentDate,
		Department:      req.Department,
		DoctorFirstName: req.DoctorFirstName,
		DoctorLastName:  req.DoctorLastName,
		HasVisited:      req.HasVisited,
		Address:         req.Address,
	}
}

// bookOne performs the shared book-and-notify step.
func (h *AppointmentHandler) bookOne(c echo.Context, appt *model.Appointment, template string) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Appointments.Create(ctx, appt); err != nil {
		return err
	}
	doctorName := appt.DoctorFullName()
	if appt.Department == model.DepartmentOther {
		doctorName = "To be assigned by hospital"
	}
	h.Notify(template, appt.Email, appt.FirstName+" "+appt.LastName, notify.EmailData{
		FirstName:         appt.FirstName,
		LastName:          appt.LastName,
		AppointmentNumber: appt.AppointmentNumber,
		AppointmentDate:   appt.AppointmentDate,
		Department:        appt.Department,
		DoctorName:        doctorName,
	})
	return nil
}

// Book books a single appointment for the authenticated patient.
func (h *AppointmentHandler) Book(c echo.Context) error {
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return httperr.New(http.StatusBadRequest, "Please fill all fields")
	}
	if req.DoctorFirstName == "" || req.DoctorLastName == "" {
		return httperr.New(http.StatusBadRequest, "Please fill all fields")
	}
	if err := req.validate(); err != nil {
		return err
	}
	dob, ok := parseDOB(req.DOB)
	if !ok {
		return httperr.New(http.StatusBadRequest, "Please provide a valid date of birth")
	}

	doctor, err := h.resolveDoctor(c, req)
	if err != nil {
		return err
	}

	patient := middleware.CurrentUser(c)
	appt := buildAppointment(req, dob)
	appt.DoctorID = &doctor.ID
	appt.PatientID = &patient.ID

	if err := h.bookOne(c, &appt, notify.TemplateBooking); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success":     true,
		"message":     "Appointment booked successfully",
		"appointment": appt,
	})
}

// BookMultiple books a batch of appointments, reporting per-item errors
// without failing the whole batch.
func (h *AppointmentHandler) BookMultiple(c echo.Context) error {
	var body struct {
		Appointments []bookingReq `json:"appointments"`
	}
	if err := c.Bind(&body); err != nil || len(body.Appointments) == 0 {
		return httperr.New(http.StatusBadRequest, "Please provide valid appointments array")
	}

	patient := middleware.CurrentUser(c)
	created := make([]model.Appointment, 0, len(body.Appointments))
	errs := make([]string, 0)

	for _, req := range body.Appointments {
		if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Phone == "" ||
			req.NIC == "" || req.DOB == "" || req.Gender == "" || req.AppointmentDate == "" ||
			req.Department == "" || req.Address == "" ||
			req.DoctorFirstName == "" || req.DoctorLastName == "" {
			errs = append(errs, fmt.Sprintf("Appointment for %s is missing required fields", req.AppointmentDate))
			continue
		}
		if !utils.IsValidAadhaar(req.NIC) {
			errs = append(errs, fmt.Sprintf("Invalid Aadhaar number for appointment on %s", req.AppointmentDate))
			continue
		}
		dob, ok := parseDOB(req.DOB)
		if !ok {
			errs = append(errs, fmt.Sprintf("Appointment for %s is missing required fields", req.AppointmentDate))
			continue
		}

		doctor, err := h.resolveDoctor(c, req)
		if err != nil {
			var appErr *httperr.Error
			switch {
			case errors.As(err, &appErr) && appErr.Code == http.StatusNotFound:
				errs = append(errs, fmt.Sprintf("Doctor not found for appointment on %s", req.AppointmentDate))
			case errors.As(err, &appErr):
				errs = append(errs, fmt.Sprintf("Multiple doctors found with the same name in %s", req.Department))
			default:
				errs = append(errs, fmt.Sprintf("Failed to book appointment: %v", err))
			}
			continue
		}

		appt := buildAppointment(req, dob)
		appt.DoctorID = &doctor.ID
		appt.PatientID = &patient.ID
		if err := h.bookOne(c, &appt, notify.TemplateBooking); err != nil {
			errs = append(errs, fmt.Sprintf("Failed to book appointment: %v", err))
			continue
		}
		created = append(created, appt)
	}

	message := "No appointments were booked"
	if len(created) > 0 {
		message = fmt.Sprintf("Successfully booked %d appointments", len(created))
	}
	resp := echo.Map{
		"success":             true,
		"message":             message,
		"appointmentsCreated": len(created),
		"totalRequested":      len(body.Appointments),
		"appointments":        created,
	}
	if len(errs) > 0 {
		resp["errors"] = errs
	}
	return c.JSON(http.StatusCreated, resp)
}

// DirectBook books an appointment without authentication.  Bookings for
// the "Other" department carry a placeholder doctor until the hospital
// assigns one; all direct bookings get a minted patient reference in
// place of an account link.
func (h *AppointmentHandler) DirectBook(c echo.Context) error {
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return httperr.New(http.StatusBadRequest, "Please fill all required fields")
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Phone == "" ||
		req.NIC == "" || req.DOB == "" || req.Gender == "" || req.AppointmentDate == "" ||
		req.Department == "" || req.Address == "" {
		return httperr.New(http.StatusBadRequest, "Please fill all required fields")
	}
	if req.Department != model.DepartmentOther && (req.DoctorFirstName == "" || req.DoctorLastName == "") {
		return httperr.New(http.StatusBadRequest, "Please select a doctor for this department")
	}
	if !utils.IsValidAadhaar(req.NIC) {
		return httperr.New(http.StatusBadRequest, "Please provide a valid 12-digit Aadhaar number")
	}
	dob, ok := parseDOB(req.DOB)
	if !ok {
		return httperr.New(http.StatusBadRequest, "Please provide a valid date of birth")
	}

	appt := buildAppointment(req, dob)
	if req.Department == model.DepartmentOther {
		appt.DoctorFirstName = model.PlaceholderDoctorFirstName
		appt.DoctorLastName = model.PlaceholderDoctorLastName
	} else {
		doctor, err := h.resolveDoctor(c, req)
		if err != nil {
			return err
		}
		appt.DoctorID = &doctor.ID
	}
	ref := uuid.NewString()
	appt.PatientRef = &ref

	if err := h.bookOne(c, &appt, notify.TemplateDirectBooking); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success":     true,
		"message":     "Appointment request submitted successfully. We will contact you shortly.",
		"appointment": appt,
	})
}

// GetAll returns every appointment for the admin dashboard.
func (h *AppointmentHandler) GetAll(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	appointments, err := h.Appointments.ListAll(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"appointments": appointments,
	})
}

// GetForPatient returns the authenticated patient's appointments.
func (h *AppointmentHandler) GetForPatient(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	patient := middleware.CurrentUser(c)
	appointments, err := h.Appointments.ListByPatient(ctx, patient.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"count":        len(appointments),
		"appointments": appointments,
	})
}

// GetForDoctor returns the authenticated doctor's appointments,
// optionally filtered by calendar day and status.  Without a status
// filter only Accepted appointments are shown.
func (h *AppointmentHandler) GetForDoctor(c echo.Context) error {
	doctor := middleware.CurrentUser(c)

	// Doctors see only their Accepted queue unless they ask for a
	// specific status.  "all" falls back to the default as well.
	filter := repository.DoctorFilter{Status: model.StatusAccepted}
	if s := c.QueryParam("status"); s != "" && s != "all" {
		filter.Status = s
	}
	if d := c.QueryParam("date"); d != "" {
		day, err := time.Parse("2006-01-02", d)
		if err != nil {
			if day, err = time.Parse(time.RFC3339, d); err != nil {
				return httperr.New(http.StatusBadRequest, "Invalid date format")
			}
		}
		filter.DatePrefix = day.UTC().Format("2006-01-02")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	appointments, err := h.Appointments.ListForDoctor(ctx, doctor.ID, doctor.FirstName, doctor.LastName, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"count":        len(appointments),
		"appointments": appointments,
	})
}
