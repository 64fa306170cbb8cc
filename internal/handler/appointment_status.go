package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/satyahealth/hospital-booking/internal/httperr"
	"github.com/satyahealth/hospital-booking/internal/middleware"
	"github.com/satyahealth/hospital-booking/internal/model"
	"github.com/satyahealth/hospital-booking/internal/notify"
	"github.com/satyahealth/hospital-booking/internal/repository"
)

// adminUpdateReq is the admin's partial appointment update.  Absent
// fields are left untouched.
type adminUpdateReq struct {
	Status          *string `json:"status"`
	AppointmentDate *string `json:"appointment_date"`
	Department      *string `json:"department"`
	HasVisited      *bool   `json:"hasVisited"`
	Address         *string `json:"address"`
}

func apptID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, httperr.New(http.StatusNotFound, "Appointment Not Found")
	}
	return id, nil
}

// UpdateByAdmin applies an admin edit.  The admin endpoint is
// deliberately permissive about status transitions; the patient is
// emailed only when the status actually changes to Accepted or
// Rejected.
func (h *AppointmentHandler) UpdateByAdmin(c echo.Context) error {
	id, err := apptID(c)
	if err != nil {
		return err
	}
	var req adminUpdateReq
	if err := c.Bind(&req); err != nil {
		return httperr.New(http.StatusBadRequest, "Invalid request body")
	}
	if req.Status != nil && !model.ValidStatus(*req.Status) {
		return httperr.Newf(http.StatusBadRequest, "Invalid appointment status: %s", *req.Status)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	before, err := h.Appointments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return httperr.New(http.StatusNotFound, "Appointment Not Found")
		}
		return err
	}

	appt, err := h.Appointments.UpdateFields(ctx, id, repository.Update{
		Status:          req.Status,
		AppointmentDate: req.AppointmentDate,
		Department:      req.Department,
		HasVisited:      req.HasVisited,
		Address:         req.Address,
	})
	if err != nil {
		return err
	}

	if req.Status != nil && *req.Status != before.Status {
		switch *req.Status {
		case model.StatusAccepted:
			h.notifyStatus(appt, notify.TemplateApproval)
		case model.StatusRejected:
			h.notifyStatus(appt, notify.TemplateRejection)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"message":     "Appointment Status Updated Successfully",
		"appointment": appt,
	})
}

func (h *AppointmentHandler) notifyStatus(appt model.Appointment, template string) {
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
}

// UpdateByDoctor lets a doctor move one of their own appointments to
// Accepted or Completed.  Ownership is matched by doctor_id or by the
// name snapshot, for rows created before ids were recorded.
func (h *AppointmentHandler) UpdateByDoctor(c echo.Context) error {
	id, err := apptID(c)
	if err != nil {
		return err
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return httperr.New(http.StatusBadRequest, "Invalid request body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	appt, err := h.Appointments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return httperr.New(http.StatusNotFound, "Appointment Not Found")
		}
		return err
	}

	// Ownership is settled before the status value is looked at, so a
	// doctor probing someone else's appointment learns nothing about
	// which transitions exist.
	doctor := middleware.CurrentUser(c)
	owned := (appt.DoctorID != nil && *appt.DoctorID == doctor.ID) ||
		(appt.DoctorFirstName == doctor.FirstName && appt.DoctorLastName == doctor.LastName)
	if !owned {
		return httperr.New(http.StatusForbidden, "You are not authorized to update this appointment")
	}

	if req.Status != model.StatusCompleted && req.Status != model.StatusAccepted {
		return httperr.New(http.StatusBadRequest, "Doctors can only change status to Completed or Accepted")
	}

	if err := h.Appointments.UpdateStatus(ctx, id, req.Status); err != nil {
		return err
	}
	appt.Status = req.Status

	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"message":     fmt.Sprintf("Appointment status updated to %s successfully", req.Status),
		"appointment": appt,
	})
}

// Delete removes an appointment.  Admins may delete any appointment;
// patients may cancel only their own and only while it is Pending.
func (h *AppointmentHandler) Delete(c echo.Context) error {
	id, err := apptID(c)
	if err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	appt, err := h.Appointments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return httperr.New(http.StatusNotFound, "Appointment Not Found")
		}
		return err
	}

	user := middleware.CurrentUser(c)
	if user.Role == model.RoleAdmin {
		if err := h.Appointments.Delete(ctx, id); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"message": "Appointment Deleted Successfully!!",
		})
	}

	if appt.PatientID == nil || *appt.PatientID != user.ID {
		return httperr.New(http.StatusForbidden, "You are not authorized to delete this appointment")
	}
	if appt.Status != model.StatusPending {
		return httperr.New(http.StatusBadRequest, "Only pending appointments can be cancelled by patients")
	}
	if err := h.Appointments.Delete(ctx, id); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Appointment Cancelled Successfully!!",
	})
}
