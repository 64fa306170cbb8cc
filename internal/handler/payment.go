package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/satyahealth/hospital-booking/internal/httperr"
	"github.com/satyahealth/hospital-booking/internal/model"
	"github.com/satyahealth/hospital-booking/internal/notify"
	"github.com/satyahealth/hospital-booking/internal/payment"
	"github.com/satyahealth/hospital-booking/internal/repository"
)

// PaymentHandler exposes the UPI payment stub: QR generation, polling
// and the gateway callback.
type PaymentHandler struct {
	Gateway      *payment.Gateway
	Payments     *repository.PaymentRepo
	Appointments *repository.AppointmentRepo
	Notify       func(template, to, toName string, data notify.EmailData)
}

func NewPaymentHandler(g *payment.Gateway, p *repository.PaymentRepo, a *repository.AppointmentRepo) *PaymentHandler {
	return &PaymentHandler{Gateway: g, Payments: p, Appointments: a, Notify: notifyAsync}
}

// GenerateQR creates or refreshes the payment request for an
// appointment.  A completed payment is returned as-is instead of being
// reset.
func (h *PaymentHandler) GenerateQR(c echo.Context) error {
	var req struct {
		AppointmentID uint64 `json:"appointmentId"`
	}
	if err := c.Bind(&req); err != nil || req.AppointmentID == 0 {
		return httperr.New(http.StatusBadRequest, "Appointment ID is required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	appt, err := h.Appointments.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return httperr.New(http.StatusNotFound, "Appointment not found")
		}
		return err
	}

	existing, err := h.Payments.GetByAppointment(ctx, appt.ID)
	switch {
	case err == nil && existing.Status == model.PayStateSuccess:
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"message": "Payment already completed for this appointment",
			"payment": existing,
		})
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return err
	}

	reqData, gerr := h.Gateway.CreateRequest(appt.AppointmentNumber, appt.FirstName+" "+appt.LastName, model.DefaultBookingFee)
	if gerr != nil {
		return httperr.New(http.StatusInternalServerError, "Failed to generate payment QR code")
	}

	var pay model.Payment
	if err == nil {
		// Reuse the existing row, replacing its gateway artifacts.
		if err := h.Payments.Refresh(ctx, existing.ID, reqData.RefID, reqData.QRCodeData, reqData.PaymentURL, time.Now().UTC()); err != nil {
			return err
		}
		pay, err = h.Payments.GetByRef(ctx, reqData.RefID)
		if err != nil {
			return err
		}
	} else {
		pay = model.Payment{
			AppointmentID: appt.ID,
			PatientID:     appt.PatientID,
			PaymentRefID:  reqData.RefID,
			Amount:        reqData.Amount,
			Currency:      reqData.Currency,
			Description:   "Appointment Booking Fee",
			Status:        model.PayStatePending,
			PaymentMethod: "UPI",
			QRCodeData:    reqData.QRCodeData,
			PaymentURL:    reqData.PaymentURL,
			PaymentDate:   time.Now().UTC(),
		}
		if err := h.Payments.Create(ctx, &pay); err != nil {
			return err
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Payment QR code generated successfully",
		"payment": pay,
	})
}

// CheckStatus polls the gateway for a payment reference and settles the
// appointment's payment flag on success.
func (h *PaymentHandler) CheckStatus(c echo.Context) error {
	refID := c.Param("paymentRefId")
	if refID == "" {
		return httperr.New(http.StatusBadRequest, "Payment reference ID is required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	pay, err := h.Payments.GetByRef(ctx, refID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return httperr.New(http.StatusNotFound, "Payment not found")
		}
		return err
	}

	ver := h.Gateway.Verify(refID)
	if err := h.Payments.MarkVerified(ctx, refID, ver.Status, ver.TransactionID, ver.VerifiedAt); err != nil {
		return err
	}
	pay.Status = ver.Status
	pay.TransactionID = &ver.TransactionID
	pay.VerifiedAt = &ver.VerifiedAt

	if ver.Status == model.PayStateSuccess {
		appt, err := h.Appointments.GetByID(ctx, pay.AppointmentID)
		// A paid booking that the admin already reviewed keeps its
		// reviewed state; only Pending rows get the PAID flag here.
		if err == nil && appt.Status == model.StatusPending {
			if err := h.Appointments.SetPaymentStatus(ctx, appt.ID, model.PaymentPaid); err != nil {
				return err
			}
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Payment status: " + pay.Status,
		"payment": pay,
	})
}

// Callback handles the gateway's redirect or server-to-server callback.
// On success the appointment is flagged PAID and a confirmation email is
// queued.
func (h *PaymentHandler) Callback(c echo.Context) error {
	refID := c.QueryParam("refId")
	txnID := c.QueryParam("transactionId")
	if refID == "" {
		// POST callbacks carry a JSON body instead of query params.
		var body struct {
			RefID         string `json:"refId"`
			TransactionID string `json:"transactionId"`
		}
		if err := c.Bind(&body); err == nil {
			refID, txnID = body.RefID, body.TransactionID
		}
	}

	result, err := h.Gateway.HandleCallback(refID, txnID)
	if err != nil {
		return httperr.New(http.StatusBadRequest, "Failed to process payment callback")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	pay, err := h.Payments.GetByRef(ctx, result.RefID)
	if err == nil {
		if err := h.Payments.MarkVerified(ctx, result.RefID, result.Status, result.TransactionID, result.VerifiedAt); err != nil {
			return err
		}
		if result.Status == model.PayStateSuccess {
			if appt, err := h.Appointments.GetByID(ctx, pay.AppointmentID); err == nil {
				if err := h.Appointments.SetPaymentStatus(ctx, appt.ID, model.PaymentPaid); err != nil {
					return err
				}
				h.Notify(notify.TemplatePayment, appt.Email, appt.FirstName+" "+appt.LastName, notify.EmailData{
					FirstName:         appt.FirstName,
					LastName:          appt.LastName,
					AppointmentNumber: appt.AppointmentNumber,
					AppointmentDate:   appt.AppointmentDate,
					Department:        appt.Department,
					DoctorName:        "Dr. " + appt.DoctorFullName(),
					Amount:            pay.Amount,
					TransactionID:     result.TransactionID,
				})
			}
		}
	}

	// Browsers get redirected to the status page; API clients get JSON.
	if strings.Contains(c.Request().Header.Get("Accept"), "text/html") {
		return c.Redirect(http.StatusFound, "/payment/status?ref="+result.RefID+"&status="+result.Status)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Payment callback processed successfully",
		"result":  result,
	})
}
