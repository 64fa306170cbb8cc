package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satyahealth/hospital-booking/internal/httperr"
	"github.com/satyahealth/hospital-booking/internal/model"
	"github.com/satyahealth/hospital-booking/internal/notify"
	"github.com/satyahealth/hospital-booking/internal/payment"
	"github.com/satyahealth/hospital-booking/internal/repository"
)

const paymentColumns = "id, appointment_id, patient_id, payment_ref_id, amount, currency, description, status, payment_method, transaction_id, qr_code_data, payment_url, payment_date, verified_at, created_at, updated_at"

func newPaymentHandler(t *testing.T) (*PaymentHandler, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	gw := payment.NewGateway("satyahospital@upi", "http://localhost:4000/api/v1/payment/callback")
	h := NewPaymentHandler(gw, repository.NewPaymentRepo(db), repository.NewAppointmentRepo(db))
	h.Notify = func(string, string, string, notify.EmailData) {}
	return h, mock
}

func paymentRows(id int64, refID, status string, txnID any) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(strings.Split(paymentColumns, ", ")).
		AddRow(id, int64(7), int64(5), refID, 500, "INR", "Appointment Booking Fee",
			status, "UPI", txnID, "data:image/png;base64,abc", "upi://pay?pa=x",
			now, nil, now, now)
}

func TestGenerateQRRequiresAppointmentID(t *testing.T) {
	h, _ := newPaymentHandler(t)
	e := echo.New()
	req, rec := jsonReq(http.MethodPost, "/api/v1/payment/generate-qr", `{}`)
	c := e.NewContext(req, rec)

	err := h.GenerateQR(c)
	var appErr *httperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, "Appointment ID is required", appErr.Message)
}

func TestGenerateQRCreatesPayment(t *testing.T) {
	h, mock := newPaymentHandler(t)
	mock.ExpectQuery("FROM appointments WHERE id=").
		WithArgs(uint64(7)).
		WillReturnRows(storedApptRows(7, model.StatusPending, int64(5)))
	mock.ExpectQuery("FROM payments WHERE appointment_id=").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows(strings.Split(paymentColumns, ", ")))
	mock.ExpectExec("INSERT INTO payments").
		WillReturnResult(sqlmock.NewResult(1, 1))

	e := echo.New()
	req, rec := jsonReq(http.MethodPost, "/api/v1/payment/generate-qr", `{"appointmentId":7}`)
	c := e.NewContext(req, rec)

	require.NoError(t, h.GenerateQR(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	out := rec.Body.String()
	assert.Contains(t, out, "Payment QR code generated successfully")
	assert.Contains(t, out, "data:image/png;base64,")
	assert.Contains(t, out, `"amount":500`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateQRKeepsCompletedPayment(t *testing.T) {
	h, mock := newPaymentHandler(t)
	mock.ExpectQuery("FROM appointments WHERE id=").
		WithArgs(uint64(7)).
		WillReturnRows(storedApptRows(7, model.StatusPending, int64(5)))
	mock.ExpectQuery("FROM payments WHERE appointment_id=").
		WithArgs(uint64(7)).
		WillReturnRows(paymentRows(1, "APT_1_deadbeef", model.PayStateSuccess, "TXN_1_deadbeef"))

	e := echo.New()
	req, rec := jsonReq(http.MethodPost, "/api/v1/payment/generate-qr", `{"appointmentId":7}`)
	c := e.NewContext(req, rec)

	require.NoError(t, h.GenerateQR(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Payment already completed for this appointment")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckStatusSettlesPendingAppointment(t *testing.T) {
	h, mock := newPaymentHandler(t)
	mock.ExpectQuery("FROM payments WHERE payment_ref_id=").
		WithArgs("APT_1_deadbeef").
		WillReturnRows(paymentRows(1, "APT_1_deadbeef", model.PayStatePending, nil))
	mock.ExpectExec("UPDATE payments SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM appointments WHERE id=").
		WithArgs(uint64(7)).
		WillReturnRows(storedApptRows(7, model.StatusPending, int64(5)))
	mock.ExpectExec(`UPDATE appointments SET payment_status = \? WHERE id = \?`).
		WithArgs(model.PaymentPaid, uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("paymentRefId")
	c.SetParamValues("APT_1_deadbeef")

	require.NoError(t, h.CheckStatus(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Payment status: SUCCESS")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckStatusLeavesReviewedAppointmentAlone(t *testing.T) {
	h, mock := newPaymentHandler(t)
	mock.ExpectQuery("FROM payments WHERE payment_ref_id=").
		WithArgs("APT_1_deadbeef").
		WillReturnRows(paymentRows(1, "APT_1_deadbeef", model.PayStatePending, nil))
	mock.ExpectExec("UPDATE payments SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Accepted appointment: no payment_status write expected.
	mock.ExpectQuery("FROM appointments WHERE id=").
		WithArgs(uint64(7)).
		WillReturnRows(storedApptRows(7, model.StatusAccepted, int64(5)))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("paymentRefId")
	c.SetParamValues("APT_1_deadbeef")

	require.NoError(t, h.CheckStatus(c))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCallbackMarksAppointmentPaid(t *testing.T) {
	h, mock := newPaymentHandler(t)
	mock.ExpectQuery("FROM payments WHERE payment_ref_id=").
		WithArgs("APT_1_deadbeef").
		WillReturnRows(paymentRows(1, "APT_1_deadbeef", model.PayStatePending, nil))
	mock.ExpectExec("UPDATE payments SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM appointments WHERE id=").
		WithArgs(uint64(7)).
		WillReturnRows(storedApptRows(7, model.StatusPending, int64(5)))
	mock.ExpectExec(`UPDATE appointments SET payment_status = \? WHERE id = \?`).
		WithArgs(model.PaymentPaid, uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/payment/callback?refId=APT_1_deadbeef&transactionId=TXN_EXT_1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Callback(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Payment callback processed successfully")
}

func TestCallbackRedirectsBrowsers(t *testing.T) {
	h, mock := newPaymentHandler(t)
	mock.ExpectQuery("FROM payments WHERE payment_ref_id=").
		WithArgs("APT_1_deadbeef").
		WillReturnRows(paymentRows(1, "APT_1_deadbeef", model.PayStatePending, nil))
	mock.ExpectExec("UPDATE payments SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM appointments WHERE id=").
		WithArgs(uint64(7)).
		WillReturnRows(storedApptRows(7, model.StatusPending, int64(5)))
	mock.ExpectExec(`UPDATE appointments SET payment_status = \? WHERE id = \?`).
		WithArgs(model.PaymentPaid, uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/payment/callback?refId=APT_1_deadbeef&transactionId=TXN_EXT_1", nil)
	req.Header.Set(echo.HeaderAccept, "text/html")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Callback(c))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderLocation), "/payment/status?ref=APT_1_deadbeef")
}

func TestCallbackWithoutRef(t *testing.T) {
	h, _ := newPaymentHandler(t)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/payment/callback", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Callback(c)
	var appErr *httperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
}
