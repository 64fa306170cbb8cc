package notify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleData() EmailData {
	return EmailData{
		FirstName:         "Asha",
		LastName:          "Verma",
		AppointmentNumber: "STH123456",
		AppointmentDate:   "2026-09-14",
		Department:        "Orthopedics",
		DoctorName:        "Rohan Mehta",
	}
}

func TestRenderBooking(t *testing.T) {
	subject, html, err := Render(TemplateBooking, sampleData())
	require.NoError(t, err)

	assert.Equal(t, "Appointment Confirmation - Satya Trauma & Maternity Center", subject)
	assert.Contains(t, html, "Dear Asha Verma")
	assert.Contains(t, html, "STH123456")
	assert.Contains(t, html, "Orthopedics")
	assert.Contains(t, html, "Rohan Mehta")
	assert.Contains(t, html, "Pending Approval")
}

func TestRenderDirectBookingPlaceholderDoctor(t *testing.T) {
	data := sampleData()
	data.Department = "Other"
	data.DoctorName = "To be assigned by hospital"

	subject, html, err := Render(TemplateDirectBooking, data)
	require.NoError(t, err)

	assert.Equal(t, "Appointment Request - Satya Trauma & Maternity Center", subject)
	assert.Contains(t, html, "To be assigned by hospital")
	assert.Contains(t, html, "We will contact you shortly")
}

func TestRenderApprovalAndRejection(t *testing.T) {
	_, approval, err := Render(TemplateApproval, sampleData())
	require.NoError(t, err)
	assert.Contains(t, approval, "APPROVED")
	assert.Contains(t, approval, "Approved")

	_, rejection, err := Render(TemplateRejection, sampleData())
	require.NoError(t, err)
	assert.Contains(t, rejection, "could not be accommodated")
	assert.Contains(t, rejection, "Not Approved")
}

func TestRenderPayment(t *testing.T) {
	data := sampleData()
	data.Amount = 500
	data.TransactionID = "TXN_1700000000_abcd1234"

	subject, html, err := Render(TemplatePayment, data)
	require.NoError(t, err)

	assert.Equal(t, "Payment Confirmation - Satya Trauma & Maternity Center", subject)
	assert.Contains(t, html, "500.00")
	assert.Contains(t, html, "TXN_1700000000_abcd1234")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, err := Render("no-such-template", sampleData())
	assert.Error(t, err)
}

func TestRenderEscapesUserInput(t *testing.T) {
	data := sampleData()
	data.FirstName = `<script>alert("x")</script>`

	_, html, err := Render(TemplateBooking, data)
	require.NoError(t, err)
	assert.False(t, strings.Contains(html, "<script>alert"))
}
