package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// Template names for the transactional emails the hospital sends.
const (
	TemplateBooking       = "booking"
	TemplateDirectBooking = "direct-booking"
	TemplateApproval      = "approval"
	TemplateRejection     = "rejection"
	TemplatePayment       = "payment-confirmation"
)

// Subjects per template.
var subjects = map[string]string{
	TemplateBooking:       "Appointment Confirmation - Satya Trauma & Maternity Center",
	TemplateDirectBooking: "Appointment Request - Satya Trauma & Maternity Center",
	TemplateApproval:      "Appointment Approved - Satya Trauma & Maternity Center",
	TemplateRejection:     "Appointment Not Approved - Satya Trauma & Maternity Center",
	TemplatePayment:       "Payment Confirmation - Satya Trauma & Maternity Center",
}

// EmailData carries the fields interpolated into the templates.
// DoctorName is "To be assigned by hospital" for Other-department
// bookings.  Amount and TransactionID are set only on payment emails.
type EmailData struct {
	FirstName         string
	LastName          string
	AppointmentNumber string
	AppointmentDate   string
	Department        string
	DoctorName        string
	Amount            int
	TransactionID     string
	Year              int
}

const layoutTpl = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #ddd; border-radius: 5px;">
  <div style="padding: 15px; text-align: center; background-color: white;">
    <span style="color: #0053a2; font-size: 60px; font-weight: bold;">S</span>
    <span style="color: #b3e000; font-size: 60px; font-weight: bold;">atya</span>
    <div style="text-align: center;">
      <span style="color: #000000; font-size: 24px; font-weight: bold;">Trauma &amp; Maternity Center</span>
    </div>
  </div>
  <div style="padding: 20px;">
    <h3>Dear {{.FirstName}} {{.LastName}},</h3>
    {{block "body" .}}{{end}}
    <p>Best regards,<br>Satya Trauma &amp; Maternity Center Team</p>
  </div>
  <div style="background-color: #f5f5f5; padding: 15px; text-align: center;">
    <p style="margin: 0; color: #666;">&copy; {{.Year}} Satya Trauma &amp; Maternity Center. All rights reserved.</p>
  </div>
</div>`

const detailsTpl = `<div style="background-color: #f9f9f9; padding: 15px; border-left: 4px solid {{.Accent}}; margin: 20px 0;">
  <p><strong>Appointment #:</strong> <span style="color: #0053a2; font-weight: bold;">{{.Data.AppointmentNumber}}</span></p>
  <p><strong>Date:</strong> {{.Data.AppointmentDate}}</p>
  <p><strong>Department:</strong> {{.Data.Department}}</p>
  <p><strong>Doctor:</strong> {{.Data.DoctorName}}</p>
  <p><strong>Status:</strong> <span style="color: {{.StatusColor}}; font-weight: bold;">{{.StatusLabel}}</span></p>
</div>`

var bodies = map[string]string{
	TemplateBooking: `{{define "body"}}<p>Thank you for booking an appointment with us. Your appointment details are as follows:</p>
{{template "details" (details . "#b3e000" "#f1c40f" "Pending Approval")}}
<p>Your appointment is currently pending approval from our administrative staff. You will receive another email once your appointment is approved.</p>{{end}}`,
	TemplateDirectBooking: `{{define "body"}}<p>Thank you for requesting an appointment with us. Your appointment request has been received and is being processed.</p>
{{template "details" (details . "#3939d9" "#f1c40f" "Pending Approval")}}
<p>We will contact you shortly to confirm your appointment.</p>{{end}}`,
	TemplateApproval: `{{define "body"}}<p>Great news! Your appointment at Satya Trauma &amp; Maternity Center has been <strong style="color: #2ecc71;">APPROVED</strong>.</p>
{{template "details" (details . "#2ecc71" "#2ecc71" "Approved")}}
<p>Please arrive 15 minutes before your scheduled appointment time. Don't forget to bring your identification and any relevant medical records.</p>
<p>If you need to reschedule or cancel your appointment, please contact us at least 24 hours in advance.</p>{{end}}`,
	TemplateRejection: `{{define "body"}}<p>We regret to inform you that your appointment request could not be accommodated at this time.</p>
{{template "details" (details . "#e74c3c" "#e74c3c" "Not Approved")}}
<p>We encourage you to book a new appointment at a different date or time.</p>{{end}}`,
	TemplatePayment: `{{define "body"}}<p>Your payment has been received successfully. Thank you!</p>
{{template "details" (details . "#2ecc71" "#2ecc71" "Paid")}}
<div style="background-color: #f9f9f9; padding: 15px; border-left: 4px solid #2ecc71; margin: 20px 0;">
  <p><strong>Amount:</strong> &#8377;{{.Amount}}.00</p>
  <p><strong>Transaction ID:</strong> <span style="font-family: monospace;">{{.TransactionID}}</span></p>
</div>{{end}}`,
}

type detailsCtx struct {
	Data        EmailData
	Accent      string
	StatusColor string
	StatusLabel string
}

var templates = func() map[string]*template.Template {
	out := make(map[string]*template.Template, len(bodies))
	for name, body := range bodies {
		t := template.New(name).Funcs(template.FuncMap{
			"details": func(d EmailData, accent, statusColor, statusLabel string) detailsCtx {
				return detailsCtx{Data: d, Accent: accent, StatusColor: statusColor, StatusLabel: statusLabel}
			},
		})
		template.Must(t.New("details").Parse(detailsTpl))
		template.Must(t.Parse(layoutTpl))
		template.Must(t.Parse(body))
		out[name] = t
	}
	return out
}()

// Render produces the subject and HTML body for a template name.
func Render(name string, data EmailData) (subject, html string, err error) {
	t, ok := templates[name]
	if !ok {
		return "", "", fmt.Errorf("notify: unknown template %q", name)
	}
	subject, ok = subjects[name]
	if !ok {
		return "", "", fmt.Errorf("notify: no subject for template %q", name)
	}
	if data.Year == 0 {
		data.Year = time.Now().UTC().Year()
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("notify: render %s: %w", name, err)
	}
	return subject, buf.String(), nil
}
