// Package queue defines message payloads exchanged over the message broker.
package queue

import "github.com/satyahealth/hospital-booking/internal/notify"

// NotificationQueueName is the durable queue carrying patient email
// notifications.  Booking and status workflows publish to it and the
// background consumer drains it.
const NotificationQueueName = "appointment.notify"

// AppointmentNotification is published whenever a workflow wants a
// templated email delivered to a patient.  It carries everything the
// consumer needs so that no database lookup happens at send time.
type AppointmentNotification struct {
	Template string           `json:"template"`
	To       string           `json:"to"`
	ToName   string           `json:"to_name"`
	Data     notify.EmailData `json:"data"`
	QueuedAt string           `json:"queued_at"`
}
