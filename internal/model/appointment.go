package model

import "time"

// Appointment workflow states.  Pending is the initial state; Accepted,
// Rejected and Cancelled follow from Pending; Completed follows from
// Accepted (doctor-only transition).  Rejected, Cancelled and Completed
// are terminal.
const (
	StatusPending   = "Pending"
	StatusAccepted  = "Accepted"
	StatusRejected  = "Rejected"
	StatusCancelled = "Cancelled"
	StatusCompleted = "Completed"
)

// Payment state carried on the appointment row, independent of the
// workflow status.
const (
	PaymentPending = "PENDING"
	PaymentPaid    = "PAID"
	PaymentFailed  = "FAILED"
)

// DepartmentOther relaxes doctor selection: bookings for this department
// carry placeholder doctor fields until the hospital assigns one.
const DepartmentOther = "Other"

// Placeholder doctor name stored on "Other"-department bookings.
const (
	PlaceholderDoctorFirstName = "To be assigned"
	PlaceholderDoctorLastName  = "by hospital"
)

// Appointment mirrors the `appointments` table.  Patient fields are a
// snapshot copied at booking time, not live references: later profile
// edits never change past appointments.  AppointmentDate is deliberately
// a string so that day filtering stays a plain lexicographic prefix
// match on the supplied format.
//
// DoctorID is null for "Other"-department bookings.  PatientID is null
// for anonymous direct bookings, which instead carry a minted PatientRef
// identifier.
type Appointment struct {
	ID                uint64    `json:"id"`
	AppointmentNumber string    `json:"appointmentNumber"`
	FirstName         string    `json:"firstName"`
	LastName          string    `json:"lastName"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	NIC               string    `json:"nic"`
	DOB               time.Time `json:"dob"`
	Gender            string    `json:"gender"`
	AppointmentDate   string    `json:"appointment_date"`
	Department        string    `json:"department"`
	DoctorFirstName   string    `json:"doctor_firstName"`
	DoctorLastName    string    `json:"doctor_lastName"`
	HasVisited        bool      `json:"hasVisited"`
	Address           string    `json:"address"`
	DoctorID          *uint64   `json:"doctorId"`
	PatientID         *uint64   `json:"patientId"`
	PatientRef        *string   `json:"patientRef,omitempty"`
	Status            string    `json:"status"`
	PaymentStatus     string    `json:"paymentStatus"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// DoctorFullName returns the doctor snapshot as "First Last".
func (a Appointment) DoctorFullName() string {
	return a.DoctorFirstName + " " + a.DoctorLastName
}

// Terminal reports whether no further workflow transitions are expected
// from the given status.
func Terminal(status string) bool {
	switch status {
	case StatusRejected, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// ValidStatus reports whether s is one of the five workflow states.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}
