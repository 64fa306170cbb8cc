package model

import "time"

// Payment gateway states.  These are distinct from the appointment's
// paymentStatus column: a SUCCESS payment marks the appointment PAID.
const (
	PayStatePending   = "PENDING"
	PayStateSuccess   = "SUCCESS"
	PayStateFailed    = "FAILED"
	PayStateCancelled = "CANCELLED"
)

// DefaultBookingFee is the flat appointment booking fee in INR.
const DefaultBookingFee = 500

// Payment mirrors the `payments` table.  A payment is softly linked 1:1
// to an appointment; regenerating a QR for the same appointment reuses
// the existing row.  TransactionID and VerifiedAt are set only once the
// gateway reports success.
type Payment struct {
	ID            uint64     `json:"id"`
	AppointmentID uint64     `json:"appointmentId"`
	PatientID     *uint64    `json:"patientId,omitempty"`
	PaymentRefID  string     `json:"paymentRefId"`
	Amount        int        `json:"amount"`
	Currency      string     `json:"currency"`
	Description   string     `json:"description"`
	Status        string     `json:"status"`
	PaymentMethod string     `json:"paymentMethod"`
	TransactionID *string    `json:"transactionId,omitempty"`
	QRCodeData    string     `json:"qrCodeData,omitempty"`
	PaymentURL    string     `json:"paymentUrl,omitempty"`
	PaymentDate   time.Time  `json:"paymentDate"`
	VerifiedAt    *time.Time `json:"verifiedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}
