package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/satyahealth/hospital-booking/internal/model"
)

// PaymentRepo persists gateway payment records.  A payment is softly
// linked to its appointment by appointment_id; regenerating a QR reuses
// the existing row rather than inserting a second one.
type PaymentRepo struct{ DB *sql.DB }

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{DB: db} }

const paymentCols = "id, appointment_id, patient_id, payment_ref_id, amount, currency, description, status, payment_method, transaction_id, qr_code_data, payment_url, payment_date, verified_at, created_at, updated_at"

func scanPayment(row interface{ Scan(...any) error }) (model.Payment, error) {
	var p model.Payment
	var patientID sql.NullInt64
	var txnID sql.NullString
	var verifiedAt sql.NullTime
	err := row.Scan(&p.ID, &p.AppointmentID, &patientID, &p.PaymentRefID, &p.Amount,
		&p.Currency, &p.Description, &p.Status, &p.PaymentMethod, &txnID,
		&p.QRCodeData, &p.PaymentURL, &p.PaymentDate, &verifiedAt,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Payment{}, err
	}
	if patientID.Valid {
		id := uint64(patientID.Int64)
		p.PatientID = &id
	}
	if txnID.Valid {
		t := txnID.String
		p.TransactionID = &t
	}
	if verifiedAt.Valid {
		v := verifiedAt.Time
		p.VerifiedAt = &v
	}
	return p, nil
}

// Create inserts a new payment row and populates the generated ID.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO payments (appointment_id, patient_id, payment_ref_id, amount, currency,
			description, status, payment_method, qr_code_data, payment_url, payment_date)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		p.AppointmentID, p.PatientID, p.PaymentRefID, p.Amount, p.Currency,
		p.Description, p.Status, p.PaymentMethod, p.QRCodeData, p.PaymentURL, p.PaymentDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByAppointment returns the payment linked to an appointment, or
// ErrNotFound when none exists yet.
func (r *PaymentRepo) GetByAppointment(ctx context.Context, appointmentID uint64) (model.Payment, error) {
	p, err := scanPayment(r.DB.QueryRowContext(ctx,
		"SELECT "+paymentCols+" FROM payments WHERE appointment_id=? LIMIT 1", appointmentID))
	if err == sql.ErrNoRows {
		return model.Payment{}, ErrNotFound
	}
	return p, err
}

// GetByRef returns the payment carrying the given gateway reference id.
func (r *PaymentRepo) GetByRef(ctx context.Context, refID string) (model.Payment, error) {
	p, err := scanPayment(r.DB.QueryRowContext(ctx,
		"SELECT "+paymentCols+" FROM payments WHERE payment_ref_id=? LIMIT 1", refID))
	if err == sql.ErrNoRows {
		return model.Payment{}, ErrNotFound
	}
	return p, err
}

// Refresh replaces the gateway artifacts of an existing payment when a
// new QR is generated for the same appointment, resetting it to PENDING.
func (r *PaymentRepo) Refresh(ctx context.Context, id uint64, refID, qrData, paymentURL string, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE payments SET payment_ref_id=?, status=?, qr_code_data=?, payment_url=?,
			payment_date=?, transaction_id=NULL, verified_at=NULL WHERE id=?`,
		refID, model.PayStatePending, qrData, paymentURL, at, id)
	return err
}

// MarkVerified records the gateway verdict for a payment.
func (r *PaymentRepo) MarkVerified(ctx context.Context, refID, status, transactionID string, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE payments SET status=?, transaction_id=?, verified_at=? WHERE payment_ref_id=?",
		status, transactionID, at, refID)
	return err
}
