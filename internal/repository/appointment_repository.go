package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/satyahealth/hospital-booking/internal/model"
)

// ErrNumberSpaceBusy is returned when the generator cannot find a free
// appointment number within its retry budget.
var ErrNumberSpaceBusy = fmt.Errorf("could not allocate a free appointment number")

// AppointmentRepo provides CRUD operations for appointments.  Appointment
// numbers are allocated here because uniqueness is checked against the
// same table.
type AppointmentRepo struct{ DB *sql.DB }

func NewAppointmentRepo(db *sql.DB) *AppointmentRepo { return &AppointmentRepo{DB: db} }

const apptCols = "id, appointment_number, first_name, last_name, email, phone, nic, dob, gender, appointment_date, department, doctor_first_name, doctor_last_name, has_visited, address, doctor_id, patient_id, patient_ref, status, payment_status, created_at, updated_at"

func scanAppointment(row interface{ Scan(...any) error }) (model.Appointment, error) {
	var a model.Appointment
	var doctorID, patientID sql.NullInt64
	var patientRef sql.NullString
	err := row.Scan(&a.ID, &a.AppointmentNumber, &a.FirstName, &a.LastName, &a.Email,
		&a.Phone, &a.NIC, &a.DOB, &a.Gender, &a.AppointmentDate, &a.Department,
		&a.DoctorFirstName, &a.DoctorLastName, &a.HasVisited, &a.Address,
		&doctorID, &patientID, &patientRef, &a.Status, &a.PaymentStatus,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return model.Appointment{}, err
	}
	if doctorID.Valid {
		id := uint64(doctorID.Int64)
		a.DoctorID = &id
	}
	if patientID.Valid {
		id := uint64(patientID.Int64)
		a.PatientID = &id
	}
	if patientRef.Valid {
		ref := patientRef.String
		a.PatientRef = &ref
	}
	return a, nil
}

// GenerateNumber draws random STH-prefixed 6-digit numbers until one is
// free.  The check-then-insert window is closed by the UNIQUE index on
// appointment_number: a concurrent booking that wins the race surfaces
// as a 1062 on insert, which Create retries.
func (r *AppointmentRepo) GenerateNumber(ctx context.Context) (string, error) {
	for attempts := 0; attempts < 50; attempts++ {
		number := fmt.Sprintf("STH%d", 100000+rand.IntN(900000))
		var exists int
		err := r.DB.QueryRowContext(ctx,
			"SELECT 1 FROM appointments WHERE appointment_number=? LIMIT 1", number).Scan(&exists)
		if err == sql.ErrNoRows {
			return number, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", ErrNumberSpaceBusy
}

// Create inserts an appointment, allocating a fresh number when the race
// window on the previous one was lost.  On success the generated ID,
// number and defaulted columns are populated on a.
func (r *AppointmentRepo) Create(ctx context.Context, a *model.Appointment) error {
	const q = `INSERT INTO appointments
		(appointment_number, first_name, last_name, email, phone, nic, dob, gender,
		 appointment_date, department, doctor_first_name, doctor_last_name,
		 has_visited, address, doctor_id, patient_id, patient_ref, status, payment_status)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	if a.Status == "" {
		a.Status = model.StatusPending
	}
	if a.PaymentStatus == "" {
		a.PaymentStatus = model.PaymentPending
	}
	for attempts := 0; ; attempts++ {
		if a.AppointmentNumber == "" {
			number, err := r.GenerateNumber(ctx)
			if err != nil {
				return err
			}
			a.AppointmentNumber = number
		}
		res, err := r.DB.ExecContext(ctx, q,
			a.AppointmentNumber, a.FirstName, a.LastName, a.Email, a.Phone, a.NIC,
			a.DOB, a.Gender, a.AppointmentDate, a.Department, a.DoctorFirstName,
			a.DoctorLastName, a.HasVisited, a.Address, a.DoctorID, a.PatientID,
			a.PatientRef, a.Status, a.PaymentStatus)
		if err != nil {
			// Lost the uniqueness race on the number; draw again.
			if strings.Contains(strings.ToLower(err.Error()), "1062") && attempts < 3 {
				a.AppointmentNumber = ""
				continue
			}
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		a.ID = uint64(id)
		return r.reload(ctx, a)
	}
}

func (r *AppointmentRepo) reload(ctx context.Context, a *model.Appointment) error {
	got, err := scanAppointment(r.DB.QueryRowContext(ctx,
		"SELECT "+apptCols+" FROM appointments WHERE id=? LIMIT 1", a.ID))
	if err != nil {
		return err
	}
	*a = got
	return nil
}

// GetByID fetches a single appointment.
func (r *AppointmentRepo) GetByID(ctx context.Context, id uint64) (model.Appointment, error) {
	a, err := scanAppointment(r.DB.QueryRowContext(ctx,
		"SELECT "+apptCols+" FROM appointments WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return model.Appointment{}, ErrNotFound
	}
	return a, err
}

// ListAll returns every appointment, newest first.  Used by the admin
// dashboard.
func (r *AppointmentRepo) ListAll(ctx context.Context) ([]model.Appointment, error) {
	return r.list(ctx, "SELECT "+apptCols+" FROM appointments ORDER BY created_at DESC")
}

// ListByPatient returns the appointments booked under a patient account,
// newest first.
func (r *AppointmentRepo) ListByPatient(ctx context.Context, patientID uint64) ([]model.Appointment, error) {
	return r.list(ctx,
		"SELECT "+apptCols+" FROM appointments WHERE patient_id=? ORDER BY created_at DESC", patientID)
}

// DoctorFilter narrows ListForDoctor.  DatePrefix, when set, is matched
// as a lexicographic prefix against the string-typed appointment_date
// column; this equals a calendar-day match only because dates are stored
// with a YYYY-MM-DD prefix.  Status filters exactly; empty means the
// caller applied its own default.
type DoctorFilter struct {
	DatePrefix string
	Status     string
}

// ListForDoctor returns appointments owned by the doctor, matched by
// doctor_id OR by the denormalized name snapshot so that legacy rows
// without a doctor_id still show up.  Results are ordered by
// appointment_date ascending.
func (r *AppointmentRepo) ListForDoctor(ctx context.Context, doctorID uint64, firstName, lastName string, f DoctorFilter) ([]model.Appointment, error) {
	q := "SELECT " + apptCols + ` FROM appointments
		WHERE (doctor_id = ? OR (doctor_first_name = ? AND doctor_last_name = ?))`
	args := []any{doctorID, firstName, lastName}
	if f.DatePrefix != "" {
		q += " AND appointment_date LIKE ?"
		args = append(args, f.DatePrefix+"%")
	}
	if f.Status != "" {
		q += " AND status = ?"
		args = append(args, f.Status)
	}
	q += " ORDER BY appointment_date ASC"
	return r.list(ctx, q, args...)
}

func (r *AppointmentRepo) list(ctx context.Context, q string, args ...any) ([]model.Appointment, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Update holds the admin-updatable columns.  Nil fields are left
// untouched.  The admin endpoint is deliberately permissive about status
// values: any of the five states may be set from any prior state.
type Update struct {
	Status          *string
	AppointmentDate *string
	Department      *string
	HasVisited      *bool
	Address         *string
}

// UpdateFields applies a partial update and returns the fresh row.
func (r *AppointmentRepo) UpdateFields(ctx context.Context, id uint64, upd Update) (model.Appointment, error) {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)
	if upd.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *upd.Status)
	}
	if upd.AppointmentDate != nil {
		sets = append(sets, "appointment_date = ?")
		args = append(args, *upd.AppointmentDate)
	}
	if upd.Department != nil {
		sets = append(sets, "department = ?")
		args = append(args, *upd.Department)
	}
	if upd.HasVisited != nil {
		sets = append(sets, "has_visited = ?")
		args = append(args, *upd.HasVisited)
	}
	if upd.Address != nil {
		sets = append(sets, "address = ?")
		args = append(args, *upd.Address)
	}
	if len(sets) > 0 {
		args = append(args, id)
		if _, err := r.DB.ExecContext(ctx,
			"UPDATE appointments SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...); err != nil {
			return model.Appointment{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// UpdateStatus sets only the workflow status.
func (r *AppointmentRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE appointments SET status = ? WHERE id = ?", status, id)
	return err
}

// SetPaymentStatus sets the payment flag carried on the appointment.
func (r *AppointmentRepo) SetPaymentStatus(ctx context.Context, id uint64, paymentStatus string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE appointments SET payment_status = ? WHERE id = ?", paymentStatus, id)
	return err
}

// Delete removes an appointment row.
func (r *AppointmentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM appointments WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
