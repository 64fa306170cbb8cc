package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/satyahealth/hospital-booking/internal/model"
	"github.com/satyahealth/hospital-booking/internal/utils"
)

// UserRepo provides persistence for all three account roles over the
// single `users` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id, first_name, last_name, email, phone, nic, dob, gender, password_hash, role, doctor_department, photo_public_id, photo_url, created_at, updated_at"

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	var dept, photoID, photoURL sql.NullString
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.NIC,
		&u.DOB, &u.Gender, &u.PasswordHash, &u.Role, &dept, &photoID, &photoURL,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	if dept.Valid {
		d := dept.String
		u.DoctorDepartment = &d
	}
	if photoID.Valid {
		p := photoID.String
		u.PhotoPublicID = &p
	}
	if photoURL.Valid {
		p := photoURL.String
		u.PhotoURL = &p
	}
	return u, nil
}

// Create inserts a user with a freshly hashed password and returns its ID.
// A collision on the unique email index is reported as ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User, password string, cost int) (uint64, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (first_name, last_name, email, phone, nic, dob, gender, password_hash, role, doctor_department, photo_public_id, photo_url) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)",
		u.FirstName, u.LastName, u.Email, u.Phone, u.NIC, u.DOB, u.Gender, hash,
		u.Role, u.DoctorDepartment, u.PhotoPublicID, u.PhotoURL)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	u.ID = uint64(id)
	return u.ID, nil
}

// GetByEmail fetches a user by normalized email, password hash included.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}

// ListDoctors returns every Doctor account, newest first.
func (r *UserRepo) ListDoctors(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userCols+" FROM users WHERE role=? ORDER BY id DESC", model.RoleDoctor)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	doctors := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		doctors = append(doctors, u)
	}
	return doctors, rows.Err()
}

// FindDoctorsByNameAndDepartment resolves a doctor from the exact
// (firstName, lastName, department) triple supplied by a booking.  More
// than one row means the name is ambiguous within the department and the
// booking workflow refuses to pick one.
func (r *UserRepo) FindDoctorsByNameAndDepartment(ctx context.Context, firstName, lastName, department string) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userCols+" FROM users WHERE role=? AND first_name=? AND last_name=? AND doctor_department=?",
		model.RoleDoctor, firstName, lastName, department)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	doctors := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		doctors = append(doctors, u)
	}
	return doctors, rows.Err()
}

// GetDoctorByID fetches a user that must have the Doctor role.  Missing
// rows and non-doctor rows both come back as ErrNotFound.
func (r *UserRepo) GetDoctorByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? AND role=? LIMIT 1", id, model.RoleDoctor))
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// Delete removes a user row by id.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
