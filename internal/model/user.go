package model

import "time"

// Role names stored in the users.role column.  A single users table holds
// all three kinds of accounts; role-specific fields are nullable and only
// populated for the matching role.
const (
	RolePatient = "Patient"
	RoleDoctor  = "Doctor"
	RoleAdmin   = "Admin"
)

// Gender values accepted for users and appointment snapshots.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// User represents an account record as stored in the `users` table.
// The NIC column is role-overloaded: for Patients and Admins it holds a
// 12-digit Aadhaar number, for Doctors it holds a free-text
// qualifications string.  DoctorDepartment and the photo columns are
// populated only for Doctor rows.
//
// Fields:
//  ID               – primary key identifier.
//  FirstName        – given name (min 3 chars).
//  LastName         – family name (min 3 chars).
//  Email            – unique email address.
//  Phone            – 10-digit phone number.
//  NIC              – Aadhaar number or doctor qualifications (see above).
//  DOB              – date of birth.
//  Gender           – Male, Female or Other.
//  PasswordHash     – bcrypt hashed password; never serialized.
//  Role             – Patient, Doctor or Admin.
//  DoctorDepartment – free-text department, Doctor rows only.
//  PhotoPublicID    – storage key of the doctor photo (nullable).
//  PhotoURL         – public URL of the doctor photo (nullable).
//  CreatedAt        – timestamp of creation.
//  UpdatedAt        – timestamp of last update.
type User struct {
	ID               uint64    `json:"id"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	NIC              string    `json:"nic"`
	DOB              time.Time `json:"dob"`
	Gender           string    `json:"gender"`
	PasswordHash     string    `json:"-"`
	Role             string    `json:"role"`
	DoctorDepartment *string   `json:"doctorDepartment,omitempty"`
	PhotoPublicID    *string   `json:"-"`
	PhotoURL         *string   `json:"docPhoto,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// FullName returns "First Last" for display and doctor matching.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
