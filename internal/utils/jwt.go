package utils // package utils provides helper functions for tokens, hashing and validation

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/satyahealth/hospital-booking/internal/model"
)

// Cookie names per role.  Each role's session travels in its own
// HTTP-only cookie, so one browser can hold an admin, a doctor and a
// patient session at the same time.
const (
	AdminCookie   = "adminToken"
	DoctorCookie  = "doctorToken"
	PatientCookie = "patientToken"
)

// CookieNameForRole maps a user role to its session cookie name.
func CookieNameForRole(role string) string {
	switch role {
	case model.RoleAdmin:
		return AdminCookie
	case model.RoleDoctor:
		return DoctorCookie
	default:
		return PatientCookie
	}
}

// NewAuthToken builds and signs an HS256 JWT for a user.  The claim set
// carries only the user's identifier plus the standard exp/iat pair; the
// role is re-checked against the database on every authenticated request.
func NewAuthToken(secret string, userID uint64, ttlDays int) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"id":  userID,
		"exp": now.Add(time.Duration(ttlDays) * 24 * time.Hour).Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseAuthToken verifies signature and expiry and returns the embedded
// user ID.  Signing-method confusion is rejected.
func ParseAuthToken(secret, raw string) (uint64, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return 0, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return 0, err
	}
	if !tok.Valid {
		return 0, jwt.ErrTokenMalformed
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, jwt.ErrTokenInvalidClaims
	}
	id, ok := claims["id"].(float64) // JSON numbers decode as float64
	if !ok || id <= 0 {
		return 0, jwt.ErrTokenInvalidClaims
	}
	return uint64(id), nil
}
