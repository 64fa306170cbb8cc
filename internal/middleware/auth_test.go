package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satyahealth/hospital-booking/internal/httperr"
	"github.com/satyahealth/hospital-booking/internal/model"
	"github.com/satyahealth/hospital-booking/internal/repository"
	"github.com/satyahealth/hospital-booking/internal/utils"
)

const secret = "auth-test-secret"

const userColumns = "id, first_name, last_name, email, phone, nic, dob, gender, password_hash, role, doctor_department, photo_public_id, photo_url, created_at, updated_at"

func newUsersRepo(t *testing.T) (*repository.UserRepo, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repository.NewUserRepo(db), mock
}

func userRows(id int64, role string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(strings.Split(userColumns, ", ")).
		AddRow(id, "Asha", "Verma", "asha@example.com", "9876543210",
			"123456789012", now, "Female", "$2a$04$notarealhash", role,
			nil, nil, nil, now, now)
}

func authedRequest(t *testing.T, cookieName string, userID uint64) *http.Request {
	t.Helper()
	token, err := utils.NewAuthToken(secret, userID, 7)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	return req
}

func okNext(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"id": CurrentUser(c).ID})
}

func TestRequireAdminMissingCookie(t *testing.T) {
	users, _ := newUsersRepo(t)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := RequireAdmin(users, secret)(okNext)(c)
	var appErr *httperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, "Not Authenticated Admin", appErr.Message)
}

func TestRequireAdminLoadsUser(t *testing.T) {
	users, mock := newUsersRepo(t)
	mock.ExpectQuery("FROM users WHERE id=").
		WithArgs(uint64(1)).
		WillReturnRows(userRows(1, model.RoleAdmin))

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(authedRequest(t, utils.AdminCookie, 1), rec)

	require.NoError(t, RequireAdmin(users, secret)(okNext)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":1`)
}

func TestRequireAdminRejectsOtherRoles(t *testing.T) {
	users, mock := newUsersRepo(t)
	// Valid token in the admin cookie slot, but the account is a patient.
	mock.ExpectQuery("FROM users WHERE id=").
		WithArgs(uint64(5)).
		WillReturnRows(userRows(5, model.RolePatient))

	e := echo.New()
	c := e.NewContext(authedRequest(t, utils.AdminCookie, 5), httptest.NewRecorder())

	err := RequireAdmin(users, secret)(okNext)(c)
	var appErr *httperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusForbidden, appErr.Code)
	assert.Equal(t, "Patient is not authorized for this resource!", appErr.Message)
}

func TestRequireDoctorRejectsTamperedToken(t *testing.T) {
	users, _ := newUsersRepo(t)
	token, err := utils.NewAuthToken("some-other-secret", 3, 7)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: utils.DoctorCookie, Value: token})
	c := e.NewContext(req, httptest.NewRecorder())

	assert.Error(t, RequireDoctor(users, secret)(okNext)(c))
}

func TestRequireAdminOrPatientNoCookies(t *testing.T) {
	users, _ := newUsersRepo(t)
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), httptest.NewRecorder())

	err := RequireAdminOrPatient(users, secret)(okNext)(c)
	var appErr *httperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusUnauthorized, appErr.Code)
	assert.Equal(t, "Not Authenticated", appErr.Message)
}

func TestRequireAdminOrPatientAcceptsEither(t *testing.T) {
	for _, tc := range []struct {
		cookie string
		role   string
		id     uint64
	}{
		{utils.PatientCookie, model.RolePatient, 5},
		{utils.AdminCookie, model.RoleAdmin, 1},
	} {
		users, mock := newUsersRepo(t)
		mock.ExpectQuery("FROM users WHERE id=").
			WithArgs(tc.id).
			WillReturnRows(userRows(int64(tc.id), tc.role))

		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(authedRequest(t, tc.cookie, tc.id), rec)

		require.NoError(t, RequireAdminOrPatient(users, secret)(okNext)(c), tc.role)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRequireAdminOrPatientRejectsDoctorToken(t *testing.T) {
	users, mock := newUsersRepo(t)
	mock.ExpectQuery("FROM users WHERE id=").
		WithArgs(uint64(3)).
		WillReturnRows(userRows(3, model.RoleDoctor))

	e := echo.New()
	c := e.NewContext(authedRequest(t, utils.PatientCookie, 3), httptest.NewRecorder())

	err := RequireAdminOrPatient(users, secret)(okNext)(c)
	var appErr *httperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusForbidden, appErr.Code)
	assert.Equal(t, "Not authorized", appErr.Message)
}
