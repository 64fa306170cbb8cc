package handler

import (
	"bytes"
	"database/sql"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/satyahealth/hospital-booking/internal/config"
	"github.com/satyahealth/hospital-booking/internal/httperr"
	"github.com/satyahealth/hospital-booking/internal/repository"
	"github.com/satyahealth/hospital-booking/internal/storage"
)

func newUserHandler(t *testing.T) (*UserHandler, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	cfg := config.Config{BcryptCost: bcrypt.MinCost}
	// The nil-client photo store skips S3 without failing doctor creation.
	return NewUserHandler(cfg, repository.NewUserRepo(db), storage.NewPhotoStore(nil, "", "")), mock
}

type doctorForm struct {
	fields        map[string]string
	photoMimetype string
	omitPhoto     bool
}

func defaultDoctorForm() doctorForm {
	return doctorForm{
		photoMimetype: "image/png",
		fields: map[string]string{
			"firstName": "Rohan", "lastName": "Mehta", "email": "rohan@satyahospital.in",
			"phone": "9876543210", "password": "s3cret-pass", "gender": "Male",
			"dob": "1980-05-20", "nic": "MBBS, MS Ortho", "doctorDepartment": "Orthopedics",
		},
	}
}

func doctorRequest(t *testing.T, form doctorForm) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range form.fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if !form.omitPhoto {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", `form-data; name="docPhoto"; filename="photo.png"`)
		hdr.Set("Content-Type", form.photoMimetype)
		part, err := w.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write([]byte("not-really-a-png"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/user/doctor/addnew", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestAddNewDoctorRequiresPhoto(t *testing.T) {
	h, _ := newUserHandler(t)
	form := defaultDoctorForm()
	form.omitPhoto = true

	e := echo.New()
	c := e.NewContext(doctorRequest(t, form), httptest.NewRecorder())

	err := h.AddNewDoctor(c)
	var appErr *httperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, "Please upload the Doctor's photo!", appErr.Message)
}

func TestAddNewDoctorRejectsBadImageType(t *testing.T) {
	h, _ := newUserHandler(t)
	form := defaultDoctorForm()
	form.photoMimetype = "image/gif"

	e := echo.New()
	c := e.NewContext(doctorRequest(t, form), httptest.NewRecorder())

	err := h.AddNewDoctor(c)
	var appErr *httperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Please upload jpg, jpeg, webp or png format!", appErr.Message)
}

func TestAddNewDoctorRejectsShortQualifications(t *testing.T) {
	h, _ := newUserHandler(t)
	form := defaultDoctorForm()
	form.fields["nic"] = "M"

	e := echo.New()
	c := e.NewContext(doctorRequest(t, form), httptest.NewRecorder())

	err := h.AddNewDoctor(c)
	var appErr *httperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Qualifications must be at least 2 characters!", appErr.Message)
}

func TestAddNewDoctorCreatesAccount(t *testing.T) {
	h, mock := newUserHandler(t)
	mock.ExpectQuery("FROM users WHERE email=").
		WithArgs("rohan@satyahospital.in").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(3, 1))

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(doctorRequest(t, defaultDoctorForm()), rec)

	require.NoError(t, h.AddNewDoctor(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "New Doctor added successfully!")
	assert.Contains(t, rec.Body.String(), "Orthopedics")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddNewAdminReportsExistingRole(t *testing.T) {
	h, mock := newUserHandler(t)
	mock.ExpectQuery("FROM users WHERE email=").
		WithArgs("rohan@satyahospital.in").
		WillReturnRows(doctorRows(3))

	e := echo.New()
	body := strings.Replace(registerBody, "asha@example.com", "rohan@satyahospital.in", 1)
	req, rec := jsonReq(http.MethodPost, "/api/v1/user/admin/addnew", body)
	c := e.NewContext(req, rec)

	err := h.AddNewAdmin(c)
	var appErr *httperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Doctor with this email already exists!", appErr.Message)
}

func TestGetAllDoctors(t *testing.T) {
	h, mock := newUserHandler(t)
	mock.ExpectQuery("FROM users WHERE role=").
		WithArgs("Doctor").
		WillReturnRows(doctorRows(3))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/user/doctors", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.GetAllDoctors(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Doctors fetched successfully!")
	assert.Contains(t, rec.Body.String(), "Rohan")
}
