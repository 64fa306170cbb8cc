// Package httperr defines the application error type and the centralized
// Echo error handler.  Every handler failure funnels through Handler so
// that store-specific error shapes (duplicate keys, token errors, missing
// rows) are normalized into a uniform {"success":false,"message":...}
// JSON body.  Nothing at this layer retries.
package httperr

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-sql-driver/mysql"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Error carries an HTTP status code and a human-readable message safe to
// return to clients.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string { return e.Message }

// New builds an Error with the given status code and message.
func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds an Error with a formatted message.
func Newf(code int, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Handler is installed as echo.HTTPErrorHandler.  It maps application
// errors, Echo errors, MySQL duplicate-key violations, JWT failures and
// missing rows to their HTTP status, and hides everything else behind a
// generic 500.  No stack traces or internal identifiers leak.
func Handler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal Server Error"

	var appErr *Error
	var echoErr *echo.HTTPError
	var mysqlErr *mysql.MySQLError
	switch {
	case errors.As(err, &appErr):
		code = appErr.Code
		message = appErr.Message
	case errors.As(err, &echoErr):
		code = echoErr.Code
		if m, ok := echoErr.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	case errors.As(err, &mysqlErr) && mysqlErr.Number == 1062:
		code = http.StatusBadRequest
		message = "Duplicate Entry Entered"
	case errors.Is(err, jwt.ErrTokenExpired):
		code = http.StatusBadRequest
		message = "Json Web Token is Expired, Try Again!!!"
	case errors.Is(err, jwt.ErrTokenMalformed), errors.Is(err, jwt.ErrSignatureInvalid),
		errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenInvalidClaims):
		code = http.StatusBadRequest
		message = "Json Web Token is Invalid, Try Again!!!"
	case errors.Is(err, sql.ErrNoRows):
		code = http.StatusNotFound
		message = "Resource Not Found"
	default:
		log.Printf("unhandled error: %v", err)
	}

	if err := c.JSON(code, echo.Map{"success": false, "message": message}); err != nil {
		log.Printf("error handler: write response: %v", err)
	}
}
