package handler // HTTP handlers for the hospital booking API

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/satyahealth/hospital-booking/internal/notify"
	"github.com/satyahealth/hospital-booking/internal/queue"
	queue_publisher "github.com/satyahealth/hospital-booking/internal/service"
)

// dbTimeout bounds every repository call made from a handler.
const dbTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// dobLayouts are the date formats accepted for dates of birth.  The
// public forms submit plain calendar dates; API clients may send full
// RFC 3339 timestamps.
var dobLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05.000Z"}

func parseDOB(s string) (time.Time, bool) {
	for _, layout := range dobLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// setSessionCookie writes the role cookie carrying a signed token.  Each
// role uses its own cookie name so sessions for different portals can
// coexist in one browser.
func setSessionCookie(c echo.Context, name, token string, ttlDays int) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(time.Duration(ttlDays) * 24 * time.Hour),
		HttpOnly: true,
	})
}

// clearSessionCookie expires the role cookie immediately.
func clearSessionCookie(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Now(),
		HttpOnly: true,
	})
}

// notifyAsync queues a templated email without blocking the request.
// Delivery is best effort: the publisher logs failures and the caller
// never sees them.
func notifyAsync(template, to, toName string, data notify.EmailData) {
	event := queue.AppointmentNotification{
		Template: template,
		To:       to,
		ToName:   toName,
		Data:     data,
		QueuedAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishNotification(ctx, event)
	}()
}
