package payment

import (
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satyahealth/hospital-booking/internal/model"
)

func TestGenerateRefIDFormat(t *testing.T) {
	re := regexp.MustCompile(`^APT_\d+_[0-9a-f]{8}$`)
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		ref := GenerateRefID()
		assert.Regexp(t, re, ref)
		assert.False(t, seen[ref], "duplicate ref id %s", ref)
		seen[ref] = true
	}
}

func TestCreateRequest(t *testing.T) {
	g := NewGateway("satya.hospital@upi", "http://localhost:4000")

	req, err := g.CreateRequest("STH654321", "Asha Verma", 500)
	require.NoError(t, err)

	assert.Equal(t, 500, req.Amount)
	assert.Equal(t, "INR", req.Currency)
	assert.True(t, strings.HasPrefix(req.PaymentURL, "upi://pay?"))
	assert.True(t, strings.HasPrefix(req.QRCodeData, "data:image/png;base64,"))

	u, err := url.Parse(req.PaymentURL)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "satya.hospital@upi", q.Get("pa"))
	assert.Equal(t, "500.00", q.Get("am"))
	assert.Equal(t, "INR", q.Get("cu"))
	assert.Contains(t, q.Get("tn"), "STH654321")
	assert.Equal(t, req.RefID, q.Get("refId"))
}

func TestCreateRequestDefaultsAmount(t *testing.T) {
	g := NewGateway("satya.hospital@upi", "")

	req, err := g.CreateRequest("STH000001", "Asha Verma", 0)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultBookingFee, req.Amount)
}

func TestVerifyAlwaysSucceeds(t *testing.T) {
	g := NewGateway("satya.hospital@upi", "")

	ver := g.Verify("APT_1_deadbeef")
	assert.Equal(t, model.PayStateSuccess, ver.Status)
	assert.Regexp(t, `^TXN_\d+_[0-9a-f]{8}$`, ver.TransactionID)
	assert.False(t, ver.VerifiedAt.IsZero())
}

func TestHandleCallback(t *testing.T) {
	g := NewGateway("satya.hospital@upi", "")

	ver, err := g.HandleCallback("APT_1_deadbeef", "TXN_EXTERNAL_1")
	require.NoError(t, err)
	assert.Equal(t, model.PayStateSuccess, ver.Status)
	assert.Equal(t, "TXN_EXTERNAL_1", ver.TransactionID)

	ver, err = g.HandleCallback("APT_1_deadbeef", "")
	require.NoError(t, err)
	assert.Equal(t, model.PayStateSuccess, ver.Status)
	assert.NotEmpty(t, ver.TransactionID)

	_, err = g.HandleCallback("", "")
	assert.Error(t, err)
}
