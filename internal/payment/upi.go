// Package payment implements the simulated UPI gateway the booking flow
// charges its flat fee through.  It fabricates payment links and QR
// codes and always verifies successfully; it exists to exercise the
// payment workflow end to end, not to move money.
package payment

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/url"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/satyahealth/hospital-booking/internal/model"
)

// Gateway fabricates UPI payment requests for appointments.
type Gateway struct {
	VPA          string // hospital UPI virtual payment address
	CallbackBase string // external base URL for gateway callbacks
}

// NewGateway builds a Gateway from configuration.
func NewGateway(vpa, callbackBase string) *Gateway {
	return &Gateway{VPA: vpa, CallbackBase: callbackBase}
}

// Request is the artifact set produced for one payment attempt.
type Request struct {
	RefID      string
	Amount     int
	Currency   string
	PaymentURL string
	QRCodeData string // PNG data URL suitable for direct embedding
}

// Verification is the gateway verdict for a payment reference.
type Verification struct {
	RefID         string
	Status        string
	TransactionID string
	VerifiedAt    time.Time
}

// GenerateRefID mints a unique payment reference of the form
// APT_<unix-ms>_<hex>.
func GenerateRefID() string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("APT_%d_%s", time.Now().UnixMilli(), hex.EncodeToString(buf))
}

// CreateRequest builds the UPI deep link and QR code for an appointment
// booking fee.  A real gateway integration would call out here; the demo
// gateway only fabricates the artifacts locally.
func (g *Gateway) CreateRequest(appointmentNumber, patientName string, amount int) (Request, error) {
	if amount <= 0 {
		amount = model.DefaultBookingFee
	}
	refID := GenerateRefID()

	v := url.Values{}
	v.Set("pa", g.VPA)
	v.Set("pn", "Satya Hospital")
	v.Set("am", fmt.Sprintf("%d.00", amount))
	v.Set("cu", "INR")
	v.Set("tn", fmt.Sprintf("Appointment Booking Fee - %s", appointmentNumber))
	v.Set("refId", refID)
	paymentURL := "upi://pay?" + v.Encode()

	png, err := qrcode.Encode(paymentURL, qrcode.Medium, 300)
	if err != nil {
		return Request{}, fmt.Errorf("payment: encode qr: %w", err)
	}

	return Request{
		RefID:      refID,
		Amount:     amount,
		Currency:   "INR",
		PaymentURL: paymentURL,
		QRCodeData: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	}, nil
}

// Verify reports the payment status for a reference.  The demo gateway
// always reports success with a fabricated transaction id.
func (g *Gateway) Verify(refID string) Verification {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return Verification{
		RefID:         refID,
		Status:        model.PayStateSuccess,
		TransactionID: fmt.Sprintf("TXN_%d_%s", time.Now().UnixMilli(), hex.EncodeToString(buf)),
		VerifiedAt:    time.Now().UTC(),
	}
}

// HandleCallback interprets a gateway callback.  The demo gateway treats
// every callback carrying a reference id as a success.
func (g *Gateway) HandleCallback(refID, txnID string) (Verification, error) {
	if refID == "" {
		return Verification{}, fmt.Errorf("payment: callback missing refId")
	}
	if txnID == "" {
		ver := g.Verify(refID)
		return ver, nil
	}
	return Verification{
		RefID:         refID,
		Status:        model.PayStateSuccess,
		TransactionID: txnID,
		VerifiedAt:    time.Now().UTC(),
	}, nil
}
