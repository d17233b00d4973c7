package gateway

import (
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/Kariqs/grocery-api/services"
)

const (
	SignatureHeader  = "Stripe-Signature"
	DefaultTolerance = webhook.DefaultTolerance

	EventCheckoutSessionCompleted = "checkout.session.completed"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrStaleSignature   = errors.New("webhook timestamp outside tolerance")
)

// Event is a webhook notification.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// ConstructEvent checks the signature header against payload and decodes the event.
// The event's API version is not checked; only the session fields below are read.
func ConstructEvent(payload []byte, header, secret string, tolerance time.Duration) (*Event, error) {
	if secret == "" {
		return nil, errors.Wrap(ErrInvalidSignature, "no signing secret")
	}

	se, err := webhook.ConstructEventWithOptions(payload, header, secret, webhook.ConstructEventOptions{
		Tolerance:                tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	switch {
	case errors.Is(err, webhook.ErrTooOld):
		return nil, ErrStaleSignature
	case errors.Is(err, webhook.ErrNotSigned),
		errors.Is(err, webhook.ErrInvalidHeader),
		errors.Is(err, webhook.ErrNoValidSignature):
		return nil, errors.Wrap(ErrInvalidSignature, err.Error())
	case err != nil:
		return nil, errors.Wrap(err, "decode event")
	}

	event := &Event{ID: se.ID, Type: string(se.Type)}
	if se.Data != nil {
		event.Data.Object = se.Data.Raw
	}
	return event, nil
}

// SignatureFor builds a signature header for payload, as the gateway would send it.
func SignatureFor(payload []byte, secret string, at time.Time) string {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: at,
		Scheme:    "v1",
	})
	return signed.Header
}

// CompletedSession decodes a checkout.session.completed event.
func (e *Event) CompletedSession() (*services.CompletedSession, error) {
	if e.Type != EventCheckoutSessionCompleted {
		return nil, errors.Errorf("unexpected event type %q", e.Type)
	}
	var s checkoutSession
	if err := json.Unmarshal(e.Data.Object, &s); err != nil {
		return nil, errors.Wrap(err, "decode session")
	}

	userID, err := parseID(s.Metadata["userId"])
	if err != nil {
		return nil, errors.Wrap(services.ErrInvalidSession, "userId")
	}
	addressID, err := parseID(s.Metadata["addressId"])
	if err != nil {
		return nil, errors.Wrap(services.ErrInvalidSession, "addressId")
	}
	subTotal, _ := decimal.NewFromString(s.Metadata["subTotalAmt"])
	total, _ := decimal.NewFromString(s.Metadata["totalAmt"])

	return &services.CompletedSession{
		ID:            s.ID,
		PaymentID:     s.PaymentIntent,
		PaymentStatus: s.PaymentStatus,
		Metadata: services.SessionMetadata{
			UserID:    userID,
			AddressID: addressID,
			SubTotal:  subTotal,
			Total:     total,
		},
	}, nil
}
