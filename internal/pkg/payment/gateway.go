// Package payment wraps the external payment provider: outbound checkout
// session creation and inbound webhook verification.
package payment

import (
	"context"
	"errors"
	"math"
	"strings"
)

const (
	// ProviderStripe names the Stripe gateway in the event log
	ProviderStripe = "stripe"
	// EventCheckoutSessionCompleted is the only event type that unlocks a course
	EventCheckoutSessionCompleted = "checkout.session.completed"
)

var (
	// ErrInvalidSignature means the webhook payload could not be authenticated
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrCheckoutFailed means the provider rejected or did not complete session creation
	ErrCheckoutFailed = errors.New("checkout session creation failed")
)

// Gateway is the payment provider seen by the purchase workflow
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

// CheckoutRequest describes a single-item hosted checkout
type CheckoutRequest struct {
	ProductName      string
	ImageURL         string
	UnitAmount       int64 // minor currency units
	Currency         string
	SuccessURL       string
	CancelURL        string
	AllowedCountries []string
	Metadata         map[string]string
}

// CheckoutSession is the provider's answer to a CheckoutRequest
type CheckoutSession struct {
	ID  string
	URL string
}

// WebhookEvent is a verified inbound event
type WebhookEvent struct {
	ID      string
	Type    string
	Payload []byte
	// Session is set for checkout.session.* events
	Session *SessionData
}

// SessionData carries the checkout session fields the workflow reconciles against
type SessionData struct {
	ID            string
	AmountTotal   int64 // minor currency units
	Currency      string
	PaymentStatus string
	Metadata      map[string]string
}

// zeroDecimalCurrencies are charged by Stripe in whole units with no minor unit
var zeroDecimalCurrencies = map[string]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true, "kmf": true,
	"krw": true, "mga": true, "pyg": true, "rwf": true, "ugx": true, "vnd": true,
	"vuv": true, "xaf": true, "xof": true, "xpf": true,
}

// SupportsCurrency reports whether amounts in currency convert with
// ToMinorUnits. Only two-decimal currencies qualify.
func SupportsCurrency(currency string) bool {
	currency = strings.ToLower(strings.TrimSpace(currency))
	return len(currency) == 3 && !zeroDecimalCurrencies[currency]
}

// ToMinorUnits converts a major-unit amount (rupees) to minor units (paise).
// It assumes a two-decimal currency, see SupportsCurrency.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FromMinorUnits converts minor units back to a major-unit amount
func FromMinorUnits(amount int64) float64 {
	return float64(amount) / 100
}
