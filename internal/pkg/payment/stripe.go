package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeConfig holds the Stripe credentials
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	// Tolerance bounds the age of a signed webhook timestamp; zero means webhook.DefaultTolerance
	Tolerance time.Duration
}

// StripeGateway implements Gateway on top of stripe-go
type StripeGateway struct {
	api           *client.API
	webhookSecret string
	tolerance     time.Duration
	logger        zerolog.Logger
}

// NewStripeGateway creates a Stripe backed gateway
func NewStripeGateway(cfg StripeConfig, backends *stripe.Backends, logger zerolog.Logger) *StripeGateway {
	tolerance := cfg.Tolerance
	if tolerance <= 0 {
		tolerance = webhook.DefaultTolerance
	}

	return &StripeGateway{
		api:           client.New(cfg.SecretKey, backends),
		webhookSecret: cfg.WebhookSecret,
		tolerance:     tolerance,
		logger:        logger,
	}
}

// CreateCheckoutSession creates a hosted payment-mode checkout session
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	params := buildSessionParams(req)
	params.Context = ctx

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		g.logger.Error().Err(err).Str("product", req.ProductName).Msg("Stripe checkout session creation failed")
		return nil, fmt.Errorf("%w: %v", ErrCheckoutFailed, err)
	}

	return &CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

// ParseWebhook verifies the Stripe-Signature header and decodes the event
func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		Tolerance:                g.tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	return decodeEvent(event, payload)
}

func decodeEvent(event stripe.Event, payload []byte) (*WebhookEvent, error) {
	out := &WebhookEvent{
		ID:      event.ID,
		Type:    string(event.Type),
		Payload: payload,
	}

	if !strings.HasPrefix(out.Type, "checkout.session.") || event.Data == nil {
		return out, nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session of event %s: %w", event.ID, err)
	}

	out.Session = &SessionData{
		ID:            session.ID,
		AmountTotal:   session.AmountTotal,
		Currency:      string(session.Currency),
		PaymentStatus: string(session.PaymentStatus),
		Metadata:      session.Metadata,
	}
	return out, nil
}

func buildSessionParams(req CheckoutRequest) *stripe.CheckoutSessionParams {
	productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripe.String(req.ProductName),
	}
	if req.ImageURL != "" {
		productData.Images = stripe.StringSlice([]string{req.ImageURL})
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:    stripe.String(req.Currency),
					ProductData: productData,
					UnitAmount:  stripe.Int64(req.UnitAmount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}

	if len(req.AllowedCountries) > 0 {
		params.ShippingAddressCollection = &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(req.AllowedCountries),
		}
	}

	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	return params
}
