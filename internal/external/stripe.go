package external

import (
	"context"
	"fmt"

	stripe "github.com/stripe/stripe-go"
	"github.com/stripe/stripe-go/client"
)

type StripeConfig struct {
	SecretKey string
	Currency  string
}

// StripeClient wraps the payment processor for the two phases of the
// confirmation sequence: creating an intent sized by the server, and
// verifying a confirmed intent before the booking is marked paid.
type StripeClient struct {
	api      *client.API
	currency string
}

// PaymentIntent is the subset of the processor's intent the core acts on.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Status       string
}

// IntentStatusSucceeded is the processor status required before a booking
// may transition to paid.
const IntentStatusSucceeded = string(stripe.PaymentIntentStatusSucceeded)

func NewStripeClient(cfg StripeConfig) *StripeClient {
	if cfg.Currency == "" {
		cfg.Currency = string(stripe.CurrencyUSD)
	}

	api := &client.API{}
	api.Init(cfg.SecretKey, nil)

	return &StripeClient{
		api:      api,
		currency: cfg.Currency,
	}
}

// CreateIntent creates a payment intent for the given amount in minor
// currency units. The idempotency key makes a retried create return the
// same intent instead of opening a second charge.
func (c *StripeClient) CreateIntent(ctx context.Context, amount int64, idempotencyKey string) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(c.currency),
	}
	params.SetIdempotencyKey(idempotencyKey)

	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return fromStripeIntent(pi), nil
}

// RetrieveIntent fetches an intent by the id the browser reports after
// confirmation, so its status and amount can be checked server-side.
func (c *StripeClient) RetrieveIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	pi, err := c.api.PaymentIntents.Get(id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve payment intent %s: %w", id, err)
	}

	return fromStripeIntent(pi), nil
}

func fromStripeIntent(pi *stripe.PaymentIntent) *PaymentIntent {
	return &PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Status:       string(pi.Status),
	}
}
