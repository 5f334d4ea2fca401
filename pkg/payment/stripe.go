package payment

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
)

// StripeCredentials is one tenant's Stripe account keys.
type StripeCredentials struct {
	SecretKey     string
	PublicKey     string
	WebhookSecret string
}

// StripeAdapter creates a hosted Checkout Session. The session id becomes the
// order's provider correlation key; the checkout.session.completed webhook
// reports the same id back.
type StripeAdapter struct {
	// Backends overrides the SDK transport; tests point it at a local server.
	Backends *stripe.Backends
}

func NewStripeAdapter() *StripeAdapter {
	return &StripeAdapter{}
}

func (a *StripeAdapter) CreateTransaction(ctx context.Context, intent Intent, creds StripeCredentials) Result {
	sc := &client.API{}
	sc.Init(creds.SecretKey, a.Backends)

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(intent.SuccessURL),
		CancelURL:         stripe.String(intent.CancelURL),
		ClientReferenceID: stripe.String(intent.Reference),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(strings.ToLower(intent.Currency)),
				UnitAmount: stripe.Int64(intent.Amount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(intent.Description),
				},
			},
		}},
	}
	params.Context = ctx
	if intent.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(intent.CustomerEmail)
	}

	log.Printf("[Stripe] creating checkout session reference=%s amount=%d %s", intent.Reference, intent.Amount, intent.Currency)
	s, err := sc.CheckoutSessions.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			log.Printf("[Stripe] session rejected: %s", stripeErr.Msg)
			return rejected("stripe: " + stripeErr.Msg)
		}
		log.Printf("[Stripe] session failed: %v", err)
		return unreachable("stripe: " + err.Error())
	}
	raw, _ := json.Marshal(s)
	log.Printf("[Stripe] session created id=%s", s.ID)
	return Result{
		TransactionID: s.ID,
		Status:        StatusPending,
		RedirectURL:   s.URL,
		Raw:           raw,
	}
}
