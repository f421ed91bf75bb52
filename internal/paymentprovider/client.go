// Package paymentprovider реализует клиент платёжного шлюза Stripe.
// Приложение создаёт checkout-сессии на ежемесячное списание и запрашивает
// их статус; сам платёжный протокол остаётся на стороне шлюза.
package paymentprovider

import (
	"fmt"

	"github.com/stripe/stripe-go/v79"
	stripeclient "github.com/stripe/stripe-go/v79/client"

	"github.com/magabrotheeeer/chirp-backend/internal/config"
)

// Client инкапсулирует подключение к Stripe API.
type Client struct {
	sc         *stripeclient.API
	currency   string
	successURL string
	cancelURL  string
}

// NewClient создаёт новый клиент Stripe.
func NewClient(cfg config.StripeGateway) *Client {
	return &Client{
		sc:         stripeclient.New(cfg.StripeSecretKey, nil),
		currency:   cfg.Currency,
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
	}
}

// CreateCheckoutSession открывает checkout-сессию на ежемесячную подписку
// с ценой price в минимальных единицах валюты и привязывает метаданные
// {user_uid, plan}. Возвращает идентификатор сессии и ссылку на оплату.
func (c *Client) CreateCheckoutSession(userUID, plan string, price int64) (*Session, error) {
	const op = "paymentprovider.CreateCheckoutSession"

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(c.currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(plan),
					},
					UnitAmount: stripe.Int64(price),
					Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
						Interval: stripe.String("month"),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(c.successURL + "/?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(c.cancelURL),
	}
	params.AddMetadata("user_uid", userUID)
	params.AddMetadata("plan", plan)

	sess, err := c.sc.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return convertSession(sess), nil
}

// RetrieveCheckoutSession запрашивает у шлюза текущее состояние сессии.
func (c *Client) RetrieveCheckoutSession(sessionID string) (*Session, error) {
	const op = "paymentprovider.RetrieveCheckoutSession"

	sess, err := c.sc.CheckoutSessions.Get(sessionID, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return convertSession(sess), nil
}

func convertSession(sess *stripe.CheckoutSession) *Session {
	return &Session{
		ID:            sess.ID,
		URL:           sess.URL,
		PaymentStatus: string(sess.PaymentStatus),
		Metadata:      sess.Metadata,
	}
}
