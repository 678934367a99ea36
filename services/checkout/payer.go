package checkout

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"

	"github.com/MarcGrol/bookingbackend/lib/myerrors"
)

//go:generate mockgen -source=payer.go -package checkout -destination payer_mock.go Payer
type Payer interface {
	// CreatePaymentMethod turns a card token into a payment method using the publishable key of the provider
	CreatePaymentMethod(c context.Context, publicKey string, cardToken string) (string, error)
}

type stripePayer struct{}

func NewPayer() Payer {
	return &stripePayer{}
}

func (p *stripePayer) CreatePaymentMethod(c context.Context, publicKey string, cardToken string) (string, error) {
	sc := client.New(publicKey, nil)

	params := &stripe.PaymentMethodParams{
		Type: stripe.String(string(stripe.PaymentMethodTypeCard)),
		Card: &stripe.PaymentMethodCardParams{
			Token: stripe.String(cardToken),
		},
	}
	params.Context = c

	paymentMethod, err := sc.PaymentMethods.New(params)
	if err != nil {
		return "", myerrors.NewInvalidInputError(fmt.Errorf("error creating payment method: %s", err))
	}

	return paymentMethod.ID, nil
}
