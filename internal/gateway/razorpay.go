package gateway

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"

	"github.com/techsrow/locationhubapi/internal/domain"
)

// OrderCreator is the boundary contract the payment core consumes: request an
// order for the deposit amount, get back the gateway's order id.
type OrderCreator interface {
	CreateOrder(ctx context.Context, amountMinorUnits int64, currency, receipt string) (string, error)
}

// RazorpayGateway creates orders through the Razorpay Orders API. Amounts are
// integer minor units (paise).
type RazorpayGateway struct {
	client *razorpay.Client
}

func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{client: razorpay.NewClient(keyID, keySecret)}
}

func (g *RazorpayGateway) CreateOrder(ctx context.Context, amountMinorUnits int64, currency, receipt string) (string, error) {
	data := map[string]interface{}{
		"amount":   amountMinorUnits,
		"currency": currency,
		"receipt":  receipt,
	}
	order, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", domain.GatewayError{Op: "order.create", Err: err}
	}
	id, ok := order["id"].(string)
	if !ok || id == "" {
		return "", domain.GatewayError{Op: "order.create", Err: fmt.Errorf("order id missing in gateway response")}
	}
	return id, nil
}
