package utils

import (
	"coachhub/config"
	"errors"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// CheckoutRequest is what the game checkout needs from the provider.
type CheckoutRequest struct {
	OrderID    string
	Amount     int64
	Plan       string
	Email      string
	PlayerName string
}

// CheckoutSession is the provider's answer: a token for the embedded widget and a hosted page.
type CheckoutSession struct {
	Token       string
	RedirectURL string
}

// CheckoutProvider creates hosted checkout sessions.
type CheckoutProvider interface {
	CreateCheckout(req CheckoutRequest) (*CheckoutSession, error)
}

// Checkout is the process-wide payment provider, set by InitPayments.
var Checkout CheckoutProvider = disabledCheckout{}

var ErrPaymentsDisabled = errors.New("payment provider is not configured")

// InitPayments configures the Midtrans Snap client.
func InitPayments(cfg *config.Config) {
	if cfg.MidtransServerKey == "" {
		Checkout = disabledCheckout{}
		Log.Warn("[PAYMENT] no Midtrans server key, checkout is disabled")
		return
	}
	env := midtrans.Sandbox
	if cfg.MidtransProduction {
		env = midtrans.Production
	}
	var client snap.Client
	client.New(cfg.MidtransServerKey, env)
	Checkout = &MidtransCheckout{client: client}
}

type MidtransCheckout struct {
	client snap.Client
}

func (m *MidtransCheckout) CreateCheckout(req CheckoutRequest) (*CheckoutSession, error) {
	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderID,
			GrossAmt: req.Amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.PlayerName,
			Email: req.Email,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:    req.Plan,
			Name:  "Phonics Game " + req.Plan,
			Price: req.Amount,
			Qty:   1,
		}},
	}

	resp, err := m.client.CreateTransaction(snapReq)
	if err != nil {
		return nil, err
	}
	return &CheckoutSession{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

type disabledCheckout struct{}

func (disabledCheckout) CreateCheckout(CheckoutRequest) (*CheckoutSession, error) {
	return nil, ErrPaymentsDisabled
}
