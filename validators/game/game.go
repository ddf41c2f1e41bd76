package gameValidator

import (
	"coachhub/validators"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type CheckoutRequest struct {
	Plan       string `json:"plan" validate:"required,oneof=monthly yearly lifetime"`
	Email      string `json:"email" validate:"required,email"`
	PlayerName string `json:"player_name" validate:"omitempty,max=50"`
}

func (r *CheckoutRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.PlayerName = strings.TrimSpace(r.PlayerName)
}

// PaymentNotification is the subset of the Midtrans HTTP notification the service uses.
type PaymentNotification struct {
	OrderID           string `json:"order_id" validate:"required"`
	TransactionStatus string `json:"transaction_status" validate:"required"`
	FraudStatus       string `json:"fraud_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
}

func Checkout() fiber.Handler {
	return validators.Body[CheckoutRequest]("validatedCheckout")
}

func PaymentNotify() fiber.Handler {
	return validators.Body[PaymentNotification]("validatedPaymentNotification")
}
