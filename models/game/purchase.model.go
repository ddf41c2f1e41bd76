package game

import (
	"time"

	"gorm.io/gorm"
)

const (
	PurchasePending  = "pending"
	PurchasePaid     = "paid"
	PurchaseExpired  = "expired"
	PurchaseCanceled = "canceled"
	PurchaseFailed   = "failed"
)

// PlanPrices is the fixed price table in the smallest currency unit.
var PlanPrices = map[string]int64{
	"monthly":  980,
	"yearly":   9800,
	"lifetime": 19800,
}

// GamePurchase records a checkout for the phonics game bundle.
type GamePurchase struct {
	gorm.Model
	OrderID     string     `json:"order_id" gorm:"uniqueIndex;not null"`
	Plan        string     `json:"plan" gorm:"not null"`
	Amount      int64      `json:"amount"`
	Email       string     `json:"email" gorm:"not null"`
	PlayerName  string     `json:"player_name"`
	Status      string     `json:"status" gorm:"default:'pending'"`
	SnapToken   string     `json:"snap_token"`
	RedirectURL string     `json:"redirect_url"`
	PaidAt      *time.Time `json:"paid_at"`
}
