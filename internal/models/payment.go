package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the lifecycle state of a payment record.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// PaymentMethod identifies how a payment was made.
type PaymentMethod string

const (
	MethodCard       PaymentMethod = "card"
	MethodUPI        PaymentMethod = "upi"
	MethodNetbanking PaymentMethod = "netbanking"
	MethodWallet     PaymentMethod = "wallet"
	MethodCOD        PaymentMethod = "cod"
)

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case MethodCard, MethodUPI, MethodNetbanking, MethodWallet, MethodCOD:
		return true
	}
	return false
}

// Payment is a thin payment record attached to one transaction. No
// gateway processing happens here.
type Payment struct {
	ID            string          `json:"payment_id" gorm:"primaryKey;type:varchar(36)"`
	TransactionID string          `json:"transaction_id" gorm:"type:varchar(36);not null;index"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`
	Method        PaymentMethod   `json:"payment_method" gorm:"type:varchar(20);not null"`
	Status        PaymentStatus   `json:"payment_status" gorm:"type:varchar(20);not null"`
	GatewayRef    string          `json:"gateway_ref,omitempty" gorm:"type:varchar(255)"`
	CreatedAt     time.Time       `json:"created_at"`
}
