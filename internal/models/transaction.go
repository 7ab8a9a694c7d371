package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the lifecycle state of a purchase record.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionCancelled TransactionStatus = "cancelled"
	TransactionRefunded  TransactionStatus = "refunded"
)

// ValidTransactionStatus reports whether s is a known status.
func ValidTransactionStatus(s TransactionStatus) bool {
	switch s {
	case TransactionPending, TransactionCompleted, TransactionCancelled, TransactionRefunded:
		return true
	}
	return false
}

// Transaction records a purchase of a catalog item. Inventory is not
// decremented here; checkout atomicity is out of scope.
type Transaction struct {
	ID          string            `json:"transaction_id" gorm:"primaryKey;type:varchar(36)"`
	BuyerID     string            `json:"buyer_id" gorm:"type:varchar(36);not null;index"`
	SellerID    string            `json:"seller_id" gorm:"type:varchar(36);not null;index"`
	ItemType    ItemType          `json:"item_type" gorm:"type:varchar(10);not null"`
	ItemID      string            `json:"item_id" gorm:"type:varchar(36);not null"`
	Quantity    int               `json:"quantity" gorm:"not null" validate:"required,min=1"`
	TotalAmount decimal.Decimal   `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	Status      TransactionStatus `json:"status" gorm:"type:varchar(20);not null"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`

	Buyer  *User `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Seller *User `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
}
