package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Condition describes the physical state of a used book.
type Condition string

const (
	ConditionNew     Condition = "new"
	ConditionLikeNew Condition = "like-new"
	ConditionGood    Condition = "good"
	ConditionFair    Condition = "fair"
	ConditionPoor    Condition = "poor"
)

// ValidCondition reports whether c is a known condition value.
func ValidCondition(c Condition) bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// Book is a used book listed for sale. Each book is owned by exactly
// one seller; IsAvailable is derived from Quantity after every write.
type Book struct {
	ID          string          `json:"book_id" gorm:"primaryKey;type:varchar(36)"`
	Title       string          `json:"title" gorm:"type:varchar(255);not null" validate:"required,min=1,max=255"`
	Author      string          `json:"author" gorm:"type:varchar(100);not null" validate:"required,min=1,max=100"`
	ISBN        string          `json:"isbn,omitempty" gorm:"type:varchar(20)"`
	Edition     string          `json:"edition,omitempty" gorm:"type:varchar(50)"`
	Condition   Condition       `json:"condition" gorm:"type:varchar(20);not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Quantity    int             `json:"quantity" gorm:"not null"`
	CategoryID  *string         `json:"category_id,omitempty" gorm:"type:varchar(36)"`
	SellerID    string          `json:"seller_id" gorm:"type:varchar(36);not null;index"`
	Description string          `json:"description,omitempty" gorm:"type:text"`
	IsAvailable bool            `json:"is_available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Seller   *User     `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	Images   []Image   `json:"images,omitempty" gorm:"-"`
	Reviews  []Review  `json:"reviews,omitempty" gorm:"-"`
}
