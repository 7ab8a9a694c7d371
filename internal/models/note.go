package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Format describes how a set of study notes is delivered.
type Format string

const (
	FormatPDF         Format = "pdf"
	FormatHandwritten Format = "handwritten"
	FormatPrinted     Format = "printed"
	FormatDigital     Format = "digital"
)

// ValidFormat reports whether f is a known note format.
func ValidFormat(f Format) bool {
	switch f {
	case FormatPDF, FormatHandwritten, FormatPrinted, FormatDigital:
		return true
	}
	return false
}

// Note is a set of study notes listed for sale, structurally parallel
// to Book: one owning seller, availability derived from quantity.
type Note struct {
	ID          string          `json:"note_id" gorm:"primaryKey;type:varchar(36)"`
	Subject     string          `json:"subject" gorm:"type:varchar(100);not null" validate:"required,min=1,max=100"`
	Topic       string          `json:"topic" gorm:"type:varchar(255);not null" validate:"required,min=1,max=255"`
	Format      Format          `json:"format" gorm:"type:varchar(20);not null"`
	Summary     string          `json:"summary,omitempty" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Quantity    int             `json:"quantity" gorm:"not null"`
	CategoryID  *string         `json:"category_id,omitempty" gorm:"type:varchar(36)"`
	SellerID    string          `json:"seller_id" gorm:"type:varchar(36);not null;index"`
	IsAvailable bool            `json:"is_available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Seller   *User     `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	Images   []Image   `json:"images,omitempty" gorm:"-"`
	Reviews  []Review  `json:"reviews,omitempty" gorm:"-"`
}
