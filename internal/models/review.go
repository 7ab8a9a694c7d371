package models

import "time"

// Review is a buyer's rating of a book or note. Repeat reviews by the
// same user on the same item are allowed.
type Review struct {
	ID        string    `json:"review_id" gorm:"primaryKey;type:varchar(36)"`
	Rating    int       `json:"rating" gorm:"not null" validate:"required,min=1,max=5"`
	Comment   string    `json:"comment,omitempty" gorm:"type:text"`
	ItemType  ItemType  `json:"item_type" gorm:"type:varchar(10);not null;index:idx_reviews_item"`
	ItemID    string    `json:"item_id" gorm:"type:varchar(36);not null;index:idx_reviews_item"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null"`
	CreatedAt time.Time `json:"created_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
