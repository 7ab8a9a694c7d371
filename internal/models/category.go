package models

import "time"

// Category groups catalog entities. Deleting a category nullifies the
// category reference on its books and notes rather than cascading.
type Category struct {
	ID          string    `json:"category_id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"category_name" gorm:"column:category_name;uniqueIndex;type:varchar(100);not null" validate:"required,min=2,max=100"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Books []Book `json:"books,omitempty" gorm:"-"`
	Notes []Note `json:"notes,omitempty" gorm:"-"`
}
