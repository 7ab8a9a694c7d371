package models

import "time"

// Image is a stored picture of a catalog entity. Upload mechanics are
// out of scope; records are served with catalog detail.
type Image struct {
	ID        string    `json:"image_id" gorm:"primaryKey;type:varchar(36)"`
	URL       string    `json:"url" gorm:"type:varchar(500);not null"`
	IsPrimary bool      `json:"is_primary"`
	ItemType  ItemType  `json:"item_type" gorm:"type:varchar(10);not null;index:idx_images_item"`
	ItemID    string    `json:"item_id" gorm:"type:varchar(36);not null;index:idx_images_item"`
	CreatedAt time.Time `json:"created_at"`
}
