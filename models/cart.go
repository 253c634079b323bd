package models

import "time"

type Cart struct {
	CartID    uint       `gorm:"primaryKey" json:"cart_id"`
	UserID    string     `gorm:"uniqueIndex" json:"user_id"`                           // Enforces ONE cart per user
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"` // Cascade delete items if cart is deleted
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartItem is the server-side mirror of one client cart line. Name, price
// and image are snapshots taken when the item was added.
type CartItem struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	CartID      uint   `gorm:"index" json:"cart_id"`
	CatalogID   string `gorm:"index" json:"catalog_id"` // provider product id
	ProductName string `json:"product_name"`
	PriceCents  int64  `json:"price_cents"`
	ImageURL    string `json:"image_url"`
	Quantity    int    `json:"quantity"`
	AddedAt     time.Time `json:"added_at"`
}
