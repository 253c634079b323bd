package models

import (
	"time"

	"gorm.io/gorm"
)

// Product mirrors one entry of the payment provider's catalog. Rows are
// upserted by the catalog sync and never edited by hand.
type Product struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	CatalogID   string     `gorm:"uniqueIndex;not null" json:"catalog_id"` // provider product id
	Name        string     `gorm:"not null" json:"name"`
	Description string     `json:"description"`
	PriceCents  int64      `gorm:"not null" json:"price_cents"`
	Currency    string     `gorm:"type:VARCHAR(3);default:'eur'" json:"currency"`
	ImageURL    string     `json:"image_url"`
	Active      bool       `gorm:"default:true" json:"active"`
	Categories  []Category `gorm:"many2many:product_categories;" json:"categories"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
