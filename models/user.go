package models

import "time"

type User struct {
	ID        string  `gorm:"primaryKey" json:"id"` // identity-provider user id
	Email     string  `gorm:"unique;not null" json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Cart      Cart    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"cart"`
	Orders    []Order `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"orders"`
	// Saved checkout defaults; the per-order shipping snapshot lives on
	// the order itself.
	Shipping ShippingInfo `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
