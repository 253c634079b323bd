package models

import "time"

type OrderStatus string
type PaymentStatus string

const (
	// Order statuses (typical e-commerce flow)
	OrderStatusPending     OrderStatus = "pending"       // Order placed, awaiting confirmation
	OrderStatusProcessing  OrderStatus = "processing"    // Payment confirmed, being prepared
	OrderStatusShipped     OrderStatus = "shipped"       // Out for delivery
	OrderStatusDelivered   OrderStatus = "delivered"     // Customer received the item
	OrderStatusReturned    OrderStatus = "returned"      // Customer returned the item
	OrderStatusCancelled   OrderStatus = "cancelled"     // Cancelled before shipping

	// Payment statuses
	PaymentStatusPending  PaymentStatus = "pending"  // Payment not completed yet
	PaymentStatusPaid     PaymentStatus = "paid"     // Payment completed successfully
	PaymentStatusFailed   PaymentStatus = "failed"   // Payment attempt failed
	PaymentStatusRefunded PaymentStatus = "refunded" // Money returned to customer
)

type Order struct {
	ID                uint          `gorm:"primaryKey" json:"id"`
	OrderRef          string        `gorm:"uniqueIndex" json:"order_ref"`
	UserID            string        `gorm:"not null" json:"user_id"`
	User              User          `gorm:"foreignKey:UserID" json:"user"`
	CheckoutSessionID string        `gorm:"uniqueIndex" json:"checkout_session_id"` // idempotency key for webhook replays
	PaymentRef        string        `json:"payment_ref"`
	Items             []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalCents        int64         `json:"total_cents"`
	Currency          string        `gorm:"type:VARCHAR(3);default:'eur'" json:"currency"`
	Status            OrderStatus   `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PaymentStatus     PaymentStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`
	Shipping          ShippingInfo  `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping"`
	CreatedAt         time.Time     `json:"created_at"`
}

type OrderItem struct {
	ID          uint   `gorm:"primaryKey"`
	OrderID     uint   `gorm:"index"`
	CatalogID   string
	ProductName string
	PriceCents  int64
	ImageURL    string
	Quantity    int
}

// ShippingInfo is embedded in Order with a shipping_ column prefix.
type ShippingInfo struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}
