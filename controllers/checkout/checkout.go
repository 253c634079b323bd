package checkoutControllers

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/NickVeles/portfolio-ecommerce/cartstore"
	"github.com/NickVeles/portfolio-ecommerce/models"
	"github.com/NickVeles/portfolio-ecommerce/payments"
)

// ShippingInput is the checkout form the storefront submits.
type ShippingInput struct {
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone"`
	Address    string `json:"address" binding:"required"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code" binding:"required"`
	Country    string `json:"country" binding:"required"`
}

// POST /user/checkout/session
// Builds a hosted checkout session from the user's server cart. The cart
// snapshot and shipping details travel in the session metadata and come
// back on the completion webhook.
func CreateCheckoutSessionHandler(db *gorm.DB, pc *payments.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		var input ShippingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
			return
		}

		var cart models.Cart
		if err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil || len(cart.Items) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
			return
		}

		centsPerUnit := decimal.NewFromInt(100)
		lineItems := make([]payments.LineItem, 0, len(cart.Items))
		snapshot := make([]cartstore.Item, 0, len(cart.Items))
		for _, item := range cart.Items {
			lineItems = append(lineItems, payments.LineItem{
				Name:       item.ProductName,
				ImageURL:   item.ImageURL,
				UnitAmount: item.PriceCents,
				Currency:   "eur",
				Quantity:   item.Quantity,
			})
			snapshot = append(snapshot, cartstore.Item{
				ID:        item.CatalogID,
				Name:      item.ProductName,
				UnitPrice: decimal.NewFromInt(item.PriceCents).Div(centsPerUnit),
				ImageURL:  item.ImageURL,
				Quantity:  item.Quantity,
			})
		}

		snapshotJSON, err := json.Marshal(snapshot)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode cart snapshot"})
			return
		}

		session, err := pc.CreateCheckoutSession(c.Request.Context(), payments.SessionRequest{
			LineItems:     lineItems,
			CustomerEmail: input.Email,
			SuccessURL:    os.Getenv("CHECKOUT_SUCCESS_URL"),
			CancelURL:     os.Getenv("CHECKOUT_CANCEL_URL"),
			Metadata: map[string]string{
				"user_id":              userID,
				"cart_items":           string(snapshotJSON),
				"first_name":           input.FirstName,
				"location":             input.Address + ", " + input.City,
				"shipping_first_name":  input.FirstName,
				"shipping_last_name":   input.LastName,
				"shipping_email":       input.Email,
				"shipping_phone":       input.Phone,
				"shipping_address":     input.Address,
				"shipping_city":        input.City,
				"shipping_state":       input.State,
				"shipping_postal_code": input.PostalCode,
				"shipping_country":     input.Country,
			},
		})
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"payment_url": session.URL,
			"session_id":  session.ID,
		})
	}
}

// GET /checkout/session?session_id=
// The thank-you page calls this to confirm payment and show the shopper's
// name and destination.
func GetCheckoutSessionHandler(pc *payments.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Query("session_id")
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing session_id parameter"})
			return
		}

		session, err := pc.GetCheckoutSession(c.Request.Context(), sessionID)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to retrieve session"})
			return
		}

		if session.PaymentStatus != "paid" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payment not completed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"first_name":     session.Metadata["first_name"],
			"location":       session.Metadata["location"],
			"payment_status": session.PaymentStatus,
		})
	}
}
