package cartControllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/NickVeles/portfolio-ecommerce/cartstore"
	"github.com/NickVeles/portfolio-ecommerce/models"
)

// CartPayload is the wire shape shared with the client cart store: prices
// in major units, quantities per provider product id.
type CartPayload struct {
	Items []cartstore.Item `json:"items"`
}

var centsPerUnit = decimal.NewFromInt(100)

// GET /user/cart
// Returns the signed-in user's server cart record in client shape. A user
// without a cart row gets an empty item list, not an error.
func GetUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		var cart models.Cart
		if err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusOK, CartPayload{Items: []cartstore.Item{}})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		c.JSON(http.StatusOK, CartPayload{Items: toClientItems(cart.Items)})
	}
}

// POST /user/cart
// Replaces the user's server cart wholesale: delete-all-then-insert-all in
// one transaction, creating the cart row on first use.
func ReplaceUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		var payload CartPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			var cart models.Cart
			if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
				if err != gorm.ErrRecordNotFound {
					return err
				}
				cart = models.Cart{UserID: userID}
				if err := tx.Create(&cart).Error; err != nil {
					return err
				}
			}

			if err := tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}

			if len(payload.Items) == 0 {
				return nil
			}
			rows := make([]models.CartItem, 0, len(payload.Items))
			for _, item := range payload.Items {
				rows = append(rows, models.CartItem{
					CartID:      cart.CartID,
					CatalogID:   item.ID,
					ProductName: item.Name,
					PriceCents:  item.UnitPrice.Mul(centsPerUnit).Round(0).IntPart(),
					ImageURL:    item.ImageURL,
					Quantity:    item.Quantity,
					AddedAt:     time.Now(),
				})
			}
			return tx.Create(&rows).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cart"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// toClientItems converts cart rows to the client shape, cents back to
// major units.
func toClientItems(rows []models.CartItem) []cartstore.Item {
	items := make([]cartstore.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, cartstore.Item{
			ID:        row.CatalogID,
			Name:      row.ProductName,
			UnitPrice: decimal.NewFromInt(row.PriceCents).Div(centsPerUnit),
			ImageURL:  row.ImageURL,
			Quantity:  row.Quantity,
		})
	}
	return items
}
