package userControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/NickVeles/portfolio-ecommerce/models"
)

// ShippingDefaultsInput is the settings-page form. Fields are optional so a
// partial profile can be saved; the checkout form does its own required
// validation.
type ShippingDefaultsInput struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email" binding:"omitempty,email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// GET /user/shipping
func GetUserShipping(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", userIDVal.(string)).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, user.Shipping)
	}
}

// PUT /user/shipping
// Replaces the saved shipping defaults wholesale, like a cart replace.
func UpdateUserShipping(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input ShippingDefaultsInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		shipping := models.ShippingInfo{
			FirstName:  input.FirstName,
			LastName:   input.LastName,
			Email:      input.Email,
			Phone:      input.Phone,
			Address:    input.Address,
			City:       input.City,
			State:      input.State,
			PostalCode: input.PostalCode,
			Country:    input.Country,
		}

		result := db.Model(&models.User{}).
			Where("id = ?", userIDVal.(string)).
			Updates(map[string]interface{}{
				"shipping_first_name":  shipping.FirstName,
				"shipping_last_name":   shipping.LastName,
				"shipping_email":       shipping.Email,
				"shipping_phone":       shipping.Phone,
				"shipping_address":     shipping.Address,
				"shipping_city":        shipping.City,
				"shipping_state":       shipping.State,
				"shipping_postal_code": shipping.PostalCode,
				"shipping_country":     shipping.Country,
			})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save shipping defaults"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, shipping)
	}
}
