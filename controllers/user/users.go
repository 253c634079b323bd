package userControllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/NickVeles/portfolio-ecommerce/models"
)

// GET /user
func GetUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		var user models.User

		if err := db.Preload("Cart.Items").Preload("Orders").First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

// GET /admin/users
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.
			Select("id", "email", "first_name", "last_name", "created_at"). // Select only public fields
			Order("created_at desc").
			Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}

		c.JSON(http.StatusOK, users)
	}
}

// identityEvent is the identity provider's webhook envelope.
type identityEvent struct {
	Type string `json:"type" binding:"required"` // user.created | user.updated | user.deleted
	Data struct {
		ID        string `json:"id" binding:"required"`
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	} `json:"data" binding:"required"`
}

// POST /webhooks/identity
// Provisions local user rows from identity-provider lifecycle events.
func IdentityWebhookHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var evt identityEvent
		if err := c.ShouldBindJSON(&evt); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event payload: " + err.Error()})
			return
		}

		switch evt.Type {
		case "user.created":
			user := models.User{
				ID:        evt.Data.ID,
				Email:     evt.Data.Email,
				FirstName: evt.Data.FirstName,
				LastName:  evt.Data.LastName,
			}
			if err := db.Create(&user).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
				return
			}
			log.Printf("✅ User created: %s", evt.Data.ID)

		case "user.updated":
			updates := map[string]interface{}{
				"email":      evt.Data.Email,
				"first_name": evt.Data.FirstName,
				"last_name":  evt.Data.LastName,
			}
			if err := db.Model(&models.User{}).Where("id = ?", evt.Data.ID).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
				return
			}
			log.Printf("✅ User updated: %s", evt.Data.ID)

		case "user.deleted":
			// Cart and orders cascade with the user row.
			if err := db.Delete(&models.User{}, "id = ?", evt.Data.ID).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
				return
			}
			log.Printf("🗑️ User deleted: %s", evt.Data.ID)

		default:
			c.JSON(http.StatusOK, gin.H{"message": "Event ignored"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Event processed"})
	}
}
