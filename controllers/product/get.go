package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/NickVeles/portfolio-ecommerce/models"
)

// GetProductByID returns a single product (with its categories).
// URL param: /products/:id — numeric row id or provider catalog id.
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		idParam := c.Param("id")
		if idParam == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID is required"})
			return
		}

		query := db.Preload("Categories")
		if id, err := strconv.Atoi(idParam); err == nil {
			query = query.Where("id = ?", id)
		} else {
			query = query.Where("catalog_id = ?", idParam)
		}

		var product models.Product
		if err := query.First(&product).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
			}
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// GetRecentProducts returns the newest active products for the home page.
// Query param: limit (default 4).
func GetRecentProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 4
		if l, err := strconv.Atoi(c.DefaultQuery("limit", "4")); err == nil && l > 0 && l <= 24 {
			limit = l
		}

		var products []models.Product
		if err := db.
			Where("active = ?", true).
			Order("created_at DESC").
			Limit(limit).
			Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}
