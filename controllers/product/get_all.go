package productcontroller

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/NickVeles/portfolio-ecommerce/models"
)

const defaultPageSize = 12

// sortColumns whitelists the sortable columns so the order clause is never
// built from raw user input.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"price":      "price_cents",
	"name":       "name",
}

type productPage struct {
	Products    []models.Product `json:"products"`
	TotalCount  int64            `json:"total_count"`
	TotalPages  int              `json:"total_pages"`
	CurrentPage int              `json:"current_page"`
}

// GetProducts lists active products with search, category and price filters,
// sorting and pagination.
// Query params: search, category_id, min_price, max_price (major units),
// sort_by (created_at|price|name), order (asc|desc), page, limit.
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		search := c.Query("search")
		categoryID := c.Query("category_id")
		minPriceStr := c.Query("min_price")
		maxPriceStr := c.Query("max_price")

		sortBy, ok := sortColumns[c.DefaultQuery("sort_by", "created_at")]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sort_by"})
			return
		}
		sortOrder := strings.ToLower(c.DefaultQuery("order", "desc"))
		if sortOrder != "asc" && sortOrder != "desc" {
			sortOrder = "desc"
		}

		page := 1
		if p, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && p > 0 {
			page = p
		}
		limit := defaultPageSize
		if l, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize))); err == nil && l > 0 && l <= 100 {
			limit = l
		}

		query := db.Model(&models.Product{}).Where("active = ?", true).Preload("Categories")

		if search != "" {
			// ILIKE is postgres-only; sqlite's LIKE is already
			// case-insensitive.
			like := "LIKE"
			if db.Dialector.Name() == "postgres" {
				like = "ILIKE"
			}
			likePattern := "%" + search + "%"
			query = query.Where("name "+like+" ? OR description "+like+" ?", likePattern, likePattern)
		}

		// Price filters arrive in major units, the column stores cents.
		if minPriceStr != "" {
			if mp, err := strconv.ParseFloat(minPriceStr, 64); err == nil {
				query = query.Where("price_cents >= ?", int64(math.Round(mp*100)))
			} else {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid min_price"})
				return
			}
		}
		if maxPriceStr != "" {
			if mp, err := strconv.ParseFloat(maxPriceStr, 64); err == nil {
				query = query.Where("price_cents <= ?", int64(math.Round(mp*100)))
			} else {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid max_price"})
				return
			}
		}

		if categoryID != "" {
			if cid, err := strconv.ParseUint(categoryID, 10, 64); err == nil {
				query = query.
					Joins("JOIN product_categories pc ON pc.product_id = products.id").
					Where("pc.category_id = ?", uint(cid))
			} else {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
				return
			}
		}

		var totalCount int64
		if err := query.Count(&totalCount).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count products"})
			return
		}

		var products []models.Product
		if err := query.
			Order(sortBy + " " + sortOrder).
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		totalPages := int(math.Ceil(float64(totalCount) / float64(limit)))
		c.JSON(http.StatusOK, productPage{
			Products:    products,
			TotalCount:  totalCount,
			TotalPages:  totalPages,
			CurrentPage: page,
		})
	}
}
