package productcontroller

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NickVeles/portfolio-ecommerce/payments"
)

// GET /products/metadata
// Catalog paging facts for the storefront shell. Served from the provider's
// cached product ids, so repeated page renders never hit the provider.
func GetProductsMetadata(pc *payments.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ids, err := pc.ListProductIDs(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch catalog metadata"})
			return
		}

		totalPages := int(math.Ceil(float64(len(ids)) / float64(defaultPageSize)))
		c.JSON(http.StatusOK, gin.H{
			"total_count": len(ids),
			"total_pages": totalPages,
			"page_size":   defaultPageSize,
		})
	}
}
