package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	checkoutControllers "github.com/NickVeles/portfolio-ecommerce/controllers/checkout"
	productcontroller "github.com/NickVeles/portfolio-ecommerce/controllers/product"
	"github.com/NickVeles/portfolio-ecommerce/payments"
)

// SetupPublicRoutes registers the unauthenticated storefront endpoints.
func SetupPublicRoutes(r *gin.Engine, db *gorm.DB, pc *payments.Client) {
	// ──────────────── Browse Products ────────────────
	r.GET("/products", productcontroller.GetProducts(db))            // GET /products
	r.GET("/products/recent", productcontroller.GetRecentProducts(db)) // GET /products/recent
	r.GET("/products/metadata", productcontroller.GetProductsMetadata(pc)) // GET /products/metadata
	r.GET("/products/:id", productcontroller.GetProductByID(db))     // GET /products/:id

	// ──────────────── Browse Categories ────────────────
	r.GET("/categories", productcontroller.GetAllCategories(db))     // GET /categories
	r.GET("/categories/:id", productcontroller.GetCategoryByID(db))  // GET /categories/:id

	// ──────────────── Thank-you Page ────────────────
	// The session id alone is the capability to read the summary.
	r.GET("/checkout/session", checkoutControllers.GetCheckoutSessionHandler(pc))
}
