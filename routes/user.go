package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/NickVeles/portfolio-ecommerce/controllers/cart"
	checkoutControllers "github.com/NickVeles/portfolio-ecommerce/controllers/checkout"
	orderControllers "github.com/NickVeles/portfolio-ecommerce/controllers/order"
	userControllers "github.com/NickVeles/portfolio-ecommerce/controllers/user"
	"github.com/NickVeles/portfolio-ecommerce/middleware"
	"github.com/NickVeles/portfolio-ecommerce/payments"
)

// SetupUserRoutes registers all “/user/*” endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB, pc *payments.Client) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken)
	{
		// ──────────────── User Profile ────────────────
		userGroup.GET("/", userControllers.GetUser(db))                    // GET /user/
		userGroup.GET("/shipping", userControllers.GetUserShipping(db))    // GET /user/shipping
		userGroup.PUT("/shipping", userControllers.UpdateUserShipping(db)) // PUT /user/shipping

		// ──────────────── Shopping Cart ────────────────
		// The client cart store mirrors itself here: one read, one
		// wholesale replace.
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("", cartControllers.GetUserCart(db))      // GET /user/cart
			cartGroup.POST("", cartControllers.ReplaceUserCart(db)) // POST /user/cart
		}

		// ──────────────── Checkout ────────────────
		userGroup.POST("/checkout/session", checkoutControllers.CreateCheckoutSessionHandler(db, pc))

		// ──────────────── Orders ────────────────
		userGroup.GET("/orders", orderControllers.GetUserOrdersHandler(db))            // GET /user/orders
		userGroup.GET("/orders/:orderID", orderControllers.GetUserOrderByIDHandler(db)) // GET /user/orders/:orderID
	}
}
