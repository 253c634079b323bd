package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/NickVeles/portfolio-ecommerce/payments"
)

// SetupRoutes is the single entry‐point that wires up the public, user,
// admin and webhook route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, pc *payments.Client) {
	// 1️⃣ Public storefront routes (no middleware)
	SetupPublicRoutes(r, db, pc)

	// 2️⃣ User routes (JWT‐protected)
	SetupUserRoutes(r, db, pc)

	// 3️⃣ Admin routes (API‐Key‐protected)
	SetupAdminRoutes(r, db, pc)

	// 4️⃣ Provider webhooks (signature‐protected)
	SetupWebhookRoutes(r, db, pc)
}
