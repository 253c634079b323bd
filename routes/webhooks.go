package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	checkoutControllers "github.com/NickVeles/portfolio-ecommerce/controllers/checkout"
	userControllers "github.com/NickVeles/portfolio-ecommerce/controllers/user"
	"github.com/NickVeles/portfolio-ecommerce/middleware"
	"github.com/NickVeles/portfolio-ecommerce/payments"
)

func SetupWebhookRoutes(r *gin.Engine, db *gorm.DB, pc *payments.Client) {
	webhooks := r.Group("/webhooks")
	{
		// Payment provider: middleware handles sandbox/prod verification
		webhooks.POST("/payments",
			middleware.PaymentWebhookAuth(pc),
			checkoutControllers.PaymentWebhookHandler(db, pc),
		)

		// Identity provider: user lifecycle events
		webhooks.POST("/identity",
			middleware.IdentityWebhookAuth(),
			userControllers.IdentityWebhookHandler(db),
		)
	}
}
