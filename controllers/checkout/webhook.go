package checkoutControllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/NickVeles/portfolio-ecommerce/controllers/order"
	"github.com/NickVeles/portfolio-ecommerce/payments"
)

// PaymentWebhookHandler finalizes an order when the provider reports a
// completed checkout. The form fields only carry the event envelope; the
// session itself is re-fetched from the provider so metadata cannot be
// forged through the webhook body.
func PaymentWebhookHandler(db *gorm.DB, pc *payments.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse form"})
			return
		}

		evtType := c.PostForm("evt_type")
		sessionID := c.PostForm("session_id")

		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing session_id"})
			return
		}

		if evtType != "checkout.completed" {
			c.JSON(http.StatusOK, gin.H{"message": "Event ignored"})
			return
		}

		session, err := pc.GetCheckoutSession(c.Request.Context(), sessionID)
		if err != nil {
			log.Printf("❌ Failed to fetch session %s: %v", sessionID, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch checkout session"})
			return
		}

		if session.PaymentStatus != "paid" {
			c.JSON(http.StatusOK, gin.H{"message": "Payment not successful"})
			return
		}

		order, err := orderControllers.FinalizeOrder(db, session)
		if err != nil {
			log.Printf("❌ Failed to finalize order for session %s: %v", sessionID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to place order", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Order placed successfully", "order_ref": order.OrderRef})
	}
}
