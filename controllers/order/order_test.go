package orderControllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/NickVeles/portfolio-ecommerce/cartstore"
	"github.com/NickVeles/portfolio-ecommerce/models"
	"github.com/NickVeles/portfolio-ecommerce/payments"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Product{}, &models.Category{},
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func seedUserWithCart(t *testing.T, db *gorm.DB, userID string) {
	t.Helper()
	user := models.User{ID: userID, Email: userID + "@example.com", FirstName: "Ada", LastName: "Lovelace"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	cart := models.Cart{
		UserID: userID,
		Items: []models.CartItem{
			{CatalogID: "prod_1", ProductName: "Mug", PriceCents: 1500, Quantity: 2, AddedAt: time.Now()},
		},
	}
	if err := db.Create(&cart).Error; err != nil {
		t.Fatalf("Failed to seed cart: %v", err)
	}
}

func paidSession(t *testing.T, sessionID, userID string) payments.Session {
	t.Helper()
	items := []cartstore.Item{
		{ID: "prod_1", Name: "Mug", UnitPrice: decimal.NewFromFloat(15.00), Quantity: 2},
		{ID: "prod_2", Name: "Poster", UnitPrice: decimal.NewFromFloat(9.50), Quantity: 1},
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		t.Fatalf("Failed to encode cart items: %v", err)
	}
	return payments.Session{
		ID:            sessionID,
		PaymentStatus: "paid",
		PaymentRef:    "pay_42",
		Currency:      "eur",
		Metadata: map[string]string{
			"user_id":              userID,
			"cart_items":           string(itemsJSON),
			"shipping_first_name":  "Ada",
			"shipping_last_name":   "Lovelace",
			"shipping_email":       userID + "@example.com",
			"shipping_address":     "12 Analytical Way",
			"shipping_city":        "London",
			"shipping_postal_code": "EC1A 1BB",
			"shipping_country":     "GB",
		},
	}
}

func TestFinalizeOrderCreatesOrderAndClearsCart(t *testing.T) {
	db := setupTestDB(t)
	seedUserWithCart(t, db, "user_1")

	order, err := FinalizeOrder(db, paidSession(t, "cs_1", "user_1"))
	if err != nil {
		t.Fatalf("FinalizeOrder: %v", err)
	}

	if order.OrderRef == "" {
		t.Error("Expected a generated order reference")
	}
	if order.Status != models.OrderStatusProcessing {
		t.Errorf("Expected status processing, got %s", order.Status)
	}
	if order.PaymentStatus != models.PaymentStatusPaid {
		t.Errorf("Expected payment status paid, got %s", order.PaymentStatus)
	}
	// 2 × 15.00 + 1 × 9.50 = 39.50
	if order.TotalCents != 3950 {
		t.Errorf("Expected total 3950 cents, got %d", order.TotalCents)
	}
	if len(order.Items) != 2 {
		t.Errorf("Expected 2 order items, got %d", len(order.Items))
	}
	if order.Shipping.City != "London" || order.Shipping.Country != "GB" {
		t.Errorf("Shipping snapshot mismatch: %+v", order.Shipping)
	}

	var remaining int64
	db.Model(&models.CartItem{}).Count(&remaining)
	if remaining != 0 {
		t.Errorf("Expected server cart cleared, %d items remain", remaining)
	}
}

func TestFinalizeOrderIdempotentOnReplay(t *testing.T) {
	db := setupTestDB(t)
	seedUserWithCart(t, db, "user_1")
	session := paidSession(t, "cs_1", "user_1")

	first, err := FinalizeOrder(db, session)
	if err != nil {
		t.Fatalf("First FinalizeOrder: %v", err)
	}
	second, err := FinalizeOrder(db, session)
	if err != nil {
		t.Fatalf("Replayed FinalizeOrder: %v", err)
	}

	if first.ID != second.ID || first.OrderRef != second.OrderRef {
		t.Errorf("Expected the same order back on replay, got %d/%s then %d/%s",
			first.ID, first.OrderRef, second.ID, second.OrderRef)
	}

	var count int64
	db.Model(&models.Order{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected 1 order after replay, got %d", count)
	}
}

func TestFinalizeOrderWithUnknownUserFails(t *testing.T) {
	db := setupTestDB(t)

	if _, err := FinalizeOrder(db, paidSession(t, "cs_1", "ghost")); err == nil {
		t.Error("Expected error for unknown user")
	}
}

func TestFinalizeOrderMissingMetadataFails(t *testing.T) {
	db := setupTestDB(t)
	seedUserWithCart(t, db, "user_1")

	session := paidSession(t, "cs_1", "user_1")
	delete(session.Metadata, "cart_items")

	if _, err := FinalizeOrder(db, session); err == nil {
		t.Error("Expected error for missing cart_items metadata")
	}
}

func orderRouter(db *gorm.DB, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", userID) })
	r.GET("/user/orders", GetUserOrdersHandler(db))
	r.GET("/user/orders/:orderID", GetUserOrderByIDHandler(db))
	return r
}

func TestGetUserOrderByIDOrRef(t *testing.T) {
	db := setupTestDB(t)
	seedUserWithCart(t, db, "user_1")

	placed, err := FinalizeOrder(db, paidSession(t, "cs_1", "user_1"))
	if err != nil {
		t.Fatalf("FinalizeOrder: %v", err)
	}
	r := orderRouter(db, "user_1")

	fetch := func(param string) (*httptest.ResponseRecorder, models.Order) {
		req := httptest.NewRequest(http.MethodGet, "/user/orders/"+param, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		var order models.Order
		if w.Code == http.StatusOK {
			if err := json.Unmarshal(w.Body.Bytes(), &order); err != nil {
				t.Fatalf("Failed to decode order: %v", err)
			}
		}
		return w, order
	}

	w, byRef := fetch(placed.OrderRef)
	if w.Code != http.StatusOK {
		t.Fatalf("Lookup by ref returned %d: %s", w.Code, w.Body.String())
	}
	if byRef.ID != placed.ID {
		t.Errorf("Expected order %d by ref, got %d", placed.ID, byRef.ID)
	}

	w, byID := fetch(strconv.FormatUint(uint64(placed.ID), 10))
	if w.Code != http.StatusOK {
		t.Fatalf("Lookup by id returned %d: %s", w.Code, w.Body.String())
	}
	if byID.OrderRef != placed.OrderRef {
		t.Errorf("Expected ref %s by id, got %s", placed.OrderRef, byID.OrderRef)
	}

	w, _ = fetch("no-such-ref")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for an unknown ref, got %d", w.Code)
	}
}

func TestGetUserOrderScopedToUser(t *testing.T) {
	db := setupTestDB(t)
	seedUserWithCart(t, db, "user_1")

	placed, err := FinalizeOrder(db, paidSession(t, "cs_1", "user_1"))
	if err != nil {
		t.Fatalf("FinalizeOrder: %v", err)
	}

	r := orderRouter(db, "user_2")
	req := httptest.NewRequest(http.MethodGet, "/user/orders/"+placed.OrderRef, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for another user's order, got %d", w.Code)
	}
}

func TestMapOrderStatus(t *testing.T) {
	t.Parallel()

	if got, err := mapOrderStatus("Shipped"); err != nil || got != models.OrderStatusShipped {
		t.Errorf("Expected shipped, got %q (%v)", got, err)
	}
	if _, err := mapOrderStatus("teleported"); err == nil {
		t.Error("Expected error for unknown status")
	}
}

func TestMapPaymentStatus(t *testing.T) {
	t.Parallel()

	if got, err := mapPaymentStatus("REFUNDED"); err != nil || got != models.PaymentStatusRefunded {
		t.Errorf("Expected refunded, got %q (%v)", got, err)
	}
	if _, err := mapPaymentStatus("maybe"); err == nil {
		t.Error("Expected error for unknown payment status")
	}
}
