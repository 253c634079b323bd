package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testClient(srvURL string) *Client {
	return NewClient(Config{APIURL: srvURL, SecretKey: "sk_test", Sandbox: true})
}

func TestListProductsFollowsPagination(t *testing.T) {
	t.Parallel()

	page := func(ids []string, hasMore bool) productList {
		var data []Product
		for _, id := range ids {
			data = append(data, Product{ID: id, Name: "Product " + id, Active: true, UnitAmount: 1500, Currency: "usd"})
		}
		return productList{Data: data, HasMore: hasMore}
	}

	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test" {
			t.Errorf("Expected bearer secret, got %q", got)
		}
		switch r.URL.Query().Get("starting_after") {
		case "":
			json.NewEncoder(w).Encode(page([]string{"prod_1", "prod_2"}, true))
		case "prod_2":
			json.NewEncoder(w).Encode(page([]string{"prod_3"}, false))
		default:
			t.Errorf("Unexpected cursor %q", r.URL.Query().Get("starting_after"))
		}
	}))
	defer srv.Close()

	products, err := testClient(srv.URL).ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("Expected 3 products across pages, got %d", len(products))
	}
	if products[2].ID != "prod_3" {
		t.Errorf("Expected prod_3 last, got %q", products[2].ID)
	}
	if requests != 2 {
		t.Errorf("Expected 2 page requests, got %d", requests)
	}
}

func TestListProductIDsUsesCache(t *testing.T) {
	t.Parallel()

	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		json.NewEncoder(w).Encode(productList{Data: []Product{{ID: "prod_1"}}})
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	for i := 0; i < 3; i++ {
		ids, err := c.ListProductIDs(context.Background())
		if err != nil {
			t.Fatalf("ListProductIDs: %v", err)
		}
		if len(ids) != 1 || ids[0] != "prod_1" {
			t.Errorf("Expected [prod_1], got %v", ids)
		}
	}
	if requests != 1 {
		t.Errorf("Expected 1 upstream request for 3 cached calls, got %d", requests)
	}
}

func TestCreateCheckoutSession(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/checkout/sessions" {
			t.Errorf("Unexpected %s %s", r.Method, r.URL.Path)
		}
		var req SessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if len(req.LineItems) != 1 || req.LineItems[0].Quantity != 2 {
			t.Errorf("Expected 1 line with quantity 2, got %+v", req.LineItems)
		}
		if req.Metadata["user_id"] != "user_1" {
			t.Errorf("Expected metadata to round-trip, got %v", req.Metadata)
		}
		json.NewEncoder(w).Encode(Session{
			ID:            "cs_123",
			URL:           "https://pay.example.com/cs_123",
			PaymentStatus: "unpaid",
			Currency:      "usd",
			Metadata:      req.Metadata,
		})
	}))
	defer srv.Close()

	session, err := testClient(srv.URL).CreateCheckoutSession(context.Background(), SessionRequest{
		LineItems:  []LineItem{{Name: "Mug", UnitAmount: 1500, Currency: "usd", Quantity: 2}},
		Metadata:   map[string]string{"user_id": "user_1"},
		SuccessURL: "https://shop.example.com/success",
		CancelURL:  "https://shop.example.com/cart",
	})
	if err != nil {
		t.Fatalf("CreateCheckoutSession: %v", err)
	}
	if session.ID != "cs_123" {
		t.Errorf("Expected session cs_123, got %q", session.ID)
	}
	if session.Metadata["user_id"] != "user_1" {
		t.Errorf("Expected metadata back on the session, got %v", session.Metadata)
	}
}

func TestCreateCheckoutSessionRejectsEmptyURL(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Session{ID: "cs_123"})
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).CreateCheckoutSession(context.Background(), SessionRequest{})
	if err == nil || !strings.Contains(err.Error(), "payment URL") {
		t.Errorf("Expected empty-URL error, got %v", err)
	}
}

func TestGetCheckoutSession(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/checkout/sessions/cs_123" {
			t.Errorf("Unexpected path %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(Session{ID: "cs_123", PaymentStatus: "paid", PaymentRef: "pay_9"})
	}))
	defer srv.Close()

	session, err := testClient(srv.URL).GetCheckoutSession(context.Background(), "cs_123")
	if err != nil {
		t.Fatalf("GetCheckoutSession: %v", err)
	}
	if session.PaymentStatus != "paid" || session.PaymentRef != "pay_9" {
		t.Errorf("Expected paid session pay_9, got %+v", session)
	}
}

func TestProviderErrorEnvelope(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		fmt.Fprint(w, `{"error":{"code":"card_declined","message":"Your card was declined."}}`)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).GetCheckoutSession(context.Background(), "cs_123")
	if err == nil || !strings.Contains(err.Error(), "Your card was declined.") {
		t.Errorf("Expected provider error message surfaced, got %v", err)
	}
}
