package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"
)

const productPageSize = 100

// Product is one catalog entry as the payment provider returns it.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Active      bool     `json:"active"`
	UnitAmount  int64    `json:"unit_amount"` // minor units
	Currency    string   `json:"currency"`
}

// LineItem is one priced line of a checkout session request.
type LineItem struct {
	Name       string `json:"name"`
	ImageURL   string `json:"image_url,omitempty"`
	UnitAmount int64  `json:"unit_amount"`
	Currency   string `json:"currency"`
	Quantity   int    `json:"quantity"`
}

// SessionRequest creates a hosted checkout session. Metadata round-trips
// verbatim through the provider and comes back on the webhook.
type SessionRequest struct {
	LineItems     []LineItem        `json:"line_items"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	CustomerEmail string            `json:"customer_email,omitempty"`
	SuccessURL    string            `json:"success_url"`
	CancelURL     string            `json:"cancel_url"`
}

// Session is the provider's view of a checkout session.
type Session struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	PaymentStatus string            `json:"payment_status"` // "unpaid" | "paid"
	PaymentRef    string            `json:"payment_ref"`
	Currency      string            `json:"currency"`
	Metadata      map[string]string `json:"metadata"`
}

type productList struct {
	Data    []Product `json:"data"`
	HasMore bool      `json:"has_more"`
}

type apiError struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Config holds the provider connection settings.
type Config struct {
	APIURL    string
	SecretKey string
	Sandbox   bool
}

// ConfigFromEnv reads PAYMENTS_API_URL, PAYMENTS_SECRET_KEY and
// PAYMENTS_MODE ("sandbox"/"dev" enables sandbox).
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		APIURL:    os.Getenv("PAYMENTS_API_URL"),
		SecretKey: os.Getenv("PAYMENTS_SECRET_KEY"),
	}
	mode := os.Getenv("PAYMENTS_MODE")
	if mode == "sandbox" || mode == "dev" {
		cfg.Sandbox = true
	}
	if cfg.APIURL == "" || cfg.SecretKey == "" {
		return Config{}, fmt.Errorf("payments configuration missing")
	}
	return cfg, nil
}

// Client talks to the payment provider's REST API: catalog listing plus
// checkout session create/retrieve. Product ids are cached briefly so
// page-count queries do not hammer the provider.
type Client struct {
	cfg  Config
	http *http.Client

	mu         sync.Mutex
	cachedIDs  []string
	cacheUntil time.Time
	cacheTTL   time.Duration
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:      cfg,
		http:     &http.Client{Timeout: 15 * time.Second},
		cacheTTL: 5 * time.Minute,
	}
}

// ListProducts fetches every active catalog product, following the
// provider's cursor pagination.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var all []Product
	startingAfter := ""
	for {
		path := "/v1/products?active=true&limit=" + strconv.Itoa(productPageSize)
		if startingAfter != "" {
			path += "&starting_after=" + startingAfter
		}

		var page productList
		if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Data...)

		if !page.HasMore || len(page.Data) == 0 {
			break
		}
		startingAfter = page.Data[len(page.Data)-1].ID
	}
	return all, nil
}

// ListProductIDs returns all active product ids, served from a short-lived
// cache between refreshes.
func (c *Client) ListProductIDs(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	if time.Now().Before(c.cacheUntil) {
		ids := append([]string(nil), c.cachedIDs...)
		c.mu.Unlock()
		return ids, nil
	}
	c.mu.Unlock()

	products, err := c.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}

	c.mu.Lock()
	c.cachedIDs = ids
	c.cacheUntil = time.Now().Add(c.cacheTTL)
	c.mu.Unlock()
	return append([]string(nil), ids...), nil
}

// CreateCheckoutSession asks the provider for a hosted payment page.
func (c *Client) CreateCheckoutSession(ctx context.Context, req SessionRequest) (Session, error) {
	var session Session
	if err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", req, &session); err != nil {
		return Session{}, err
	}
	if session.URL == "" {
		return Session{}, fmt.Errorf("provider returned empty payment URL")
	}
	return session, nil
}

// GetCheckoutSession retrieves a session by id, metadata included.
func (c *Client) GetCheckoutSession(ctx context.Context, id string) (Session, error) {
	var session Session
	if err := c.do(ctx, http.MethodGet, "/v1/checkout/sessions/"+id, nil, &session); err != nil {
		return Session{}, err
	}
	return session, nil
}

// Sandbox reports whether the client runs against the provider sandbox.
func (c *Client) Sandbox() bool { return c.cfg.Sandbox }

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.APIURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach payment provider: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != nil {
			return fmt.Errorf("provider error: %s", apiErr.Error.Message)
		}
		return fmt.Errorf("provider API error (%d): %s", resp.StatusCode, string(raw))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse provider response: %w", err)
	}
	return nil
}
