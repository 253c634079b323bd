package cartstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUnauthorized reports that the server no longer recognises the session.
// The coordinator treats it as a benign race with sign-out.
var ErrUnauthorized = errors.New("cartstore: unauthorized")

// CartAPI is the server cart record endpoint: a read of the authenticated
// user's items and a wholesale replace of them.
type CartAPI interface {
	Fetch(ctx context.Context) ([]Item, error)
	Replace(ctx context.Context, items []Item) error
}

type cartPayload struct {
	Items []Item `json:"items"`
}

// HTTPCartAPI talks to the storefront's /user/cart endpoint. The session
// credential is supplied per call so a token refresh needs no new client.
type HTTPCartAPI struct {
	baseURL string
	token   func() string
	client  *http.Client
}

// NewHTTPCartAPI builds a client for the cart endpoint at baseURL. token
// returns the current session credential for the Authorization header.
func NewHTTPCartAPI(baseURL string, token func() string) *HTTPCartAPI {
	return &HTTPCartAPI{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *HTTPCartAPI) Fetch(ctx context.Context) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/user/cart", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", a.token())

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cart: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("cart fetch failed (%d): %s", resp.StatusCode, string(body))
	}

	var payload cartPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse cart response: %w", err)
	}
	return payload.Items, nil
}

func (a *HTTPCartAPI) Replace(ctx context.Context, items []Item) error {
	if items == nil {
		items = []Item{}
	}
	data, err := json.Marshal(cartPayload{Items: items})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/user/cart", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", a.token())

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to push cart: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("cart push failed (%d): %s", resp.StatusCode, string(body))
	}
	return nil
}
